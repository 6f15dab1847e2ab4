package pacer_test

import (
	"math"
	"testing"
	"time"

	"github.com/momentics/pacekit/api"
	"github.com/momentics/pacekit/fake"
	"github.com/momentics/pacekit/internal/diag"
	"github.com/momentics/pacekit/pacer"
)

const ms = int64(time.Millisecond)

func newTestPacer(t *testing.T, step float64, opts ...pacer.Option) (*pacer.Pacer, *fake.Clock, *fake.Sink) {
	t.Helper()
	clk := fake.NewClock()
	sink := fake.NewSink()
	opts = append([]pacer.Option{pacer.WithClock(clk), pacer.WithSink(sink)}, opts...)
	return pacer.New("test", step, opts...), clk, sink
}

func TestDefaults(t *testing.T) {
	p, _, _ := newTestPacer(t, 0.1)
	if p.Name() != "test" {
		t.Errorf("name = %q", p.Name())
	}
	if p.TimeStep() != 0.1 {
		t.Errorf("time step = %v", p.TimeStep())
	}
	if p.WarnThreshold() != 0.1 {
		t.Errorf("warn threshold = %v", p.WarnThreshold())
	}
	if got, want := p.ErrorThreshold(), 10*0.1; got != want {
		t.Errorf("error threshold = %v, want %v", got, want)
	}
	if !p.EnforceRate() {
		t.Error("rate enforcement should default to on")
	}
	if p.Cycles() != 0 || p.Warnings() != 0 || p.Errors() != 0 {
		t.Error("fresh pacer has nonzero counters")
	}
	if !math.IsNaN(p.AwakeTime()) || !math.IsNaN(p.AwakeTimeMean()) || !math.IsNaN(p.AwakeTimeStdDev()) {
		t.Error("expected NaN statistics before the first cycle")
	}
}

func TestInvalidTimeStepRejected(t *testing.T) {
	p, _, sink := newTestPacer(t, 0.1)
	for _, bad := range []float64{-1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		p.SetTimeStep(bad)
		if p.TimeStep() != 0.1 {
			t.Fatalf("time step changed to %v after setting %v", p.TimeStep(), bad)
		}
	}
	if len(sink.Errors()) != 4 {
		t.Errorf("expected 4 rejection diagnostics, got %d", len(sink.Errors()))
	}
}

func TestInvalidThresholdsRejected(t *testing.T) {
	p, _, _ := newTestPacer(t, 0.1)
	p.SetWarnThreshold(-0.5)
	p.SetErrorThreshold(math.NaN())
	if p.WarnThreshold() != 0.1 || p.ErrorThreshold() != 1.0 {
		t.Fatal("invalid threshold overwrote prior value")
	}

	// +Inf is a legal threshold: it disables the check.
	p.SetWarnThreshold(math.Inf(1))
	if !math.IsInf(p.WarnThreshold(), 1) {
		t.Fatal("infinite warn threshold rejected")
	}
}

func TestDriftFreeTargetAccumulation(t *testing.T) {
	p, clk, _ := newTestPacer(t, 0.1)
	for i := 0; i < 5; i++ {
		p.Sleep()
	}
	if want := (api.Stamp{Sec: 0, NSec: 500_000_000}); p.TargetWake() != want {
		t.Fatalf("target wake = %+v, want %+v", p.TargetWake(), want)
	}
	if clk.Now() != p.TargetWake() {
		t.Fatalf("clock at %+v, want %+v", clk.Now(), p.TargetWake())
	}
	if p.Cycles() != 5 {
		t.Fatalf("cycles = %d", p.Cycles())
	}
}

func TestTargetCarriesAcrossSeconds(t *testing.T) {
	p, _, _ := newTestPacer(t, 0.4)
	for i := 0; i < 5; i++ {
		p.Sleep()
	}
	if want := (api.Stamp{Sec: 2, NSec: 0}); p.TargetWake() != want {
		t.Fatalf("target wake = %+v, want %+v", p.TargetWake(), want)
	}
}

func TestAwakeTimeMeasuresWork(t *testing.T) {
	p, clk, _ := newTestPacer(t, 0.1)
	clk.Advance(50 * ms)
	p.Sleep()
	if got := p.AwakeTime(); math.Abs(got-0.05) > 1e-9 {
		t.Fatalf("awake time = %v, want 0.05", got)
	}
	if got := p.AwakeTime(); got < 0 {
		t.Fatalf("awake time negative: %v", got)
	}
	if !math.IsNaN(p.AwakeTimeVar()) {
		t.Fatal("variance must be NaN after a single cycle")
	}
	clk.Advance(30 * ms)
	p.Sleep()
	if v := p.AwakeTimeVar(); math.IsNaN(v) || v < 0 {
		t.Fatalf("variance = %v after two cycles", v)
	}
}

func TestThresholdPriority(t *testing.T) {
	p, clk, sink := newTestPacer(t, 0.1)

	// Soft overrun: above the warning threshold, below the error one.
	clk.Advance(150 * ms)
	p.Sleep()
	if p.Warnings() != 1 || p.Errors() != 0 {
		t.Fatalf("after soft overrun: warnings=%d errors=%d", p.Warnings(), p.Errors())
	}

	// Hard overrun counts only as an error.
	clk.Advance(1500 * ms)
	p.Sleep()
	if p.Warnings() != 1 || p.Errors() != 1 {
		t.Fatalf("after hard overrun: warnings=%d errors=%d", p.Warnings(), p.Errors())
	}

	// A cycle under both thresholds counts as neither.
	clk.Advance(10 * ms)
	p.Sleep()
	if p.Warnings() != 1 || p.Errors() != 1 {
		t.Fatalf("quiet cycle changed counters: warnings=%d errors=%d", p.Warnings(), p.Errors())
	}

	if len(sink.Warnings()) != 1 || len(sink.Errors()) != 1 {
		t.Fatalf("diagnostics: %d warnings, %d errors", len(sink.Warnings()), len(sink.Errors()))
	}
}

func TestBehindScheduleEnforced(t *testing.T) {
	p, clk, _ := newTestPacer(t, 0.1)

	clk.Advance(250 * ms)
	sleepsBefore := clk.Sleeps()
	p.Sleep()
	if clk.Sleeps() != sleepsBefore {
		t.Fatal("behind schedule with enforcement: must not block")
	}
	// The deficit is carried: the target stays one step after the anchor.
	if want := (api.Stamp{NSec: 100_000_000}); p.TargetWake() != want {
		t.Fatalf("target wake = %+v, want %+v", p.TargetWake(), want)
	}

	// Still behind: one more immediate cycle.
	p.Sleep()
	if clk.Sleeps() != sleepsBefore {
		t.Fatal("second catch-up cycle must not block")
	}

	// Third cycle catches up and blocks until 0.3 s.
	p.Sleep()
	if clk.Sleeps() != sleepsBefore+1 {
		t.Fatal("caught-up cycle should block")
	}
	if want := (api.Stamp{NSec: 300_000_000}); clk.Now() != want {
		t.Fatalf("clock = %+v, want %+v", clk.Now(), want)
	}
}

func TestBehindScheduleRelaxed(t *testing.T) {
	p, clk, _ := newTestPacer(t, 0.1, pacer.WithEnforceRate(false))

	clk.Advance(250 * ms)
	sleepsBefore := clk.Sleeps()
	p.Sleep()
	if clk.Sleeps() != sleepsBefore {
		t.Fatal("behind schedule: must not block")
	}
	// The deficit is forgiven: the deadline slips to "now".
	if want := (api.Stamp{NSec: 250_000_000}); p.TargetWake() != want {
		t.Fatalf("target wake = %+v, want %+v", p.TargetWake(), want)
	}

	// The next cycle is back on schedule, one step after the slip.
	p.Sleep()
	if want := (api.Stamp{NSec: 350_000_000}); clk.Now() != want {
		t.Fatalf("clock = %+v, want %+v", clk.Now(), want)
	}
}

func TestZeroTimeStepProbeMode(t *testing.T) {
	p, clk, _ := newTestPacer(t, 0)

	for i := 0; i < 3; i++ {
		clk.Advance(5 * ms)
		p.Sleep()
	}
	if p.Cycles() != 3 {
		t.Fatalf("cycles = %d", p.Cycles())
	}
	// The schedule never asks the caller to block: virtual time moved only
	// through explicit Advance calls.
	if want := (api.Stamp{NSec: 15 * ms}); clk.Now() != want {
		t.Fatalf("clock = %+v, want %+v", clk.Now(), want)
	}
	if math.IsNaN(p.AwakeTimeMean()) {
		t.Fatal("statistics must update in probe mode")
	}
}

func TestResetClearsStatisticsAndSchedule(t *testing.T) {
	p, clk, _ := newTestPacer(t, 0.1)
	clk.Advance(150 * ms)
	p.Sleep()
	p.Sleep()

	p.Reset()
	if p.Cycles() != 0 || p.Warnings() != 0 || p.Errors() != 0 {
		t.Fatal("reset left counters behind")
	}
	if !math.IsNaN(p.AwakeTime()) || !math.IsNaN(p.AwakeTimeMean()) {
		t.Fatal("reset left statistics behind")
	}
	if p.TargetWake() != clk.Now() {
		t.Fatal("reset must re-anchor the schedule to now")
	}
}

func TestSnapshot(t *testing.T) {
	p, clk, _ := newTestPacer(t, 0.1)
	clk.Advance(150 * ms)
	p.Sleep()
	snap := p.Snapshot()
	if snap.Name != "test" || snap.Cycles != 1 || snap.Warnings != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if math.Abs(snap.LastAwake-0.15) > 1e-9 {
		t.Fatalf("snapshot awake = %v", snap.LastAwake)
	}
}

func TestConcurrentSetters(t *testing.T) {
	p, clk, _ := newTestPacer(t, 0.01)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			p.SetTimeStep(0.01)
			p.SetWarnThreshold(0.02)
			p.SetErrorThreshold(0.2)
			p.SetEnforceRate(i%2 == 0)
		}
	}()
	for i := 0; i < 1000; i++ {
		clk.Advance(ms)
		p.Sleep()
	}
	<-done
}

func BenchmarkSleepProbeMode(b *testing.B) {
	clk := fake.NewClock()
	p := pacer.New("bench", 0, pacer.WithClock(clk), pacer.WithSink(diag.Discard))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Sleep()
	}
}

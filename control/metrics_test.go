package control_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/momentics/pacekit/control"
	"github.com/momentics/pacekit/fake"
	"github.com/momentics/pacekit/pacer"
	"github.com/momentics/pacekit/worker"
)

func TestMetricsPublish(t *testing.T) {
	mr := control.NewMetricsRegistry()
	if len(mr.GetSnapshot()) != 0 || !mr.Updated().IsZero() {
		t.Fatal("fresh registry not empty")
	}

	clk := fake.NewClock()
	p := pacer.New("imu", 0.01, pacer.WithClock(clk), pacer.WithSink(fake.NewSink()))
	clk.Advance(int64(2 * time.Millisecond))
	p.Sleep()

	mr.Publish(p.Snapshot())
	snaps := mr.GetSnapshot()
	if len(snaps) != 1 || snaps["imu"].Cycles != 1 {
		t.Fatalf("snapshots = %+v", snaps)
	}
	if mr.Updated().IsZero() {
		t.Fatal("updated stamp not set")
	}

	// Republishing replaces, not appends.
	p.Sleep()
	mr.Publish(p.Snapshot())
	if snaps := mr.GetSnapshot(); len(snaps) != 1 || snaps["imu"].Cycles != 2 {
		t.Fatalf("after republish: %+v", snaps)
	}
}

func TestMetricsCollectFromManager(t *testing.T) {
	m := worker.NewManager()
	var cycles int64
	err := m.Add(worker.Options{
		Name:     "a",
		TimeStep: 0.002,
		Callback: func(worker.Event) bool {
			atomic.AddInt64(&cycles, 1)
			return true
		},
		Sink: fake.NewSink(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Start("a", 0); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt64(&cycles) < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	m.StopAll(true)

	mr := control.NewMetricsRegistry()
	mr.Collect(m)
	snaps := mr.GetSnapshot()
	if snaps["a"].Cycles == 0 {
		t.Fatalf("collect produced %+v", snaps)
	}
}

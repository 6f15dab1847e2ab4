package worker_test

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/momentics/pacekit/api"
	"github.com/momentics/pacekit/fake"
	"github.com/momentics/pacekit/worker"
)

func quietOptions(name string, step float64, cycles *int64) worker.Options {
	return worker.Options{
		Name:     name,
		TimeStep: step,
		Callback: func(worker.Event) bool {
			if cycles != nil {
				atomic.AddInt64(cycles, 1)
			}
			return true
		},
		Sink: fake.NewSink(),
	}
}

func TestManagerAddAndDuplicate(t *testing.T) {
	m := worker.NewManager()
	if err := m.Add(quietOptions("a", 0.01, nil)); err != nil {
		t.Fatal(err)
	}
	if !m.Has("a") || m.Has("b") {
		t.Fatal("registry lookup broken")
	}
	if err := m.Add(quietOptions("a", 0.01, nil)); !errors.Is(err, api.ErrAlreadyExists) {
		t.Fatalf("duplicate add: %v", err)
	}
}

func TestManagerMissingWorker(t *testing.T) {
	m := worker.NewManager()
	if err := m.Start("ghost", 0); !errors.Is(err, api.ErrNotFound) {
		t.Fatalf("start: %v", err)
	}
	if err := m.Stop("ghost", true); !errors.Is(err, api.ErrNotFound) {
		t.Fatalf("stop: %v", err)
	}
	if err := m.SetTimeStep("ghost", 0.1); !errors.Is(err, api.ErrNotFound) {
		t.Fatalf("set time step: %v", err)
	}
	if err := m.Cancel("ghost", true); !errors.Is(err, api.ErrNotFound) {
		t.Fatalf("cancel: %v", err)
	}
}

func TestManagerStartStopAll(t *testing.T) {
	m := worker.NewManager()
	var a, b int64
	if err := m.Add(quietOptions("a", 0.002, &a)); err != nil {
		t.Fatal(err)
	}
	if err := m.Add(quietOptions("b", 0.002, &b)); err != nil {
		t.Fatal(err)
	}
	if err := m.StartAll(); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool {
		return atomic.LoadInt64(&a) >= 2 && atomic.LoadInt64(&b) >= 2
	})
	m.StopAll(true)

	for _, name := range m.Names() {
		w, _ := m.Get(name)
		if w.IsRunning() {
			t.Fatalf("worker %q still running", name)
		}
	}
}

func TestManagerCancelRemoves(t *testing.T) {
	m := worker.NewManager()
	if err := m.Add(quietOptions("a", 0.01, nil)); err != nil {
		t.Fatal(err)
	}
	if err := m.Start("a", 0); err != nil {
		t.Fatal(err)
	}
	if err := m.Cancel("a", true); err != nil {
		t.Fatal(err)
	}
	if m.Has("a") {
		t.Fatal("cancelled worker still registered")
	}
}

func TestManagerCleanDestructible(t *testing.T) {
	m := worker.NewManager()
	opts := quietOptions("once", math.Inf(1), nil)
	opts.DestructWhenDone = true
	if err := m.Add(opts); err != nil {
		t.Fatal(err)
	}
	if err := m.Start("once", 0); err != nil {
		t.Fatal(err)
	}
	w, _ := m.Get("once")
	waitFor(t, w.IsDone)

	m.CleanDestructible()
	if m.Has("once") {
		t.Fatal("destructible worker not cleaned")
	}
}

func TestManagerSetTimeStep(t *testing.T) {
	m := worker.NewManager()
	if err := m.Add(quietOptions("a", 0.01, nil)); err != nil {
		t.Fatal(err)
	}
	if err := m.SetTimeStep("a", 0.05); err != nil {
		t.Fatal(err)
	}
	w, _ := m.Get("a")
	if w.TimeStep() != 0.05 {
		t.Fatalf("time step = %v", w.TimeStep())
	}
}

func TestManagerSnapshots(t *testing.T) {
	m := worker.NewManager()
	var a int64
	if err := m.Add(quietOptions("a", 0.002, &a)); err != nil {
		t.Fatal(err)
	}
	if err := m.Start("a", 0); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return atomic.LoadInt64(&a) >= 3 })
	m.StopAll(true)

	snaps := m.Snapshots()
	if len(snaps) != 1 || snaps[0].Name != "a" || snaps[0].Cycles == 0 {
		t.Fatalf("snapshots = %+v", snaps)
	}
}

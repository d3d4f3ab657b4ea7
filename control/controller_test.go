package control

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lixenwraith/spiral-galaxy/galaxy"
	"github.com/lixenwraith/spiral-galaxy/vmath"
)

// countingSink is a minimal thread-safe sink
type countingSink struct {
	mu       sync.Mutex
	next     galaxy.Handle
	attached map[galaxy.Handle]*galaxy.Cloud
	peak     int
}

func newCountingSink() *countingSink {
	return &countingSink{attached: make(map[galaxy.Handle]*galaxy.Cloud)}
}

func (s *countingSink) Attach(c *galaxy.Cloud, _ galaxy.RenderHints) galaxy.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.attached[s.next] = c
	s.peak = max(s.peak, len(s.attached))
	return s.next
}

func (s *countingSink) Detach(h galaxy.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attached, h)
}

func (s *countingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attached)
}

func smallParams() galaxy.Params {
	p := galaxy.DefaultParams()
	p.Count = galaxy.MinCount
	return p
}

type harness struct {
	ctrl    *Controller
	sink    *countingSink
	results chan Result
	cancel  context.CancelFunc
	done    chan error
}

func newHarness(t *testing.T, initial galaxy.Params, genOpts []galaxy.Option, opts ...Option) *harness {
	t.Helper()
	h := &harness{sink: newCountingSink(), results: make(chan Result, 64), done: make(chan error, 1)}
	gen := galaxy.NewGenerator(h.sink, vmath.NewFastRand(1), genOpts...)
	opts = append(opts, WithNotify(func(r Result) { h.results <- r }))
	ctrl, err := New(gen, initial, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.ctrl = ctrl
	t.Cleanup(h.stop)
	return h
}

func (h *harness) start() {
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.done <- h.ctrl.Run(ctx) }()
}

func (h *harness) stop() {
	if h.cancel == nil {
		return
	}
	h.cancel()
	<-h.done
	h.cancel = nil
	h.ctrl.Close()
}

func (h *harness) wait(t *testing.T) Result {
	t.Helper()
	select {
	case r := <-h.results:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for regeneration")
		return Result{}
	}
}

func TestNewRejectsInvalidInitial(t *testing.T) {
	p := smallParams()
	p.Branches = 1
	gen := galaxy.NewGenerator(newCountingSink(), vmath.NewFastRand(1))
	if _, err := New(gen, p); !errors.Is(err, galaxy.ErrConfiguration) {
		t.Fatalf("New = %v, want ConfigurationError", err)
	}
}

func TestInitialGeneration(t *testing.T) {
	h := newHarness(t, smallParams(), nil)
	h.start()

	r := h.wait(t)
	if r.Err != nil {
		t.Fatalf("initial generation: %v", r.Err)
	}
	if h.sink.count() != 1 {
		t.Errorf("attached = %d, want 1", h.sink.count())
	}
	if got, ok := h.ctrl.Generated(); !ok || got != smallParams() {
		t.Errorf("Generated() = %v, %v", got, ok)
	}
	if h.ctrl.Stats().Regenerations.Load() != 1 || h.ctrl.Stats().Points.Load() != galaxy.MinCount {
		t.Errorf("stats %+v", h.ctrl.Stats().Snapshot())
	}
}

func TestRejectedEditKeepsCommitted(t *testing.T) {
	h := newHarness(t, smallParams(), nil)

	before := h.ctrl.Params()
	tests := []struct {
		name  string
		edit  func() error
		field string
	}{
		{"count 999", func() error { return h.ctrl.SetCount(999) }, galaxy.FieldCount},
		{"branches 1", func() error { return h.ctrl.SetBranches(1) }, galaxy.FieldBranches},
		{"spin 9", func() error { return h.ctrl.SetSpin(9) }, galaxy.FieldSpin},
		{"bad color", func() error { return h.ctrl.SetOutsideColor("#zzz") }, galaxy.FieldOutsideColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.edit(); !errors.Is(err, galaxy.ErrConfiguration) {
				t.Fatalf("edit = %v, want ConfigurationError", err)
			}
			if h.ctrl.Params() != before {
				t.Error("committed params changed after rejection")
			}
			if h.ctrl.Stats().RejectedFields.Get(tt.field).Load() != 1 {
				t.Errorf("rejection for %s not counted", tt.field)
			}
		})
	}
	if got := h.ctrl.Stats().Rejected.Load(); got != int64(len(tests)) {
		t.Errorf("Rejected = %d, want %d", got, len(tests))
	}
}

func TestEditsCoalesceLatestWins(t *testing.T) {
	h := newHarness(t, smallParams(), nil)

	// Queued before the worker starts: only the final state survives
	for _, spin := range []float64{-2, -1, 0.5, 2.5} {
		if err := h.ctrl.SetSpin(spin); err != nil {
			t.Fatal(err)
		}
	}
	if err := h.ctrl.SetInsideColor("white"); err != nil {
		t.Fatal(err)
	}
	want := h.ctrl.Params()

	h.start()
	r := h.wait(t)
	if r.Err != nil || r.Params != want {
		t.Fatalf("generated %v (err %v), want %v", r.Params, r.Err, want)
	}
	h.stop()

	if got := h.ctrl.Stats().Regenerations.Load(); got != 1 {
		t.Errorf("Regenerations = %d, want 1", got)
	}
	if h.sink.peak != 1 {
		t.Errorf("peak attached = %d, want 1", h.sink.peak)
	}
}

func TestSequentialEditsEachRegenerate(t *testing.T) {
	h := newHarness(t, smallParams(), nil)
	h.start()
	h.wait(t)

	for b := 3; b <= 6; b++ {
		if err := h.ctrl.SetBranches(b); err != nil {
			t.Fatal(err)
		}
		r := h.wait(t)
		if r.Err != nil || r.Params.Branches != b {
			t.Fatalf("branches=%d: got %v err %v", b, r.Params.Branches, r.Err)
		}
		if h.sink.count() != 1 {
			t.Fatalf("attached = %d after branches=%d", h.sink.count(), b)
		}
	}
}

func TestResourceErrorRevertsCommitted(t *testing.T) {
	initial := smallParams()
	h := newHarness(t, initial, []galaxy.Option{galaxy.WithBufferLimit(initial.BufferBytes())})
	h.start()
	if r := h.wait(t); r.Err != nil {
		t.Fatal(r.Err)
	}

	if err := h.ctrl.SetCount(2 * galaxy.MinCount); err != nil {
		t.Fatalf("SetCount: %v", err)
	}
	r := h.wait(t)
	if !errors.Is(r.Err, galaxy.ErrResource) {
		t.Fatalf("result err = %v, want ResourceError", r.Err)
	}
	if got := h.ctrl.Params(); got != initial {
		t.Errorf("committed = %v, want revert to %v", got, initial)
	}
	if h.sink.count() != 1 {
		t.Error("prior cloud no longer attached")
	}
	if h.ctrl.Stats().ResourceFailures.Load() != 1 {
		t.Error("resource failure not counted")
	}
}

func TestRateLimitedRun(t *testing.T) {
	h := newHarness(t, smallParams(), nil, WithRateLimit(1000, 1))
	h.start()
	h.wait(t)

	if err := h.ctrl.SetRadius(7.5); err != nil {
		t.Fatal(err)
	}
	if r := h.wait(t); r.Err != nil || r.Params.Radius != 7.5 {
		t.Fatalf("got %v err %v", r.Params.Radius, r.Err)
	}
}

func TestRegenerateResamples(t *testing.T) {
	h := newHarness(t, smallParams(), nil)
	h.start()
	h.wait(t)

	h.ctrl.Regenerate()
	r := h.wait(t)
	if r.Err != nil || r.Params != smallParams() {
		t.Fatalf("Regenerate result %v err %v", r.Params, r.Err)
	}
	if h.ctrl.Stats().Regenerations.Load() != 2 {
		t.Errorf("Regenerations = %d, want 2", h.ctrl.Stats().Regenerations.Load())
	}
}

func TestLoadValidates(t *testing.T) {
	h := newHarness(t, smallParams(), nil)
	bad := smallParams()
	bad.RandomnessPower = 0
	if err := h.ctrl.Load(bad); !errors.Is(err, galaxy.ErrConfiguration) {
		t.Fatalf("Load(bad) = %v", err)
	}
	good := smallParams()
	good.Branches = 7
	if err := h.ctrl.Load(good); err != nil || h.ctrl.Params() != good {
		t.Fatalf("Load(good) = %v, params %v", err, h.ctrl.Params())
	}
}

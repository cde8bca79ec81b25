package stream

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samcharles93/blasq/pkg/blas"
)

func newTestQueue(t *testing.T, cfg Config) *Queue {
	t.Helper()
	q, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = q.Close() })
	return q
}

func TestForkRevolveCursor(t *testing.T) {
	t.Parallel()

	q := newTestQueue(t, Config{MaxStreams: 8})
	if _, ok := q.Cursor(); ok {
		t.Fatal("idle queue should have no cursor")
	}
	const k = 3
	if err := q.Fork(k); err != nil {
		t.Fatal(err)
	}
	start, ok := q.Cursor()
	if !ok {
		t.Fatal("forked queue should have a cursor")
	}
	for j := range 10 {
		got, _ := q.Cursor()
		if want := (start + j) % k; got != want {
			t.Fatalf("revolve %d: cursor = %d, want %d", j, got, want)
		}
		q.Revolve()
	}
	if q.State() != Forked || q.Width() != k {
		t.Fatalf("state = %v width = %d", q.State(), q.Width())
	}
	if err := q.Join(); err != nil {
		t.Fatal(err)
	}
	if q.State() != Idle || q.Width() != 1 {
		t.Fatalf("after join: state = %v width = %d", q.State(), q.Width())
	}
}

func TestJoinWaitsForEveryStream(t *testing.T) {
	t.Parallel()

	q := newTestQueue(t, Config{MaxStreams: 4})
	if err := q.Fork(4); err != nil {
		t.Fatal(err)
	}
	var done [8]atomic.Bool
	for i := range done {
		if err := q.Enqueue(func() error {
			time.Sleep(time.Duration(i%4+1) * 5 * time.Millisecond)
			done[i].Store(true)
			return nil
		}); err != nil {
			t.Fatal(err)
		}
		q.Revolve()
	}
	if err := q.Join(); err != nil {
		t.Fatal(err)
	}
	for i := range done {
		if !done[i].Load() {
			t.Fatalf("task %d still running after join", i)
		}
	}
}

func TestForkOrdersAfterDefaultStream(t *testing.T) {
	t.Parallel()

	q := newTestQueue(t, Config{MaxStreams: 2})
	release := make(chan struct{})
	var first atomic.Bool
	if err := q.Enqueue(func() error {
		<-release
		first.Store(true)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if err := q.Fork(2); err != nil {
		t.Fatal(err)
	}
	var sawFirst atomic.Bool
	if err := q.Enqueue(func() error {
		sawFirst.Store(first.Load())
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	close(release)
	if err := q.Join(); err != nil {
		t.Fatal(err)
	}
	if !sawFirst.Load() {
		t.Fatal("sub-stream work ran before earlier default-stream work")
	}
}

func TestEnqueueDoesNotBlock(t *testing.T) {
	t.Parallel()

	q := newTestQueue(t, Config{})
	gate := make(chan struct{})
	if err := q.Enqueue(func() error { <-gate; return nil }); err != nil {
		t.Fatal(err)
	}
	finished := make(chan struct{})
	go func() {
		for range 5000 {
			_ = q.Enqueue(func() error { return nil })
		}
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("enqueue blocked behind a stalled stream")
	}
	close(gate)
	if err := q.Sync(); err != nil {
		t.Fatal(err)
	}
}

func TestFaultsSurfaceAtJoinAndSync(t *testing.T) {
	t.Parallel()

	q := newTestQueue(t, Config{MaxStreams: 2})
	boom := blas.NewBackendFault("gemm", "blas: bad leading dimension of A")
	if err := q.Enqueue(func() error { return boom }); err != nil {
		t.Fatal(err)
	}
	if err := q.Sync(); !errors.Is(err, blas.ErrBackendFault) {
		t.Fatalf("Sync = %v, want backend fault", err)
	}
	if err := q.Sync(); err != nil {
		t.Fatalf("fault reported twice: %v", err)
	}

	if err := q.Fork(2); err != nil {
		t.Fatal(err)
	}
	_ = q.Enqueue(func() error { return nil })
	q.Revolve()
	_ = q.Enqueue(func() error { panic("kernel exploded") })
	err := q.Join()
	if err == nil || !strings.Contains(err.Error(), "kernel exploded") {
		t.Fatalf("Join = %v, want the panicking task reported", err)
	}
	if q.State() != Idle {
		t.Fatal("join must return to idle even with faults")
	}
}

func TestForkErrors(t *testing.T) {
	t.Parallel()

	q := newTestQueue(t, Config{ForkSize: 2, MaxStreams: 3})
	for _, k := range []int{0, -1, 4} {
		if err := q.Fork(k); !blas.IsInvalidArgument(err) {
			t.Errorf("Fork(%d) = %v, want invalid argument", k, err)
		}
	}
	if err := q.Fork(3); err != nil {
		t.Fatal(err)
	}
	if err := q.Fork(2); !blas.IsInvalidArgument(err) {
		t.Fatalf("nested fork = %v, want invalid argument", err)
	}
	if err := q.Join(); err != nil {
		t.Fatal(err)
	}
	if err := q.Join(); err != nil {
		t.Fatalf("join while idle = %v", err)
	}
	q.Revolve()
	if _, ok := q.Cursor(); ok {
		t.Fatal("revolve while idle must not fork")
	}
}

func TestConfigValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
	}{
		{"bad device", Config{Device: 1}},
		{"negative fork size", Config{ForkSize: -1}},
		{"max below fork size", Config{ForkSize: 8, MaxStreams: 2}},
	}
	for _, tc := range tests {
		if _, err := New(tc.cfg); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
	q := newTestQueue(t, Config{})
	if q.ForkSize() != DefaultForkSize || q.MaxStreams() < DefaultForkSize {
		t.Fatalf("defaults: fork=%d max=%d", q.ForkSize(), q.MaxStreams())
	}
	if q.Kernels() == nil || q.Device().Name != "cpu" {
		t.Fatal("defaults not applied")
	}
}

func TestForkSizeDefaultsWithinMaxStreams(t *testing.T) {
	t.Parallel()

	q := newTestQueue(t, Config{MaxStreams: 4})
	if q.ForkSize() != 4 || q.MaxStreams() != 4 {
		t.Fatalf("fork=%d max=%d, want 4 and 4", q.ForkSize(), q.MaxStreams())
	}
	if err := q.Fork(4); err != nil {
		t.Fatalf("Fork(4): %v", err)
	}
	if err := q.Join(); err != nil {
		t.Fatalf("Join: %v", err)
	}

	q = newTestQueue(t, Config{MaxStreams: DefaultForkSize + 6})
	if q.ForkSize() != DefaultForkSize {
		t.Fatalf("fork=%d, want %d", q.ForkSize(), DefaultForkSize)
	}
}

func TestCloseRejectsWork(t *testing.T) {
	t.Parallel()

	q, err := New(Config{})
	if err != nil {
		t.Fatal(err)
	}
	var ran atomic.Bool
	_ = q.Enqueue(func() error { ran.Store(true); return nil })
	if err := q.Close(); err != nil {
		t.Fatal(err)
	}
	if !ran.Load() {
		t.Fatal("close must drain pending work")
	}
	if err := q.Enqueue(func() error { return nil }); err == nil {
		t.Fatal("enqueue after close should fail")
	}
	if err := q.Fork(1); err == nil {
		t.Fatal("fork after close should fail")
	}
	if err := q.Close(); err != nil {
		t.Fatalf("second close = %v", err)
	}
}

func TestStreamOrder(t *testing.T) {
	t.Parallel()

	s := newStream(7)
	defer s.Close()
	var mu sync.Mutex
	var order []int
	for i := range 100 {
		_ = s.Submit(func() error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		})
	}
	if err := s.Synchronize(); err != nil {
		t.Fatal(err)
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("task %d ran at position %d", v, i)
		}
	}
	if s.ID() != 7 {
		t.Fatalf("ID = %d", s.ID())
	}
}

func TestDevices(t *testing.T) {
	t.Parallel()

	if DeviceCount() != 1 || len(Devices()) != 1 {
		t.Fatal("expected a single host device")
	}
	d, err := DeviceByID(0)
	if err != nil || d.CPUs < 1 {
		t.Fatalf("DeviceByID(0) = %+v, %v", d, err)
	}
	if _, err := DeviceByID(-1); !blas.IsInvalidArgument(err) {
		t.Fatalf("DeviceByID(-1) = %v", err)
	}
	_ = d.FeatureList()
}

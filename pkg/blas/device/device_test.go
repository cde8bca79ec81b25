package device

import (
	"errors"
	"slices"
	"testing"

	"github.com/samcharles93/blasq/pkg/blas"
)

func newQueue(t *testing.T) *Queue {
	t.Helper()
	q, err := NewQueue(Config{})
	if err != nil {
		t.Fatalf("NewQueue: %v", err)
	}
	t.Cleanup(func() { _ = q.Close() })
	return q
}

func TestQueuedCallsRunInOrder(t *testing.T) {
	t.Parallel()

	q := newQueue(t)
	x := []float64{1, 2, 3}
	y := []float64{4, 5, 6}
	var before, after float64
	if err := Dot(3, x, 1, y, 1, &before, q); err != nil {
		t.Fatal(err)
	}
	if err := Scal(3, 2.0, x, 1, q); err != nil {
		t.Fatal(err)
	}
	if err := Dot(3, x, 1, y, 1, &after, q); err != nil {
		t.Fatal(err)
	}
	if err := q.Sync(); err != nil {
		t.Fatal(err)
	}
	if before != 32 || after != 64 {
		t.Fatalf("dots = %v, %v, want 32, 64", before, after)
	}
}

func TestForkedQueueRunsIndependentCalls(t *testing.T) {
	t.Parallel()

	q := newQueue(t)
	if err := q.Fork(3); err != nil {
		t.Fatal(err)
	}
	cs := make([][]float32, 6)
	for i := range cs {
		cs[i] = []float32{0}
		a := []float32{float32(i)}
		if err := Gemm(blas.RowMajor, blas.NoTrans, blas.NoTrans, 1, 1, 1, float32(1), a, 1, []float32{2}, 1, float32(0), cs[i], 1, q); err != nil {
			t.Fatal(err)
		}
		q.Revolve()
	}
	if err := q.Join(); err != nil {
		t.Fatal(err)
	}
	for i, c := range cs {
		if c[0] != float32(2*i) {
			t.Fatalf("C[%d] = %v", i, c[0])
		}
	}
}

func TestArgumentErrorsAreImmediate(t *testing.T) {
	t.Parallel()

	q := newQueue(t)
	err := Trsm[complex64](blas.ColMajor, blas.Left, blas.Uplo(0), blas.NoTrans, blas.NonUnit, 2, 2, 1, nil, 2, nil, 2, q)
	if !blas.IsInvalidArgument(err) {
		t.Fatalf("err = %v", err)
	}
	if err := q.Sync(); err != nil {
		t.Fatalf("sync after rejected call: %v", err)
	}
}

func TestDeviceSelection(t *testing.T) {
	t.Parallel()

	if DeviceCount() != len(Devices()) {
		t.Fatalf("DeviceCount = %d, Devices = %v", DeviceCount(), Devices())
	}
	if _, err := NewQueue(Config{Device: DeviceCount()}); !blas.IsInvalidArgument(err) {
		t.Fatalf("out of range device: err = %v", err)
	}
	q := newQueue(t)
	if q.ForkSize() != DefaultForkSize {
		t.Fatalf("ForkSize = %d", q.ForkSize())
	}
}

func TestLevelTwoAndThreeOnQueue(t *testing.T) {
	t.Parallel()

	q := newQueue(t)
	a := []complex128{0}
	if err := Ger(blas.RowMajor, 1, 1, complex128(2), []complex128{1i}, 1, []complex128{1i}, 1, a, 1, q); err != nil {
		t.Fatal(err)
	}
	h := []complex128{0}
	if err := Herk(blas.RowMajor, blas.Upper, blas.ConjTrans, 1, 1, 1.0, []complex128{3i}, 1, 0.0, h, 1, q); err != nil {
		t.Fatal(err)
	}
	s := []float64{1, 2}
	r := []float64{3, 4}
	if err := Swap(2, s, 1, r, 1, q); err != nil {
		t.Fatal(err)
	}
	if err := Copy(2, s, 1, r, -1, q); err != nil {
		t.Fatal(err)
	}
	if err := q.Sync(); err != nil {
		t.Fatal(err)
	}
	if a[0] != 2 {
		t.Fatalf("ger = %v, want 2", a[0])
	}
	if h[0] != 9 {
		t.Fatalf("herk = %v, want 9", h[0])
	}
	if !slices.Equal(s, []float64{3, 4}) || !slices.Equal(r, []float64{4, 3}) {
		t.Fatalf("s = %v r = %v", s, r)
	}
}

func TestNilQueueIsAnArgumentError(t *testing.T) {
	t.Parallel()

	x := []float64{1, 2, 3}
	y := []float64{4, 5, 6}
	var out float64
	calls := map[string]error{
		"dot":  Dot(3, x, 1, y, 1, &out, nil),
		"axpy": Axpy(3, 2.0, x, 1, y, 1, nil),
		"gemm": Gemm(blas.RowMajor, blas.NoTrans, blas.NoTrans, 1, 1, 1, 1.0, x, 1, y, 1, 0.0, []float64{0}, 1, nil),
	}
	for name, err := range calls {
		var e *blas.Error
		if !errors.As(err, &e) || !blas.IsInvalidArgument(err) || e.Param != "queue" {
			t.Fatalf("%s: err = %v, want invalid argument on queue", name, err)
		}
	}
	if !slices.Equal(y, []float64{4, 5, 6}) {
		t.Fatalf("y changed: %v", y)
	}
}

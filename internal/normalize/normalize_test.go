package normalize

import (
	"testing"

	"github.com/samcharles93/blasq/internal/op"
	"github.com/samcharles93/blasq/pkg/blas"
)

func TestToNativeIsIdentity(t *testing.T) {
	t.Parallel()

	d := op.Desc{Family: op.Gemm, Layout: blas.RowMajor, TransA: blas.Trans, TransB: blas.NoTrans, M: 2, N: 3, K: 4}
	if got := To(blas.RowMajor, d); got != d {
		t.Fatalf("native call rewritten: %+v", got)
	}
	v := op.Desc{Family: op.Axpy, N: 3, IncX: 1, IncY: 2}
	if got := To(blas.RowMajor, v); got != v {
		t.Fatalf("vector call rewritten: %+v", got)
	}
}

func TestGemm(t *testing.T) {
	t.Parallel()

	d := op.Desc{
		Family: op.Gemm, Elem: blas.RealDouble, Layout: blas.ColMajor,
		TransA: blas.Trans, TransB: blas.ConjTrans,
		M: 2, N: 3, K: 4, LdA: 4, LdB: 3, LdC: 2,
	}
	got := To(blas.RowMajor, d)
	want := op.Desc{
		Family: op.Gemm, Elem: blas.RealDouble, Layout: blas.RowMajor,
		TransA: blas.ConjTrans, TransB: blas.Trans,
		M: 3, N: 2, K: 4, LdA: 3, LdB: 4, LdC: 2, SwapOperands: true,
	}
	if got != want {
		t.Fatalf("got %+v\nwant %+v", got, want)
	}
}

func TestRewriteTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   op.Desc
		want op.Desc
	}{
		{
			"symm",
			op.Desc{Family: op.Symm, Side: blas.Left, Uplo: blas.Upper, M: 2, N: 5},
			op.Desc{Family: op.Symm, Side: blas.Right, Uplo: blas.Lower, M: 5, N: 2},
		},
		{
			"hemm",
			op.Desc{Family: op.Hemm, Elem: blas.ComplexSingle, Side: blas.Right, Uplo: blas.Lower, M: 2, N: 5},
			op.Desc{Family: op.Hemm, Elem: blas.ComplexSingle, Side: blas.Left, Uplo: blas.Upper, M: 5, N: 2},
		},
		{
			"real syrk conj",
			op.Desc{Family: op.Syrk, Elem: blas.RealSingle, Uplo: blas.Upper, TransA: blas.ConjTrans},
			op.Desc{Family: op.Syrk, Elem: blas.RealSingle, Uplo: blas.Lower, TransA: blas.NoTrans},
		},
		{
			"complex syrk",
			op.Desc{Family: op.Syrk, Elem: blas.ComplexDouble, Uplo: blas.Lower, TransA: blas.NoTrans},
			op.Desc{Family: op.Syrk, Elem: blas.ComplexDouble, Uplo: blas.Upper, TransA: blas.Trans},
		},
		{
			"herk",
			op.Desc{Family: op.Herk, Elem: blas.ComplexDouble, Uplo: blas.Lower, TransA: blas.NoTrans},
			op.Desc{Family: op.Herk, Elem: blas.ComplexDouble, Uplo: blas.Upper, TransA: blas.ConjTrans},
		},
		{
			"her2k",
			op.Desc{Family: op.Her2k, Elem: blas.ComplexSingle, Uplo: blas.Upper, TransA: blas.ConjTrans},
			op.Desc{Family: op.Her2k, Elem: blas.ComplexSingle, Uplo: blas.Lower, TransA: blas.NoTrans, ConjAlpha: true},
		},
		{
			"trsm",
			op.Desc{Family: op.Trsm, Side: blas.Left, Uplo: blas.Lower, TransA: blas.Trans, Diag: blas.Unit, M: 3, N: 4},
			op.Desc{Family: op.Trsm, Side: blas.Right, Uplo: blas.Upper, TransA: blas.Trans, Diag: blas.Unit, M: 4, N: 3},
		},
		{
			"ger",
			op.Desc{Family: op.Ger, Elem: blas.RealDouble, M: 3, N: 4, IncX: 1, IncY: -2},
			op.Desc{Family: op.Ger, Elem: blas.RealDouble, M: 4, N: 3, IncX: -2, IncY: 1, SwapOperands: true},
		},
		{
			"gerc",
			op.Desc{Family: op.Ger, Elem: blas.ComplexDouble, M: 3, N: 4, IncX: 1, IncY: 1, Conj: true},
			op.Desc{Family: op.Ger, Elem: blas.ComplexDouble, M: 4, N: 3, IncX: 1, IncY: 1, SwapOperands: true, ConjFirst: true},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tc.in.Layout = blas.ColMajor
			tc.want.Layout = blas.RowMajor
			got := To(blas.RowMajor, tc.in)
			if got != tc.want {
				t.Fatalf("got %+v\nwant %+v", got, tc.want)
			}
		})
	}
}

func TestInvolution(t *testing.T) {
	t.Parallel()

	descs := []op.Desc{
		{Family: op.Gemm, TransA: blas.NoTrans, TransB: blas.ConjTrans, M: 1, N: 2, K: 3, LdA: 4, LdB: 5, LdC: 6},
		{Family: op.Symm, Side: blas.Left, Uplo: blas.Upper, M: 3, N: 7},
		{Family: op.Syrk, Elem: blas.ComplexSingle, Uplo: blas.Upper, TransA: blas.Trans},
		{Family: op.Herk, Elem: blas.ComplexDouble, Uplo: blas.Lower, TransA: blas.ConjTrans},
		{Family: op.Her2k, Elem: blas.ComplexDouble, Uplo: blas.Lower, TransA: blas.NoTrans},
		{Family: op.Trsm, Side: blas.Right, Uplo: blas.Lower, TransA: blas.ConjTrans, M: 2, N: 9},
		{Family: op.Ger, Elem: blas.ComplexSingle, M: 2, N: 3, IncX: 1, IncY: 3, Conj: true},
	}
	for _, d := range descs {
		d.Layout = blas.ColMajor
		back := To(blas.ColMajor, To(blas.RowMajor, d))
		if back != d {
			t.Errorf("%v: round trip %+v != %+v", d.Family, back, d)
		}
	}
}

package api

import (
	"github.com/samcharles93/blasq/internal/dispatch"
	"github.com/samcharles93/blasq/internal/stream"
	"github.com/samcharles93/blasq/pkg/blas"
)

func narrowTo[R blas.Real](v []float64) []R {
	out := make([]R, len(v))
	for i, x := range v {
		out[i] = R(x)
	}
	return out
}

func widen[R blas.Real](v []R) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

func incOrOne(p *int64) int64 {
	if p == nil {
		return 1
	}
	return *p
}

func dot[R blas.Real](tg dispatch.Target, conj bool, req *DotRequest) (float64, error) {
	var out R
	err := dispatch.Dot(tg, conj, req.N, narrowTo[R](req.X), incOrOne(req.IncX), narrowTo[R](req.Y), incOrOne(req.IncY), &out)
	return float64(out), err
}

func axpy[R blas.Real](tg dispatch.Target, req *AxpyRequest) ([]float64, error) {
	y := narrowTo[R](req.Y)
	if err := dispatch.Axpy(tg, req.N, R(req.Alpha), narrowTo[R](req.X), incOrOne(req.IncX), y, incOrOne(req.IncY)); err != nil {
		return nil, err
	}
	return widen(y), nil
}

// parseLayout defaults to row-major, the order JSON arrays read in.
func parseLayout(s string) (blas.Layout, error) {
	if s == "" {
		return blas.RowMajor, nil
	}
	l, err := blas.ParseLayout(s)
	if err != nil {
		return 0, newInvalidRequest(err.Error())
	}
	return l, nil
}

func parseOps(names []string) ([]blas.Op, error) {
	out := make([]blas.Op, len(names))
	for i, s := range names {
		o, err := parseOp(s)
		if err != nil {
			return nil, err
		}
		out[i] = o
	}
	return out, nil
}

func parseOp(s string) (blas.Op, error) {
	if s == "" {
		return blas.NoTrans, nil
	}
	o, err := blas.ParseOp(s)
	if err != nil {
		return 0, newInvalidRequest(err.Error())
	}
	return o, nil
}

func gemm[R blas.Real](tg dispatch.Target, req *GemmRequest) ([]float64, error) {
	layout, err := parseLayout(req.Layout)
	if err != nil {
		return nil, err
	}
	ta, err := parseOp(req.TransA)
	if err != nil {
		return nil, err
	}
	tb, err := parseOp(req.TransB)
	if err != nil {
		return nil, err
	}
	c := narrowTo[R](req.C)
	err = dispatch.Gemm(tg, layout, ta, tb, req.M, req.N, req.K,
		R(req.Alpha), narrowTo[R](req.A), req.LdA, narrowTo[R](req.B), req.LdB, R(req.Beta), c, req.LdC)
	if err != nil {
		return nil, err
	}
	return widen(c), nil
}

func batchGemm[R blas.Real](q *stream.Queue, req *BatchGemmRequest, info []int64) ([][]float64, error) {
	layout, err := parseLayout(req.Layout)
	if err != nil {
		return nil, err
	}
	ta, err := parseOps(req.TransA)
	if err != nil {
		return nil, err
	}
	tb, err := parseOps(req.TransB)
	if err != nil {
		return nil, err
	}
	matrices := func(v [][]float64) [][]R {
		out := make([][]R, len(v))
		for i := range v {
			out[i] = narrowTo[R](v[i])
		}
		return out
	}
	c := matrices(req.C)
	err = dispatch.BatchGemm(q, layout, ta, tb, req.M, req.N, req.K,
		narrowTo[R](req.Alpha), matrices(req.A), req.LdA, matrices(req.B), req.LdB,
		narrowTo[R](req.Beta), c, req.LdC, req.BatchCount, info)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(c))
	for i := range c {
		out[i] = widen(c[i])
	}
	return out, nil
}

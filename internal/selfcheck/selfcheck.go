// Package selfcheck verifies a kernel set through the full dispatch path.
// Every operation runs in every precision, in both storage orders and on
// both the host and a queue, and is compared against the same call made on
// the host in the kernels' native order. Error scenarios confirm that bad
// calls are rejected with the right kind and reach no kernel.
package selfcheck

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/samcharles93/blasq/internal/dispatch"
	"github.com/samcharles93/blasq/internal/kernel"
	"github.com/samcharles93/blasq/internal/logger"
	"github.com/samcharles93/blasq/internal/stream"
	"github.com/samcharles93/blasq/internal/version"
	"github.com/samcharles93/blasq/pkg/blas"
)

// DefaultSize is the row count of the matrices a check uses.
const DefaultSize = 6

type Options struct {
	// Kernels defaults to kernel.Default().
	Kernels *kernel.Set
	// Size is the row count m; n is m+1 and k is m+2. Zero means DefaultSize.
	Size int
	Seed uint64
	// Domains restricts the precisions checked; empty means all four.
	Domains []blas.Domain
	Logger  logger.Logger
}

// Result is the outcome of one scenario.
type Result struct {
	Name    string  `json:"name"`
	Domain  string  `json:"domain,omitempty"`
	Mode    string  `json:"mode,omitempty"`
	Passed  bool    `json:"passed"`
	RelErr  float64 `json:"rel_err,omitempty"`
	Tol     float64 `json:"tol,omitempty"`
	Message string  `json:"message,omitempty"`
}

type Report struct {
	RunID    string        `json:"run_id"`
	Version  string        `json:"version"`
	Kernels  string        `json:"kernels"`
	Size     int           `json:"size"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration_ns"`
	Passed   int           `json:"passed"`
	Failed   int           `json:"failed"`
	Results  []Result      `json:"results"`
}

// OK reports whether every scenario passed.
func (r *Report) OK() bool { return r.Failed == 0 }

func (r *Report) add(res Result) {
	if res.Passed {
		r.Passed++
	} else {
		r.Failed++
	}
	r.Results = append(r.Results, res)
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// WriteText writes one line per scenario and a summary.
func (r *Report) WriteText(w io.Writer, failuresOnly bool) error {
	for _, res := range r.Results {
		if failuresOnly && res.Passed {
			continue
		}
		status := "ok  "
		if !res.Passed {
			status = "FAIL"
		}
		line := fmt.Sprintf("%s %-14s %-8s %-9s", status, res.Name, res.Domain, res.Mode)
		if res.Tol > 0 {
			line += fmt.Sprintf(" err=%.2e tol=%.0e", res.RelErr, res.Tol)
		}
		if res.Message != "" {
			line += " " + res.Message
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d passed, %d failed (kernels %s, run %s, %s)\n",
		r.Passed, r.Failed, r.Kernels, r.RunID, r.Duration.Round(time.Millisecond))
	return err
}

// mode is one way of issuing a call that is checked against the reference.
type mode struct {
	name   string
	layout blas.Layout
	queued bool
}

var modes = []mode{
	{"row/host", blas.RowMajor, false},
	{"col/host", blas.ColMajor, false},
	{"row/queue", blas.RowMajor, true},
	{"col/queue", blas.ColMajor, true},
}

// Run executes every scenario. It stops early, returning the partial
// report and ctx.Err(), when ctx is cancelled.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Kernels == nil {
		opts.Kernels = kernel.Default()
	}
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if len(opts.Domains) == 0 {
		opts.Domains = []blas.Domain{blas.RealSingle, blas.RealDouble, blas.ComplexSingle, blas.ComplexDouble}
	}
	if err := opts.Kernels.Validate(); err != nil {
		return nil, err
	}

	r := &Report{
		RunID:   uuid.NewString(),
		Version: version.String(),
		Kernels: opts.Kernels.Name,
		Size:    opts.Size,
		Started: time.Now(),
	}
	log := opts.Logger.With("run_id", r.RunID, "kernels", r.Kernels)
	log.Info("self check started", "size", opts.Size, "domains", len(opts.Domains))

	q, err := stream.New(stream.Config{Kernels: opts.Kernels, Logger: opts.Logger})
	if err != nil {
		return nil, err
	}
	defer func() { _ = q.Close() }()

	h := &harness{opts: opts, q: q, log: log, report: r}
	for _, d := range opts.Domains {
		if err := ctx.Err(); err != nil {
			r.Duration = time.Since(r.Started)
			return r, err
		}
		switch d {
		case blas.RealSingle:
			runDomain[float32](ctx, h)
		case blas.RealDouble:
			runDomain[float64](ctx, h)
		case blas.ComplexSingle:
			runDomain[complex64](ctx, h)
		case blas.ComplexDouble:
			runDomain[complex128](ctx, h)
		}
	}
	if err := ctx.Err(); err != nil {
		r.Duration = time.Since(r.Started)
		return r, err
	}
	for _, s := range errorScenarios() {
		r.add(s.check(h))
	}
	r.Duration = time.Since(r.Started)
	log.Info("self check finished", "passed", r.Passed, "failed", r.Failed, "duration", r.Duration)
	return r, nil
}

type harness struct {
	opts   Options
	q      *stream.Queue
	log    logger.Logger
	report *Report
}

func (h *harness) call(m mode, seed uint64) call {
	c := call{
		tg:     dispatch.Host(h.opts.Kernels),
		layout: m.layout,
		rng:    rand.New(rand.NewPCG(h.opts.Seed, seed)),
		sync:   func() error { return nil },
		m:      h.opts.Size,
		n:      h.opts.Size + 1,
		k:      h.opts.Size + 2,
	}
	if m.queued {
		c.tg = dispatch.Queue(h.q)
		c.sync = h.q.Sync
	}
	return c
}

func runDomain[T blas.Scalar](ctx context.Context, h *harness) {
	d := blas.DomainOf[T]()
	tol := tolerance(d)
	native := mode{name: "native", layout: h.opts.Kernels.Layout}
	for i, s := range scenarios[T]() {
		if ctx.Err() != nil {
			return
		}
		seed := uint64(i + 1)
		want, uplo, err := s.run(h.call(native, seed))
		if err != nil {
			h.record(Result{Name: s.name, Domain: d.String(), Mode: native.name, Message: err.Error()})
			continue
		}
		for _, m := range modes {
			res := Result{Name: s.name, Domain: d.String(), Mode: m.name, Tol: tol}
			got, _, err := s.run(h.call(m, seed))
			if err != nil {
				res.Message = err.Error()
			} else {
				res.RelErr = relErr(got, want, uplo)
				res.Passed = res.RelErr <= tol
			}
			h.record(res)
		}
	}
	for _, layout := range []blas.Layout{blas.RowMajor, blas.ColMajor} {
		h.record(batchGemm[T](h, layout, tol))
	}
}

func (h *harness) record(res Result) {
	if !res.Passed {
		h.log.Warn("scenario failed", "name", res.Name, "domain", res.Domain, "mode", res.Mode, "rel_err", res.RelErr, "message", res.Message)
	} else {
		h.log.Debug("scenario passed", "name", res.Name, "domain", res.Domain, "mode", res.Mode, "rel_err", res.RelErr)
	}
	h.report.add(res)
}

// batchGemm compares a batched gemm with per-item host calls.
func batchGemm[T blas.Scalar](h *harness, layout blas.Layout, tol float64) Result {
	const count = 5
	res := Result{Name: "batch/gemm", Domain: blas.DomainOf[T]().String(), Mode: layout.String(), Tol: tol}
	rng := rand.New(rand.NewPCG(h.opts.Seed, 1000))
	host := dispatch.Host(h.opts.Kernels)

	m := make([]int64, count)
	a, b, c, want := make([][]T, count), make([][]T, count), make([][]T, count), make([][]T, count)
	lda, ldb, ldc := make([]int64, count), make([]int64, count), make([]int64, count)
	k, n := h.opts.Size, h.opts.Size+1
	for i := range count {
		m[i] = int64(i + 1)
		a[i], lda[i] = randomMatrix[T](rng, i+1, k).store(layout)
		b[i], ldb[i] = randomMatrix[T](rng, k, n).store(layout)
		cm := randomMatrix[T](rng, i+1, n)
		c[i], ldc[i] = cm.store(layout)
		want[i], _ = cm.store(layout)
	}
	alpha, beta := []T{coeff[T](rng)}, []T{coeff[T](rng)}
	nt := []blas.Op{blas.NoTrans}
	for i := range count {
		err := dispatch.Gemm(host, layout, blas.NoTrans, blas.NoTrans, m[i], int64(n), int64(k),
			alpha[0], a[i], lda[i], b[i], ldb[i], beta[0], want[i], ldc[i])
		if err != nil {
			res.Message = err.Error()
			return res
		}
	}
	info := make([]int64, count)
	err := dispatch.BatchGemm(h.q, layout, nt, nt, m, []int64{int64(n)}, []int64{int64(k)},
		alpha, a, lda, b, ldb, beta, c, ldc, count, info)
	if err != nil {
		res.Message = err.Error()
		return res
	}
	for i := range count {
		rows := i + 1
		e := relErr(loadMatrix(layout, c[i], ldc[i], rows, n), loadMatrix(layout, want[i], ldc[i], rows, n), 0)
		res.RelErr = max(res.RelErr, e)
	}
	res.Passed = res.RelErr <= tol
	return res
}

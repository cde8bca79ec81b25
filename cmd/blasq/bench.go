package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/blasq/internal/dispatch"
	"github.com/samcharles93/blasq/internal/kernel"
	"github.com/samcharles93/blasq/internal/logger"
	"github.com/samcharles93/blasq/internal/stream"
	"github.com/samcharles93/blasq/pkg/blas"
)

// benchMode is one way of issuing the same set of gemm calls.
type benchMode struct {
	name string
	run  func() error
}

type benchResult struct {
	name   string
	best   time.Duration
	mean   time.Duration
	gflops float64
}

func benchCmd() *cli.Command {
	var (
		size      int
		batch     int
		runs      int
		warmup    int
		precision string
	)

	flags := append([]cli.Flag{}, queueFlags()...)
	flags = append(flags,
		&cli.IntFlag{
			Name:        "size",
			Aliases:     []string{"n"},
			Usage:       "square matrix order",
			Value:       256,
			Destination: &size,
		},
		&cli.IntFlag{
			Name:        "batch",
			Aliases:     []string{"b"},
			Usage:       "gemm calls per run",
			Value:       16,
			Destination: &batch,
		},
		&cli.IntFlag{
			Name:        "runs",
			Usage:       "number of timed runs",
			Value:       3,
			Destination: &runs,
		},
		&cli.IntFlag{
			Name:        "warmup",
			Usage:       "number of warmup runs",
			Value:       1,
			Destination: &warmup,
		},
		&cli.StringFlag{
			Name:        "precision",
			Aliases:     []string{"p"},
			Usage:       "precision (s, d, c, z)",
			Value:       "d",
			Destination: &precision,
		},
	)

	return &cli.Command{
		Name:  "bench",
		Usage: "Compare host, queued and batched gemm throughput",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyBenchConfig(cmd, loadedConfig, &size, &batch, &runs)
			if size < 1 || batch < 1 || runs < 1 || warmup < 0 {
				return cli.Exit("error: --size, --batch and --runs must be positive", 1)
			}
			domain, err := blas.ParseDomain(precision)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			set, err := kernelSet()
			if err != nil {
				return err
			}
			q, err := stream.New(queueConfig(set, log))
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: queue: %v", err), 1)
			}
			defer func() { _ = q.Close() }()

			fmt.Println("=== blasq gemm benchmark ===")
			fmt.Printf("Kernels:  %s (%s)\n", set.Name, set.Layout)
			fmt.Printf("Type:     %s\n", domain)
			fmt.Printf("Shape:    %d x %d x %d, %d calls per run\n", size, size, size, batch)
			fmt.Printf("Queue:    device %d, fork size %d, max streams %d\n", q.Device().ID, q.ForkSize(), q.MaxStreams())
			fmt.Printf("CPUs:     %d\n", runtime.NumCPU())
			fmt.Printf("GOMAXPROCS: %d\n", runtime.GOMAXPROCS(0))
			fmt.Println()

			var modes []benchMode
			switch domain {
			case blas.RealSingle:
				modes = gemmModes[float32](set, q, size, batch)
			case blas.RealDouble:
				modes = gemmModes[float64](set, q, size, batch)
			case blas.ComplexSingle:
				modes = gemmModes[complex64](set, q, size, batch)
			default:
				modes = gemmModes[complex128](set, q, size, batch)
			}

			flops := 2 * float64(size) * float64(size) * float64(size) * float64(batch)
			if domain.IsComplex() {
				flops *= 4
			}
			results := make([]benchResult, 0, len(modes))
			for _, m := range modes {
				if err := ctx.Err(); err != nil {
					return err
				}
				log.Info("benchmark mode", "mode", m.name)
				for i := range warmup {
					if err := m.run(); err != nil {
						return cli.Exit(fmt.Sprintf("error: %s warmup run %d: %v", m.name, i+1, err), 1)
					}
				}
				r := benchResult{name: m.name, best: time.Duration(1<<63 - 1)}
				var total time.Duration
				for i := range runs {
					start := time.Now()
					if err := m.run(); err != nil {
						return cli.Exit(fmt.Sprintf("error: %s run %d: %v", m.name, i+1, err), 1)
					}
					d := time.Since(start)
					total += d
					r.best = min(r.best, d)
				}
				r.mean = total / time.Duration(runs)
				r.gflops = flops / r.best.Seconds() / 1e9
				results = append(results, r)
			}

			fmt.Println("=== Results ===")
			fmt.Printf("%-8s %12s %12s %10s\n", "Mode", "Best", "Mean", "GFLOP/s")
			for _, r := range results {
				fmt.Printf("%-8s %12s %12s %10.2f\n", r.name,
					r.best.Round(time.Microsecond), r.mean.Round(time.Microsecond), r.gflops)
			}
			return nil
		},
	}
}

// gemmModes builds batch independent n-by-n products and three ways of
// computing them: one after another on the host, enqueued one by one on the
// default stream, and as one batched call across the queue's sub-streams.
func gemmModes[T blas.Scalar](set *kernel.Set, q *stream.Queue, n, batch int) []benchMode {
	rng := rand.New(rand.NewPCG(42, uint64(n)))
	fill := func() []T {
		v := make([]T, n*n)
		for i := range v {
			v[i] = blas.FromParts[T](rng.Float64()-0.5, rng.Float64()-0.5)
		}
		return v
	}
	a := make([][]T, batch)
	b := make([][]T, batch)
	c := make([][]T, batch)
	for i := range batch {
		a[i], b[i], c[i] = fill(), fill(), make([]T, n*n)
	}

	ld := int64(n)
	one, zero := blas.FromFloat[T](1), blas.FromFloat[T](0)
	layout := set.Layout
	host := dispatch.Host(set)
	queued := dispatch.Queue(q)

	sequential := func(tg dispatch.Target) error {
		for i := range batch {
			if err := dispatch.Gemm(tg, layout, blas.NoTrans, blas.NoTrans, ld, ld, ld,
				one, a[i], ld, b[i], ld, zero, c[i], ld); err != nil {
				return err
			}
		}
		return nil
	}
	ops := []blas.Op{blas.NoTrans}
	dims := []int64{ld}
	return []benchMode{
		{name: "host", run: func() error { return sequential(host) }},
		{name: "queue", run: func() error {
			if err := sequential(queued); err != nil {
				return err
			}
			return q.Sync()
		}},
		{name: "batch", run: func() error {
			if err := dispatch.BatchGemm(q, layout, ops, ops, dims, dims, dims,
				[]T{one}, a, dims, b, dims, []T{zero}, c, dims, batch, nil); err != nil {
				return err
			}
			return q.Sync()
		}},
	}
}

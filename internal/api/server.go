// Package api serves a small JSON front end over the dispatch layer for
// blasq serve. Level-1 and gemm requests run on the host; batched requests
// get a queue of their own.
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/blasq/internal/dispatch"
	"github.com/samcharles93/blasq/internal/kernel"
	"github.com/samcharles93/blasq/internal/logger"
	"github.com/samcharles93/blasq/internal/stream"
	"github.com/samcharles93/blasq/internal/version"
	"github.com/samcharles93/blasq/pkg/blas"
)

const (
	// DefaultMaxBodyBytes bounds request bodies.
	DefaultMaxBodyBytes = 64 << 20
	// DefaultMaxBatchCount bounds batch_count in batched requests.
	DefaultMaxBatchCount = 1 << 16
)

type Config struct {
	// Kernels defaults to kernel.Default().
	Kernels *kernel.Set
	// Queue configures the queue of each batched request. Its Kernels and
	// Logger are taken from this Config.
	Queue         stream.Config
	Logger        logger.Logger
	MaxBodyBytes  int64
	MaxBatchCount int
}

type Server struct {
	cfg   Config
	host  dispatch.Target
	log   logger.Logger
	clock func() time.Time
}

func NewServer(cfg Config) (*Server, error) {
	if cfg.Kernels == nil {
		cfg.Kernels = kernel.Default()
	}
	if err := cfg.Kernels.Validate(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.MaxBatchCount <= 0 {
		cfg.MaxBatchCount = DefaultMaxBatchCount
	}
	cfg.Queue.Kernels = cfg.Kernels
	cfg.Queue.Logger = cfg.Logger
	// Surface a bad queue config at startup rather than on the first batch.
	q, err := stream.New(cfg.Queue)
	if err != nil {
		return nil, fmt.Errorf("queue config: %w", err)
	}
	cfg.Queue = q.Config()
	if err := q.Close(); err != nil {
		return nil, err
	}
	return &Server{
		cfg:   cfg,
		host:  dispatch.Host(cfg.Kernels),
		log:   cfg.Logger,
		clock: time.Now,
	}, nil
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/v1/info", s.handleInfo)
	e.POST("/v1/dot", s.handleDot)
	e.POST("/v1/axpy", s.handleAxpy)
	e.POST("/v1/gemm", s.handleGemm)
	e.POST("/v1/batch/gemm", s.handleBatchGemm)
}

func (s *Server) handleInfo(c *echo.Context) error {
	set := s.cfg.Kernels
	return c.JSON(http.StatusOK, InfoResponse{
		Version:    version.String(),
		Kernels:    set.Name,
		KernelSets: kernel.Available(),
		Layout:     set.Layout.String(),
		IntMax:     set.IntMax,
		ForkSize:   s.cfg.Queue.ForkSize,
		MaxStreams: s.cfg.Queue.MaxStreams,
		Devices:    stream.Devices(),
	})
}

func (s *Server) handleDot(c *echo.Context) error {
	req, err := decodeJSON[DotRequest](c.Request().Body, s.cfg.MaxBodyBytes)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	conj := req.Conj == nil || *req.Conj
	res, err := byPrecision(req.Precision,
		func() (float64, error) { return dot[float32](s.host, conj, &req) },
		func() (float64, error) { return dot[float64](s.host, conj, &req) })
	if err != nil {
		return s.fail(c, "dot", err)
	}
	return c.JSON(http.StatusOK, DotResponse{ID: newRequestID(), Result: res})
}

func (s *Server) handleAxpy(c *echo.Context) error {
	req, err := decodeJSON[AxpyRequest](c.Request().Body, s.cfg.MaxBodyBytes)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	y, err := byPrecision(req.Precision,
		func() ([]float64, error) { return axpy[float32](s.host, &req) },
		func() ([]float64, error) { return axpy[float64](s.host, &req) })
	if err != nil {
		return s.fail(c, "axpy", err)
	}
	return c.JSON(http.StatusOK, AxpyResponse{ID: newRequestID(), Y: y})
}

func (s *Server) handleGemm(c *echo.Context) error {
	req, err := decodeJSON[GemmRequest](c.Request().Body, s.cfg.MaxBodyBytes)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	start := s.clock()
	out, err := byPrecision(req.Precision,
		func() ([]float64, error) { return gemm[float32](s.host, &req) },
		func() ([]float64, error) { return gemm[float64](s.host, &req) })
	if err != nil {
		return s.fail(c, "gemm", err)
	}
	id := newRequestID()
	s.log.Debug("gemm served", "id", id, "m", req.M, "n", req.N, "k", req.K, "elapsed", s.clock().Sub(start))
	return c.JSON(http.StatusOK, GemmResponse{ID: id, C: out})
}

func (s *Server) handleBatchGemm(c *echo.Context) error {
	req, err := decodeJSON[BatchGemmRequest](c.Request().Body, s.cfg.MaxBodyBytes)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	// info is sized from the request, so the count is bounded before any
	// allocation. Negative counts are left to the dispatcher.
	if req.BatchCount > s.cfg.MaxBatchCount {
		return s.fail(c, "batch gemm", blas.NewInvalidArgument("gemm", "batch_count", 0,
			"%d exceeds the server limit %d", req.BatchCount, s.cfg.MaxBatchCount))
	}
	q, err := stream.New(s.cfg.Queue)
	if err != nil {
		return s.fail(c, "batch gemm", err)
	}
	defer func() { _ = q.Close() }()

	info := make([]int64, max(req.BatchCount, 0))
	out, err := byPrecision(req.Precision,
		func() ([][]float64, error) { return batchGemm[float32](q, &req, info) },
		func() ([][]float64, error) { return batchGemm[float64](q, &req, info) })
	if err != nil {
		return s.fail(c, "batch gemm", err)
	}
	return c.JSON(http.StatusOK, BatchGemmResponse{ID: newRequestID(), C: out, Info: info})
}

func (s *Server) fail(c *echo.Context, op string, err error) error {
	if blas.IsBackendFault(err) {
		s.log.Error("kernel fault", "op", op, "error", err)
	} else {
		s.log.Debug("request rejected", "op", op, "error", err)
	}
	return writeCallError(c, err)
}

func decodeJSON[T any](r io.Reader, limit int64) (T, error) {
	var out T
	dec := json.NewDecoder(io.LimitReader(r, limit))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return out, errors.New("empty request body")
		}
		return out, err
	}
	return out, nil
}

func newRequestID() string {
	return "req_" + uuid.NewString()
}

// byPrecision runs single for precision "s" and double for "d", the
// default. Values travel as JSON numbers either way.
func byPrecision[R any](precision string, single, double func() (R, error)) (R, error) {
	switch precision {
	case "s":
		return single()
	case "", "d":
		return double()
	}
	var zero R
	return zero, newInvalidRequest(fmt.Sprintf("unsupported precision %q (want s or d)", precision))
}

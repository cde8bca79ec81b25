// Package stream implements the execution queue that asynchronous and
// batched operations are enqueued on: a device selection, a default
// stream, and a pool of sub-streams entered with Fork and left with Join.
package stream

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/samcharles93/blasq/internal/kernel"
	"github.com/samcharles93/blasq/internal/logger"
	"github.com/samcharles93/blasq/pkg/blas"
)

// DefaultForkSize is the fork width batched calls use when the queue
// config leaves it unset.
const DefaultForkSize = 10

// Config is the explicit configuration of a Queue.
type Config struct {
	// Device selects the device, see Devices.
	Device int
	// ForkSize is the sub-stream count batched calls fork into. Zero means
	// DefaultForkSize, capped by an explicit MaxStreams.
	ForkSize int
	// MaxStreams bounds Fork. Zero means max(ForkSize, runtime.NumCPU()).
	MaxStreams int
	// Kernels defaults to kernel.Default().
	Kernels *kernel.Set
	// Logger defaults to logger.Nop().
	Logger logger.Logger
}

func (c Config) withDefaults() Config {
	if c.ForkSize == 0 {
		c.ForkSize = DefaultForkSize
		if c.MaxStreams > 0 {
			c.ForkSize = min(DefaultForkSize, c.MaxStreams)
		}
	}
	if c.MaxStreams == 0 {
		c.MaxStreams = max(c.ForkSize, runtime.NumCPU())
	}
	if c.Kernels == nil {
		c.Kernels = kernel.Default()
	}
	if c.Logger == nil {
		c.Logger = logger.Nop()
	}
	return c
}

// Validate checks a config after defaults are applied.
func (c Config) Validate() error {
	if _, err := DeviceByID(c.Device); err != nil {
		return err
	}
	if c.ForkSize < 1 {
		return fmt.Errorf("fork size %d must be positive", c.ForkSize)
	}
	if c.MaxStreams < c.ForkSize {
		return fmt.Errorf("max streams %d below fork size %d", c.MaxStreams, c.ForkSize)
	}
	return c.Kernels.Validate()
}

// State is the fork state of a queue.
type State uint8

const (
	Idle State = iota
	Forked
)

func (s State) String() string {
	if s == Forked {
		return "forked"
	}
	return "idle"
}

// Queue runs operations asynchronously on the host. While idle, work goes
// to the default stream. Fork(k) activates k sub-streams and routes work
// to the one selected by a round-robin cursor that Revolve advances; Join
// waits for them and returns to the default stream.
//
// A Queue is meant to be driven by one goroutine at a time. Its internal
// bookkeeping is locked but the fork state is shared by every caller.
type Queue struct {
	cfg    Config
	device Device
	log    logger.Logger

	mu     sync.Mutex
	def    *Stream
	subs   []*Stream // created on demand, reused across forks
	k      int       // active sub-streams, 0 when idle
	cursor int
	closed bool
}

// New creates a queue on the configured device.
func New(cfg Config) (*Queue, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dev, _ := DeviceByID(cfg.Device)
	q := &Queue{
		cfg:    cfg,
		device: dev,
		log:    cfg.Logger.With("device", dev.ID),
		def:    newStream(0),
	}
	q.log.Debug("queue created", "kernels", cfg.Kernels.Name, "fork_size", cfg.ForkSize, "max_streams", cfg.MaxStreams)
	return q, nil
}

func (q *Queue) Device() Device        { return q.device }
func (q *Queue) Kernels() *kernel.Set  { return q.cfg.Kernels }
func (q *Queue) ForkSize() int         { return q.cfg.ForkSize }
func (q *Queue) MaxStreams() int       { return q.cfg.MaxStreams }
func (q *Queue) Logger() logger.Logger { return q.log }
func (q *Queue) Config() Config        { return q.cfg }

// State reports whether the queue is forked.
func (q *Queue) State() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.k > 0 {
		return Forked
	}
	return Idle
}

// Cursor returns the index of the sub-stream the next operation goes to,
// and false while the queue is idle.
func (q *Queue) Cursor() (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.cursor, q.k > 0
}

// Width returns the number of active streams: k when forked, 1 otherwise.
func (q *Queue) Width() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return max(q.k, 1)
}

// Fork activates k sub-streams. Work already enqueued on the default
// stream completes before any sub-stream starts.
func (q *Queue) Fork(k int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return errQueueClosed
	}
	if q.k > 0 {
		return blas.NewInvalidArgument("fork", "k", 1, "queue already forked into %d streams", q.k)
	}
	if k < 1 || k > q.cfg.MaxStreams {
		return blas.NewInvalidArgument("fork", "k", 1, "%d not in [1, %d]", k, q.cfg.MaxStreams)
	}
	for len(q.subs) < k {
		q.subs = append(q.subs, newStream(len(q.subs)+1))
	}
	ev, err := q.def.Record()
	if err != nil {
		return err
	}
	for _, s := range q.subs[:k] {
		if err := s.WaitEvent(ev); err != nil {
			return err
		}
	}
	q.k = k
	q.cursor = 0
	q.log.Debug("queue forked", "streams", k)
	return nil
}

// Revolve moves the cursor to the next sub-stream. It does nothing while
// the queue is idle.
func (q *Queue) Revolve() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.k > 0 {
		q.cursor = (q.cursor + 1) % q.k
	}
}

// Join waits until every active sub-stream has drained, returns the queue
// to the default stream and reports the faults raised on the sub-streams.
// Joining an idle queue does nothing.
func (q *Queue) Join() error {
	q.mu.Lock()
	active := q.subs[:q.k]
	q.mu.Unlock()
	if len(active) == 0 {
		return nil
	}

	err := drain(active)

	q.mu.Lock()
	q.k = 0
	q.cursor = 0
	q.mu.Unlock()
	if err != nil {
		q.log.Warn("queue joined with faults", "streams", len(active), "error", err)
	} else {
		q.log.Debug("queue joined", "streams", len(active))
	}
	return err
}

// Sync blocks until all work on the active streams has completed and
// reports their faults. It does not change the fork state.
func (q *Queue) Sync() error {
	q.mu.Lock()
	streams := append([]*Stream{q.def}, q.subs[:q.k]...)
	q.mu.Unlock()
	return drain(streams)
}

// Enqueue submits task to the selected stream. It never blocks. The task's
// error is reported by the next Sync or Join.
func (q *Queue) Enqueue(task func() error) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return errQueueClosed
	}
	s := q.def
	if q.k > 0 {
		s = q.subs[q.cursor]
	}
	return s.Submit(task)
}

// Close joins, drains and stops every stream. The queue cannot be used
// afterwards.
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.mu.Unlock()

	err := errors.Join(q.Join(), q.Sync())

	q.mu.Lock()
	q.closed = true
	streams := append([]*Stream{q.def}, q.subs...)
	q.mu.Unlock()
	for _, s := range streams {
		err = errors.Join(err, s.Close())
	}
	q.log.Debug("queue closed")
	return err
}

var errQueueClosed = errors.New("queue closed")

func drain(streams []*Stream) error {
	errs := make([]error, len(streams))
	var wg sync.WaitGroup
	for i, s := range streams {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.Synchronize()
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}

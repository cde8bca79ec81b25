package stream

import (
	"errors"
	"fmt"
	"sync"
)

// Stream is an ordered sequence of tasks run by one worker goroutine.
// Tasks in one stream run in submission order; tasks in different streams
// may run concurrently. Submit never blocks.
type Stream struct {
	id int

	mu      sync.Mutex
	cond    *sync.Cond
	tasks   []func() error
	pending int   // submitted and not yet finished
	err     error // faults since the last Synchronize
	closed  bool
	done    chan struct{}
}

func newStream(id int) *Stream {
	s := &Stream{id: id, done: make(chan struct{})}
	s.cond = sync.NewCond(&s.mu)
	go s.worker()
	return s
}

// ID identifies the stream within its queue. The default stream is 0.
func (s *Stream) ID() int { return s.id }

func (s *Stream) worker() {
	defer close(s.done)
	for {
		s.mu.Lock()
		for len(s.tasks) == 0 && !s.closed {
			s.cond.Wait()
		}
		if len(s.tasks) == 0 {
			s.mu.Unlock()
			return
		}
		task := s.tasks[0]
		s.tasks[0] = nil
		s.tasks = s.tasks[1:]
		s.mu.Unlock()

		err := s.run(task)

		s.mu.Lock()
		if err != nil {
			s.err = errors.Join(s.err, err)
		}
		s.pending--
		s.cond.Broadcast()
		s.mu.Unlock()
	}
}

func (s *Stream) run(task func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("stream %d: task panicked: %v", s.id, rec)
		}
	}()
	return task()
}

var errClosed = errors.New("stream closed")

// Submit appends a task.
func (s *Stream) Submit(task func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	s.tasks = append(s.tasks, task)
	s.pending++
	s.cond.Broadcast()
	return nil
}

// Record returns an event that fires once every task submitted so far has
// finished.
func (s *Stream) Record() (<-chan struct{}, error) {
	ev := make(chan struct{})
	if err := s.Submit(func() error { close(ev); return nil }); err != nil {
		return nil, err
	}
	return ev, nil
}

// WaitEvent makes every later task on s wait for ev.
func (s *Stream) WaitEvent(ev <-chan struct{}) error {
	return s.Submit(func() error { <-ev; return nil })
}

// Synchronize blocks until the stream is drained and returns the faults
// recorded since the previous call.
func (s *Stream) Synchronize() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.pending > 0 {
		s.cond.Wait()
	}
	err := s.err
	s.err = nil
	return err
}

// Close drains the stream and stops its worker.
func (s *Stream) Close() error {
	err := s.Synchronize()
	s.mu.Lock()
	s.closed = true
	s.cond.Broadcast()
	s.mu.Unlock()
	<-s.done
	return err
}

// Package dispatch routes validated calls to kernels. Every operation runs
// the same pipeline: validate the call, rewrite it into the kernels'
// native storage order, narrow its sizes, then either call the kernel on
// the caller's goroutine or enqueue the call on a queue.
package dispatch

import (
	"github.com/samcharles93/blasq/internal/kernel"
	"github.com/samcharles93/blasq/internal/narrow"
	"github.com/samcharles93/blasq/internal/normalize"
	"github.com/samcharles93/blasq/internal/op"
	"github.com/samcharles93/blasq/internal/stream"
	"github.com/samcharles93/blasq/internal/validate"
	"github.com/samcharles93/blasq/pkg/blas"
)

// Target executes kernel calls.
type Target interface {
	Kernels() *kernel.Set
	// Submit runs fn or schedules it. The host target returns fn's error;
	// queue targets return only scheduling errors and report fn's error at
	// the next synchronization point.
	Submit(fn func() error) error
}

type hostTarget struct {
	set *kernel.Set
}

// Host returns a target calling kernels synchronously.
func Host(set *kernel.Set) Target { return hostTarget{set: set} }

func (h hostTarget) Kernels() *kernel.Set         { return h.set }
func (h hostTarget) Submit(fn func() error) error { return fn() }

type queueTarget struct {
	q *stream.Queue
}

// Queue returns a target enqueuing kernel calls on q.
func Queue(q *stream.Queue) Target { return queueTarget{q: q} }

func (t queueTarget) Submit(fn func() error) error { return t.q.Enqueue(fn) }

// Kernels returns nil for a nil queue; prepare turns that into an
// argument error.
func (t queueTarget) Kernels() *kernel.Set {
	if t.q == nil {
		return nil
	}
	return t.q.Kernels()
}

// prepare runs the checks shared by every operation and returns the
// descriptor in native order with its narrowed sizes.
func prepare(set *kernel.Set, d *op.Desc) (op.Desc, narrow.Native, error) {
	if set == nil {
		return op.Desc{}, narrow.Native{}, blas.NewInvalidArgument(d.OpName(), "queue", 0, "nil queue")
	}
	if err := validate.Check(d); err != nil {
		return op.Desc{}, narrow.Native{}, err
	}
	nd := normalize.To(set.Layout, *d)
	nat, err := narrow.Guard{Max: set.IntMax}.Desc(&nd)
	if err != nil {
		return op.Desc{}, narrow.Native{}, err
	}
	return nd, nat, nil
}

// routine is the conventional BLAS name of the kernel a descriptor reaches,
// e.g. "zher2k".
func routine(d *op.Desc, base string) string {
	return d.Elem.Prefix() + base
}

// Package blas holds the types shared by the blasq call surfaces: the
// storage and operand enumerations, the scalar domains, and the error
// taxonomy.
//
// Operations live in three subpackages:
//
//   - host: synchronous calls on the caller's goroutine
//   - device: asynchronous calls enqueued on a Queue
//   - batch: batched matrix-matrix calls riding on a Queue's fork/join
//
// Every operation accepts either storage order, validates its arguments
// before touching any array, and narrows 64-bit sizes to the kernel's
// native integer width.
package blas

package blas

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failed call.
type Kind uint8

const (
	// InvalidArgument is a bad enum value, negative dimension, insufficient
	// leading dimension or zero increment. Raised before any kernel call.
	InvalidArgument Kind = iota + 1
	// Overflow is a size that does not fit the kernel's native integer.
	Overflow
	// SizeMismatch is a batch parameter whose length is neither 1 nor the
	// batch count.
	SizeMismatch
	// BackendFault is a failure reported by the kernel itself.
	BackendFault
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrOverflow        = errors.New("integer overflow")
	ErrSizeMismatch    = errors.New("size mismatch")
	ErrBackendFault    = errors.New("backend fault")
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "InvalidArgument"
	case Overflow:
		return "Overflow"
	case SizeMismatch:
		return "SizeMismatch"
	case BackendFault:
		return "BackendFault"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

func (k Kind) sentinel() error {
	switch k {
	case InvalidArgument:
		return ErrInvalidArgument
	case Overflow:
		return ErrOverflow
	case SizeMismatch:
		return ErrSizeMismatch
	case BackendFault:
		return ErrBackendFault
	}
	return nil
}

// Error describes a failed call.
type Error struct {
	Kind  Kind
	Op    string // operation name, e.g. "gemm"
	Param string // offending parameter, empty for backend faults
	Pos   int    // 1-based argument position of Param, 0 when unknown
	Item  int    // batch item index, -1 outside batched calls
	Msg   string
	Err   error // underlying cause, e.g. the kernel's own failure
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("blasq: ")
	b.WriteString(e.Op)
	if e.Item >= 0 {
		fmt.Fprintf(&b, " item %d", e.Item)
	}
	b.WriteString(": ")
	b.WriteString(e.Kind.sentinel().Error())
	if e.Param != "" {
		fmt.Fprintf(&b, " %s", e.Param)
		if e.Pos > 0 {
			fmt.Fprintf(&b, " (arg %d)", e.Pos)
		}
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// Status is the LAPACK-style status code of the error: the negated
// argument position for argument errors, or -1 when no position applies.
func (e *Error) Status() int64 {
	if e.Pos > 0 {
		return -int64(e.Pos)
	}
	return -1
}

// AtItem returns a copy of e attributed to batch item i.
func (e *Error) AtItem(i int) *Error {
	c := *e
	c.Item = i
	return &c
}

func NewInvalidArgument(op, param string, pos int, format string, args ...any) *Error {
	return &Error{Kind: InvalidArgument, Op: op, Param: param, Pos: pos, Item: -1, Msg: fmt.Sprintf(format, args...)}
}

func NewOverflow(op, param string, value, max int64) *Error {
	return &Error{Kind: Overflow, Op: op, Param: param, Item: -1,
		Msg: fmt.Sprintf("%d exceeds native integer maximum %d", value, max)}
}

func NewSizeMismatch(op, param string, size, count int) *Error {
	return &Error{Kind: SizeMismatch, Op: op, Param: param, Item: -1,
		Msg: fmt.Sprintf("size %d, want 1 or batch count %d", size, count)}
}

// NewBackendFault wraps a failure raised by a kernel. A recovered panic
// value that is not an error is kept verbatim in the message.
func NewBackendFault(op string, cause any) *Error {
	e := &Error{Kind: BackendFault, Op: op, Item: -1}
	switch v := cause.(type) {
	case nil:
	case error:
		e.Err = v
	default:
		e.Err = fmt.Errorf("%v", v)
	}
	return e
}

func kindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsInvalidArgument(err error) bool { return kindOf(err) == InvalidArgument }
func IsOverflow(err error) bool        { return kindOf(err) == Overflow }
func IsSizeMismatch(err error) bool    { return kindOf(err) == SizeMismatch }
func IsBackendFault(err error) bool    { return kindOf(err) == BackendFault }

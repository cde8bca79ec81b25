package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/blasq/pkg/blas"
)

var ErrInvalidRequest = errors.New("invalid_request")

type invalidRequestError struct {
	msg string
}

func (e invalidRequestError) Error() string {
	return e.msg
}

func (e invalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

func newInvalidRequest(msg string) error {
	return invalidRequestError{msg: msg}
}

// ErrorBody is the payload of every non-2xx response.
type ErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Param   string `json:"param,omitempty"`
	Code    int64  `json:"code,omitempty"`
	Item    *int   `json:"item,omitempty"`
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, ErrorBody{Message: msg, Type: "invalid_request_error"})
}

func writeError(c *echo.Context, status int, body ErrorBody) error {
	return c.JSON(status, map[string]any{"error": body})
}

// writeCallError maps the BLAS error taxonomy onto HTTP: caller mistakes
// are 400, kernel faults 500.
func writeCallError(c *echo.Context, err error) error {
	var invalid invalidRequestError
	if errors.As(err, &invalid) {
		return writeBadRequest(c, invalid.msg)
	}
	var e *blas.Error
	if !errors.As(err, &e) {
		return writeError(c, http.StatusInternalServerError, ErrorBody{Message: err.Error(), Type: "server_error"})
	}
	body := ErrorBody{Message: err.Error(), Param: e.Param}
	if e.Item >= 0 {
		item := e.Item
		body.Item = &item
	}
	status := http.StatusBadRequest
	switch e.Kind {
	case blas.InvalidArgument:
		body.Type = "invalid_argument"
		body.Code = e.Status()
	case blas.Overflow:
		body.Type = "overflow"
	case blas.SizeMismatch:
		body.Type = "size_mismatch"
	default:
		body.Type = "backend_fault"
		status = http.StatusInternalServerError
	}
	return writeError(c, status, body)
}

// Package errs provides the error type returned by bridge handlers.
package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"

	"github.com/jrazmi/taskboard/core/repositories"
	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
)

// ErrCode represents an error code in the system.
type ErrCode struct {
	value int
}

// Value returns the integer value of the error code.
func (ec ErrCode) Value() int {
	return ec.value
}

// String returns the string representation of the error code.
func (ec ErrCode) String() string {
	return codeNames[ec]
}

// MarshalText implements the encoding.TextMarshaler interface.
func (ec ErrCode) MarshalText() ([]byte, error) {
	return []byte(ec.String()), nil
}

// Error codes understood by the bridge.
var (
	OK                 = ErrCode{value: 0}
	InvalidArgument    = ErrCode{value: 1}
	NotFound           = ErrCode{value: 2}
	Unavailable        = ErrCode{value: 3}
	BadUpstream        = ErrCode{value: 4}
	Canceled           = ErrCode{value: 5}
	Internal           = ErrCode{value: 6}
	InternalOnlyLog    = ErrCode{value: 7}
	FailedPrecondition = ErrCode{value: 8}
)

var codeNames = map[ErrCode]string{
	OK:                 "ok",
	InvalidArgument:    "invalid_argument",
	NotFound:           "not_found",
	Unavailable:        "unavailable",
	BadUpstream:        "bad_upstream",
	Canceled:           "canceled",
	Internal:           "internal",
	InternalOnlyLog:    "internal_only_log",
	FailedPrecondition: "failed_precondition",
}

var httpStatus = map[ErrCode]int{
	OK:                 http.StatusOK,
	InvalidArgument:    http.StatusBadRequest,
	NotFound:           http.StatusNotFound,
	Unavailable:        http.StatusServiceUnavailable,
	BadUpstream:        http.StatusBadGateway,
	Canceled:           499,
	Internal:           http.StatusInternalServerError,
	InternalOnlyLog:    http.StatusInternalServerError,
	FailedPrecondition: http.StatusConflict,
}

// Error represents an error in the system.
type Error struct {
	Code     ErrCode `json:"code"`
	Message  string  `json:"message"`
	FuncName string  `json:"-"`
	FileName string  `json:"-"`
}

// New constructs an error based on an app error.
func New(code ErrCode, err error) *Error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  err.Error(),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// Newf constructs an error based on an error message.
func Newf(code ErrCode, format string, v ...any) *Error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  fmt.Sprintf(format, v...),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// FromError maps a repository or store error onto an Error. Network
// failures are unavailable, malformed fixtures are a bad upstream, missing
// references are not found and invalid input is an invalid argument.
func FromError(err error) *Error {
	pc, filename, line, _ := runtime.Caller(1)

	code := Internal
	switch {
	case errors.Is(err, tasksrepo.ErrNetwork):
		code = Unavailable
	case errors.Is(err, tasksrepo.ErrDataFormat):
		code = BadUpstream
	case errors.Is(err, repositories.ErrNotFound):
		code = NotFound
	case errors.Is(err, repositories.ErrInvalidInput):
		code = InvalidArgument
	}

	return &Error{
		Code:     code,
		Message:  userMessage(err),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// userMessage prefers the message of the typed repository error over the
// wrapping chain.
func userMessage(err error) string {
	var netErr *tasksrepo.NetworkError
	if errors.As(err, &netErr) {
		return netErr.Error()
	}
	var fmtErr *tasksrepo.DataFormatError
	if errors.As(err, &fmtErr) {
		return fmtErr.Error()
	}
	var nfErr *tasksrepo.NotFoundError
	if errors.As(err, &nfErr) {
		return nfErr.Error()
	}
	var fieldErr *repositories.FieldError
	if errors.As(err, &fieldErr) {
		return fieldErr.Error()
	}
	return err.Error()
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Encode implements the encoder interface.
func (e *Error) Encode() ([]byte, string, error) {
	data, err := json.Marshal(e)
	return data, "application/json", err
}

// HTTPStatus implements the web package httpStatus interface so the
// web package can set the status code.
func (e *Error) HTTPStatus() int {
	if status, ok := httpStatus[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Equal provides support for the go-cmp package and testing.
func (e *Error) Equal(e2 *Error) bool {
	return e.Code == e2.Code && e.Message == e2.Message
}

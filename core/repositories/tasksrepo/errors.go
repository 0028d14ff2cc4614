package tasksrepo

import (
	"errors"
	"fmt"

	"github.com/jrazmi/taskboard/core/repositories"
)

var (
	// ErrNetwork matches every *NetworkError.
	ErrNetwork = errors.New("network error")

	// ErrDataFormat matches every *DataFormatError.
	ErrDataFormat = errors.New("data format error")

	// ErrFixtureNotFound is returned by a Storer that has no fixture to serve.
	ErrFixtureNotFound = errors.New("fixture not found")
)

// NetworkError is a transient failure: simulated, or the fixture could not be
// fetched. Message is the user facing text.
type NetworkError struct {
	Op      Operation
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	return e.Message
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// DataFormatError reports a missing, empty or structurally invalid fixture.
type DataFormatError struct {
	Message string
	Err     error
}

func (e *DataFormatError) Error() string {
	return e.Message
}

func (e *DataFormatError) Unwrap() error {
	return e.Err
}

func (e *DataFormatError) Is(target error) bool {
	return target == ErrDataFormat
}

// NotFoundError reports a reference that could not be resolved.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == repositories.ErrNotFound
}

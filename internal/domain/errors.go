package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrParse marks upstream HTML or JSON that lacks an expected element or attribute.
	ErrParse = errors.New("parse error")

	// ErrSchema marks a table whose shape matches no known layout.
	ErrSchema = errors.New("schema error")

	// ErrNotFound marks a lookup miss in a registry or loaded table.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput marks caller input that can never succeed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnclassifiedCell marks a cell that is neither a known missing token
	// nor a parseable reading.
	ErrUnclassifiedCell = fmt.Errorf("%w: unclassified cell", ErrParse)
)

// FetchError reports a failed upstream request. Fetches are never retried.
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

package client

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is returned before any request when a write needs a
// signed-in session and there is none.
var ErrUnauthenticated = errors.New("you must be signed in")

// BackendError is a non-2xx answer from the server.
type BackendError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error %d: %s", e.Status, e.Message)
}

// RelayError is a failed contact relay.
type RelayError struct {
	Status  int
	Message string
}

func (e *RelayError) Error() string {
	return fmt.Sprintf("contact relay failed (%d): %s", e.Status, e.Message)
}

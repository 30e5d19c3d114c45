package remote

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParent is returned by CreateCollection when the parent page
	// id is absent, before any HTTP call is attempted.
	ErrInvalidParent = errors.New("parent page is missing or inaccessible")
)

// APIError carries a non-success status from the store with the remote
// message passed through verbatim. The client never retries on its own;
// retrying is a caller decision.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote rejected request: status %d", e.Status)
	}
	return fmt.Sprintf("remote rejected request (%d): %s", e.Status, e.Message)
}

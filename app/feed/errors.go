package feed

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedFeed indicates the provider document is missing the
	// expected shape after normalization, or a listing id does not parse.
	ErrMalformedFeed = errors.New("malformed feed")

	// ErrRefreshInProgress indicates another refresh currently holds the
	// merge lock. Callers may retry later.
	ErrRefreshInProgress = errors.New("refresh already in progress")
)

// FetchError wraps a transport failure from the provider client so callers
// can tell it apart from shape and storage failures.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch feed: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

package directory

import (
	"errors"
	"fmt"
)

var (
	ErrPersonNotFound = errors.New("person not found")
	ErrNotActionable  = errors.New("location is not actionable")
)

// DataFetchError reports a roster store failure.
type DataFetchError struct {
	Err error
}

func (e *DataFetchError) Error() string {
	return fmt.Sprintf("failed to fetch roster: %v", e.Err)
}

func (e *DataFetchError) Unwrap() error {
	return e.Err
}

// MapFetchError reports a floor map that could not be fetched or parsed.
type MapFetchError struct {
	FloorID string
	URL     string
	Err     error
}

func (e *MapFetchError) Error() string {
	return fmt.Sprintf("failed to load floor map %s (%s): %v", e.FloorID, e.URL, e.Err)
}

func (e *MapFetchError) Unwrap() error {
	return e.Err
}

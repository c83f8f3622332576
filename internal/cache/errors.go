package cache

import "fmt"

// ReadError marks a store-level failure on the read path. Distinct from
// absence, which simply means "not yet enriched": polling clients must never
// mistake an infrastructure fault for "still working".
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("cache read failed: %v", e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// WriteError marks a store-level failure on the write path.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cache write failed: %v", e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

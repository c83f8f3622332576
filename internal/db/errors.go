package db

import "errors"

// Domain-level database error sentinels.
var (
	// Discovery queue errors
	ErrItemNotFound = errors.New("discovery item not found")
)

package repositories

import "errors"

// ErrNotFound is wrapped by every repository when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrStaleStatus is returned by a conditional status update when the stored
// status no longer matches the one the caller read.
var ErrStaleStatus = errors.New("order status changed concurrently")

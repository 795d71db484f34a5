// Package repository defines errors shared by the storage implementations.
package repository

import "errors"

// ErrSnapshotNotFound is returned when no snapshot has been stored yet for
// the requested location.
var ErrSnapshotNotFound = errors.New("snapshot not found")

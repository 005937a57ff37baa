// Package ports holds the errors shared by every outbound adapter. The
// subpackages define the per-entity ports.
package ports

import "errors"

// ErrNotFound is returned by repositories when no row matches.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a write violates a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

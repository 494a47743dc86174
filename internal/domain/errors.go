package domain

import "errors"

// ErrCapacity is returned by Tree.Insert once the arena bound is reached.
// Totals aggregated before the bound was hit remain valid; callers stop
// admitting new entries and report the partial result.
var ErrCapacity = errors.New("node arena capacity exhausted")

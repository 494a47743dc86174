package services

import (
	"time"

	"duskfs/internal/domain"
)

// ScanStats summarizes one completed aggregation pass. Per-entry errors are
// data, not failures: the tree remains fully usable alongside them.
type ScanStats struct {
	EntriesSeen     int64
	ErrorCount      int64
	ErrorSamples    []string
	CapacityReached bool
	Duration        time.Duration
}

// ScanProgress is the non-blocking feed the rendering collaborator polls
// while a scan is running.
type ScanProgress struct {
	Current    string
	Seen       int64
	ErrorCount int64
	Completed  bool
}

// DeleteResult reports one target's outcome. Failures are isolated: one
// failed target never aborts the rest of the batch.
type DeleteResult struct {
	Index    domain.NodeIndex
	Path     string
	Err      error
	ErrCount int
}

package services

import "duskfs/internal/domain"

// ScanRequest configures one traversal-and-aggregation pass.
type ScanRequest struct {
	// Roots are the top-level paths to scan, validated to exist before the
	// walk starts. Multiple roots are unified under the virtual root.
	Roots []string
	// DedupHardLinks counts each distinct (device, inode) allocation once.
	DedupHardLinks bool
	// Capacity bounds the node arena; 0 means the index type's maximum.
	Capacity uint32
	// Workers overrides the traversal worker pool size; 0 means available
	// parallelism.
	Workers int
	// Progress, when non-nil, receives updates during the walk. Sends are
	// non-blocking and the scanner closes the channel when the scan ends, so
	// the channel must be dedicated to one scan.
	Progress chan ScanProgress
}

type DeleteMode string

const (
	DeleteModeTrash     DeleteMode = "trash"
	DeleteModePermanent DeleteMode = "permanent"
)

// DeleteRequest names the confirmed targets of one staged deletion batch.
// The mode is supplied at deletion time, not scan time.
type DeleteRequest struct {
	Targets []domain.NodeIndex
	Mode    DeleteMode
}

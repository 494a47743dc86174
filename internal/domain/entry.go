package domain

// Entry is one raw fact reported by the scanner: metadata for a single
// filesystem item, read with lstat semantics. Entries are ephemeral; the
// aggregator folds each one into the tree and discards it.
type Entry struct {
	Path      string
	Size      int64
	DiskUsage int64
	Dev       uint64
	Inode     uint64
	Nlink     uint64
	IsDir     bool
	IsSymlink bool
	Err       error
}

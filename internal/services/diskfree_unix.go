//go:build !windows

package services

import "golang.org/x/sys/unix"

// DiskSpace describes the filesystem holding a scanned path.
type DiskSpace struct {
	TotalBytes int64
	FreeBytes  int64
}

// FreeSpace reports capacity of the filesystem containing path.
func FreeSpace(path string) (DiskSpace, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return DiskSpace{}, err
	}
	return DiskSpace{
		TotalBytes: int64(stat.Blocks) * int64(stat.Bsize),
		FreeBytes:  int64(stat.Bavail) * int64(stat.Bsize),
	}, nil
}

//go:build windows

package services

import "io/fs"

type statInfo struct {
	dev       uint64
	inode     uint64
	nlink     uint64
	diskUsage int64
}

// getStatInfo has no block or inode data to report on Windows; apparent size
// stands in for disk usage and hard-link identity is unavailable.
func getStatInfo(info fs.FileInfo) statInfo {
	return statInfo{diskUsage: info.Size()}
}

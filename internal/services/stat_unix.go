//go:build !windows

package services

import (
	"io/fs"
	"syscall"
)

// statInfo carries the platform fields the aggregator needs: identity for
// hard-link detection and block-rounded occupancy.
type statInfo struct {
	dev       uint64
	inode     uint64
	nlink     uint64
	diskUsage int64
}

// getStatInfo extracts device, inode, link count, and disk usage from file
// info. Disk usage is st_blocks in 512-byte units regardless of the
// filesystem block size.
func getStatInfo(info fs.FileInfo) statInfo {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return statInfo{diskUsage: info.Size()}
	}
	return statInfo{
		dev:       uint64(stat.Dev),
		inode:     stat.Ino,
		nlink:     uint64(stat.Nlink),
		diskUsage: stat.Blocks * 512,
	}
}

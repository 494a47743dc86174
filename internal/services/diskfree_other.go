//go:build windows

package services

import "errors"

type DiskSpace struct {
	TotalBytes int64
	FreeBytes  int64
}

func FreeSpace(path string) (DiskSpace, error) {
	return DiskSpace{}, errors.New("free space probe not supported on this platform")
}

package ui

import (
	"duskfs/internal/domain"
	"duskfs/internal/services"
)

type scanDoneMsg struct {
	tree  *domain.Tree
	stats services.ScanStats
	err   error
}

type scanProgressMsg struct {
	progress services.ScanProgress
}

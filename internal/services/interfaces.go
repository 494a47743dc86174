package services

import "duskfs/internal/domain"

type Scanner interface {
	Scan(req ScanRequest) (*domain.Tree, ScanStats, error)
}

type Deleter interface {
	Delete(tree *domain.Tree, req DeleteRequest) []DeleteResult
}

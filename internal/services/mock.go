package services

import "duskfs/internal/domain"

// MockDeleter records requests and reports success without touching the
// filesystem, while still applying the graph bookkeeping a real deletion
// would. Used to exercise the staged-deletion flow in tests.
type MockDeleter struct {
	Requests []DeleteRequest
}

func NewMockDeleter() *MockDeleter {
	return &MockDeleter{}
}

func (deleter *MockDeleter) Delete(tree *domain.Tree, req DeleteRequest) []DeleteResult {
	deleter.Requests = append(deleter.Requests, req)
	results := make([]DeleteResult, 0, len(req.Targets))
	for _, target := range req.Targets {
		results = append(results, DeleteResult{Index: target, Path: tree.PathOf(target)})
		tree.ZeroAndDetach(target)
	}
	return results
}

package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"duskfs/internal/domain"
	"duskfs/internal/logging"
)

// ErrVanished marks a target that disappeared between marking and deletion.
var ErrVanished = errors.New("target vanished before deletion")

// FSDeleter executes confirmed removals against the live filesystem. Each
// target is attempted independently and processed sequentially; one failure
// never aborts the rest of the batch.
type FSDeleter struct {
	trash *TrashBin
}

func NewFSDeleter() *FSDeleter {
	return &FSDeleter{trash: NewTrashBin("")}
}

// Delete removes each target with symlink-safe semantics and, on success,
// instructs the tree to zero and detach the node so every ancestor total
// shrinks by exactly the target's size without a rescan.
func (deleter *FSDeleter) Delete(tree *domain.Tree, req DeleteRequest) []DeleteResult {
	results := make([]DeleteResult, 0, len(req.Targets))
	for _, target := range req.Targets {
		result := DeleteResult{Index: target, Path: tree.PathOf(target)}
		switch req.Mode {
		case DeleteModeTrash:
			result.Err = deleter.trash.Move(result.Path)
			if result.Err != nil {
				result.ErrCount = 1
			}
		default:
			result.ErrCount, result.Err = removeTree(result.Path)
		}
		if result.Err == nil {
			tree.ZeroAndDetach(target)
		} else {
			logging.L().Warn("deletion failed",
				zap.String("path", result.Path),
				zap.String("mode", string(req.Mode)),
				zap.Error(result.Err),
			)
		}
		results = append(results, result)
	}
	return results
}

// removeTree deletes path permanently. If path is a symbolic link only the
// link is removed, never its referent. Directory removal walks bottom-up
// without following symlinks, so a link to a directory elsewhere on disk can
// never cause deletion outside the subtree rooted at path. Returns the
// number of entries that could not be removed and the first such error.
func removeTree(path string) (int, error) {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 1, fmt.Errorf("%s: %w", path, ErrVanished)
		}
		return 1, err
	}
	if info.Mode()&os.ModeSymlink != 0 || !info.IsDir() {
		if err := os.Remove(path); err != nil {
			return 1, err
		}
		return 0, nil
	}

	var failed int
	var firstErr error
	record := func(err error) {
		failed++
		if firstErr == nil {
			firstErr = err
		}
	}

	var dirs []string
	walkErr := filepath.WalkDir(path, func(child string, entry fs.DirEntry, err error) error {
		if err != nil {
			record(err)
			return nil
		}
		// WalkDir reports symlinks as non-directories, so links inside the
		// subtree are unlinked here without traversal.
		if entry.IsDir() {
			dirs = append(dirs, child)
			return nil
		}
		if err := os.Remove(child); err != nil {
			record(err)
		}
		return nil
	})
	if walkErr != nil {
		record(walkErr)
	}
	for position := len(dirs) - 1; position >= 0; position-- {
		if err := os.Remove(dirs[position]); err != nil {
			record(err)
		}
	}
	return failed, firstErr
}

package services

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// ErrTrashUnavailable marks a trash move that failed because the trash
// directory could not be created or written.
var ErrTrashUnavailable = errors.New("trash backend unavailable")

// ErrCrossDevice marks a trash move across filesystem boundaries. Moving to
// trash is a rename, never a copy, so a target on another device is reported
// instead of silently duplicated.
var ErrCrossDevice = errors.New("target is on a different device than the trash directory")

// TrashBin moves targets into the freedesktop trash layout: renamed into
// files/ with a .trashinfo record in info/ so desktop tools can restore them.
type TrashBin struct {
	root string
}

// NewTrashBin returns a bin rooted at root, or at the XDG default
// ($XDG_DATA_HOME/Trash, falling back to ~/.local/share/Trash) when root is
// empty.
func NewTrashBin(root string) *TrashBin {
	if root == "" {
		if data := os.Getenv("XDG_DATA_HOME"); data != "" {
			root = filepath.Join(data, "Trash")
		} else if home, err := os.UserHomeDir(); err == nil {
			root = filepath.Join(home, ".local", "share", "Trash")
		} else {
			root = filepath.Join(os.TempDir(), "Trash")
		}
	}
	return &TrashBin{root: root}
}

// Move renames path into the bin. The rename keeps the operation atomic and
// cheap; EXDEV surfaces as ErrCrossDevice rather than falling back to a
// recursive copy.
func (bin *TrashBin) Move(path string) error {
	filesDir := filepath.Join(bin.root, "files")
	infoDir := filepath.Join(bin.root, "info")
	if err := os.MkdirAll(filesDir, 0o700); err != nil {
		return fmt.Errorf("%w: %v", ErrTrashUnavailable, err)
	}
	if err := os.MkdirAll(infoDir, 0o700); err != nil {
		return fmt.Errorf("%w: %v", ErrTrashUnavailable, err)
	}

	name := uniqueTrashName(filesDir, filepath.Base(path))
	target := filepath.Join(filesDir, name)
	if err := os.Rename(path, target); err != nil {
		if isCrossDevice(err) {
			return fmt.Errorf("%s: %w", path, ErrCrossDevice)
		}
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", path, ErrVanished)
		}
		return err
	}

	info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n", escapeTrashPath(path), time.Now().Format("2006-01-02T15:04:05"))
	if err := os.WriteFile(filepath.Join(infoDir, name+".trashinfo"), []byte(info), 0o600); err != nil {
		// The payload is already in the bin; a missing info record only
		// degrades restore metadata.
		return nil
	}
	return nil
}

// escapeTrashPath URL-escapes each path segment so restore tools parse names
// with spaces or percent signs correctly. Separators stay literal.
func escapeTrashPath(path string) string {
	segments := strings.Split(filepath.ToSlash(path), "/")
	for position, segment := range segments {
		segments[position] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

func uniqueTrashName(dir, base string) string {
	name := base
	for counter := 2; ; counter++ {
		if _, err := os.Lstat(filepath.Join(dir, name)); os.IsNotExist(err) {
			return name
		}
		name = fmt.Sprintf("%s.%d", base, counter)
	}
}

func isCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}

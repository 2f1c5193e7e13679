package measurement

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/climate-data-etl/internal/domain"
)

// ListEntries returns the entries of dir sorted by file name, so the order
// station files are concatenated in is reproducible across platforms.
// Symlinks are resolved when deciding whether an entry is a directory.
func (r *Reader) ListEntries(dir string) ([]domain.FolderEntry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	entries := make([]domain.FolderEntry, 0, len(des))
	for _, de := range des {
		path := filepath.Join(dir, de.Name())
		isDir := de.IsDir()
		if de.Type()&os.ModeSymlink != 0 {
			if info, err := os.Stat(path); err == nil {
				isDir = info.IsDir()
			}
		}
		entries = append(entries, domain.FolderEntry{Name: de.Name(), Path: path, IsDir: isDir})
	}
	return entries, nil
}

// IsDir reports whether path exists and is a directory.
func (r *Reader) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

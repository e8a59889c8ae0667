// Package fileops provides the filesystem mutations used by a rename run.
//
// Two implementations exist:
//   - OS performs every operation on disk.
//   - DryRun records operations in a journal and serves reads as if they had
//     been applied, leaving the disk untouched.
//
// All paths are OS paths; callers join them with the project root.
package fileops

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FileOps is the set of filesystem primitives a rename run needs.
type FileOps interface {
	Move(src, dst string) error
	CopyRecursive(src, dst string) error
	RemoveRecursive(path string) error
	MakeDir(path string) error
	WriteFile(path string, data []byte) error
	ReadFile(path string) ([]byte, error)
	Exists(path string) bool
	// ReadDir lists the names of the entries in dir.
	ReadDir(dir string) ([]string, error)
}

// ErrDestinationExists is returned by Move when dst is already present.
var ErrDestinationExists = errors.New("destination already exists")

// OS implements FileOps on the local filesystem.
type OS struct{}

// Move renames src to dst. Parent directories of dst must exist. When a
// plain rename fails across devices, it falls back to copy and remove.
func (OS) Move(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("move %s: %w: %s", src, ErrDestinationExists, dst)
	}
	if err := os.Rename(src, dst); err != nil {
		var linkErr *os.LinkError
		if !errors.As(err, &linkErr) || !isCrossDevice(linkErr) {
			return fmt.Errorf("move %s: %w", src, err)
		}
		if err := copyTree(src, dst); err != nil {
			return fmt.Errorf("move %s: %w", src, err)
		}
		return os.RemoveAll(src)
	}
	return nil
}

// CopyRecursive copies a file or a directory tree to dst, creating parents.
func (OS) CopyRecursive(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	if err := copyTree(src, dst); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return nil
}

// RemoveRecursive removes path and everything below it. A missing path is
// not an error.
func (OS) RemoveRecursive(path string) error {
	return os.RemoveAll(path)
}

// MakeDir creates path and any missing parents.
func (OS) MakeDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

// WriteFile replaces path atomically, keeping the existing file mode.
func (OS) WriteFile(path string, data []byte) error {
	return writeAtomic(path, data, 0)
}

func (OS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (OS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OS) ReadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

func copyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return copyFile(src, dst, info.Mode().Perm())
	}
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		return copyFile(p, target, fi.Mode().Perm())
	})
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// Package filex holds the whole-file helpers used for vault and config
// files: atomic replace-on-write, buffered whole-file reads and parent
// directory checks.
package filex

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/gophvault/internal/common"
)

const defaultChunk = 16 * 1024

// EnsureDir creates dir (and parents) with owner-only permissions. It fails
// if a non-directory already exists at that path.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// CheckParentDir reports common.ErrParentDirNotFound unless the directory
// that would contain path exists. It never creates anything.
func CheckParentDir(path string) error {
	dir := filepath.Dir(path)
	fi, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", common.ErrParentDirNotFound, dir)
		}
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", common.ErrParentDirNotFound, dir)
	}
	return nil
}

// Exists reports whether anything exists at path.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// WriteFileAtomic writes data to a temporary file next to path, syncs it and
// renames it over path. Readers see either the old file or the new one,
// never a partial write. chunk is the write buffer size in bytes.
func WriteFileAtomic(path string, data []byte, perm os.FileMode, chunk int) (err error) {
	if chunk <= 0 {
		chunk = defaultChunk
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	w := bufio.NewWriterSize(tmp, chunk)
	if _, err = w.Write(data); err != nil {
		return fmt.Errorf("write temp: %w", err)
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("flush temp: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err = os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// ReadFile reads the whole file through a buffer of chunk bytes.
func ReadFile(path string, chunk int) ([]byte, error) {
	if chunk <= 0 {
		chunk = defaultChunk
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(bufio.NewReaderSize(f, chunk))
}

package collector

import (
	"fmt"
	"os"
	"path/filepath"
)

type renameFunc func(oldpath, newpath string) error

// writeFileAtomic replaces path with data through <path>.tmp. Until the final
// rename succeeds the previous content of path is untouched; on any failure
// the temp file is removed.
func writeFileAtomic(path string, data []byte, mode os.FileMode, rename renameFunc) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmpFile := path + ".tmp"
	file, err := os.OpenFile(tmpFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	if err = rename(tmpFile, path); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("rename %s: %w", tmpFile, err)
	}
	return nil
}

package executor

import (
	"fmt"
	"io"
	"os"
)

// copyFile copies src to dst, preserving the source's permission bits.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source file: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source file: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create destination file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("close destination file: %w", err)
	}
	return nil
}

// moveFile renames src to dst. When the rename fails (typically a
// cross-filesystem move), it falls back to copy-then-delete; the source
// is only removed after the copy landed, and a failed removal is a
// warning rather than a failure.
func moveFile(src, dst string) (warn, err error) {
	if err := os.Rename(src, dst); err == nil {
		return nil, nil
	}

	if err := copyFile(src, dst); err != nil {
		return nil, err
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("copied but failed to delete source: %w", err), nil
	}
	return nil, nil
}

package util

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/edsrzf/mmap-go"
)

// ReadSource returns the contents of a stylesheet or markup file.
//
// Files are memory-mapped and copied out so the mapping can be released
// immediately; if mmap fails (special files, some network mounts) the
// file is read with os.ReadFile instead.
func ReadSource(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %q: %w", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat %q: %w", path, err)
	}
	if stat.IsDir() {
		return "", fmt.Errorf("%q is a directory", path)
	}
	// Can't mmap zero bytes.
	if stat.Size() == 0 {
		return "", nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		slog.Debug("mmap failed, falling back to ReadFile", "path", path, "error", err)
		data, rerr := os.ReadFile(path)
		if rerr != nil {
			return "", fmt.Errorf("failed to read %q: %w", path, rerr)
		}
		return string(data), nil
	}
	defer m.Unmap()

	return string(m), nil
}

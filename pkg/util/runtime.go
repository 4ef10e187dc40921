package util

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
)

// ErrNoRuntime is returned when neither bun nor node is available.
var ErrNoRuntime = errors.New("no node or bun runtime found on PATH")

// FindNodeRuntime searches for a JavaScript runtime on the PATH.
// Prefers bun over node for startup time.
func FindNodeRuntime() (string, bool) {
	for _, rt := range []string{"bun", "node"} {
		if p, err := exec.LookPath(rt); err == nil {
			return p, true
		}
	}
	return "", false
}

// ResolveRuntime returns explicit when set, otherwise the runtime found by
// FindNodeRuntime.
func ResolveRuntime(explicit string) (string, error) {
	if explicit != "" {
		p, err := exec.LookPath(explicit)
		if err != nil {
			return "", err
		}
		return p, nil
	}
	if p, ok := FindNodeRuntime(); ok {
		return p, nil
	}
	return "", ErrNoRuntime
}

// FindProjectRoot walks up from dir looking for package.json. Workers
// resolve tailwindcss and playwright from that directory's node_modules.
// Falls back to dir itself if no package.json is found.
func FindProjectRoot(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}

	orig := dir
	for {
		if _, err := os.Stat(filepath.Join(dir, "package.json")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return orig
}

// HasNodeModules reports whether dir contains a node_modules directory.
func HasNodeModules(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, "node_modules"))
	return err == nil && info.IsDir()
}

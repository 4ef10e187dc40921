package util

import "runtime"

const (
	minPoolSize = 4
	maxPoolSize = 32
)

// GetOptimalPoolSize returns the worker count for CPU-bound batch work
// such as converting many stylesheets or parsing markup files.
//
// Formula: min(max(runtime.NumCPU() * 2, 4), 32)
//
// The tree-sitter markup parsers spend most of their time in CGO, so two
// workers per core keep the cores busy while a call is blocked.
func GetOptimalPoolSize() int {
	return min(max(runtime.NumCPU()*2, minPoolSize), maxPoolSize)
}

// GetOptimalPoolSizeWithOverride returns override when positive, otherwise
// GetOptimalPoolSize().
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}

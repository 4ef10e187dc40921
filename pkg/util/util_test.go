package util

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOptimalPoolSize(t *testing.T) {
	n := GetOptimalPoolSize()
	assert.GreaterOrEqual(t, n, 4)
	assert.LessOrEqual(t, n, 32)

	assert.Equal(t, 3, GetOptimalPoolSizeWithOverride(3))
	assert.Equal(t, n, GetOptimalPoolSizeWithOverride(0))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(LoggerConfig{Level: LevelWarn, Format: FormatJSON, Output: &buf})

	log.Info("hidden")
	log.Warn("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":"v"`)
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, LevelDebug, l)

	l, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, LevelInfo, l)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestReadSource(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "a.css")
	require.NoError(t, os.WriteFile(path, []byte(".a { color: black; }"), 0o644))
	got, err := ReadSource(path)
	require.NoError(t, err)
	assert.Equal(t, ".a { color: black; }", got)

	empty := filepath.Join(dir, "empty.css")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	got, err = ReadSource(empty)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = ReadSource(filepath.Join(dir, "missing.css"))
	assert.Error(t, err)

	_, err = ReadSource(dir)
	assert.Error(t, err)
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte("{}"), 0o644))
	nested := filepath.Join(root, "src", "styles")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	assert.Equal(t, root, FindProjectRoot(nested))
	assert.False(t, HasNodeModules(root))

	require.NoError(t, os.Mkdir(filepath.Join(root, "node_modules"), 0o755))
	assert.True(t, HasNodeModules(root))
}

func TestResolveRuntime_Explicit(t *testing.T) {
	_, err := ResolveRuntime(filepath.Join(t.TempDir(), "no-such-runtime"))
	assert.Error(t, err)
}

package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func relPaths(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, len(paths))
	for i, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func TestDiscover_ExtensionsAndHidden(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.py":          "x = 1\n",
		"b.pyi":         "x: int\n",
		"notes.txt":     "not python\n",
		".hidden.py":    "x = 1\n",
		".git/c.py":     "x = 1\n",
		"pkg/d.py":      "x = 1\n",
		"pkg/sub/e.py":  "x = 1\n",
		"pkg/README.md": "docs\n",
	})

	files, err := Discover(context.Background(), Options{WorkingDir: root})
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"a.py", "b.pyi", "pkg/d.py", "pkg/sub/e.py"},
		relPaths(t, root, files))
}

func TestDiscover_ExcludeGlobs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.py":                "x = 1\n",
		"vendor/b.py":         "x = 1\n",
		"app/migrations/c.py": "x = 1\n",
		"app/d.py":            "x = 1\n",
	})

	files, err := Discover(context.Background(), Options{
		WorkingDir:   root,
		ExcludeGlobs: []string{"vendor/**", "**/migrations"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.py", "app/d.py"}, relPaths(t, root, files))
}

func TestDiscover_IncludeGlobs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.py":     "x = 1\n",
		"src/b.py": "x = 1\n",
	})

	files, err := Discover(context.Background(), Options{
		WorkingDir:   root,
		IncludeGlobs: []string{"src/**"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"src/b.py"}, relPaths(t, root, files))
}

func TestDiscover_ExplicitFileSkipsExtensionCheck(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"script": "x = 1\n"})

	files, err := Discover(context.Background(), Options{
		WorkingDir: root,
		Paths:      []string{"script"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"script"}, relPaths(t, root, files))
}

func TestDiscover_ExtensionlessSniffing(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"pytool":  "#!/usr/bin/env python3\nprint('hi')\n",
		"shtool":  "#!/bin/sh\necho hi\n",
		"regular": "just some text without code\n",
	})

	// Without sniffing, extensionless files are ignored.
	files, err := Discover(context.Background(), Options{WorkingDir: root})
	require.NoError(t, err)
	assert.Empty(t, files)

	files, err = Discover(context.Background(), Options{
		WorkingDir:          root,
		DetectExtensionless: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"pytool"}, relPaths(t, root, files))
}

func TestDiscover_Deduplicates(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.py": "x = 1\n"})

	files, err := Discover(context.Background(), Options{
		WorkingDir: root,
		Paths:      []string{".", "a.py"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.py"}, relPaths(t, root, files))
}

func TestDiscover_MissingPath(t *testing.T) {
	_, err := Discover(context.Background(), Options{
		WorkingDir: t.TempDir(),
		Paths:      []string{"no-such-dir"},
	})
	assert.Error(t, err)
}

func TestMatchGlob(t *testing.T) {
	cases := []struct {
		path, pattern string
		want          bool
	}{
		{"a.py", "*.py", true},
		{"src/a.py", "*.py", true}, // basename fallback
		{"vendor/a.py", "vendor/**", true},
		{"vendor", "vendor/**", true},
		{"vendored/a.py", "vendor/**", false},
		{"app/migrations/m.py", "**/migrations", true},
		{"app/other/m.py", "**/migrations", false},
		{"build/out/gen.py", "build/**/gen.py", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, matchGlob(tc.path, tc.pattern),
			"path %q pattern %q", tc.path, tc.pattern)
	}
}

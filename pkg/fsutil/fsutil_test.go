package fsutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFile(t *testing.T) {
	path := writeTemp(t, "a.py", "x = 1\n")

	content, info, err := ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(content))
	assert.Equal(t, path, info.Path)
	assert.Equal(t, int64(6), info.Size)
	assert.NotZero(t, info.Hash)
}

func TestReadFile_NotFound(t *testing.T) {
	_, _, err := ReadFile(context.Background(), filepath.Join(t.TempDir(), "missing.py"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadFile_Directory(t *testing.T) {
	_, _, err := ReadFile(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrIsDirectory)
}

func TestCheckModified_Unchanged(t *testing.T) {
	path := writeTemp(t, "a.py", "x = 1\n")
	_, info, err := ReadFile(context.Background(), path)
	require.NoError(t, err)

	modified, err := CheckModified(context.Background(), info)
	require.NoError(t, err)
	assert.False(t, modified)
}

func TestCheckModified_ContentChanged(t *testing.T) {
	path := writeTemp(t, "a.py", "x = 1\n")
	_, info, err := ReadFile(context.Background(), path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("y = 2\n"), 0o644))

	modified, err := CheckModified(context.Background(), info)
	require.NoError(t, err)
	assert.True(t, modified)
}

func TestCheckModified_Deleted(t *testing.T) {
	path := writeTemp(t, "a.py", "x = 1\n")
	_, info, err := ReadFile(context.Background(), path)
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))

	modified, err := CheckModified(context.Background(), info)
	require.NoError(t, err)
	assert.True(t, modified)
}

func TestCheckModified_NilInfo(t *testing.T) {
	_, err := CheckModified(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilFileInfo)
}

func TestWriteAtomic(t *testing.T) {
	path := writeTemp(t, "a.py", "old\n")

	require.NoError(t, WriteAtomic(context.Background(), path, []byte("new\n"), 0o644))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(content))

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteAtomic_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.py")

	require.NoError(t, WriteAtomic(context.Background(), path, []byte("data\n"), 0))

	stat, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultFileMode, stat.Mode().Perm())
}

func TestCreateBackup(t *testing.T) {
	path := writeTemp(t, "a.py", "original\n")
	cfg := BackupConfig{Enabled: true}

	created, err := CreateBackup(context.Background(), path, cfg)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, BackupExists(path))

	backup, err := os.ReadFile(BackupPath(path))
	require.NoError(t, err)
	assert.Equal(t, "original\n", string(backup))
}

func TestCreateBackup_Idempotent(t *testing.T) {
	path := writeTemp(t, "a.py", "original\n")
	cfg := BackupConfig{Enabled: true}

	_, err := CreateBackup(context.Background(), path, cfg)
	require.NoError(t, err)

	// Mutate the original, then request another backup. The first
	// backup must survive.
	require.NoError(t, os.WriteFile(path, []byte("mutated\n"), 0o644))
	created, err := CreateBackup(context.Background(), path, cfg)
	require.NoError(t, err)
	assert.False(t, created)

	backup, err := os.ReadFile(BackupPath(path))
	require.NoError(t, err)
	assert.Equal(t, "original\n", string(backup))
}

func TestCreateBackup_Disabled(t *testing.T) {
	path := writeTemp(t, "a.py", "original\n")

	created, err := CreateBackup(context.Background(), path, DefaultBackupConfig())
	require.NoError(t, err)
	assert.False(t, created)
	assert.False(t, BackupExists(path))
}

func TestRemoveBackup(t *testing.T) {
	path := writeTemp(t, "a.py", "original\n")
	_, err := CreateBackup(context.Background(), path, BackupConfig{Enabled: true})
	require.NoError(t, err)

	removed, err := RemoveBackup(path)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, BackupExists(path))

	removed, err = RemoveBackup(path)
	require.NoError(t, err)
	assert.False(t, removed)
}

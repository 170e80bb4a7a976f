package atomicfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteCreatesFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "profile.json")

	require.NoError(t, Write(target, []byte(`{"a":1}`), 0o644))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, `{"a":1}`, string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp file should survive a successful write")
}

func TestWriteOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "profile.json")

	require.NoError(t, Write(target, []byte("v1"), 0o644))
	require.NoError(t, Write(target, []byte("v2"), 0o644))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "v2", string(got))
}

func TestReplaceDirPromotesBuildDir(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "workouts")
	build := filepath.Join(root, "workouts.build")

	require.NoError(t, os.MkdirAll(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "old.xml"), []byte("old"), 0o644))

	require.NoError(t, os.MkdirAll(build, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(build, "new.xml"), []byte("new"), 0o644))

	require.NoError(t, ReplaceDir(target, build))

	got, err := os.ReadFile(filepath.Join(target, "new.xml"))
	require.NoError(t, err)
	require.Equal(t, "new", string(got))

	_, err = os.Stat(filepath.Join(target, "old.xml"))
	require.True(t, os.IsNotExist(err))

	_, err = os.Stat(build)
	require.True(t, os.IsNotExist(err))
}

func TestReplaceDirWithNoExistingTarget(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "workouts")
	build := filepath.Join(root, "workouts.build")

	require.NoError(t, os.MkdirAll(build, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(build, "new.xml"), []byte("new"), 0o644))

	require.NoError(t, ReplaceDir(target, build))

	got, err := os.ReadFile(filepath.Join(target, "new.xml"))
	require.NoError(t, err)
	require.Equal(t, "new", string(got))
}

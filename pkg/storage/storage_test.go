package storage_test

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/orderdesk/pkg/storage"
)

func TestLocalDisk_PutOpenDelete(t *testing.T) {
	ctx := context.Background()
	disk, err := storage.NewLocalDisk(t.TempDir(), "http://localhost:8080/exports")
	require.NoError(t, err)

	require.NoError(t, disk.Put(ctx, "reports/a.csv", strings.NewReader("x;y\n")))

	ok, err := disk.Exists(ctx, "reports/a.csv")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := disk.Open(ctx, "reports/a.csv")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "x;y\n", string(data))

	files, err := disk.Files(ctx, "reports")
	require.NoError(t, err)
	assert.Equal(t, []string{"reports/a.csv"}, files)

	assert.Equal(t, "http://localhost:8080/exports/reports/a.csv", disk.URL("reports/a.csv"))

	require.NoError(t, disk.Delete(ctx, "reports/a.csv"))
	require.NoError(t, disk.Delete(ctx, "reports/a.csv"), "deleting twice is fine")

	_, err = disk.Open(ctx, "reports/a.csv")
	assert.ErrorIs(t, err, storage.ErrNotExist)
}

func TestLocalDisk_StaysUnderRoot(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	disk, err := storage.NewLocalDisk(filepath.Join(root, "inner"), "")
	require.NoError(t, err)

	require.NoError(t, disk.Put(ctx, "../../escape.txt", strings.NewReader("x")))

	ok, err := disk.Exists(ctx, "escape.txt")
	require.NoError(t, err)
	assert.True(t, ok, "dot-dot segments are cleaned against the disk root")
	assert.True(t, strings.HasPrefix(disk.URL("escape.txt"), "file://"))
}

func TestLocalDisk_FilesOfMissingDirectory(t *testing.T) {
	disk, err := storage.NewLocalDisk(t.TempDir(), "")
	require.NoError(t, err)

	files, err := disk.Files(context.Background(), "nothing-here")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestManager_DefaultDisk(t *testing.T) {
	m, err := storage.New(storage.Config{LocalRoot: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "local", m.DefaultName())
	assert.NotNil(t, m.Default())
	assert.Equal(t, []string{"local"}, m.Names())

	_, err = m.Disk("s3")
	assert.Error(t, err)

	_, err = storage.New(storage.Config{Default: "s3", LocalRoot: t.TempDir()})
	assert.Error(t, err, "s3 without a bucket cannot be the default")
}

package storage

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/junaidrashid-git/storefront-api/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// formFile builds a real multipart upload so the header carries a filename.
func formFile(t *testing.T, name string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	file, header, err := req.FormFile("image")
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })
	return file, header
}

func TestLocal_UploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	local := NewLocal(dir, "https://shop.example/")
	local.now = func() time.Time { return time.Unix(0, 42) }

	file, header := formFile(t, "Summer Sale.jpg.jpg", []byte("img"))
	url, err := local.Upload(context.Background(), file, header, "hero")
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example/uploads/hero/42_Summer_Sale.jpg", url)

	saved := filepath.Join(dir, "hero", "42_Summer_Sale.jpg")
	data, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, "img", string(data))

	require.NoError(t, local.Delete(context.Background(), url))
	_, err = os.Stat(saved)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, local.Delete(context.Background(), url), "already gone")
	assert.NoError(t, local.Delete(context.Background(), "https://elsewhere/x.png"))
}

// brokenFile hands out a few bytes and then fails, like a dropped client.
type brokenFile struct {
	multipart.File
}

func (f brokenFile) Read(p []byte) (int, error) {
	return copy(p, "partial"), io.ErrUnexpectedEOF
}

func TestLocal_UploadFailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	local := NewLocal(dir, "")

	file, header := formFile(t, "photo.png", []byte("img"))
	_, err := local.Upload(context.Background(), brokenFile{file}, header, "products")
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	entries, err := os.ReadDir(filepath.Join(dir, "products"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocal_RejectsNonImages(t *testing.T) {
	local := NewLocal(t.TempDir(), "")
	file, header := formFile(t, "payload.exe", []byte("MZ"))
	_, err := local.Upload(context.Background(), file, header, "products")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestCleanFolder(t *testing.T) {
	assert.Equal(t, "misc", cleanFolder(""))
	assert.Equal(t, "misc", cleanFolder(".."))
	assert.Equal(t, "_.._etc", cleanFolder("/../etc"))
	assert.Equal(t, "products", cleanFolder("products"))
}

func TestPublicIDFromURL(t *testing.T) {
	assert.Equal(t, "hero/123", PublicIDFromURL("https://res.cloudinary.com/demo/image/upload/v1712/hero/123.jpg"))
	assert.Equal(t, "videos/clip", PublicIDFromURL("https://res.cloudinary.com/demo/image/upload/videos/clip.png"))
	assert.Equal(t, "", PublicIDFromURL("https://shop.example/uploads/hero/1.jpg"))
}

func TestNew(t *testing.T) {
	up, err := New(config.StorageConfig{Backend: "local", UploadDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &Local{}, up)

	_, err = New(config.StorageConfig{Backend: "s3"})
	assert.Error(t, err)

	_, err = New(config.StorageConfig{Backend: "cloudinary"})
	assert.Error(t, err)
}

func TestBackup_RunOnceAndPrune(t *testing.T) {
	src := t.TempDir()
	backups := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "hero"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "hero", "a.jpg"), []byte("a"), 0o644))

	old := filepath.Join(backups, "2000-01-01_02-00-00")
	require.NoError(t, os.MkdirAll(old, 0o755))
	past := time.Now().Add(-10 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	b := NewBackup(src, backups, 4*24*time.Hour, 2)
	dest, err := b.RunOnce()
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dest, "hero", "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))

	_, err = os.Stat(old)
	assert.True(t, os.IsNotExist(err), "old backup pruned")
}

func TestBackup_NextRun(t *testing.T) {
	b := NewBackup("", "", time.Hour, 2)
	b.now = func() time.Time { return time.Date(2026, 3, 1, 1, 0, 0, 0, time.UTC) }
	assert.Equal(t, time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC), b.nextRun())

	b.now = func() time.Time { return time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC) }
	assert.Equal(t, time.Date(2026, 3, 2, 2, 0, 0, 0, time.UTC), b.nextRun())
}

func TestBackup_RunStopsOnCancel(t *testing.T) {
	b := NewBackup(t.TempDir(), t.TempDir(), time.Hour, 2)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

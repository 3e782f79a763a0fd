package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// PublicPrefix is the URL path local uploads are served under.
const PublicPrefix = "/uploads"

var unsafeChars = regexp.MustCompile(`[^\w\-.]`)

// Local keeps uploads on disk under Dir/<folder>/ and serves them from
// /uploads/<folder>/.
type Local struct {
	Dir           string
	PublicBaseURL string
	now           func() time.Time
}

func NewLocal(dir, publicBaseURL string) *Local {
	return &Local{Dir: dir, PublicBaseURL: strings.TrimRight(publicBaseURL, "/"), now: time.Now}
}

func (l *Local) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, folder string) (string, error) {
	if err := checkImage(header.Filename); err != nil {
		return "", err
	}

	folder = cleanFolder(folder)
	dir := filepath.Join(l.Dir, folder)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create upload folder: %w", err)
	}

	filename := l.fileName(header.Filename)
	target := filepath.Join(dir, filename)
	dst, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	_, err = io.Copy(dst, file)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if rmErr := os.Remove(target); rmErr != nil && !os.IsNotExist(rmErr) {
			zap.L().Warn("failed to remove partial upload", zap.String("path", target), zap.Error(rmErr))
		}
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	url := l.PublicBaseURL + path.Join(PublicPrefix, folder, filename)
	zap.L().Info("image uploaded", zap.String("file", header.Filename), zap.String("url", url))
	return url, nil
}

// Delete removes the file behind a URL this backend produced. Unknown or
// already missing files are not an error.
func (l *Local) Delete(ctx context.Context, url string) error {
	rel := strings.TrimPrefix(url, l.PublicBaseURL)
	if !strings.HasPrefix(rel, PublicPrefix+"/") {
		return nil
	}
	rel = strings.TrimPrefix(rel, PublicPrefix+"/")
	if strings.Contains(rel, "..") {
		return nil
	}
	if err := os.Remove(filepath.Join(l.Dir, filepath.FromSlash(rel))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// fileName turns "My Photo.jpg.jpg" into "<unixnano>_My_Photo.jpg".
func (l *Local) fileName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))

	for {
		e := strings.ToLower(filepath.Ext(base))
		if e == "" || !allowedExt[e] {
			break
		}
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}

	base = unsafeChars.ReplaceAllString(strings.ReplaceAll(base, " ", "_"), "_")
	return fmt.Sprintf("%d_%s%s", l.now().UnixNano(), base, ext)
}

func cleanFolder(folder string) string {
	folder = unsafeChars.ReplaceAllString(folder, "_")
	if folder == "" || strings.Trim(folder, ".") == "" {
		return "misc"
	}
	return folder
}

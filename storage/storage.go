package storage

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/junaidrashid-git/storefront-api/config"
)

// Uploader stores an uploaded image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, folder string) (string, error)
	Delete(ctx context.Context, url string) error
}

var ErrUnsupportedType = errors.New("unsupported image type")

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// New picks the backend named in the config.
func New(cfg config.StorageConfig) (Uploader, error) {
	switch cfg.Backend {
	case "local":
		return NewLocal(cfg.UploadDir, cfg.PublicBaseURL), nil
	case "cloudinary":
		return NewCloudinary(cfg.CloudinaryURL)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// checkImage rejects anything that is not an image by extension.
func checkImage(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	return nil
}

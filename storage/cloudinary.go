package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

var versionSegment = regexp.MustCompile(`^v\d+$`)

// Cloudinary uploads images to a Cloudinary account.
type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinary(cloudinaryURL string) (*Cloudinary, error) {
	if cloudinaryURL == "" {
		return nil, fmt.Errorf("cloudinary URL is required")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &Cloudinary{cld: cld}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, folder string) (string, error) {
	if err := checkImage(header.Filename); err != nil {
		return "", err
	}

	result, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       fmt.Sprintf("%d", time.Now().UnixNano()),
		Folder:         cleanFolder(folder),
		UseFilename:    api.Bool(true),
		UniqueFilename: api.Bool(true),
		Overwrite:      api.Bool(false),
		ResourceType:   "image",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected upload: %s", result.Error.Message)
	}

	url := result.SecureURL
	if url == "" {
		url = forceHTTPS(result.URL)
	}
	zap.L().Info("image uploaded to cloudinary", zap.String("public_id", result.PublicID))
	return url, nil
}

func (c *Cloudinary) Delete(ctx context.Context, url string) error {
	publicID := PublicIDFromURL(url)
	if publicID == "" {
		return nil
	}
	if _, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// PublicIDFromURL extracts "folder/name" from a delivery URL such as
// https://res.cloudinary.com/demo/image/upload/v1712/hero/123.jpg.
func PublicIDFromURL(url string) string {
	idx := strings.Index(url, "/upload/")
	if idx < 0 {
		return ""
	}
	rest := url[idx+len("/upload/"):]
	if parts := strings.SplitN(rest, "/", 2); len(parts) == 2 && versionSegment.MatchString(parts[0]) {
		rest = parts[1]
	}
	return strings.TrimSuffix(rest, path.Ext(rest))
}

func forceHTTPS(u string) string {
	if strings.HasPrefix(u, "http://") {
		return "https://" + strings.TrimPrefix(u, "http://")
	}
	return u
}

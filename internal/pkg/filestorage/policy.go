package filestorage

import (
	"context"
	"mime/multipart"

	"github.com/edustack/portal/internal/pkg/logger"
)

// Uploader applies the two-strategy storage policy: try the CDN when one
// is configured, and degrade to local storage on any CDN failure. A CDN
// failure is never retried; the caller gets the local result plus a
// warning flag so the UI can tell the uploader.
type Uploader struct {
	cdn   Backend // nil when no CDN is configured
	local *LocalStorage
}

// NewUploader builds an Uploader. cdn may be nil; callers must pass a
// literal nil rather than a typed nil pointer.
func NewUploader(cdn Backend, local *LocalStorage) *Uploader {
	return &Uploader{cdn: cdn, local: local}
}

// Store saves the uploaded file and reports where it landed. fellBack is
// true when a configured CDN was bypassed because its upload failed.
func (u *Uploader) Store(ctx context.Context, fileHeader *multipart.FileHeader, materialType string) (stored StoredFile, fellBack bool, err error) {
	resourceType := ResourceTypeFor(materialType)

	if u.cdn != nil {
		stored, err = u.cdn.Put(ctx, fileHeader, resourceType)
		if err == nil {
			return stored, false, nil
		}
		logger.Warn().Err(err).Msg("CDN upload failed, falling back to local storage")
		fellBack = true
	}

	stored, err = u.local.Put(ctx, fileHeader, resourceType)
	if err != nil {
		return StoredFile{}, fellBack, err
	}
	return stored, fellBack, nil
}

// Local exposes the local backend for serving and deletion.
func (u *Uploader) Local() *LocalStorage {
	return u.local
}

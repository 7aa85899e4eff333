package filestorage

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/edustack/portal/internal/pkg/logger"
)

const uploadFolder = "edustack_materials"

// CdnStorage uploads files to Cloudinary.
type CdnStorage struct {
	cld *cloudinary.Cloudinary
}

// NewCdnStorage creates a CdnStorage from explicit credentials. Returns
// nil (and no error) when the cloud name is unset, meaning no CDN is
// configured and callers should use local storage only.
func NewCdnStorage(cloudName, apiKey, apiSecret string) (*CdnStorage, error) {
	if cloudName == "" {
		return nil, nil
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}

	return &CdnStorage{cld: cld}, nil
}

// Put uploads the file to Cloudinary and returns its secure URL. The
// original filename is kept (uniquified by the CDN) for readable URLs.
func (cs *CdnStorage) Put(ctx context.Context, fileHeader *multipart.FileHeader, resourceType string) (StoredFile, error) {
	if fileHeader == nil {
		return StoredFile{}, fmt.Errorf("no file provided")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return StoredFile{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	if resourceType == "" {
		resourceType = ResourceTypeAuto
	}

	res, err := cs.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         uploadFolder,
		ResourceType:   resourceType,
		UseFilename:    api.Bool(true),
		UniqueFilename: api.Bool(true),
	})
	if err != nil {
		logger.Warn().Err(err).Str("filename", fileHeader.Filename).Msg("CDN upload failed")
		return StoredFile{}, fmt.Errorf("cdn upload failed: %w", err)
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("url", res.SecureURL).Msg("File uploaded to CDN")
	return StoredFile{URL: res.SecureURL, Filename: fileHeader.Filename}, nil
}

// Delete is a no-op for CDN-hosted files; note deletion keeps the remote
// asset (matches the record-only cleanup the portal performs).
func (cs *CdnStorage) Delete(string) error {
	return nil
}

// AttachmentURL rewrites a Cloudinary delivery URL so the browser downloads
// the asset instead of rendering it inline. Non-Cloudinary URLs pass
// through unchanged.
func AttachmentURL(fileURL string) string {
	if !strings.Contains(fileURL, "res.cloudinary.com") {
		return fileURL
	}

	parts := strings.SplitN(fileURL, "/upload/", 2)
	if len(parts) != 2 {
		return fileURL
	}
	return parts[0] + "/upload/fl_attachment/" + parts[1]
}

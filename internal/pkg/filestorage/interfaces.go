package filestorage

import (
	"context"
	"mime/multipart"
)

// Resource type hints passed to the CDN, derived from the material type.
const (
	ResourceTypeVideo = "video"
	ResourceTypeRaw   = "raw"
	ResourceTypeAuto  = "auto"
)

// StoredFile describes where an uploaded payload ended up. Exactly one of
// URL (remote) or Filename (local) is the primary location.
type StoredFile struct {
	URL      string // CDN URL, empty for local storage
	Filename string // sanitized local filename, empty for CDN-only storage
	Local    bool   // true when the payload lives on the local filesystem
}

// Backend is a single storage strategy.
type Backend interface {
	// Put stores an uploaded file and returns its stored location.
	Put(ctx context.Context, fileHeader *multipart.FileHeader, resourceType string) (StoredFile, error)

	// Delete removes a previously stored file. Implementations are
	// idempotent; deleting a missing file is not an error.
	Delete(ref string) error
}

// ResourceTypeFor maps a material type to the CDN resource type hint.
func ResourceTypeFor(materialType string) string {
	switch materialType {
	case "video":
		return ResourceTypeVideo
	case "pdf", "docx", "ppt":
		return ResourceTypeRaw
	default:
		return ResourceTypeAuto
	}
}

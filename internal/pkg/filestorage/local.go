package filestorage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/edustack/portal/internal/pkg/logger"
)

// LocalStorage saves files on the local filesystem. It is the fallback
// backend when no CDN is configured or the CDN call fails.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a LocalStorage rooted at basePath, creating the
// directory if needed.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{basePath: basePath}, nil
}

// Put saves the uploaded file under its sanitized original name. The record
// keeps the original name so listings stay readable; a uuid suffix is added
// only when that name is already taken.
func (ls *LocalStorage) Put(_ context.Context, fileHeader *multipart.FileHeader, _ string) (StoredFile, error) {
	if fileHeader == nil {
		return StoredFile{}, fmt.Errorf("no file provided")
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return StoredFile{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	filename := SanitizeFilename(fileHeader.Filename)
	dstPath := filepath.Join(ls.basePath, filename)

	if _, err := os.Stat(dstPath); err == nil {
		ext := filepath.Ext(filename)
		filename = strings.TrimSuffix(filename, ext) + "_" + uuid.New().String()[:8] + ext
		dstPath = filepath.Join(ls.basePath, filename)
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return StoredFile{}, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return StoredFile{}, fmt.Errorf("failed to save file content: %w", err)
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", filename).Msg("File saved locally")
	return StoredFile{Filename: filename, Local: true}, nil
}

// Delete removes a stored file. Missing files are treated as already
// deleted.
func (ls *LocalStorage) Delete(ref string) error {
	if ref == "" {
		return nil
	}

	filename := filepath.Base(ref)
	if filename == "" || filename == "." || filename == "/" {
		return fmt.Errorf("invalid file path: %s", ref)
	}

	physicalPath := filepath.Join(ls.basePath, filename)

	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted")
	return nil
}

// FullPath returns the filesystem path for a stored filename.
func (ls *LocalStorage) FullPath(filename string) string {
	name := filepath.Base(filename)
	if name == "" || name == "." || name == "/" {
		return ""
	}
	return filepath.Join(ls.basePath, name)
}

// SanitizeFilename strips path components and replaces anything outside
// [A-Za-z0-9._-] so the name is safe to join onto the storage directory.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	clean := strings.Trim(b.String(), "._")
	if clean == "" {
		clean = uuid.New().String()
	}
	return clean
}

package filestorage

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// multipartFile builds a *multipart.FileHeader the way gin would hand it
// to a controller.
func multipartFile(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["file"][0]
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "lecture_notes.pdf", SanitizeFilename("lecture notes.pdf"))
	assert.Equal(t, "report.docx", SanitizeFilename("../../etc/report.docx"))
	assert.Equal(t, "slides.ppt", SanitizeFilename("c:\\temp\\slides.ppt"))
	assert.NotEmpty(t, SanitizeFilename("...."))
}

func TestResourceTypeFor(t *testing.T) {
	assert.Equal(t, ResourceTypeVideo, ResourceTypeFor("video"))
	assert.Equal(t, ResourceTypeRaw, ResourceTypeFor("pdf"))
	assert.Equal(t, ResourceTypeRaw, ResourceTypeFor("docx"))
	assert.Equal(t, ResourceTypeRaw, ResourceTypeFor("ppt"))
	assert.Equal(t, ResourceTypeAuto, ResourceTypeFor("url"))
}

func TestAttachmentURL(t *testing.T) {
	in := "https://res.cloudinary.com/demo/raw/upload/v1/edustack_materials/notes.pdf"
	want := "https://res.cloudinary.com/demo/raw/upload/fl_attachment/v1/edustack_materials/notes.pdf"
	assert.Equal(t, want, AttachmentURL(in))

	// Non-Cloudinary URLs pass through untouched.
	ext := "https://example.com/files/notes.pdf"
	assert.Equal(t, ext, AttachmentURL(ext))
}

func TestLocalStoragePutAndDelete(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir)
	require.NoError(t, err)

	fh := multipartFile(t, "unit one notes.pdf", []byte("content"))
	stored, err := ls.Put(context.Background(), fh, ResourceTypeRaw)
	require.NoError(t, err)

	assert.True(t, stored.Local)
	assert.Empty(t, stored.URL)
	assert.Equal(t, "unit_one_notes.pdf", stored.Filename)

	data, err := os.ReadFile(filepath.Join(dir, stored.Filename))
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), data)

	// Second upload with the same name gets a distinct filename.
	again, err := ls.Put(context.Background(), multipartFile(t, "unit one notes.pdf", []byte("other")), ResourceTypeRaw)
	require.NoError(t, err)
	assert.NotEqual(t, stored.Filename, again.Filename)

	require.NoError(t, ls.Delete(stored.Filename))
	_, err = os.Stat(filepath.Join(dir, stored.Filename))
	assert.True(t, os.IsNotExist(err))

	// Deleting a missing file is idempotent.
	assert.NoError(t, ls.Delete(stored.Filename))
}

type failingBackend struct{}

func (failingBackend) Put(context.Context, *multipart.FileHeader, string) (StoredFile, error) {
	return StoredFile{}, errors.New("cdn unreachable")
}

func (failingBackend) Delete(string) error { return nil }

func TestUploaderFallsBackToLocal(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	u := NewUploader(failingBackend{}, ls)
	stored, fellBack, err := u.Store(context.Background(), multipartFile(t, "intro.pdf", []byte("x")), "pdf")
	require.NoError(t, err)

	assert.True(t, fellBack)
	assert.True(t, stored.Local)
	assert.Equal(t, "intro.pdf", stored.Filename)
	assert.Empty(t, stored.URL)
}

func TestUploaderNoCdnConfigured(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	u := NewUploader(nil, ls)
	stored, fellBack, err := u.Store(context.Background(), multipartFile(t, "intro.pdf", []byte("x")), "pdf")
	require.NoError(t, err)

	// No CDN configured is the normal local path, not a fallback warning.
	assert.False(t, fellBack)
	assert.True(t, stored.Local)
}

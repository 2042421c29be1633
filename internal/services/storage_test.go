package services

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartFile(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File[field][0]
}

func TestStorageService_SaveAndDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	storage := NewStorageService(dir)
	require.NoError(t, storage.EnsureUploadDir())

	header := multipartFile(t, "cvFile", "resume.docx", []byte("docx bytes"))

	filename, path, err := storage.SaveFile(header, MimeDOCX)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "cv_"))
	assert.True(t, strings.HasSuffix(filename, ".docx"))
	assert.Equal(t, storage.GetFilePath(filename), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "docx bytes", string(data))

	require.NoError(t, storage.DeleteFile(filename))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.Error(t, storage.DeleteFile(filename))
}

func TestStorageService_RejectsUnknownType(t *testing.T) {
	storage := NewStorageService(t.TempDir())
	header := multipartFile(t, "cvFile", "notes.txt", []byte("hi"))

	_, _, err := storage.SaveFile(header, "text/plain")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestStorageService_GetFilePathStaysInUploadDir(t *testing.T) {
	storage := NewStorageService("/srv/uploads")
	assert.Equal(t, "/srv/uploads/passwd", storage.GetFilePath("../../etc/passwd"))
}

package utils

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func multipartFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	_, header, err := req.FormFile("file")
	if err != nil {
		t.Fatalf("Failed to read form file back: %v", err)
	}
	return header
}

func TestValidateImageFile(t *testing.T) {
	tests := []struct {
		name         string
		filename     string
		size         int64
		expectedCode string
	}{
		{"PNG accepted", "photo.png", 1024, ""},
		{"JPG accepted", "photo.jpg", 1024, ""},
		{"JPEG accepted", "photo.jpeg", 1024, ""},
		{"Extension check is case-insensitive", "PHOTO.PNG", 1024, ""},
		{"PDF rejected", "scan.pdf", 1024, "INVALID_FILE_FORMAT"},
		{"No extension rejected", "photo", 1024, "INVALID_FILE_FORMAT"},
		{"Oversized file rejected", "photo.png", MaxFileSize + 1, "FILE_TOO_LARGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := &multipart.FileHeader{Filename: tt.filename, Size: tt.size}

			err := ValidateImageFile(header)
			if tt.expectedCode == "" {
				assert.NoError(t, err)
				return
			}

			var uploadErr *FileUploadError
			assert.ErrorAs(t, err, &uploadErr)
			assert.Equal(t, tt.expectedCode, uploadErr.Code)
		})
	}
}

func TestSaveUploadedFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("fake-image-bytes")
	header := multipartFileHeader(t, "photo.PNG", content)

	filename, err := SaveUploadedFile(header, dir)
	assert.NoError(t, err)

	// Generated name keeps the extension, lowercased, and never the
	// client-supplied basename.
	assert.True(t, strings.HasSuffix(filename, ".png"))
	assert.NotContains(t, filename, "photo")

	saved, err := os.ReadFile(filepath.Join(dir, filename))
	assert.NoError(t, err)
	assert.Equal(t, content, saved)
}

func TestSaveUploadedFile_UniqueNames(t *testing.T) {
	dir := t.TempDir()
	header := multipartFileHeader(t, "photo.png", []byte("same-bytes"))

	first, err := SaveUploadedFile(header, dir)
	assert.NoError(t, err)
	second, err := SaveUploadedFile(header, dir)
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestSaveUploadedFile_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	header := multipartFileHeader(t, "photo.png", []byte("x"))

	filename, err := SaveUploadedFile(header, dir)
	assert.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, filename))
	assert.NoError(t, err)
}

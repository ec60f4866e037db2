package services

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/quickmeds/pharmacy-api/config"
	"github.com/quickmeds/pharmacy-api/utils"
)

// FileStorage abstracts where uploaded images live. The disk backend serves
// files from the API's own /uploads route; the S3 backend hands out
// presigned URLs.
type FileStorage interface {
	// Save stores the uploaded file and returns its storage key.
	Save(fileHeader *multipart.FileHeader) (string, error)
	// URL returns a client-accessible URL for a stored key.
	URL(key string) (string, error)
	// Delete removes a stored file. Deleting an empty key is a no-op.
	Delete(key string) error
}

var fileStorageInstance FileStorage

// InitFileStorage initializes the storage backend selected by configuration
func InitFileStorage(cfg *config.Config) (FileStorage, error) {
	var (
		storage FileStorage
		err     error
	)

	switch cfg.StorageBackend {
	case "s3":
		storage, err = NewS3Storage(cfg)
	default:
		storage, err = NewDiskStorage(cfg.UploadDir)
	}
	if err != nil {
		return nil, err
	}

	fileStorageInstance = storage
	return storage, nil
}

// GetFileStorage returns the initialized storage backend
func GetFileStorage() FileStorage {
	return fileStorageInstance
}

// SetFileStorage sets the storage backend (primarily for testing)
func SetFileStorage(storage FileStorage) {
	fileStorageInstance = storage
}

// DiskStorage stores uploads in a local directory, keyed by generated filename
type DiskStorage struct {
	dir string
}

// NewDiskStorage creates a disk-backed storage rooted at dir
func NewDiskStorage(dir string) (*DiskStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &DiskStorage{dir: dir}, nil
}

// Save writes the uploaded file to the upload directory
func (d *DiskStorage) Save(fileHeader *multipart.FileHeader) (string, error) {
	return utils.SaveUploadedFile(fileHeader, d.dir)
}

// URL returns the API route the stored file is served from
func (d *DiskStorage) URL(key string) (string, error) {
	if key == "" {
		return "", nil
	}
	return "/api/v1/uploads/" + key, nil
}

// Delete removes the stored file from disk
func (d *DiskStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	path := filepath.Join(d.dir, filepath.Base(key))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Dir returns the directory uploads are stored in
func (d *DiskStorage) Dir() string {
	return d.dir
}

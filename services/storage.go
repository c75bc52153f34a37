package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// BlobStore persists uploaded file contents. The gatekeeper validates and
// names files; the store only moves bytes.
type BlobStore interface {
	Save(file *multipart.FileHeader, storedName string) (url string, err error)
	Remove(storedName string) error
}

// DiskStore writes uploads under a local directory and serves them from a
// base URL. Suitable for single-node deployments.
type DiskStore struct {
	Dir     string
	BaseURL string
}

func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &DiskStore{Dir: dir, BaseURL: baseURL}, nil
}

func (s *DiskStore) Save(file *multipart.FileHeader, storedName string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.Dir, storedName))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return s.BaseURL + "/" + storedName, nil
}

func (s *DiskStore) Remove(storedName string) error {
	err := os.Remove(filepath.Join(s.Dir, storedName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

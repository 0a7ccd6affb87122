package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// StorageService stores uploaded images and returns their public URLs.
type StorageService interface {
	Save(filename string, content io.Reader) (url string, err error)
	Delete(url string) error
}

// LocalStorageService writes uploads to a directory on disk. Suitable for
// development; production deployments swap in object storage behind the same
// interface.
type LocalStorageService struct {
	baseDir string
	baseURL string
}

func NewLocalStorageService(baseDir, baseURL string) (*LocalStorageService, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorageService{baseDir: baseDir, baseURL: baseURL}, nil
}

func (s *LocalStorageService) Save(filename string, content io.Reader) (string, error) {
	name := uuid.New().String() + filepath.Ext(filename)
	path := filepath.Join(s.baseDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return s.baseURL + "/" + name, nil
}

func (s *LocalStorageService) Delete(url string) error {
	name := filepath.Base(url)
	if err := os.Remove(filepath.Join(s.baseDir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

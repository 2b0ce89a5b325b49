package utils

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStore saves uploaded images and resolves the public URL for a stored key.
type FileStore interface {
	SaveFile(ctx context.Context, subDir, originalFilename, contentType string, reader io.Reader) (string, error)
	URL(key string) string
}

// FileStorage handles saving and deleting files on local disk.
// Files are served back by the API under /uploads/.
type FileStorage struct {
	BaseDir string // e.g. "./uploads"
	BaseURL string // e.g. "http://localhost:8080"
}

// NewFileStorage creates a FileStorage rooted at baseDir.
func NewFileStorage(baseDir, baseURL string) *FileStorage {
	return &FileStorage{BaseDir: baseDir, BaseURL: strings.TrimRight(baseURL, "/")}
}

// SaveFile writes the contents of reader to <BaseDir>/<subDir>/<uniqueFilename>.
// It returns the key (relative path from BaseDir).
func (fs *FileStorage) SaveFile(_ context.Context, subDir, originalFilename, _ string, reader io.Reader) (string, error) {
	dir := filepath.Join(fs.BaseDir, subDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	ext := strings.ToLower(filepath.Ext(originalFilename))
	uniqueName := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	fullPath := filepath.Join(dir, uniqueName)

	out, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", fullPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", fullPath, err)
	}

	return filepath.ToSlash(filepath.Join(subDir, uniqueName)), nil
}

func (fs *FileStorage) URL(key string) string {
	return fmt.Sprintf("%s/uploads/%s", fs.BaseURL, key)
}

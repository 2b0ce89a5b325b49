package service

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/madhava-poojari/coursebook-api/internal/apperr"
	"github.com/madhava-poojari/coursebook-api/internal/utils"
)

// MaxImageSize is the largest accepted upload.
const MaxImageSize = 2 << 20

const imageSubDir = "images"

var allowedImageExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

type UploadService struct {
	files  utils.FileStore
	logger *slog.Logger
}

func NewUploadService(files utils.FileStore, logger *slog.Logger) *UploadService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadService{files: files, logger: logger}
}

// SaveImage stores a jpg/jpeg/png of at most MaxImageSize bytes and returns
// its public URL. The extension and the sniffed content must agree.
func (s *UploadService) SaveImage(ctx context.Context, filename string, size int64, r io.Reader) (string, error) {
	want, ok := allowedImageExt[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return "", apperr.ErrUnsupportedImage
	}
	if size > MaxImageSize {
		return "", apperr.ErrImageTooLarge
	}

	// Read one byte past the limit so a lying size header is still caught.
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return "", err
	}
	if len(data) > MaxImageSize {
		return "", apperr.ErrImageTooLarge
	}
	if http.DetectContentType(data) != want {
		return "", apperr.ErrUnsupportedImage
	}

	key, err := s.files.SaveFile(ctx, imageSubDir, filename, want, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	s.logger.Info("image uploaded", "key", key, "bytes", len(data))
	return s.files.URL(key), nil
}

package filestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/phrazzld/places-api/internal/platform/logger"
	"github.com/spf13/afero"
)

// Errors returned by Store.
var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image exceeds maximum size")
	ErrNotFound        = errors.New("file not found")
	ErrInvalidPath     = errors.New("path outside upload directory")
)

// allowedTypes maps accepted MIME types to the extension stored on disk.
var allowedTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpeg",
	"image/jpg":  ".jpg",
}

// Store saves and removes images below a single directory.
// Paths handed out are slash separated and relative, e.g. "uploads/images/<uuid>.png".
type Store struct {
	fs      afero.Fs
	dir     string
	maxSize int64
	logger  *slog.Logger
}

// New creates a Store rooted at dir on fs. The directory is created if missing.
func New(fs afero.Fs, dir string, maxSize int64, logger *slog.Logger) (*Store, error) {
	if fs == nil {
		return nil, errors.New("filesystem cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	dir = path.Clean(strings.ReplaceAll(dir, "\\", "/"))
	if dir == "." || dir == "" {
		return nil, errors.New("upload directory cannot be empty")
	}
	if maxSize <= 0 {
		return nil, errors.New("max size must be positive")
	}

	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}

	return &Store{
		fs:      fs,
		dir:     dir,
		maxSize: maxSize,
		logger:  logger.With(slog.String("component", "file_store")),
	}, nil
}

// Dir returns the upload directory.
func (s *Store) Dir() string {
	return s.dir
}

// MaxSize returns the largest accepted upload in bytes.
func (s *Store) MaxSize() int64 {
	return s.maxSize
}

// SaveImage writes the image read from r under a fresh UUID file name and
// returns its path. contentType is the type declared by the client; it must
// be an accepted image type and agree with the sniffed content.
func (s *Store) SaveImage(ctx context.Context, r io.Reader, contentType string) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ext, ok := allowedTypes[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	// Read one byte past the limit to detect oversize uploads.
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return "", ErrTooLarge
	}

	sniffed := mimetype.Detect(data)
	if !sniffed.Is("image/png") && !sniffed.Is("image/jpeg") {
		return "", fmt.Errorf("%w: content is %s", ErrUnsupportedType, sniffed.String())
	}

	name := path.Join(s.dir, uuid.NewString()+ext)
	if err := afero.WriteReader(s.fs, name, bytes.NewReader(data)); err != nil {
		log.Error("failed to write upload",
			slog.String("error", err.Error()),
			slog.String("path", name))
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	log.Info("image stored", slog.String("path", name), slog.Int("bytes", len(data)))
	return name, nil
}

// Delete removes a file previously returned by SaveImage.
func (s *Store) Delete(ctx context.Context, p string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	clean := path.Clean(strings.ReplaceAll(p, "\\", "/"))
	if !strings.HasPrefix(clean, s.dir+"/") {
		return fmt.Errorf("%w: %s", ErrInvalidPath, p)
	}

	if err := s.fs.Remove(clean); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, clean)
		}
		log.Error("failed to delete file",
			slog.String("error", err.Error()),
			slog.String("path", clean))
		return fmt.Errorf("failed to delete %s: %w", clean, err)
	}

	log.Info("image deleted", slog.String("path", clean))
	return nil
}

// Handler serves the stored files. Mount it with http.StripPrefix so that
// request paths are relative to the upload directory.
func (s *Store) Handler() http.Handler {
	return http.FileServer(afero.NewHttpFs(afero.NewReadOnlyFs(afero.NewBasePathFs(s.fs, s.dir))))
}

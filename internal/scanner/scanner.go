package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cardsnap/pkg/logger"
)

// PhotoFile is a card photo found under the source directory.
type PhotoFile struct {
	AbsolutePath string
	RelativePath string
}

type DirectoryScanner struct {
	logger *logger.Logger
}

func New(logger *logger.Logger) *DirectoryScanner {
	return &DirectoryScanner{
		logger: logger,
	}
}

// FindPhotos walks dir and returns every card photo in it, including
// nested directories.
func (s *DirectoryScanner) FindPhotos(ctx context.Context, dir string) ([]PhotoFile, error) {
	var photos []PhotoFile

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			s.logger.Debug("Scanning directory: %s", path)
			return nil
		}

		if !IsCardPhoto(path) {
			return nil
		}

		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			relPath = path
		}

		photos = append(photos, PhotoFile{
			AbsolutePath: path,
			RelativePath: relPath,
		})

		return nil
	})

	if err != nil {
		return nil, err
	}

	if len(photos) == 0 {
		return nil, fmt.Errorf("no card photos found in %s or its subdirectories", dir)
	}

	return photos, nil
}

// IsCardPhoto reports whether a path looks like an uploadable card photo.
func IsCardPhoto(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	}
	return false
}

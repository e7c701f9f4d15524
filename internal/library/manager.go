// Package library manages the on-disk books directory: imported EPUB
// files live here, one file per book.
package library

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Upload is an incoming file to be imported.
type Upload struct {
	Filename string
	Data     io.Reader
}

// Manager owns the books directory.
type Manager struct {
	booksPath string
	logger    *slog.Logger
}

// NewManager creates a Manager for the given books directory.
func NewManager(booksPath string, logger *slog.Logger) (*Manager, error) {
	if booksPath == "" {
		return nil, fmt.Errorf("books path cannot be empty")
	}

	if err := os.MkdirAll(booksPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create books directory: %w", err)
	}

	return &Manager{
		booksPath: booksPath,
		logger:    logger,
	}, nil
}

// Path returns the books directory.
func (m *Manager) Path() string {
	return m.booksPath
}

// Save streams an uploaded file into the books directory and returns
// its final path and size. The filename is sanitized; collisions get a
// numeric suffix rather than overwriting an existing book.
func (m *Manager) Save(filename string, r io.Reader) (path string, size int64, err error) {
	name := sanitizeFilename(filename)
	if name == "" {
		return "", 0, fmt.Errorf("invalid filename %q", filename)
	}

	path = m.uniquePath(name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create book file: %w", err)
	}

	size, err = io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("failed to write book file: %w", err)
	}

	m.logger.Debug("saved book file", "path", path, "size", size)
	return path, size, nil
}

// Remove deletes a book file. Idempotent: a missing file is not an
// error, the record may outlive the file.
func (m *Manager) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove book file: %w", err)
	}
	return nil
}

// Exists reports whether the file at path is still present.
func (m *Manager) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// uniquePath returns a path in the books directory that does not exist
// yet, appending " (n)" before the extension on collision.
func (m *Manager) uniquePath(name string) string {
	path := filepath.Join(m.booksPath, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		path = filepath.Join(m.booksPath, fmt.Sprintf("%s (%d)%s", base, i, ext))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
	}
}

// sanitizeFilename strips any directory components and characters that
// are unsafe in filenames.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == ".." || name == "/" {
		return ""
	}

	var b strings.Builder
	for _, r := range name {
		switch r {
		case '<', '>', ':', '"', '|', '?', '*', 0:
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

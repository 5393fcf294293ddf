package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage persists uploaded assets and returns their public URL path.
type Storage interface {
	Save(filename string, content io.Reader) (string, error)
	Delete(urlPath string) error
}

// Local stores files on disk under a root directory and serves them from
// /images/.
type Local struct {
	rootDir string
}

func NewLocal(rootDir string) (*Local, error) {
	if rootDir == "" {
		return nil, fmt.Errorf("storage root directory is required")
	}
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage root: %w", err)
	}
	return &Local{rootDir: rootDir}, nil
}

// Save writes content under a random name that keeps the original extension.
func (l *Local) Save(filename string, content io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	name := uuid.NewString() + ext
	dst := filepath.Join(l.rootDir, name)

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("writing file: %w", err)
	}
	return "/images/" + name, nil
}

// Delete removes a previously saved file. Unknown paths are ignored.
func (l *Local) Delete(urlPath string) error {
	name := filepath.Base(strings.TrimPrefix(urlPath, "/images/"))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil
	}
	err := os.Remove(filepath.Join(l.rootDir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing file: %w", err)
	}
	return nil
}

// Dir returns the root directory files are stored under.
func (l *Local) Dir() string {
	return l.rootDir
}

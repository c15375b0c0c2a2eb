package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// Dir reads data files from a local directory.
type Dir struct {
	root string
}

// NewDir returns a Dir rooted at path, which must be an existing directory.
func NewDir(path string) (*Dir, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("data directory %s: %w", path, airroutes.ErrDataFileNotFound)
		}
		return nil, fmt.Errorf("failed to access %s: %w", path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data path %s is not a directory: %w", path, airroutes.ErrInvalidConfig)
	}
	return &Dir{root: abs}, nil
}

// Location returns the directory path.
func (d *Dir) Location() string { return d.root }

// ReadFile reads name, falling back to its compressed variant.
func (d *Dir) ReadFile(_ context.Context, name string) ([]byte, error) {
	for _, candidate := range []string{name, name + CompressedSuffix} {
		data, err := os.ReadFile(filepath.Join(d.root, candidate))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", candidate, err)
		}
		return Decode(candidate, data)
	}
	return nil, fmt.Errorf("%s in %s: %w", name, d.root, airroutes.ErrDataFileNotFound)
}

// WriteFile writes data to name, compressing it when name ends in ".sz".
func (d *Dir) WriteFile(name string, data []byte) error {
	encoded, err := Encode(name, data)
	if err != nil {
		return fmt.Errorf("failed to compress %s: %w", name, err)
	}
	return os.WriteFile(filepath.Join(d.root, name), encoded, 0o644)
}

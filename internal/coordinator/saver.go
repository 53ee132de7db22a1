package coordinator

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Saver persists downloaded content and returns where it went.
type Saver interface {
	Save(filename string, r io.Reader) (string, error)
}

// DirSaver writes downloads into Dir under the file's base name.
type DirSaver struct {
	Dir string
}

func (s DirSaver) Save(filename string, r io.Reader) (string, error) {
	name := filepath.Base(filepath.FromSlash(filename))
	if name == "." || name == string(filepath.Separator) || strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("invalid filename %q", filename)
	}

	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create destination directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+name+".*.part")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	target := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}
	return target, nil
}

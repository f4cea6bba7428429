package uploads

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var ErrInvalidFilename = errors.New("invalid filename")

func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// CleanName strips any directory components from an uploaded filename.
func CleanName(filename string) (string, error) {
	name := filepath.Base(filepath.Clean("/" + filepath.ToSlash(filename)))
	if name == "" || name == "." || name == ".." || name == "/" {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	return name, nil
}

// Save writes r to dir under the base name of filename, replacing any
// existing file, and returns the written path. Readers of the path never see
// a partially written file.
func Save(dir, filename string, r io.Reader) (string, error) {
	staged, err := Stage(dir, filename, r)
	if err != nil {
		return "", err
	}
	defer staged.Discard()

	return staged.Commit()
}

// Staged is an upload written under a temporary name next to its final
// path. It only becomes visible under the final path on Commit.
type Staged struct {
	tmp  string
	path string
}

func Stage(dir, filename string, r io.Reader) (*Staged, error) {
	name, err := CleanName(filename)
	if err != nil {
		return nil, err
	}

	f, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	staged := &Staged{tmp: f.Name(), path: filepath.Join(dir, name)}

	_, err = io.Copy(f, r)
	if err == nil {
		err = f.Chmod(0o644)
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		staged.Discard()
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return staged, nil
}

// Path is where the upload ends up after Commit.
func (s *Staged) Path() string {
	return s.path
}

// Commit moves the upload to its final path, replacing any existing file.
func (s *Staged) Commit() (string, error) {
	if err := os.Rename(s.tmp, s.path); err != nil {
		return "", fmt.Errorf("failed to move upload into place: %w", err)
	}
	return s.path, nil
}

// Discard removes the temporary file. It is a no-op after Commit.
func (s *Staged) Discard() {
	_ = os.Remove(s.tmp)
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// LocalDisk stores files under a root directory.
type LocalDisk struct {
	root    string
	baseURL string
}

// NewLocalDisk resolves root against the working directory. An empty
// baseURL makes URL return file:// URLs.
func NewLocalDisk(root, baseURL string) (*LocalDisk, error) {
	if root == "" {
		root = "storage"
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage/local: resolve %s: %w", root, err)
	}
	return &LocalDisk{root: abs, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Root is the absolute root directory.
func (d *LocalDisk) Root() string { return d.root }

func (d *LocalDisk) abs(p string) (string, error) {
	clean := path.Clean("/" + p)
	if clean == "/" {
		return "", fmt.Errorf("storage/local: empty path")
	}
	return filepath.Join(d.root, filepath.FromSlash(clean)), nil
}

func (d *LocalDisk) Put(_ context.Context, p string, r io.Reader) error {
	full, err := d.abs(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage/local: mkdir: %w", err)
	}
	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("storage/local: create %s: %w", p, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("storage/local: write %s: %w", p, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("storage/local: close %s: %w", p, err)
	}
	return nil
}

func (d *LocalDisk) Open(_ context.Context, p string) (io.ReadCloser, error) {
	full, err := d.abs(p)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("storage/local: open %s: %w", p, ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("storage/local: open %s: %w", p, err)
	}
	return f, nil
}

func (d *LocalDisk) Exists(_ context.Context, p string) (bool, error) {
	full, err := d.abs(p)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (d *LocalDisk) Delete(_ context.Context, p string) error {
	full, err := d.abs(p)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage/local: delete %s: %w", p, err)
	}
	return nil
}

func (d *LocalDisk) Files(_ context.Context, directory string) ([]string, error) {
	dir := filepath.Join(d.root, filepath.FromSlash(path.Clean("/"+directory)))
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage/local: files %s: %w", directory, err)
	}

	out := []string{}
	for _, e := range entries {
		if !e.IsDir() {
			out = append(out, path.Join(strings.Trim(directory, "/"), e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

func (d *LocalDisk) URL(p string) string {
	p = strings.TrimLeft(p, "/")
	if d.baseURL == "" {
		return "file://" + filepath.ToSlash(filepath.Join(d.root, filepath.FromSlash(p)))
	}
	return d.baseURL + "/" + p
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage хранит файлы плоско в одной директории, раздаваемой как статика
type LocalStorage struct {
	dir     string
	baseURL string
}

func NewLocalStorage(cfg Config) (*LocalStorage, error) {
	dir := cfg.BasePath
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &LocalStorage{dir: dir, baseURL: strings.TrimRight(cfg.BaseURL, "/")}, nil
}

func (s *LocalStorage) BasePath() string {
	return s.dir
}

// Save пишет во временный файл и переименовывает, чтобы по URL никогда не отдавался недописанный файл
func (s *LocalStorage) Save(_ context.Context, name string, reader io.Reader, _ string) error {
	target, err := s.resolve(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", name, err)
	}
	return os.Rename(tmp.Name(), target)
}

func (s *LocalStorage) Delete(_ context.Context, name string) error {
	target, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

func (s *LocalStorage) Exists(_ context.Context, name string) (bool, error) {
	target, err := s.resolve(name)
	if err != nil {
		return false, err
	}
	switch _, err := os.Stat(target); {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

func (s *LocalStorage) GetURL(_ context.Context, name string) (string, error) {
	return s.baseURL + "/" + name, nil
}

// resolve принимает только голое имя файла: без каталогов и "../"
func (s *LocalStorage) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid file name: %q", name)
	}
	return filepath.Join(s.dir, name), nil
}

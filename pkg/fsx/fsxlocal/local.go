package fsxlocal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/fsx"
)

// LocalFileSystem implementación sobre el filesystem local, para desarrollo
type LocalFileSystem struct {
	basePath string
	baseURL  string
}

// NewLocalFileSystem crea un filesystem local bajo basePath
func NewLocalFileSystem(basePath string) (*LocalFileSystem, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &LocalFileSystem{basePath: abs, baseURL: "file://" + abs}, nil
}

// GetBasePath retorna el directorio base absoluto
func (l *LocalFileSystem) GetBasePath() string {
	return l.basePath
}

func (l *LocalFileSystem) resolve(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if strings.Contains(clean, "..") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(l.basePath, clean), nil
}

func (l *LocalFileSystem) Exists(ctx context.Context, key string) (bool, error) {
	path, err := l.resolve(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (l *LocalFileSystem) Read(ctx context.Context, key string) ([]byte, error) {
	path, err := l.resolve(key)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func (l *LocalFileSystem) Write(ctx context.Context, key string, data []byte, contentType string) error {
	path, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (l *LocalFileSystem) Delete(ctx context.Context, key string) error {
	path, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// SignedURL en local no firma nada: retorna una URL file:// directa
func (l *LocalFileSystem) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	path, err := l.resolve(key)
	if err != nil {
		return "", err
	}
	return "file://" + path, nil
}

var _ fsx.FileSystem = (*LocalFileSystem)(nil)

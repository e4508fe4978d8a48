package files

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/hoangit2k2/lovepink/internal/core/ports"
)

// LocalStore keeps avatar images on the local filesystem under a single
// base directory. Names are already derived by the service layer; this
// adapter only does the I/O.
type LocalStore struct {
	baseDir string
	logger  *logrus.Logger
}

var _ ports.FileStore = (*LocalStore)(nil)

func NewLocalStore(baseDir string, logger *logrus.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", baseDir, err)
	}
	return &LocalStore{baseDir: baseDir, logger: logger}, nil
}

func (s *LocalStore) path(name string) string {
	// Uploads are keyed by derived names; Base strips any path components a
	// hostile filename might carry.
	return filepath.Join(s.baseDir, filepath.Base(name))
}

func (s *LocalStore) Store(ctx context.Context, name string, content io.Reader) error {
	f, err := os.Create(s.path(name))
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", name, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		return fmt.Errorf("failed to write file %s: %w", name, err)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"file": name}).Debug("stored uploaded file")
	}
	return nil
}

func (s *LocalStore) Delete(ctx context.Context, name string) error {
	if err := os.Remove(s.path(name)); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", name, err)
	}
	return nil
}

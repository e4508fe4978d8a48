package ports

import (
	"context"
	"io"
)

// FileStore persists uploaded avatar images. Delete failures are non-fatal
// to profile updates; callers log and continue.
type FileStore interface {
	Store(ctx context.Context, name string, content io.Reader) error
	Delete(ctx context.Context, name string) error
}

package files

import (
	"context"
	"errors"
	"fmt"
)

// Attachment identifies a file held by an external store. The core looks
// attachments up by ID; it never owns the bytes.
type Attachment struct {
	ID   string
	Name string
	Size int64
	MIME string // declared type, may be empty
}

// ErrNotFound is returned by a Store when no file exists for an id.
var ErrNotFound = errors.New("file not found")

// Store fetches raw file content and its MIME type by attachment id.
type Store interface {
	Get(ctx context.Context, id string) (data []byte, mime string, err error)
}

// Uploader pushes file bytes to a remote location and returns its URI.
type Uploader interface {
	Upload(ctx context.Context, data []byte, mime string) (uri string, err error)
}

// UploadError wraps a failure from an Uploader. Retryable distinguishes
// transient transport failures from permanent rejections; acting on it is the
// caller's decision.
type UploadError struct {
	Retryable bool
	Err       error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed (retryable=%v): %v", e.Retryable, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

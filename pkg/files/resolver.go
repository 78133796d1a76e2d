package files

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	genai "github.com/google/generative-ai-go/genai"
)

// Resolver turns attachment ids into transmittable genai parts. It fetches
// bytes from a Store and decides between inline transmission and a remote
// upload based on size.
type Resolver struct {
	Store       Store
	Uploader    Uploader
	AllowUpload bool
	// SizeThreshold is the inline limit in bytes when uploads are allowed.
	SizeThreshold int64
}

// Resolve fetches the raw bytes and MIME type for an attachment id. A store
// that reports no MIME type gets one sniffed from the content.
func (r *Resolver) Resolve(ctx context.Context, id string) ([]byte, string, error) {
	data, mime, err := r.Store.Get(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("resolve attachment %q: %w", id, err)
	}
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	return data, mime, nil
}

// Part wraps resolved bytes as either an inline blob or an uploaded file
// reference. Uploads happen only when allowed and the payload exceeds the
// threshold; otherwise the bytes travel inline and any capacity limit is the
// caller's concern.
func (r *Resolver) Part(ctx context.Context, data []byte, mime string) (genai.Part, error) {
	if !r.AllowUpload || int64(len(data)) <= r.SizeThreshold {
		return genai.Blob{MIMEType: mime, Data: data}, nil
	}
	if r.Uploader == nil {
		return nil, &UploadError{Err: fmt.Errorf("no uploader configured for %d-byte payload", len(data))}
	}
	uri, err := r.Uploader.Upload(ctx, data, mime)
	if err != nil {
		var ue *UploadError
		if errors.As(err, &ue) {
			return nil, err
		}
		return nil, &UploadError{Retryable: true, Err: err}
	}
	return genai.FileData{MIMEType: mime, URI: uri}, nil
}

// ResolvePart fetches an attachment and wraps it in a single step.
func (r *Resolver) ResolvePart(ctx context.Context, att Attachment) (genai.Part, error) {
	data, mime, err := r.Resolve(ctx, att.ID)
	if err != nil {
		return nil, err
	}
	return r.Part(ctx, data, mime)
}

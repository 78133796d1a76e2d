package files

import (
	"bytes"
	"context"
	"fmt"
	"time"

	genai "github.com/google/generative-ai-go/genai"
)

// GeminiUploader pushes file bytes through the Gemini File API and waits for
// the file to become active before handing out its URI.
type GeminiUploader struct {
	Client *genai.Client
	// PollInterval controls how often file state is re-checked after upload.
	// Zero means one second.
	PollInterval time.Duration
}

func (u *GeminiUploader) Upload(ctx context.Context, data []byte, mime string) (string, error) {
	file, err := u.Client.UploadFile(ctx, "", bytes.NewReader(data), &genai.UploadFileOptions{
		MIMEType: mime,
	})
	if err != nil {
		return "", &UploadError{Retryable: true, Err: err}
	}

	interval := u.PollInterval
	if interval <= 0 {
		interval = time.Second
	}
	for file.State == genai.FileStateProcessing {
		select {
		case <-ctx.Done():
			return "", &UploadError{Retryable: true, Err: ctx.Err()}
		case <-time.After(interval):
		}
		file, err = u.Client.GetFile(ctx, file.Name)
		if err != nil {
			return "", &UploadError{Retryable: true, Err: err}
		}
	}
	if file.State != genai.FileStateActive {
		return "", &UploadError{Err: fmt.Errorf("uploaded file %s entered state %v", file.Name, file.State)}
	}
	return file.URI, nil
}

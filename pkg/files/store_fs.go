package files

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FSStore serves file content from a flat directory, one file per attachment
// id. Useful for local deployments and tests.
type FSStore struct {
	BaseDir string // e.g. "./data/uploads"
}

func (s FSStore) Get(ctx context.Context, id string) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(filepath.Join(s.BaseDir, sanitizeID(id)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("%q: %w", id, ErrNotFound)
		}
		return nil, "", err
	}
	// MIME is sniffed by the resolver; the filesystem carries none.
	return data, "", nil
}

// Put stores content under the given id, creating the base directory on
// first use.
func (s FSStore) Put(id string, data []byte) error {
	if err := os.MkdirAll(s.BaseDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.BaseDir, sanitizeID(id)), data, 0o644)
}

func sanitizeID(id string) string {
	out := make([]rune, 0, len(id))
	for _, r := range id {
		if r == '/' || r == '\\' || r == '.' {
			out = append(out, '_')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

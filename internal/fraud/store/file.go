package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mohamkz/banking-app/internal/fraud/model"
	"github.com/mohamkz/banking-app/internal/pkg/pkgerror"
)

// DefaultPath is where the trainer writes and the scorer reads by default.
const DefaultPath = "model/fraud_model.json"

// FileStore keeps the artifact as a JSON file on the local filesystem.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPath
	}
	return &FileStore{path: path}
}

func (s *FileStore) Location() string {
	return s.path
}

// Save writes the artifact through a temporary file in the same directory and
// renames it into place, so readers never observe a partial file.
func (s *FileStore) Save(ctx context.Context, artifact model.Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := artifact.Marshal()
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create model directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".fraud_model-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck,gosec // write error wins
		return fmt.Errorf("write model: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close() //nolint:errcheck,gosec // sync error wins
		return fmt.Errorf("sync model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close model: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("publish model: %w", err)
	}

	return nil
}

func (s *FileStore) Load(ctx context.Context) (model.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return model.Artifact{}, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.Artifact{}, fmt.Errorf("model file %s: %w", s.path, pkgerror.ErrNotFound)
	}
	if err != nil {
		return model.Artifact{}, fmt.Errorf("read model file: %w", err)
	}

	return model.UnmarshalArtifact(data)
}

package store

import (
	"context"
	"sync"

	"github.com/mohamkz/banking-app/internal/fraud/model"
	"github.com/mohamkz/banking-app/internal/pkg/pkgerror"
)

// MemoryStore holds the artifact in process. It backs tests and a trainer run
// with -dry-run.
type MemoryStore struct {
	mu       sync.RWMutex
	data     []byte
	hasValue bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Location() string {
	return "memory"
}

// Save keeps the encoded form so Load returns an independent copy.
func (s *MemoryStore) Save(_ context.Context, artifact model.Artifact) error {
	data, err := artifact.Marshal()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = data
	s.hasValue = true

	return nil
}

func (s *MemoryStore) Load(_ context.Context) (model.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.hasValue {
		return model.Artifact{}, pkgerror.ErrNotFound
	}

	return model.UnmarshalArtifact(s.data)
}

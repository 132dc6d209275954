package pkguid

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerateVersion7(t *testing.T) {
	gen := NewUUID()

	id, err := uuid.Parse(gen.Generate())
	if err != nil {
		t.Fatalf("expected valid uuid: %v", err)
	}
	if id.Version() != 7 {
		t.Fatalf("expected version 7, got %d", id.Version())
	}
}

func TestUUIDGenerateSortsByCreation(t *testing.T) {
	gen := NewUUID()

	prev := gen.Generate()
	for range 100 {
		next := gen.Generate()
		if next <= prev {
			t.Fatalf("expected %q after %q", next, prev)
		}
		prev = next
	}
}

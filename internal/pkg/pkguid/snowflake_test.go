package pkguid

import "testing"

func TestGenerateRandomNodeIDRange(t *testing.T) {
	id, err := generateRandomNodeID()
	if err != nil {
		t.Fatalf("generateRandomNodeID: %v", err)
	}
	if id < 0 || id > MaxNode {
		t.Fatalf("expected id within 0..%d, got %d", MaxNode, id)
	}
}

func TestSnowflakeGenerateIncreasing(t *testing.T) {
	gen, err := NewSnowflake()
	if err != nil {
		t.Fatalf("NewSnowflake: %v", err)
	}

	prev := gen.Generate()
	for range 100 {
		next := gen.Generate()
		if next <= prev {
			t.Fatalf("expected %d > %d", next, prev)
		}
		prev = next
	}
}

func TestSnowflakeNode(t *testing.T) {
	if _, err := NewSnowflakeNode(-1); err == nil {
		t.Fatal("expected error for negative node")
	}
	if _, err := NewSnowflakeNode(MaxNode + 1); err == nil {
		t.Fatal("expected error for node above range")
	}

	gen, err := NewSnowflakeNode(7)
	if err != nil {
		t.Fatalf("NewSnowflakeNode: %v", err)
	}
	if id := gen.Generate(); (id>>12)&MaxNode != 7 {
		t.Fatalf("expected node 7 encoded in %d", id)
	}
}

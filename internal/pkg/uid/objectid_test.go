package uid

import (
	"strings"
	"testing"
)

func TestObjectIDGenerate(t *testing.T) {
	gen, err := NewObjectIDGenerator()
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := gen.Generate()
		if len(id) != 64 {
			t.Fatalf("expected 64 hex chars, got %d in %q", len(id), id)
		}
		if strings.Trim(id, "0123456789abcdef") != "" {
			t.Fatalf("non-hex character in %q", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}

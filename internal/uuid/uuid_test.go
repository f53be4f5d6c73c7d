package uuid

import (
	"testing"
	"time"

	googleuuid "github.com/google/uuid"
)

func TestNew(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := New()
		parsed, err := googleuuid.Parse(id)
		if err != nil {
			t.Fatalf("invalid id %q: %v", id, err)
		}
		if parsed.Version() != 7 {
			t.Fatalf("expected version 7, got %d", parsed.Version())
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestNew_SortsByCreation(t *testing.T) {
	first := New()
	time.Sleep(2 * time.Millisecond)
	second := New()
	if first >= second {
		t.Errorf("expected %s to sort before %s", first, second)
	}
}

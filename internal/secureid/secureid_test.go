package secureid

import (
	"regexp"
	"testing"
)

// Canonical v4 grouping: version nibble is 4, variant nibble is 8, 9, a or b.
var v4Pattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func TestNew_Format(t *testing.T) {
	id := New()
	if !v4Pattern.MatchString(id) {
		t.Errorf("New() = %q, not a canonical version-4 identifier", id)
	}
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]bool, 100)
	for i := 0; i < 100; i++ {
		id := New()
		if seen[id] {
			t.Fatalf("duplicate identifier after %d calls: %s", i, id)
		}
		if !v4Pattern.MatchString(id) {
			t.Fatalf("call %d produced malformed identifier %q", i, id)
		}
		seen[id] = true
	}
}

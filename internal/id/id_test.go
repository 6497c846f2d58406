package id

import "testing"

func TestNew_UniqueAndOrdered(t *testing.T) {
	const n = 1000
	seen := make(map[string]struct{}, n)
	prev := ""
	for i := 0; i < n; i++ {
		got := New()
		if len(got) != 26 {
			t.Fatalf("ULID length = %d, want 26 (%q)", len(got), got)
		}
		if _, dup := seen[got]; dup {
			t.Fatalf("duplicate ULID generated: %q", got)
		}
		seen[got] = struct{}{}
		if got <= prev {
			t.Fatalf("ULIDs not increasing: %q after %q", got, prev)
		}
		prev = got
	}
}

func TestValid(t *testing.T) {
	if !Valid(New()) {
		t.Error("freshly generated ULID should validate")
	}
	if Valid("not-a-ulid") {
		t.Error("garbage should not validate")
	}
}

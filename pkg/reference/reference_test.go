package reference

import "testing"

func TestNew_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		ref := New()
		if len(ref) != Length {
			t.Fatalf("expected %d characters, got %q", Length, ref)
		}
		for _, c := range ref {
			if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
				t.Fatalf("reference %q contains invalid character %q", ref, c)
			}
		}
	}
}

func TestNew_Distinct(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 10000; i++ {
		ref := New()
		if _, dup := seen[ref]; dup {
			t.Fatalf("duplicate reference %q after %d generations", ref, i)
		}
		seen[ref] = struct{}{}
	}
}

package content

import (
	"testing"
)

func TestFingerprint_WhitespaceInsensitive(t *testing.T) {
	a := Fingerprint("hello world")
	b := Fingerprint("  hello world \n")
	if a != b {
		t.Fatalf("trimmed texts must share a fingerprint")
	}
	if a == Fingerprint("hello  world") {
		t.Fatalf("interior whitespace must count")
	}
	if len(a) != 64 {
		t.Fatalf("expected hex sha256, got %q", a)
	}
}

func TestDocumentFingerprint_OrderIndependent(t *testing.T) {
	a := DocumentFingerprint(map[string]string{"x": "1", "y": "2"})
	b := DocumentFingerprint(map[string]string{"y": "2", "x": "1"})
	if a != b {
		t.Fatalf("map ordering must not matter")
	}
	if a == DocumentFingerprint(map[string]string{"x": "1", "y": "3"}) {
		t.Fatalf("changed section must change document fingerprint")
	}
	if a == DocumentFingerprint(map[string]string{"x": "1"}) {
		t.Fatalf("dropped section must change document fingerprint")
	}
}

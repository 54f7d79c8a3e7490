package testfixtures

import "testing"

func TestIDGeneratorProducesSequentialIDs(t *testing.T) {
	gen := NewIDGenerator("group")

	first := gen.Next()
	second := gen.Next()

	if first != "group-1" || second != "group-2" {
		t.Fatalf("unexpected identifiers: %q, %q", first, second)
	}
}

func TestIDGeneratorReset(t *testing.T) {
	gen := NewIDGenerator("member")
	_ = gen.Next()
	_ = gen.Next()
	gen.Reset()

	if next := gen.Next(); next != "member-1" {
		t.Fatalf("expected member-1 after reset, got %q", next)
	}
}

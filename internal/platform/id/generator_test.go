package id

import "testing"

func TestUUIDGenerator_NewID(t *testing.T) {
	t.Parallel()

	gen := NewUUIDGenerator()
	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	second, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if first == second {
		t.Fatalf("expected unique ids, got %s twice", first)
	}
	if !Valid(first) {
		t.Fatalf("expected %s to be a valid uuid", first)
	}
	if first >= second {
		t.Fatalf("expected v7 ids to sort by creation: %s >= %s", first, second)
	}
	if Valid("not-a-uuid") {
		t.Fatalf("expected invalid id to be rejected")
	}
}

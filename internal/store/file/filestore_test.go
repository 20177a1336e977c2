package file

import (
	"bytes"
	"context"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if _, ok, err := s.Load(ctx, "rollcall-employees"); err != nil || ok {
		t.Fatalf("fresh store: ok=%v err=%v", ok, err)
	}

	payload := []byte(`[{"id":"emp-1"}]`)
	if err := s.Save(ctx, "rollcall-employees", payload); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, ok, err := s.Load(ctx, "rollcall-employees")
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("Load = %s, want %s", data, payload)
	}

	// Overwrite replaces the blob in place.
	if err := s.Save(ctx, "rollcall-employees", []byte(`[]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	data, _, _ = s.Load(ctx, "rollcall-employees")
	if string(data) != `[]` {
		t.Fatalf("overwrite not applied: %s", data)
	}

	if err := s.Delete(ctx, "rollcall-employees"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Load(ctx, "rollcall-employees"); ok {
		t.Fatalf("key still present after delete")
	}
	// Deleting an absent key is a no-op.
	if err := s.Delete(ctx, "rollcall-employees"); err != nil {
		t.Fatalf("double delete: %v", err)
	}
}

func TestOpenRequiresDir(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatalf("expected error for blank directory")
	}
}

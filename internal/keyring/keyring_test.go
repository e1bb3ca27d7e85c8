package keyring

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestPasswordLifecycle(t *testing.T) {
	keyring.MockInit()

	id := "3f2a9c1e-index"
	if HasPassword(id) {
		t.Fatal("expected no password before save")
	}

	if err := SavePassword(id, []byte("s3cret")); err != nil {
		t.Fatalf("SavePassword failed: %v", err)
	}
	if !HasPassword(id) {
		t.Error("expected password after save")
	}

	got, err := GetPassword(id)
	if err != nil {
		t.Fatalf("GetPassword failed: %v", err)
	}
	if string(got) != "s3cret" {
		t.Errorf("got %q, want %q", got, "s3cret")
	}

	if err := DeletePassword(id); err != nil {
		t.Fatalf("DeletePassword failed: %v", err)
	}
	if _, err := GetPassword(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSavePasswordRequiresID(t *testing.T) {
	keyring.MockInit()

	if err := SavePassword("", []byte("x")); err == nil {
		t.Error("expected error for empty index ID")
	}
}

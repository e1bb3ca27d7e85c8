package storage

import (
	"errors"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) (*Storage, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.sealfile")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := db.Initialize(); err != nil {
		db.Close()
		t.Fatalf("Failed to initialize: %v", err)
	}
	return db, dbPath
}

func TestOpenAndInitialize(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	initialized, err := db.IsInitialized()
	if err != nil {
		t.Fatalf("Failed to check initialization: %v", err)
	}
	if !initialized {
		t.Error("Database should be initialized")
	}

	// Initialize is idempotent
	if err := db.Initialize(); err != nil {
		t.Fatalf("Second initialize failed: %v", err)
	}

	if _, err := db.GetModified(); err != nil {
		t.Errorf("Modified time should be set: %v", err)
	}
}

func TestIndexID(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	if _, err := db.GetIndexID(); err == nil {
		t.Fatal("Expected error before index ID is created")
	}

	id, err := db.GetOrCreateIndexID()
	if err != nil {
		t.Fatalf("Failed to create index ID: %v", err)
	}
	if len(id) != 36 {
		t.Errorf("Expected UUID string, got %q", id)
	}

	again, err := db.GetOrCreateIndexID()
	if err != nil {
		t.Fatalf("Failed to get index ID: %v", err)
	}
	if again != id {
		t.Errorf("Index ID changed: %s -> %s", id, again)
	}
}

func TestRecordGetRemove(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	container := []byte("salt-nonce-ciphertext")
	entry := NewEntry("secret.txt.sealed", "secret.txt", 11, 0600, container)
	if err := db.Record(entry); err != nil {
		t.Fatalf("Failed to record entry: %v", err)
	}

	got, err := db.Get("secret.txt.sealed")
	if err != nil {
		t.Fatalf("Failed to get entry: %v", err)
	}
	if got.Source != "secret.txt" {
		t.Errorf("Source mismatch: got %s, want secret.txt", got.Source)
	}
	if got.PlaintextSize != 11 {
		t.Errorf("Size mismatch: got %d, want 11", got.PlaintextSize)
	}
	if !got.Matches(container) {
		t.Error("Entry should match its container")
	}
	if got.Matches([]byte("salt-nonce-ciphertexT")) {
		t.Error("Entry should not match modified container")
	}

	if err := db.Remove("secret.txt.sealed"); err != nil {
		t.Fatalf("Failed to remove entry: %v", err)
	}
	if _, err := db.Get("secret.txt.sealed"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after removal, got %v", err)
	}
}

func TestListSorted(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	for _, name := range []string{"c.sealed", "a.sealed", "b.sealed"} {
		if err := db.Record(NewEntry(name, name[:1], 1, 0600, []byte(name))); err != nil {
			t.Fatalf("Failed to record %s: %v", name, err)
		}
	}

	entries, err := db.List()
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	for i, want := range []string{"a.sealed", "b.sealed", "c.sealed"} {
		if entries[i].Container != want {
			t.Errorf("Entry %d: got %s, want %s", i, entries[i].Container, want)
		}
	}
}

func TestPersistenceAndCompact(t *testing.T) {
	db, dbPath := openTestDB(t)

	if err := db.Record(NewEntry("x.sealed", "x", 4, 0600, []byte("data"))); err != nil {
		t.Fatalf("Failed to record: %v", err)
	}
	id, err := db.GetOrCreateIndexID()
	if err != nil {
		t.Fatalf("Failed to create index ID: %v", err)
	}

	if err := db.Compact(); err != nil {
		t.Fatalf("Compact failed: %v", err)
	}
	db.Close()

	db2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer db2.Close()

	if _, err := db2.Get("x.sealed"); err != nil {
		t.Errorf("Entry not persisted: %v", err)
	}
	got, err := db2.GetIndexID()
	if err != nil || got != id {
		t.Errorf("Index ID not persisted: got %q, %v", got, err)
	}
}

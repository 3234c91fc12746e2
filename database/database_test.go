package database

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return db
}

func TestPutGetDelete(t *testing.T) {
	db := openTestDB(t)

	key := []byte("key")
	value := []byte("value")
	if err := db.Put(key, value); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := db.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, value) {
		t.Fatalf("Get: got %q, want %q", got, value)
	}

	exists, err := db.Has(key)
	if err != nil {
		t.Fatalf("Has: %v", err)
	}
	if !exists {
		t.Fatal("Has: key reported missing after Put")
	}

	if err := db.Delete(key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := db.Get(key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after Delete: got %v, want ErrNotFound", err)
	}

	// Deleting a missing key is not an error.
	if err := db.Delete(key); err != nil {
		t.Fatalf("Delete missing key: %v", err)
	}
}

func TestCursor(t *testing.T) {
	db := openTestDB(t)

	// Two keys under the prefix and one outside of it.
	entries := map[string]string{
		"prefix-b": "2",
		"prefix-a": "1",
		"other-c":  "3",
	}
	for key, value := range entries {
		if err := db.Put([]byte(key), []byte(value)); err != nil {
			t.Fatalf("Put %q: %v", key, err)
		}
	}

	cursor := db.Cursor([]byte("prefix-"))
	var keys []string
	for cursor.Next() {
		key, err := cursor.Key()
		if err != nil {
			t.Fatalf("Key: %v", err)
		}
		keys = append(keys, string(key))
	}
	if err := cursor.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	want := []string{"prefix-a", "prefix-b"}
	if len(keys) != len(want) || keys[0] != want[0] || keys[1] != want[1] {
		t.Fatalf("cursor keys: got %v, want %v", keys, want)
	}

	// The cursor refuses use after close.
	if cursor.Next() {
		t.Fatal("Next succeeded on a closed cursor")
	}
	if err := cursor.Close(); err == nil {
		t.Fatal("expected error closing an already closed cursor")
	}
}

package local

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestPutThenOpenRoundTrip(t *testing.T) {
	store := New(t.TempDir())

	written, err := store.Put(context.Background(), "u1/cv.pdf.extracted.txt", "text/plain", strings.NewReader("resume text"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if written != int64(len("resume text")) {
		t.Fatalf("wrote %d bytes, want %d", written, len("resume text"))
	}

	rc, err := store.Open(context.Background(), "u1/cv.pdf.extracted.txt")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "resume text" {
		t.Fatalf("round trip mismatch: %q", data)
	}
}

func TestOpenMissingKeyFails(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Open(context.Background(), "nope.txt"); err == nil {
		t.Fatal("expected an error for a missing object")
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	store := New(t.TempDir())
	for _, key := range []string{"../escape.txt", "/abs/path.txt", "a/../../b"} {
		if _, err := store.Put(context.Background(), key, "text/plain", strings.NewReader("x")); err == nil {
			t.Fatalf("put must reject key %q", key)
		}
		if _, err := store.Open(context.Background(), key); err == nil {
			t.Fatalf("open must reject key %q", key)
		}
	}
}

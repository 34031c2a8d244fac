package storage

import (
	"context"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	signer, err := NewURLSigner("test-secret")
	if err != nil {
		t.Fatalf("NewURLSigner: %v", err)
	}
	store, err := NewFileStore(t.TempDir(), "http://localhost:8080", signer)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return store
}

func TestFileStoreUploadDownloadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	path, err := store.Upload(ctx, "user-1/job-1/0.png", []byte("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if path != "user-1/job-1/0.png" {
		t.Fatalf("stored path = %q", path)
	}

	data, err := store.Download(ctx, path)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("data = %q", data)
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Upload(context.Background(), "../escape.png", []byte("x"), "image/png"); err == nil {
		t.Fatal("expected error for traversal path")
	}
}

func TestFileStoreSignedURLServesAndExpires(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	if _, err := store.Upload(ctx, "u/j/1.png", []byte("panel"), "image/png"); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	url, err := store.SignedURL("u/j/1.png", time.Minute)
	if err != nil {
		t.Fatalf("SignedURL: %v", err)
	}
	if !strings.Contains(url, "/files/u/j/1.png?") {
		t.Fatalf("unexpected url: %q", url)
	}

	exp, sig := store.signer.Sign("u/j/1.png", time.Minute)
	data, err := store.Open("u/j/1.png", exp, sig)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if string(data) != "panel" {
		t.Fatalf("data = %q", data)
	}

	// Expired timestamps are rejected even with a valid signature shape.
	expiredExp, expiredSig := store.signer.Sign("u/j/1.png", -time.Minute)
	if _, err := store.Open("u/j/1.png", expiredExp, expiredSig); err == nil {
		t.Fatal("expected error for expired signature")
	}

	// Tampered signature is rejected.
	if _, err := store.Open("u/j/1.png", exp, sig+"x"); err == nil {
		t.Fatal("expected error for bad signature")
	}
}

func TestSignedURLsDifferAcrossMints(t *testing.T) {
	signer, _ := NewURLSigner("secret")
	exp1, sig1 := signer.Sign("u/j/0.png", time.Minute)
	time.Sleep(1100 * time.Millisecond)
	exp2, sig2 := signer.Sign("u/j/0.png", time.Minute)
	if exp1 == exp2 && sig1 == sig2 {
		t.Fatal("expected fresh mints to differ over time")
	}
}

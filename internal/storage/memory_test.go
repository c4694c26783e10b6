package storage

import (
	"context"
	"strings"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	blobURL, err := store.Upload(ctx, "photo.jpg", strings.NewReader("jpeg-bytes"), 10, "image/jpeg")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if !store.Has(blobURL) {
		t.Error("blob not found after upload")
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 blob, got %d", store.Len())
	}

	if err := store.Delete(ctx, blobURL); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if store.Has(blobURL) {
		t.Error("blob still present after delete")
	}
	if err := store.Delete(ctx, blobURL); err == nil {
		t.Error("expected error deleting a missing blob")
	}
}

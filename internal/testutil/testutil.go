// Package testutil provides shared in-memory fixtures for service tests.
package testutil

import (
	"context"
	"testing"

	"github.com/starford/dagaz/internal/blob"
	"github.com/starford/dagaz/internal/llm"
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/store"
)

// Env bundles the in-memory store, blob provider, and scripted completion
// client used across service tests.
type Env struct {
	Store *store.Memory
	Blobs *blob.Memory
	LLM   *llm.Fake
}

// NewEnv creates a fresh in-memory environment. The fake completion client
// replays the given texts in order (the last repeats).
func NewEnv(t *testing.T, llmReplies ...string) *Env {
	t.Helper()
	return &Env{
		Store: store.NewMemory(),
		Blobs: blob.NewMemory(),
		LLM:   llm.NewFakeText(llmReplies...),
	}
}

// MustFolder creates a folder directly in the store.
func MustFolder(t *testing.T, st store.Store, name string, x, y int) *models.Folder {
	t.Helper()
	f := &models.Folder{Name: name, X: x, Y: y}
	if err := st.CreateFolder(context.Background(), f); err != nil {
		t.Fatalf("create folder %s: %v", name, err)
	}
	return f
}

// MustDocument creates a document record directly in the store, optionally
// backed by a blob.
func MustDocument(t *testing.T, st store.Store, blobs *blob.Memory, name, content string) *models.Document {
	t.Helper()
	d := &models.Document{Name: name, OriginalName: name + ".pdf", Content: content}
	if blobs != nil {
		ref, err := blobs.Upload(context.Background(), []byte(content), name+".pdf", "application/pdf")
		if err != nil {
			t.Fatalf("upload blob for %s: %v", name, err)
		}
		d.FileURL = ref.URL
		d.FileID = ref.ID
	}
	if err := st.CreateDocument(context.Background(), d); err != nil {
		t.Fatalf("create document %s: %v", name, err)
	}
	return d
}

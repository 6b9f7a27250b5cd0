package models

import (
	"encoding/json"
	"testing"
)

func TestFolderItemFlatWire(t *testing.T) {
	item := NewBookmarkItem("f1", "blog", 3, 4, BookmarkPayload{
		URL:        "https://go.dev/blog",
		FaviconURL: "https://example.com/favicon.ico",
	})

	raw, err := json.Marshal(item)
	if err != nil {
		t.Fatal(err)
	}
	var wire map[string]any
	if err := json.Unmarshal(raw, &wire); err != nil {
		t.Fatal(err)
	}

	if wire["type"] != string(ItemBookmark) || wire["url"] != "https://go.dev/blog" {
		t.Fatalf("wire = %v", wire)
	}
	// Fields of the other variants are present as explicit nulls.
	for _, field := range []string{"content", "fileUrl", "fileId", "originalName", "mimeType", "fileSize"} {
		v, present := wire[field]
		if !present {
			t.Errorf("field %q absent from wire shape", field)
		}
		if v != nil {
			t.Errorf("field %q = %v, want null", field, v)
		}
	}

	var back FolderItem
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if back.Bookmark == nil || back.Bookmark.URL != item.Bookmark.URL {
		t.Fatalf("round trip lost bookmark payload: %+v", back)
	}
	if back.File != nil || back.Note != nil {
		t.Fatalf("round trip grew spurious payloads: %+v", back)
	}
}

func TestNoteItemEmptyContentIsNotNull(t *testing.T) {
	item := NewNoteItem("f1", "empty", 0, 0, NotePayload{Content: ""})
	raw, err := json.Marshal(item)
	if err != nil {
		t.Fatal(err)
	}
	var wire map[string]any
	_ = json.Unmarshal(raw, &wire)

	// An empty note has content "" on the wire; null means "not a note".
	if v, present := wire["content"]; !present || v != "" {
		t.Fatalf("content = %v (present=%v), want empty string", v, present)
	}
}

func TestVaultItemFlatWire(t *testing.T) {
	item := NewAPIKeyVaultItem("openai", APIKeyPayload{APIKey: "sk-test"})
	raw, err := json.Marshal(item)
	if err != nil {
		t.Fatal(err)
	}
	var wire map[string]any
	_ = json.Unmarshal(raw, &wire)

	if wire["apiKey"] != "sk-test" {
		t.Fatalf("apiKey = %v", wire["apiKey"])
	}
	for _, field := range []string{"username", "password", "value"} {
		if v, present := wire[field]; !present || v != nil {
			t.Errorf("field %q = %v (present=%v), want null", field, v, present)
		}
	}

	var back VaultItem
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if back.APIKey == nil || back.APIKey.APIKey != "sk-test" || back.Password != nil {
		t.Fatalf("round trip = %+v", back)
	}
}

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/models"
)

func TestFolderCRUD(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	f := &models.Folder{Name: "Projects", X: 20, Y: 20}
	if err := m.CreateFolder(ctx, f); err != nil {
		t.Fatalf("create: %v", err)
	}
	if f.ID == "" {
		t.Fatal("no id assigned on create")
	}

	if err := m.CreateFolder(ctx, &models.Folder{Name: "Projects"}); !errors.Is(err, apperr.ErrDuplicateName) {
		t.Fatalf("duplicate create err = %v, want ErrDuplicateName", err)
	}

	name := "Work"
	got, err := m.UpdateFolder(ctx, f.ID, FolderUpdate{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "Work" || got.X != 20 {
		t.Fatalf("updated folder = %+v", got)
	}

	if _, err := m.UpdateFolder(ctx, "missing", FolderUpdate{Name: &name}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("update missing err = %v, want ErrNotFound", err)
	}

	// Delete is a silent no-op for unknown ids.
	if err := m.DeleteFolder(ctx, "missing"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if err := m.DeleteFolder(ctx, f.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := m.Folder(ctx, f.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("folder after delete err = %v, want ErrNotFound", err)
	}
}

func TestRenameFolderToOwnName(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	f := &models.Folder{Name: "Projects"}
	if err := m.CreateFolder(ctx, f); err != nil {
		t.Fatal(err)
	}

	same := "Projects"
	if _, err := m.UpdateFolder(ctx, f.ID, FolderUpdate{Name: &same}); err != nil {
		t.Fatalf("rename to own name: %v", err)
	}
}

func TestItemContentUpdateOnlyTouchesNotes(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	note := models.NewNoteItem("f1", "todo", 0, 0, models.NotePayload{Content: "buy milk"})
	if err := m.CreateItem(ctx, note); err != nil {
		t.Fatal(err)
	}

	content := "buy bread"
	got, err := m.UpdateItem(ctx, note.ID, ItemUpdate{Content: &content})
	if err != nil {
		t.Fatal(err)
	}
	if got.Note == nil || got.Note.Content != "buy bread" {
		t.Fatalf("note after update = %+v", got)
	}
	if got.Type != models.ItemNote || got.FolderID != "f1" {
		t.Fatalf("type/folder changed: %+v", got)
	}

	bookmark := models.NewBookmarkItem("f1", "blog", 0, 0, models.BookmarkPayload{URL: "https://go.dev"})
	if err := m.CreateItem(ctx, bookmark); err != nil {
		t.Fatal(err)
	}
	got, err = m.UpdateItem(ctx, bookmark.ID, ItemUpdate{Content: &content})
	if err != nil {
		t.Fatal(err)
	}
	if got.Note != nil {
		t.Fatalf("bookmark grew a note payload: %+v", got)
	}
}

func TestItemsByFolderScoping(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for i := 0; i < 3; i++ {
		if err := m.CreateItem(ctx, models.NewNoteItem("a", "n", 0, 0, models.NotePayload{})); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.CreateItem(ctx, models.NewNoteItem("b", "n", 0, 0, models.NotePayload{})); err != nil {
		t.Fatal(err)
	}

	items, err := m.ItemsByFolder(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 {
		t.Fatalf("items in a = %d, want 3", len(items))
	}
	items, _ = m.ItemsByFolder(ctx, "missing")
	if len(items) != 0 {
		t.Fatalf("items in missing folder = %d, want 0", len(items))
	}
}

func TestDocumentsByIDsDropsUnresolvable(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	d := &models.Document{Name: "report", Content: "text"}
	if err := m.CreateDocument(ctx, d); err != nil {
		t.Fatal(err)
	}

	docs, err := m.DocumentsByIDs(ctx, []string{d.ID, "missing", "also-missing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].ID != d.ID {
		t.Fatalf("resolved docs = %+v", docs)
	}
}

func TestMessagesAppendOnlyOrder(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for _, content := range []string{"one", "two", "three"} {
		if err := m.CreateMessage(ctx, &models.DocMessage{Role: models.RoleUser, Content: content}); err != nil {
			t.Fatal(err)
		}
	}
	msgs, err := m.Messages(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 3 || msgs[0].Content != "one" || msgs[2].Content != "three" {
		t.Fatalf("messages = %+v", msgs)
	}
}

func TestDeleteMessagesByDocument(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_ = m.CreateMessage(ctx, &models.DocMessage{DocumentID: "d1", Role: models.RoleUser, Content: "a"})
	_ = m.CreateMessage(ctx, &models.DocMessage{Role: models.RoleUser, Content: "general"})
	_ = m.CreateMessage(ctx, &models.DocMessage{DocumentID: "d1", Role: models.RoleAssistant, Content: "b"})

	if err := m.DeleteMessagesByDocument(ctx, "d1"); err != nil {
		t.Fatal(err)
	}
	msgs, _ := m.Messages(ctx)
	if len(msgs) != 1 || msgs[0].Content != "general" {
		t.Fatalf("remaining messages = %+v", msgs)
	}
}

func TestReplaceVaultItemPreservesIdentity(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	v := models.NewPasswordVaultItem("github", models.PasswordPayload{Username: "me", Password: "x"})
	if err := m.CreateVaultItem(ctx, v); err != nil {
		t.Fatal(err)
	}

	repl := models.NewAPIKeyVaultItem("github token", models.APIKeyPayload{APIKey: "k"})
	got, err := m.ReplaceVaultItem(ctx, v.ID, repl)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != v.ID {
		t.Errorf("id changed: %s -> %s", v.ID, got.ID)
	}
	if !got.CreatedAt.Equal(v.CreatedAt) {
		t.Errorf("createdAt changed: %v -> %v", v.CreatedAt, got.CreatedAt)
	}
	if got.Type != models.VaultAPIKey || got.Password != nil {
		t.Errorf("replaced item = %+v", got)
	}

	if _, err := m.ReplaceVaultItem(ctx, "missing", repl); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("replace missing err = %v", err)
	}
}

func TestContextUpsertSingleton(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, err := m.Context(ctx); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("context before upsert err = %v, want ErrNotFound", err)
	}

	first, err := m.UpsertContext(ctx, "v1")
	if err != nil {
		t.Fatal(err)
	}
	second, err := m.UpsertContext(ctx, "v2")
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != second.ID {
		t.Errorf("upsert created a second record: %s vs %s", first.ID, second.ID)
	}
	snap, err := m.Context(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if snap.ContextData != "v2" {
		t.Errorf("contextData = %q, want v2", snap.ContextData)
	}
}

package deskservice

import (
	"context"
	"errors"
	"testing"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/store"
	"github.com/starford/dagaz/internal/testutil"
)

func newService(t *testing.T) (*Service, *testutil.Env) {
	t.Helper()
	env := testutil.NewEnv(t)
	return NewService(env.Store, env.Blobs, nil, nil), env
}

func TestCreateFolderDuplicateName(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	if _, err := svc.CreateFolder(ctx, "Projects", 20, 20); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateFolder(ctx, "Projects", 0, 0); !errors.Is(err, apperr.ErrDuplicateName) {
		t.Fatalf("duplicate err = %v, want ErrDuplicateName", err)
	}
	if _, err := svc.CreateFolder(ctx, "   ", 0, 0); !apperr.IsValidation(err) {
		t.Fatalf("blank name err = %v, want validation error", err)
	}
}

func TestRenameFolderCollision(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	a, _ := svc.CreateFolder(ctx, "A", 0, 0)
	if _, err := svc.CreateFolder(ctx, "B", 0, 0); err != nil {
		t.Fatal(err)
	}

	name := "B"
	if _, err := svc.UpdateFolder(ctx, a.ID, store.FolderUpdate{Name: &name}); !errors.Is(err, apperr.ErrDuplicateName) {
		t.Fatalf("rename collision err = %v, want ErrDuplicateName", err)
	}
	own := "A"
	if _, err := svc.UpdateFolder(ctx, a.ID, store.FolderUpdate{Name: &own}); err != nil {
		t.Fatalf("rename to own name: %v", err)
	}
	if _, err := svc.UpdateFolder(ctx, "missing", store.FolderUpdate{Name: &own}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("rename missing err = %v, want ErrNotFound", err)
	}
}

func TestDeleteFolderCascades(t *testing.T) {
	ctx := context.Background()
	svc, env := newService(t)

	f, err := svc.CreateFolder(ctx, "Projects", 20, 20)
	if err != nil {
		t.Fatal(err)
	}

	file, err := svc.CreateFileItem(ctx, f.ID, FileUpload{Data: []byte("pdf bytes"), Filename: "report.pdf", MimeType: "application/pdf"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateNoteItem(ctx, f.ID, "todo", "buy milk", 0, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateBookmarkItem(ctx, f.ID, "blog", "https://go.dev/blog", 0, 0); err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteFolder(ctx, f.ID); err != nil {
		t.Fatalf("delete folder: %v", err)
	}

	items, err := env.Store.ItemsByFolder(ctx, f.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Errorf("orphaned items after cascade: %+v", items)
	}
	deleted := env.Blobs.Deleted()
	if len(deleted) != 1 || deleted[0] != file.File.FileID {
		t.Errorf("blob cleanup = %v, want the file item's blob", deleted)
	}
}

func TestDeleteFolderUnknownIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	if err := svc.DeleteFolder(ctx, "nope"); err != nil {
		t.Fatalf("delete unknown folder: %v", err)
	}
}

func TestBookmarkRequiresURL(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	f, _ := svc.CreateFolder(ctx, "Links", 0, 0)

	if _, err := svc.CreateBookmarkItem(ctx, f.ID, "broken", "", 0, 0); !apperr.IsValidation(err) {
		t.Fatalf("missing url err = %v, want validation error", err)
	}
	if _, err := svc.CreateBookmarkItem(ctx, f.ID, "broken", "not a url", 0, 0); !apperr.IsValidation(err) {
		t.Fatalf("malformed url err = %v, want validation error", err)
	}

	item, err := svc.CreateBookmarkItem(ctx, f.ID, "blog", "https://go.dev/blog", 5, 6)
	if err != nil {
		t.Fatalf("valid bookmark: %v", err)
	}
	if item.Bookmark == nil || item.Note != nil || item.File != nil {
		t.Fatalf("variant payloads = %+v", item)
	}
	if item.Bookmark.FaviconURL == "" {
		t.Error("no favicon derived")
	}
}

func TestNoteContentMayBeEmpty(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	f, _ := svc.CreateFolder(ctx, "Notes", 0, 0)

	item, err := svc.CreateNoteItem(ctx, f.ID, "empty", "", 0, 0)
	if err != nil {
		t.Fatalf("empty note: %v", err)
	}
	if item.Note == nil || item.Note.Content != "" {
		t.Fatalf("note payload = %+v", item.Note)
	}
}

func TestDeleteItemScopedToFolder(t *testing.T) {
	ctx := context.Background()
	svc, env := newService(t)
	a, _ := svc.CreateFolder(ctx, "A", 0, 0)
	b, _ := svc.CreateFolder(ctx, "B", 0, 0)
	item, _ := svc.CreateNoteItem(ctx, a.ID, "todo", "x", 0, 0)

	// Wrong folder: silent no-op, item survives.
	if err := svc.DeleteItem(ctx, b.ID, item.ID); err != nil {
		t.Fatalf("cross-folder delete: %v", err)
	}
	if _, err := env.Store.Item(ctx, item.ID); err != nil {
		t.Fatal("item deleted through the wrong folder")
	}

	// Unknown item: silent no-op.
	if err := svc.DeleteItem(ctx, a.ID, "missing"); err != nil {
		t.Fatalf("unknown item delete: %v", err)
	}

	if err := svc.DeleteItem(ctx, a.ID, item.ID); err != nil {
		t.Fatalf("scoped delete: %v", err)
	}
	if _, err := env.Store.Item(ctx, item.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatal("item survived scoped delete")
	}
}

func TestUpdateItemNeverChangesTypeOrFolder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	a, _ := svc.CreateFolder(ctx, "A", 0, 0)
	b, _ := svc.CreateFolder(ctx, "B", 0, 0)
	item, _ := svc.CreateNoteItem(ctx, a.ID, "todo", "x", 0, 0)

	name := "renamed"
	content := "y"
	got, err := svc.UpdateItem(ctx, a.ID, item.ID, store.ItemUpdate{Name: &name, Content: &content})
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != models.ItemNote || got.FolderID != a.ID {
		t.Fatalf("type/folder changed: %+v", got)
	}
	if got.Name != "renamed" || got.Note.Content != "y" {
		t.Fatalf("update not applied: %+v", got)
	}

	// Item addressed through the wrong folder is not found.
	if _, err := svc.UpdateItem(ctx, b.ID, item.ID, store.ItemUpdate{Name: &name}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("cross-folder update err = %v, want ErrNotFound", err)
	}

	// Content on a non-note is rejected.
	bm, _ := svc.CreateBookmarkItem(ctx, a.ID, "blog", "https://go.dev", 0, 0)
	if _, err := svc.UpdateItem(ctx, a.ID, bm.ID, store.ItemUpdate{Content: &content}); !apperr.IsValidation(err) {
		t.Fatalf("content on bookmark err = %v, want validation error", err)
	}
}

func TestFolderLifecycleScenario(t *testing.T) {
	ctx := context.Background()
	svc, env := newService(t)

	f, err := svc.CreateFolder(ctx, "Projects", 20, 20)
	if err != nil {
		t.Fatal(err)
	}
	note, err := svc.CreateNoteItem(ctx, f.ID, "todo", "buy milk", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	name := "shopping"
	if _, err := svc.UpdateItem(ctx, f.ID, note.ID, store.ItemUpdate{Name: &name}); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteFolder(ctx, f.ID); err != nil {
		t.Fatal(err)
	}

	items, err := svc.Items(ctx, f.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Errorf("items after folder delete = %+v", items)
	}
	if _, err := env.Store.Item(ctx, note.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Error("renamed note still retrievable after cascade")
	}
}

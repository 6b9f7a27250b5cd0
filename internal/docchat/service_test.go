package docchat

import (
	"context"
	"strings"
	"testing"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/llm"
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/testutil"
)

func newService(t *testing.T, env *testutil.Env) *Service {
	t.Helper()
	return NewService(env.Store, env.Blobs, env.LLM, nil, nil)
}

func TestUploadRejectsNonPDF(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	svc := newService(t, env)

	if _, err := svc.Upload(ctx, []byte("hello"), "notes.txt", "text/plain"); !apperr.IsValidation(err) {
		t.Fatalf("non-pdf err = %v, want validation error", err)
	}
	if _, err := svc.Upload(ctx, nil, "empty.pdf", "application/pdf"); !apperr.IsValidation(err) {
		t.Fatalf("empty upload err = %v, want validation error", err)
	}
	// A .pdf name with unreadable bytes still fails cleanly.
	if _, err := svc.Upload(ctx, []byte("not a real pdf"), "fake.pdf", "application/pdf"); !apperr.IsValidation(err) {
		t.Fatalf("bad pdf err = %v, want validation error", err)
	}
}

func TestSendPersistsBothMessages(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t, "the report says hello")
	svc := newService(t, env)

	doc := testutil.MustDocument(t, env.Store, env.Blobs, "report", "hello from the report")

	userMsg, aiMsg, err := svc.Send(ctx, "what does the report say?", []string{doc.ID})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if userMsg.Role != models.RoleUser || aiMsg.Role != models.RoleAssistant {
		t.Fatalf("roles = %s / %s", userMsg.Role, aiMsg.Role)
	}
	if len(userMsg.ReferencedDocs) != 1 || userMsg.ReferencedDocs[0] != "report" {
		t.Fatalf("referencedDocs = %v, want name snapshot", userMsg.ReferencedDocs)
	}
	if aiMsg.Content != "the report says hello" {
		t.Fatalf("ai content = %q", aiMsg.Content)
	}

	msgs, err := svc.Messages(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 {
		t.Fatalf("persisted messages = %d, want 2", len(msgs))
	}

	// Document was attached, so the vision option must be set.
	opts := env.LLM.CallOptions()
	if len(opts) != 1 || !opts[0].Vision {
		t.Fatalf("options = %+v, want vision mode", opts)
	}
}

func TestSendUnresolvableDocIDsAreDropped(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t, "ok")
	svc := newService(t, env)

	userMsg, _, err := svc.Send(ctx, "hi", []string{"missing-id"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(userMsg.ReferencedDocs) != 0 {
		t.Fatalf("referencedDocs = %v, want empty", userMsg.ReferencedDocs)
	}
	// No attachment succeeded, so text-only mode.
	if opts := env.LLM.CallOptions(); opts[0].Vision {
		t.Fatal("vision mode without attachments")
	}
}

func TestSendFailedFetchIsIsolated(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t, "partial answer")
	svc := newService(t, env)

	good := testutil.MustDocument(t, env.Store, env.Blobs, "good", "fine")
	bad := testutil.MustDocument(t, env.Store, env.Blobs, "bad", "broken")
	env.Blobs.FailFetch[bad.FileID] = true

	_, aiMsg, err := svc.Send(ctx, "compare them", []string{good.ID, bad.ID})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(aiMsg.Content, "bad") {
		t.Fatalf("assistant message %q does not name the failed document", aiMsg.Content)
	}

	// The prompt carries the failure note and the good document still
	// reached the model.
	calls := env.LLM.Calls()
	final := calls[0][len(calls[0])-1]
	if !strings.Contains(final.Content, "could not be loaded") || !strings.Contains(final.Content, "bad") {
		t.Errorf("prompt missing failure note: %q", final.Content)
	}
	if len(final.ImageURLs) != 1 {
		t.Errorf("attachments = %d, want 1 (the good document)", len(final.ImageURLs))
	}
}

func TestSendCompletionFailureBecomesMessage(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	env.LLM = llm.NewFake(llm.FakeReply{Err: llm.ErrRateLimited})
	svc := newService(t, env)

	_, aiMsg, err := svc.Send(ctx, "hello", nil)
	if err != nil {
		t.Fatalf("send returned error instead of degraded message: %v", err)
	}
	if !strings.Contains(aiMsg.Content, "too many requests") {
		t.Fatalf("degraded message = %q", aiMsg.Content)
	}
	msgs, _ := svc.Messages(ctx)
	if len(msgs) != 2 {
		t.Fatalf("persisted messages = %d, want 2", len(msgs))
	}
}

func TestSendHistoryBound(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t, "ok")
	svc := newService(t, env)

	for i := 0; i < 8; i++ {
		if err := env.Store.CreateMessage(ctx, &models.DocMessage{Role: models.RoleUser, Content: "old"}); err != nil {
			t.Fatal(err)
		}
	}

	if _, _, err := svc.Send(ctx, "latest", nil); err != nil {
		t.Fatal(err)
	}

	calls := env.LLM.Calls()
	// system + historyWindow prior turns + current user turn.
	if want := 1 + historyWindow + 1; len(calls[0]) != want {
		t.Fatalf("prompt length = %d, want %d", len(calls[0]), want)
	}
}

func TestDeleteCascadesMessagesAndBlob(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	svc := newService(t, env)

	doc := testutil.MustDocument(t, env.Store, env.Blobs, "report", "text")
	_ = env.Store.CreateMessage(ctx, &models.DocMessage{DocumentID: doc.ID, Role: models.RoleUser, Content: "q"})
	_ = env.Store.CreateMessage(ctx, &models.DocMessage{Role: models.RoleUser, Content: "general"})

	if err := svc.Delete(ctx, doc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	msgs, _ := env.Store.Messages(ctx)
	if len(msgs) != 1 || msgs[0].Content != "general" {
		t.Fatalf("messages after delete = %+v", msgs)
	}
	if deleted := env.Blobs.Deleted(); len(deleted) != 1 || deleted[0] != doc.FileID {
		t.Fatalf("blob cleanup = %v", deleted)
	}

	// Unknown id is a silent no-op.
	if err := svc.Delete(ctx, "missing"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestRenameKeepsHistorySnapshots(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t, "ok")
	svc := newService(t, env)

	doc := testutil.MustDocument(t, env.Store, env.Blobs, "draft", "text")
	if _, _, err := svc.Send(ctx, "about the draft", []string{doc.ID}); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Rename(ctx, doc.ID, "final"); err != nil {
		t.Fatal(err)
	}
	msgs, _ := svc.Messages(ctx)
	if msgs[0].ReferencedDocs[0] != "draft" {
		t.Fatalf("history snapshot rewritten: %v", msgs[0].ReferencedDocs)
	}

	if _, err := svc.Rename(ctx, "missing", "x"); err == nil {
		t.Fatal("rename of unknown id succeeded")
	}
}

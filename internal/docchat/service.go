// Package docchat implements the PDF document chat: upload with text
// extraction, the append-only conversation, and the bounded-prompt retrieval
// turn with per-document failure isolation.
package docchat

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/blob"
	"github.com/starford/dagaz/internal/llm"
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/pdftext"
	"github.com/starford/dagaz/internal/store"
)

// historyWindow is how many prior messages are replayed into each prompt.
const historyWindow = 5

// contentPreviewLimit bounds how much extracted text per document goes into
// the prompt.
const contentPreviewLimit = 8000

const systemPrompt = "You are a helpful document assistant. Answer questions " +
	"using the conversation history and the referenced document contents " +
	"provided below. When the documents do not contain the answer, say so " +
	"plainly instead of guessing."

// Publisher receives entity change notifications; nil disables them.
type Publisher interface {
	PublishEntityEvent(event string, data any)
}

// Service owns documents and the chat over them.
type Service struct {
	store  store.Store
	blobs  blob.Provider
	llm    llm.Client
	events Publisher
	log    *slog.Logger
}

// NewService creates a document chat service. events may be nil.
func NewService(st store.Store, blobs blob.Provider, client llm.Client, events Publisher, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: st, blobs: blobs, llm: client, events: events, log: log}
}

func (s *Service) publish(event string, data any) {
	if s.events != nil {
		s.events.PublishEntityEvent(event, data)
	}
}

// Documents lists all uploaded documents.
func (s *Service) Documents(ctx context.Context) ([]models.Document, error) {
	return s.store.Documents(ctx)
}

// Document returns one document by id.
func (s *Service) Document(ctx context.Context, id string) (*models.Document, error) {
	return s.store.Document(ctx, id)
}

// Upload accepts a PDF, extracts its text, stores the blob, and creates the
// document record. Non-PDF uploads fail validation. The display name is the
// filename without its extension.
func (s *Service) Upload(ctx context.Context, data []byte, filename, contentType string) (*models.Document, error) {
	if len(data) == 0 {
		return nil, apperr.ValidationField("file", "file is required")
	}
	if !isPDF(filename, contentType) {
		return nil, apperr.ValidationField("file", "only PDF files are supported")
	}

	text, err := pdftext.Extract(data)
	if err != nil {
		return nil, apperr.ValidationField("file", "could not read PDF content")
	}

	ref, err := s.blobs.Upload(ctx, data, filename, "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}

	doc := &models.Document{
		Name:         displayName(filename),
		OriginalName: filename,
		Content:      text,
		FileURL:      ref.URL,
		FileID:       ref.ID,
	}
	if err := s.store.CreateDocument(ctx, doc); err != nil {
		if derr := s.blobs.Delete(ctx, ref.ID); derr != nil {
			s.log.Warn("orphaned blob after failed document create",
				slog.String("fileId", ref.ID), slog.String("error", derr.Error()))
		}
		return nil, err
	}
	s.publish("document.created", doc)
	return doc, nil
}

// Rename changes a document's display name. Name snapshots in past chat
// messages are left untouched.
func (s *Service) Rename(ctx context.Context, id, name string) (*models.Document, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.ValidationField("name", "name is required")
	}
	doc, err := s.store.RenameDocument(ctx, id, name)
	if err != nil {
		return nil, err
	}
	s.publish("document.updated", doc)
	return doc, nil
}

// Delete removes a document, its chat messages, and its stored blob. Blob
// cleanup is best effort; an unresolvable id is a silent no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	doc, err := s.store.Document(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := s.store.DeleteMessagesByDocument(ctx, id); err != nil {
		return fmt.Errorf("delete document messages: %w", err)
	}
	if doc.FileID != "" {
		if err := s.blobs.Delete(ctx, doc.FileID); err != nil {
			s.log.Warn("blob cleanup failed",
				slog.String("documentId", id),
				slog.String("fileId", doc.FileID),
				slog.String("error", err.Error()))
		}
	}
	if err := s.store.DeleteDocument(ctx, id); err != nil {
		return err
	}
	s.publish("document.deleted", map[string]string{"id": id})
	return nil
}

// Messages returns the full ordered chat history.
func (s *Service) Messages(ctx context.Context) ([]models.DocMessage, error) {
	return s.store.Messages(ctx)
}

// Send runs one chat turn: the user message is persisted first with a name
// snapshot of the resolved documents, then a bounded prompt is assembled and
// completed. Completion failures become a persisted assistant message
// describing the failure, never an error to the caller.
func (s *Service) Send(ctx context.Context, content string, referencedDocIDs []string) (*models.DocMessage, *models.DocMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil, apperr.ValidationField("content", "content is required")
	}

	docs, err := s.store.DocumentsByIDs(ctx, referencedDocIDs)
	if err != nil {
		return nil, nil, err
	}
	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Name
	}

	// History is captured before the user message lands so the prompt
	// replays only prior turns.
	history, err := s.store.Messages(ctx)
	if err != nil {
		return nil, nil, err
	}

	userMsg := &models.DocMessage{
		Role:           models.RoleUser,
		Content:        content,
		ReferencedDocs: names,
	}
	if err := s.store.CreateMessage(ctx, userMsg); err != nil {
		return nil, nil, err
	}

	attachments, failedNames := s.fetchAttachments(ctx, docs)

	prompt := buildPrompt(content, history, docs, attachments, failedNames)
	reply, err := s.llm.Complete(ctx, prompt, llm.Options{
		Vision:      len(attachments) > 0,
		Temperature: -1,
	})
	if err != nil {
		s.log.Warn("chat completion failed", slog.String("error", err.Error()))
		reply = failureReply(err)
	}
	if len(failedNames) > 0 {
		reply += "\n\n(Could not load: " + strings.Join(failedNames, ", ") + ")"
	}

	aiMsg := &models.DocMessage{
		Role:           models.RoleAssistant,
		Content:        reply,
		ReferencedDocs: names,
	}
	if err := s.store.CreateMessage(ctx, aiMsg); err != nil {
		return nil, nil, err
	}
	return userMsg, aiMsg, nil
}

// fetchAttachments pulls each document's blob concurrently. A failing fetch
// never cancels its siblings; failed documents are reported by name.
func (s *Service) fetchAttachments(ctx context.Context, docs []models.Document) (map[string]string, []string) {
	attachments := make(map[string]string, len(docs))
	var failed []string
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, d := range docs {
		doc := d
		if doc.FileID == "" {
			continue
		}
		g.Go(func() error {
			data, err := s.blobs.Fetch(gctx, doc.FileID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.log.Warn("document fetch failed",
					slog.String("documentId", doc.ID),
					slog.String("error", err.Error()))
				failed = append(failed, doc.Name)
				return nil
			}
			attachments[doc.ID] = "data:application/pdf;base64," +
				base64.StdEncoding.EncodeToString(data)
			return nil
		})
	}
	_ = g.Wait()
	return attachments, failed
}

// buildPrompt assembles the bounded conversation: system instruction, the
// last few prior turns oldest-first, then the current user turn with document
// context and any attachments.
func buildPrompt(content string, history []models.DocMessage, docs []models.Document, attachments map[string]string, failedNames []string) []llm.Message {
	msgs := []llm.Message{{Role: llm.RoleSystem, Content: systemPrompt}}

	start := len(history) - historyWindow
	if start < 0 {
		start = 0
	}
	for _, m := range history[start:] {
		role := llm.RoleUser
		if m.Role == models.RoleAssistant {
			role = llm.RoleAssistant
		}
		msgs = append(msgs, llm.Message{Role: role, Content: m.Content})
	}

	var b strings.Builder
	b.WriteString(content)
	var imageURLs []string
	for _, d := range docs {
		if url, ok := attachments[d.ID]; ok {
			imageURLs = append(imageURLs, url)
		}
		b.WriteString("\n\n[Document: ")
		b.WriteString(d.Name)
		b.WriteString("]\n")
		b.WriteString(truncate(d.Content, contentPreviewLimit))
	}
	if len(failedNames) > 0 {
		b.WriteString("\n\nNote: the following referenced documents could not be loaded: ")
		b.WriteString(strings.Join(failedNames, ", "))
	}

	msgs = append(msgs, llm.Message{
		Role:      llm.RoleUser,
		Content:   b.String(),
		ImageURLs: imageURLs,
	})
	return msgs
}

// failureReply maps a completion failure onto a user-facing assistant message.
func failureReply(err error) string {
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		return "The assistant is not configured. Add an API key to enable document chat."
	case errors.Is(err, llm.ErrRateLimited):
		return "The assistant is receiving too many requests right now. Please try again in a moment."
	case errors.Is(err, llm.ErrUnavailable):
		return "The assistant could not be reached. Please try again shortly."
	default:
		return "Something went wrong while generating a response. Please try again."
	}
}

func isPDF(filename, contentType string) bool {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return true
	}
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "application/pdf"
}

func displayName(filename string) string {
	base := filepath.Base(filename)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" {
		return base
	}
	return name
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

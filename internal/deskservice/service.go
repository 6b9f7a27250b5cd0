// Package deskservice implements the folder and folder-item lifecycle:
// variant-integrity enforcement, rename and move semantics, and the explicit
// cascade of owned items and their stored blobs on folder deletion.
package deskservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/blob"
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/store"
)

// Publisher receives entity change notifications. The SSE broker implements
// it; a nil publisher disables notifications.
type Publisher interface {
	PublishEntityEvent(event string, data any)
}

// Service coordinates folder and item operations against the store and the
// blob provider.
type Service struct {
	store  store.Store
	blobs  blob.Provider
	events Publisher
	log    *slog.Logger
}

// NewService creates a lifecycle service. events may be nil.
func NewService(st store.Store, blobs blob.Provider, events Publisher, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: st, blobs: blobs, events: events, log: log}
}

func (s *Service) publish(event string, data any) {
	if s.events != nil {
		s.events.PublishEntityEvent(event, data)
	}
}

// Folders lists all folders.
func (s *Service) Folders(ctx context.Context) ([]models.Folder, error) {
	return s.store.Folders(ctx)
}

// CreateFolder creates a folder with a unique name at the given position.
func (s *Service) CreateFolder(ctx context.Context, name string, x, y int) (*models.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.ValidationField("name", "name is required")
	}
	f := &models.Folder{Name: name, X: x, Y: y}
	if err := s.store.CreateFolder(ctx, f); err != nil {
		return nil, err
	}
	s.publish("folder.created", f)
	return f, nil
}

// UpdateFolder renames and/or moves a folder. Renaming to a name already used
// by another folder fails with ErrDuplicateName; an unresolvable id is
// ErrNotFound.
func (s *Service) UpdateFolder(ctx context.Context, id string, upd store.FolderUpdate) (*models.Folder, error) {
	if upd.Name != nil {
		trimmed := strings.TrimSpace(*upd.Name)
		if trimmed == "" {
			return nil, apperr.ValidationField("name", "name is required")
		}
		upd.Name = &trimmed
	}
	f, err := s.store.UpdateFolder(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.publish("folder.updated", f)
	return f, nil
}

// DeleteFolder removes a folder and everything it owns: every item is deleted
// first (file items release their stored blob, best effort), then the folder
// record. An unresolvable id is a silent no-op.
func (s *Service) DeleteFolder(ctx context.Context, id string) error {
	items, err := s.store.ItemsByFolder(ctx, id)
	if err != nil {
		return err
	}
	for _, item := range items {
		s.releaseItemBlob(ctx, &item)
		if err := s.store.DeleteItem(ctx, item.ID); err != nil {
			return fmt.Errorf("delete item %s: %w", item.ID, err)
		}
	}
	if err := s.store.DeleteFolder(ctx, id); err != nil {
		return err
	}
	s.publish("folder.deleted", map[string]string{"id": id})
	return nil
}

// Items lists the items of a folder.
func (s *Service) Items(ctx context.Context, folderID string) ([]models.FolderItem, error) {
	return s.store.ItemsByFolder(ctx, folderID)
}

// FileUpload describes an already-read multipart file to place in a folder.
type FileUpload struct {
	Data     []byte
	Filename string
	MimeType string
	X        int
	Y        int
}

// CreateFileItem uploads the file to blob storage and creates a file item
// referencing it. The item name is the original filename.
func (s *Service) CreateFileItem(ctx context.Context, folderID string, up FileUpload) (*models.FolderItem, error) {
	if len(up.Data) == 0 {
		return nil, apperr.ValidationField("file", "file is required")
	}
	if up.Filename == "" {
		return nil, apperr.ValidationField("file", "filename is required")
	}
	if _, err := s.store.Folder(ctx, folderID); err != nil {
		return nil, err
	}

	ref, err := s.blobs.Upload(ctx, up.Data, up.Filename, up.MimeType)
	if err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}

	item := models.NewFileItem(folderID, up.Filename, up.X, up.Y, models.FilePayload{
		FileURL:      ref.URL,
		FileID:       ref.ID,
		OriginalName: up.Filename,
		MimeType:     up.MimeType,
		FileSize:     int64(len(up.Data)),
	})
	if err := s.store.CreateItem(ctx, item); err != nil {
		// The item record failed; release the freshly stored blob.
		if derr := s.blobs.Delete(ctx, ref.ID); derr != nil {
			s.log.Warn("orphaned blob after failed item create",
				slog.String("fileId", ref.ID), slog.String("error", derr.Error()))
		}
		return nil, err
	}
	s.publish("item.created", item)
	return item, nil
}

// CreateBookmarkItem creates a bookmark item. The URL must be a well-formed
// absolute URL; the favicon URL is derived from its host.
func (s *Service) CreateBookmarkItem(ctx context.Context, folderID, name, rawURL string, x, y int) (*models.FolderItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.ValidationField("name", "name is required")
	}
	if err := validation.Validate(rawURL, validation.Required, is.URL); err != nil {
		return nil, apperr.ValidationField("url", "a valid url is required")
	}
	if _, err := s.store.Folder(ctx, folderID); err != nil {
		return nil, err
	}

	item := models.NewBookmarkItem(folderID, name, x, y, models.BookmarkPayload{
		URL:        rawURL,
		FaviconURL: faviconURL(rawURL),
	})
	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	s.publish("item.created", item)
	return item, nil
}

// CreateNoteItem creates a note item. Content may be empty; it defaults to
// the empty string.
func (s *Service) CreateNoteItem(ctx context.Context, folderID, name, content string, x, y int) (*models.FolderItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.ValidationField("name", "name is required")
	}
	if _, err := s.store.Folder(ctx, folderID); err != nil {
		return nil, err
	}

	item := models.NewNoteItem(folderID, name, x, y, models.NotePayload{Content: content})
	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	s.publish("item.created", item)
	return item, nil
}

// UpdateItem applies a partial update to an item in the stated folder. Type
// and owning folder are never updatable; content only applies to notes. An
// item outside the stated folder is ErrNotFound.
func (s *Service) UpdateItem(ctx context.Context, folderID, itemID string, upd store.ItemUpdate) (*models.FolderItem, error) {
	existing, err := s.store.Item(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if existing.FolderID != folderID {
		return nil, apperr.ErrNotFound
	}
	if upd.Name != nil {
		trimmed := strings.TrimSpace(*upd.Name)
		if trimmed == "" {
			return nil, apperr.ValidationField("name", "name is required")
		}
		upd.Name = &trimmed
	}
	if upd.Content != nil && existing.Type != models.ItemNote {
		return nil, apperr.ValidationField("content", "content applies only to notes")
	}
	item, err := s.store.UpdateItem(ctx, itemID, upd)
	if err != nil {
		return nil, err
	}
	s.publish("item.updated", item)
	return item, nil
}

// DeleteItem removes an item, scoped to the stated folder. An unresolvable
// item id or an item belonging to another folder is a silent no-op. File
// items release their stored blob best effort.
func (s *Service) DeleteItem(ctx context.Context, folderID, itemID string) error {
	item, err := s.store.Item(ctx, itemID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil
		}
		return err
	}
	if item.FolderID != folderID {
		return nil
	}
	s.releaseItemBlob(ctx, item)
	if err := s.store.DeleteItem(ctx, itemID); err != nil {
		return err
	}
	s.publish("item.deleted", map[string]string{"id": itemID, "folderId": folderID})
	return nil
}

// releaseItemBlob deletes the stored blob behind a file item. Failures are
// logged and never escalated: record deletion must not be blocked by a
// secondary cleanup failure.
func (s *Service) releaseItemBlob(ctx context.Context, item *models.FolderItem) {
	if item.Type != models.ItemFile || item.File == nil || item.File.FileID == "" {
		return
	}
	if err := s.blobs.Delete(ctx, item.File.FileID); err != nil {
		s.log.Warn("blob cleanup failed",
			slog.String("itemId", item.ID),
			slog.String("fileId", item.File.FileID),
			slog.String("error", err.Error()))
	}
}

// faviconURL derives a favicon lookup URL from the bookmark's host.
func faviconURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return "https://www.google.com/s2/favicons?domain=" + u.Host + "&sz=32"
}

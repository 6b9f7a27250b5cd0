// Package store is the persistence abstraction over the desktop entities.
//
// Two implementations exist: Mongo (the document database used in
// production) and Memory (mutex-guarded maps for tests and uri-less dev
// mode). Both enforce the same semantics: opaque string ids assigned on
// insert, name uniqueness for folders and mailing lists, ErrNotFound from
// point reads and updates, and silent no-op deletes. Cascades are NOT the
// store's job; the service layer orchestrates them explicitly.
package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/starford/dagaz/internal/models"
)

// FolderUpdate is a partial update to a folder. Nil fields are left untouched.
type FolderUpdate struct {
	Name *string
	X    *int
	Y    *int
}

// ItemUpdate is a partial update to a folder item. Nil fields are left
// untouched. Content applies only to note items; type and folderId are never
// updatable.
type ItemUpdate struct {
	Name    *string
	X       *int
	Y       *int
	Content *string
}

// Store is the full entity-store surface consumed by the services.
type Store interface {
	FolderStore
	ItemStore
	DocumentStore
	MessageStore
	MailingListStore
	VaultStore
	ContextStore
}

// FolderStore persists Folders.
type FolderStore interface {
	Folders(ctx context.Context) ([]models.Folder, error)
	Folder(ctx context.Context, id string) (*models.Folder, error)
	CreateFolder(ctx context.Context, f *models.Folder) error
	UpdateFolder(ctx context.Context, id string, upd FolderUpdate) (*models.Folder, error)
	DeleteFolder(ctx context.Context, id string) error
}

// ItemStore persists FolderItems.
type ItemStore interface {
	ItemsByFolder(ctx context.Context, folderID string) ([]models.FolderItem, error)
	Item(ctx context.Context, id string) (*models.FolderItem, error)
	CreateItem(ctx context.Context, item *models.FolderItem) error
	UpdateItem(ctx context.Context, id string, upd ItemUpdate) (*models.FolderItem, error)
	DeleteItem(ctx context.Context, id string) error
}

// DocumentStore persists Documents.
type DocumentStore interface {
	Documents(ctx context.Context) ([]models.Document, error)
	Document(ctx context.Context, id string) (*models.Document, error)
	// DocumentsByIDs resolves the given ids; ids that do not resolve are
	// silently dropped from the result.
	DocumentsByIDs(ctx context.Context, ids []string) ([]models.Document, error)
	CreateDocument(ctx context.Context, d *models.Document) error
	RenameDocument(ctx context.Context, id, name string) (*models.Document, error)
	DeleteDocument(ctx context.Context, id string) error
}

// MessageStore persists the append-only document chat history, ordered by
// creation time.
type MessageStore interface {
	Messages(ctx context.Context) ([]models.DocMessage, error)
	CreateMessage(ctx context.Context, m *models.DocMessage) error
	DeleteMessagesByDocument(ctx context.Context, documentID string) error
}

// MailingListStore persists MailingLists.
type MailingListStore interface {
	MailingLists(ctx context.Context) ([]models.MailingList, error)
	MailingList(ctx context.Context, id string) (*models.MailingList, error)
	CreateMailingList(ctx context.Context, ml *models.MailingList) error
	UpdateMailingList(ctx context.Context, id, name string, emails []string) (*models.MailingList, error)
	DeleteMailingList(ctx context.Context, id string) error
}

// VaultStore persists VaultItems.
type VaultStore interface {
	VaultItems(ctx context.Context) ([]models.VaultItem, error)
	VaultItem(ctx context.Context, id string) (*models.VaultItem, error)
	CreateVaultItem(ctx context.Context, v *models.VaultItem) error
	// ReplaceVaultItem swaps name, type, and payload while preserving the
	// original id and creation time.
	ReplaceVaultItem(ctx context.Context, id string, v *models.VaultItem) (*models.VaultItem, error)
	DeleteVaultItem(ctx context.Context, id string) error
}

// ContextStore persists the singleton assistant context snapshot.
type ContextStore interface {
	Context(ctx context.Context) (*models.ContextSnapshot, error)
	UpsertContext(ctx context.Context, data string) (*models.ContextSnapshot, error)
}

// NewID returns a fresh opaque entity id. Callers never parse these; a
// malformed id behaves exactly like an absent one.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// Package models defines the domain types for Dagaz.
package models

import "time"

// ItemType tags the FolderItem variant.
type ItemType string

// FolderItem variants.
const (
	ItemFile     ItemType = "file"
	ItemBookmark ItemType = "bookmark"
	ItemNote     ItemType = "note"
)

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	return t == ItemFile || t == ItemBookmark || t == ItemNote
}

// MessageRole tags who produced a chat message.
type MessageRole string

// Chat message roles.
const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Folder is a named container positioned on the virtual desktop. Names are
// unique across folders.
type Folder struct {
	ID   string `bson:"_id,omitempty" json:"id"`
	Name string `bson:"name" json:"name"`
	X    int    `bson:"x" json:"x"`
	Y    int    `bson:"y" json:"y"`
}

// FilePayload holds the file-variant fields of a FolderItem.
type FilePayload struct {
	FileURL      string `bson:"fileUrl" json:"fileUrl"`
	FileID       string `bson:"fileId" json:"fileId"`
	OriginalName string `bson:"originalName" json:"originalName"`
	MimeType     string `bson:"mimeType" json:"mimeType"`
	FileSize     int64  `bson:"fileSize" json:"fileSize"`
}

// BookmarkPayload holds the bookmark-variant fields of a FolderItem.
type BookmarkPayload struct {
	URL        string `bson:"url" json:"url"`
	FaviconURL string `bson:"faviconUrl" json:"faviconUrl"`
}

// NotePayload holds the note-variant fields of a FolderItem.
type NotePayload struct {
	Content string `bson:"content" json:"content"`
}

// FolderItem is a file, bookmark, or note owned by exactly one Folder.
// Exactly one payload pointer is non-nil, matching Type; constructors and
// Validate enforce the contract. The JSON wire shape stays flat with nullable
// per-variant fields (see item_json.go).
type FolderItem struct {
	ID       string   `bson:"_id,omitempty"`
	FolderID string   `bson:"folderId"`
	Type     ItemType `bson:"type"`
	Name     string   `bson:"name"`
	X        int      `bson:"x"`
	Y        int      `bson:"y"`

	File     *FilePayload     `bson:"file,omitempty"`
	Bookmark *BookmarkPayload `bson:"bookmark,omitempty"`
	Note     *NotePayload     `bson:"note,omitempty"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// NewFileItem constructs a file-variant FolderItem.
func NewFileItem(folderID, name string, x, y int, p FilePayload) *FolderItem {
	return &FolderItem{FolderID: folderID, Type: ItemFile, Name: name, X: x, Y: y, File: &p}
}

// NewBookmarkItem constructs a bookmark-variant FolderItem.
func NewBookmarkItem(folderID, name string, x, y int, p BookmarkPayload) *FolderItem {
	return &FolderItem{FolderID: folderID, Type: ItemBookmark, Name: name, X: x, Y: y, Bookmark: &p}
}

// NewNoteItem constructs a note-variant FolderItem.
func NewNoteItem(folderID, name string, x, y int, p NotePayload) *FolderItem {
	return &FolderItem{FolderID: folderID, Type: ItemNote, Name: name, X: x, Y: y, Note: &p}
}

// Validate checks the variant contract: exactly the payload matching Type is
// populated.
func (i *FolderItem) Validate() bool {
	switch i.Type {
	case ItemFile:
		return i.File != nil && i.Bookmark == nil && i.Note == nil
	case ItemBookmark:
		return i.Bookmark != nil && i.File == nil && i.Note == nil
	case ItemNote:
		return i.Note != nil && i.File == nil && i.Bookmark == nil
	}
	return false
}

// Document is an uploaded PDF with extracted text, independent of folders.
type Document struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Name         string    `bson:"name" json:"name"`
	OriginalName string    `bson:"originalName" json:"originalName"`
	Content      string    `bson:"content" json:"content"`
	FileURL      string    `bson:"fileUrl" json:"fileUrl"`
	FileID       string    `bson:"fileId" json:"fileId"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// DocMessage is one turn of the document chat. Append-only; never updated.
// DocumentID is empty for general chat not tied to one document.
// ReferencedDocs snapshots document names at send time, so later renames do
// not rewrite history.
type DocMessage struct {
	ID             string      `bson:"_id,omitempty" json:"id"`
	DocumentID     string      `bson:"documentId,omitempty" json:"documentId,omitempty"`
	Role           MessageRole `bson:"role" json:"role"`
	Content        string      `bson:"content" json:"content"`
	ReferencedDocs []string    `bson:"referencedDocs,omitempty" json:"referencedDocs,omitempty"`
	CreatedAt      time.Time   `bson:"createdAt" json:"createdAt"`
}

// MailingList is a named, unique list of email addresses.
type MailingList struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Emails    []string  `bson:"emails" json:"emails"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// ContextSnapshot is the singleton cached summary of the entire entity store,
// refreshed only by an explicit update-context request.
type ContextSnapshot struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	ContextData string    `bson:"contextData" json:"contextData"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

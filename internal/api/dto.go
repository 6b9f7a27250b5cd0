package api

import "github.com/starford/dagaz/internal/models"

// CreateFolderRequest is the request body for creating a folder.
type CreateFolderRequest struct {
	Name string `json:"name" example:"Projects" validate:"required"`
	X    int    `json:"x" example:"20"`
	Y    int    `json:"y" example:"20"`
}

// UpdateFolderRequest is the request body for renaming or moving a folder.
// Absent fields are left untouched.
type UpdateFolderRequest struct {
	Name *string `json:"name,omitempty" example:"Work"`
	X    *int    `json:"x,omitempty" example:"120"`
	Y    *int    `json:"y,omitempty" example:"40"`
}

// CreateBookmarkRequest is the request body for adding a bookmark item.
type CreateBookmarkRequest struct {
	Name string `json:"name" example:"Go blog" validate:"required"`
	URL  string `json:"url" example:"https://go.dev/blog" validate:"required"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// CreateNoteItemRequest is the request body for adding a note item. Content
// may be empty.
type CreateNoteItemRequest struct {
	Name    string `json:"name" example:"todo" validate:"required"`
	Content string `json:"content" example:"buy milk"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
}

// UpdateItemRequest is the request body for partially updating an item.
// Content applies only to note items; type and folder are never updatable.
type UpdateItemRequest struct {
	Name    *string `json:"name,omitempty"`
	X       *int    `json:"x,omitempty"`
	Y       *int    `json:"y,omitempty"`
	Content *string `json:"content,omitempty"`
}

// RenameDocumentRequest is the request body for renaming a document.
type RenameDocumentRequest struct {
	Name string `json:"name" example:"Q3 report" validate:"required"`
}

// SendMessageRequest is the request body for a chat turn.
type SendMessageRequest struct {
	Content          string   `json:"content" example:"summarize the report" validate:"required"`
	ReferencedDocIDs []string `json:"referencedDocIds,omitempty"`
}

// SendMessageResponse returns both persisted messages of a chat turn.
type SendMessageResponse struct {
	UserMessage *models.DocMessage `json:"userMessage" validate:"required"`
	AIMessage   *models.DocMessage `json:"aiMessage" validate:"required"`
}

// MailingListRequest is the request body for creating or updating a mailing
// list.
type MailingListRequest struct {
	Name   string   `json:"name" example:"team" validate:"required"`
	Emails []string `json:"emails" example:"a@example.com" validate:"required"`
}

// VaultItemRequest is the request body for creating or replacing a vault
// item. Only the fields matching Type are used.
type VaultItemRequest struct {
	Name     string `json:"name" example:"github" validate:"required"`
	Type     string `json:"type" example:"password" validate:"required"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	APIKey   string `json:"apiKey,omitempty"`
	Value    string `json:"value,omitempty"`
}

// AskRequest is the request body for an assistant question.
type AskRequest struct {
	Question string `json:"question" example:"How many folders do I have?" validate:"required"`
}

// AskResponse is the assistant's answer.
type AskResponse struct {
	Answer string `json:"answer" validate:"required"`
}

// MessageResponse is a generic status message.
type MessageResponse struct {
	Message string `json:"message" validate:"required"`
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether the passcode gate is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(h *Handler, authEnabled bool, passcode string, sseHandler http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(PasscodeMiddleware(authEnabled, passcode))

	// Folders and their items.
	r.Get("/folders", h.ListFolders)
	r.Post("/folders", h.CreateFolder)
	r.Get("/folders/{id}", h.GetFolder)
	r.Put("/folders/{id}", h.UpdateFolder)
	r.Delete("/folders/{id}", h.DeleteFolder)
	r.Get("/folders/{folderId}/items", h.ListItems)
	r.Post("/folders/{folderId}/items/file", h.UploadFileItem)
	r.Post("/folders/{folderId}/items/bookmark", h.CreateBookmarkItem)
	r.Post("/folders/{folderId}/items/note", h.CreateNoteItem)
	r.Patch("/folders/{folderId}/items/{itemId}", h.UpdateItem)
	r.Delete("/folders/{folderId}/items/{itemId}", h.DeleteItem)

	// Documents and chat.
	r.Get("/documents", h.ListDocuments)
	r.Post("/documents/upload", h.UploadDocument)
	r.Get("/documents/{id}", h.GetDocument)
	r.Patch("/documents/{id}/rename", h.RenameDocument)
	r.Delete("/documents/{id}", h.DeleteDocument)
	r.Get("/chat/messages", h.ListMessages)
	r.Post("/chat/send", h.SendMessage)

	// Mailing lists.
	r.Get("/mailing-lists", h.ListMailingLists)
	r.Post("/mailing-lists", h.CreateMailingList)
	r.Put("/mailing-lists/{id}", h.UpdateMailingList)
	r.Delete("/mailing-lists/{id}", h.DeleteMailingList)

	// Vault.
	r.Get("/vault", h.ListVaultItems)
	r.Post("/vault", h.CreateVaultItem)
	r.Put("/vault/{id}", h.ReplaceVaultItem)
	r.Delete("/vault/{id}", h.DeleteVaultItem)

	// Assistant.
	r.Post("/clippy/ask", h.Ask)
	r.Post("/clippy/update-context", h.UpdateContext)

	// SSE endpoint (protected by the same passcode gate).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}

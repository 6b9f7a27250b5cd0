package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/dagaz/internal/assistant"
	"github.com/starford/dagaz/internal/deskservice"
	"github.com/starford/dagaz/internal/docchat"
	"github.com/starford/dagaz/internal/store"
)

// maxUploadSize caps multipart file uploads.
const maxUploadSize = 50 << 20

// Handler holds API route handlers.
type Handler struct {
	desk   *deskservice.Service
	docs   *docchat.Service
	clippy *assistant.Service
	store  store.Store
}

// NewHandler creates a new Handler.
func NewHandler(desk *deskservice.Service, docs *docchat.Service, clippy *assistant.Service, st store.Store) *Handler {
	return &Handler{desk: desk, docs: docs, clippy: clippy, store: st}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	return true
}

// ListFolders handles GET /api/folders.
//
//	@Summary	List all folders
//	@Tags		folders
//	@Produce	json
//	@Success	200	{array}	models.Folder
//	@Router		/folders [get]
func (h *Handler) ListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.desk.Folders(r.Context())
	if err != nil {
		respondError(w, err, "list folders failed")
		return
	}
	writeJSON(w, http.StatusOK, folders)
}

// CreateFolder handles POST /api/folders.
//
//	@Summary	Create a folder
//	@Tags		folders
//	@Accept		json
//	@Produce	json
//	@Param		body	body		CreateFolderRequest	true	"Folder to create"
//	@Success	201		{object}	models.Folder
//	@Failure	400		{object}	errResponse
//	@Router		/folders [post]
func (h *Handler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req CreateFolderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	folder, err := h.desk.CreateFolder(r.Context(), req.Name, req.X, req.Y)
	if err != nil {
		respondError(w, err, "create folder failed")
		return
	}
	writeJSON(w, http.StatusCreated, folder)
}

// GetFolder handles GET /api/folders/{id}.
//
//	@Summary	Get a single folder
//	@Tags		folders
//	@Produce	json
//	@Param		id	path		string	true	"Folder id"
//	@Success	200	{object}	models.Folder
//	@Failure	404	{object}	errResponse
//	@Router		/folders/{id} [get]
func (h *Handler) GetFolder(w http.ResponseWriter, r *http.Request) {
	folder, err := h.store.Folder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err, "get folder failed")
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

// UpdateFolder handles PUT /api/folders/{id}.
//
//	@Summary	Rename or move a folder
//	@Tags		folders
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Folder id"
//	@Param		body	body		UpdateFolderRequest	true	"Fields to update"
//	@Success	200		{object}	models.Folder
//	@Failure	400		{object}	errResponse
//	@Failure	404		{object}	errResponse
//	@Router		/folders/{id} [put]
func (h *Handler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	var req UpdateFolderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	folder, err := h.desk.UpdateFolder(r.Context(), chi.URLParam(r, "id"), store.FolderUpdate{
		Name: req.Name, X: req.X, Y: req.Y,
	})
	if err != nil {
		respondError(w, err, "update folder failed")
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

// DeleteFolder handles DELETE /api/folders/{id}. Deleting an unknown id is a
// no-op, not an error.
//
//	@Summary	Delete a folder and everything it contains
//	@Tags		folders
//	@Param		id	path	string	true	"Folder id"
//	@Success	204
//	@Router		/folders/{id} [delete]
func (h *Handler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	if err := h.desk.DeleteFolder(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err, "delete folder failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListItems handles GET /api/folders/{folderId}/items.
//
//	@Summary	List the items of a folder
//	@Tags		items
//	@Produce	json
//	@Param		folderId	path	string	true	"Folder id"
//	@Success	200	{array}	models.FolderItem
//	@Router		/folders/{folderId}/items [get]
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.desk.Items(r.Context(), chi.URLParam(r, "folderId"))
	if err != nil {
		respondError(w, err, "list items failed")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// UploadFileItem handles POST /api/folders/{folderId}/items/file. Multipart
// with field "file" and optional x, y form values.
//
//	@Summary	Upload a file into a folder
//	@Tags		items
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		folderId	path		string	true	"Folder id"
//	@Param		file		formData	file	true	"File to upload (50MB max)"
//	@Success	201			{object}	models.FolderItem
//	@Failure	400			{object}	errResponse
//	@Router		/folders/{folderId}/items/file [post]
func (h *Handler) UploadFileItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file field is required and must be under 50MB"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("could not read upload"))
		return
	}
	x, _ := strconv.Atoi(r.FormValue("x"))
	y, _ := strconv.Atoi(r.FormValue("y"))

	item, err := h.desk.CreateFileItem(r.Context(), chi.URLParam(r, "folderId"), deskservice.FileUpload{
		Data:     data,
		Filename: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		X:        x,
		Y:        y,
	})
	if err != nil {
		respondError(w, err, "upload file item failed")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// CreateBookmarkItem handles POST /api/folders/{folderId}/items/bookmark.
//
//	@Summary	Add a bookmark to a folder
//	@Tags		items
//	@Accept		json
//	@Produce	json
//	@Param		folderId	path		string					true	"Folder id"
//	@Param		body		body		CreateBookmarkRequest	true	"Bookmark to add"
//	@Success	201			{object}	models.FolderItem
//	@Failure	400			{object}	errResponse
//	@Router		/folders/{folderId}/items/bookmark [post]
func (h *Handler) CreateBookmarkItem(w http.ResponseWriter, r *http.Request) {
	var req CreateBookmarkRequest
	if !decodeBody(w, r, &req) {
		return
	}
	item, err := h.desk.CreateBookmarkItem(r.Context(), chi.URLParam(r, "folderId"), req.Name, req.URL, req.X, req.Y)
	if err != nil {
		respondError(w, err, "create bookmark failed")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// CreateNoteItem handles POST /api/folders/{folderId}/items/note.
//
//	@Summary	Add a note to a folder
//	@Tags		items
//	@Accept		json
//	@Produce	json
//	@Param		folderId	path		string					true	"Folder id"
//	@Param		body		body		CreateNoteItemRequest	true	"Note to add"
//	@Success	201			{object}	models.FolderItem
//	@Failure	400			{object}	errResponse
//	@Router		/folders/{folderId}/items/note [post]
func (h *Handler) CreateNoteItem(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	item, err := h.desk.CreateNoteItem(r.Context(), chi.URLParam(r, "folderId"), req.Name, req.Content, req.X, req.Y)
	if err != nil {
		respondError(w, err, "create note item failed")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// UpdateItem handles PATCH /api/folders/{folderId}/items/{itemId}.
//
//	@Summary	Partially update an item
//	@Tags		items
//	@Accept		json
//	@Produce	json
//	@Param		folderId	path		string				true	"Folder id"
//	@Param		itemId		path		string				true	"Item id"
//	@Param		body		body		UpdateItemRequest	true	"Fields to update"
//	@Success	200			{object}	models.FolderItem
//	@Failure	400			{object}	errResponse
//	@Failure	404			{object}	errResponse
//	@Router		/folders/{folderId}/items/{itemId} [patch]
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	item, err := h.desk.UpdateItem(r.Context(), chi.URLParam(r, "folderId"), chi.URLParam(r, "itemId"), store.ItemUpdate{
		Name: req.Name, X: req.X, Y: req.Y, Content: req.Content,
	})
	if err != nil {
		respondError(w, err, "update item failed")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// DeleteItem handles DELETE /api/folders/{folderId}/items/{itemId}. Scoped to
// the folder; an unknown id or an item of another folder is a no-op.
//
//	@Summary	Delete an item from a folder
//	@Tags		items
//	@Param		folderId	path	string	true	"Folder id"
//	@Param		itemId		path	string	true	"Item id"
//	@Success	204
//	@Router		/folders/{folderId}/items/{itemId} [delete]
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.desk.DeleteItem(r.Context(), chi.URLParam(r, "folderId"), chi.URLParam(r, "itemId")); err != nil {
		respondError(w, err, "delete item failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

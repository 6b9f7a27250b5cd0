package api

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListDocuments handles GET /api/documents.
//
//	@Summary	List all documents
//	@Tags		documents
//	@Produce	json
//	@Success	200	{array}	models.Document
//	@Router		/documents [get]
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docs.Documents(r.Context())
	if err != nil {
		respondError(w, err, "list documents failed")
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// UploadDocument handles POST /api/documents/upload. Multipart with field
// "file"; PDFs only.
//
//	@Summary	Upload a PDF document
//	@Tags		documents
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		file	formData	file	true	"PDF to upload (50MB max)"
//	@Success	201		{object}	models.Document
//	@Failure	400		{object}	errResponse
//	@Router		/documents/upload [post]
func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
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

	doc, err := h.docs.Upload(r.Context(), data, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		respondError(w, err, "upload document failed")
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// GetDocument handles GET /api/documents/{id}.
//
//	@Summary	Get a single document
//	@Tags		documents
//	@Produce	json
//	@Param		id	path		string	true	"Document id"
//	@Success	200	{object}	models.Document
//	@Failure	404	{object}	errResponse
//	@Router		/documents/{id} [get]
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.docs.Document(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err, "get document failed")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// RenameDocument handles PATCH /api/documents/{id}/rename.
//
//	@Summary	Rename a document
//	@Tags		documents
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Document id"
//	@Param		body	body		RenameDocumentRequest	true	"New name"
//	@Success	200		{object}	models.Document
//	@Failure	400		{object}	errResponse
//	@Failure	404		{object}	errResponse
//	@Router		/documents/{id}/rename [patch]
func (h *Handler) RenameDocument(w http.ResponseWriter, r *http.Request) {
	var req RenameDocumentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	doc, err := h.docs.Rename(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		respondError(w, err, "rename document failed")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// DeleteDocument handles DELETE /api/documents/{id}. Cascades to chat
// messages and the stored blob; an unknown id is a no-op.
//
//	@Summary	Delete a document and its chat history
//	@Tags		documents
//	@Param		id	path	string	true	"Document id"
//	@Success	204
//	@Router		/documents/{id} [delete]
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.docs.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err, "delete document failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMessages handles GET /api/chat/messages.
//
//	@Summary	Full ordered chat history
//	@Tags		chat
//	@Produce	json
//	@Success	200	{array}	models.DocMessage
//	@Router		/chat/messages [get]
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.docs.Messages(r.Context())
	if err != nil {
		respondError(w, err, "list messages failed")
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

// SendMessage handles POST /api/chat/send.
//
//	@Summary	Send a chat message, optionally referencing documents
//	@Tags		chat
//	@Accept		json
//	@Produce	json
//	@Param		body	body		SendMessageRequest	true	"Message to send"
//	@Success	200		{object}	SendMessageResponse
//	@Failure	400		{object}	errResponse
//	@Router		/chat/send [post]
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	userMsg, aiMsg, err := h.docs.Send(r.Context(), req.Content, req.ReferencedDocIDs)
	if err != nil {
		respondError(w, err, "send message failed")
		return
	}
	writeJSON(w, http.StatusOK, SendMessageResponse{UserMessage: userMsg, AIMessage: aiMsg})
}

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/models"
)

func validateMailingList(req *MailingListRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return apperr.ValidationField("name", "name is required")
	}
	if len(req.Emails) == 0 {
		return apperr.ValidationField("emails", "at least one email is required")
	}
	for _, e := range req.Emails {
		if err := validation.Validate(e, validation.Required, is.Email); err != nil {
			return apperr.ValidationField("emails", "invalid email: "+e)
		}
	}
	return nil
}

// ListMailingLists handles GET /api/mailing-lists.
//
//	@Summary	List all mailing lists
//	@Tags		mailing-lists
//	@Produce	json
//	@Success	200	{array}	models.MailingList
//	@Router		/mailing-lists [get]
func (h *Handler) ListMailingLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.store.MailingLists(r.Context())
	if err != nil {
		respondError(w, err, "list mailing lists failed")
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

// CreateMailingList handles POST /api/mailing-lists.
//
//	@Summary	Create a mailing list
//	@Tags		mailing-lists
//	@Accept		json
//	@Produce	json
//	@Param		body	body		MailingListRequest	true	"List to create"
//	@Success	201		{object}	models.MailingList
//	@Failure	400		{object}	errResponse
//	@Router		/mailing-lists [post]
func (h *Handler) CreateMailingList(w http.ResponseWriter, r *http.Request) {
	var req MailingListRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validateMailingList(&req); err != nil {
		respondError(w, err, "create mailing list failed")
		return
	}
	ml := &models.MailingList{Name: req.Name, Emails: req.Emails}
	if err := h.store.CreateMailingList(r.Context(), ml); err != nil {
		respondError(w, err, "create mailing list failed")
		return
	}
	writeJSON(w, http.StatusCreated, ml)
}

// UpdateMailingList handles PUT /api/mailing-lists/{id}.
//
//	@Summary	Update a mailing list
//	@Tags		mailing-lists
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"List id"
//	@Param		body	body		MailingListRequest	true	"New name and emails"
//	@Success	200		{object}	models.MailingList
//	@Failure	400		{object}	errResponse
//	@Failure	404		{object}	errResponse
//	@Router		/mailing-lists/{id} [put]
func (h *Handler) UpdateMailingList(w http.ResponseWriter, r *http.Request) {
	var req MailingListRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validateMailingList(&req); err != nil {
		respondError(w, err, "update mailing list failed")
		return
	}
	ml, err := h.store.UpdateMailingList(r.Context(), chi.URLParam(r, "id"), req.Name, req.Emails)
	if err != nil {
		respondError(w, err, "update mailing list failed")
		return
	}
	writeJSON(w, http.StatusOK, ml)
}

// DeleteMailingList handles DELETE /api/mailing-lists/{id}.
//
//	@Summary	Delete a mailing list
//	@Tags		mailing-lists
//	@Param		id	path	string	true	"List id"
//	@Success	204
//	@Router		/mailing-lists/{id} [delete]
func (h *Handler) DeleteMailingList(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteMailingList(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err, "delete mailing list failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// vaultItemFromRequest builds the tagged union from the flat request body,
// rejecting missing variant fields.
func vaultItemFromRequest(req *VaultItemRequest) (*models.VaultItem, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, apperr.ValidationField("name", "name is required")
	}
	switch models.VaultType(req.Type) {
	case models.VaultPassword:
		if req.Password == "" {
			return nil, apperr.ValidationField("password", "password is required")
		}
		return models.NewPasswordVaultItem(req.Name, models.PasswordPayload{
			Username: req.Username, Password: req.Password,
		}), nil
	case models.VaultAPIKey:
		if req.APIKey == "" {
			return nil, apperr.ValidationField("apiKey", "apiKey is required")
		}
		return models.NewAPIKeyVaultItem(req.Name, models.APIKeyPayload{APIKey: req.APIKey}), nil
	case models.VaultValue:
		if req.Value == "" {
			return nil, apperr.ValidationField("value", "value is required")
		}
		return models.NewValueVaultItem(req.Name, models.ValuePayload{Value: req.Value}), nil
	default:
		return nil, apperr.ValidationField("type", "type must be password, apikey, or value")
	}
}

// ListVaultItems handles GET /api/vault.
//
//	@Summary	List all vault items
//	@Tags		vault
//	@Produce	json
//	@Success	200	{array}	models.VaultItem
//	@Router		/vault [get]
func (h *Handler) ListVaultItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.VaultItems(r.Context())
	if err != nil {
		respondError(w, err, "list vault items failed")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateVaultItem handles POST /api/vault.
//
//	@Summary	Create a vault item
//	@Tags		vault
//	@Accept		json
//	@Produce	json
//	@Param		body	body		VaultItemRequest	true	"Item to create"
//	@Success	201		{object}	models.VaultItem
//	@Failure	400		{object}	errResponse
//	@Router		/vault [post]
func (h *Handler) CreateVaultItem(w http.ResponseWriter, r *http.Request) {
	var req VaultItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	item, err := vaultItemFromRequest(&req)
	if err != nil {
		respondError(w, err, "create vault item failed")
		return
	}
	if err := h.store.CreateVaultItem(r.Context(), item); err != nil {
		respondError(w, err, "create vault item failed")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// ReplaceVaultItem handles PUT /api/vault/{id}. The id and creation time are
// preserved; name, type, and payload are replaced.
//
//	@Summary	Replace a vault item
//	@Tags		vault
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Item id"
//	@Param		body	body		VaultItemRequest	true	"Replacement"
//	@Success	200		{object}	models.VaultItem
//	@Failure	400		{object}	errResponse
//	@Failure	404		{object}	errResponse
//	@Router		/vault/{id} [put]
func (h *Handler) ReplaceVaultItem(w http.ResponseWriter, r *http.Request) {
	var req VaultItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	item, err := vaultItemFromRequest(&req)
	if err != nil {
		respondError(w, err, "replace vault item failed")
		return
	}
	out, err := h.store.ReplaceVaultItem(r.Context(), chi.URLParam(r, "id"), item)
	if err != nil {
		respondError(w, err, "replace vault item failed")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// DeleteVaultItem handles DELETE /api/vault/{id}.
//
//	@Summary	Delete a vault item
//	@Tags		vault
//	@Param		id	path	string	true	"Item id"
//	@Success	204
//	@Router		/vault/{id} [delete]
func (h *Handler) DeleteVaultItem(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteVaultItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err, "delete vault item failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Ask handles POST /api/clippy/ask.
//
//	@Summary	Ask the assistant a question about the desktop
//	@Tags		clippy
//	@Accept		json
//	@Produce	json
//	@Param		body	body		AskRequest	true	"Question"
//	@Success	200		{object}	AskResponse
//	@Failure	400		{object}	errResponse
//	@Failure	500		{object}	errResponse
//	@Router		/clippy/ask [post]
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	answer, err := h.clippy.Ask(r.Context(), req.Question)
	if err != nil {
		respondError(w, err, "assistant ask failed")
		return
	}
	writeJSON(w, http.StatusOK, AskResponse{Answer: answer})
}

// UpdateContext handles POST /api/clippy/update-context. Heavyweight,
// user-triggered snapshot refresh.
//
//	@Summary	Rebuild the assistant's cached desktop summary
//	@Tags		clippy
//	@Produce	json
//	@Success	200	{object}	MessageResponse
//	@Failure	500	{object}	errResponse
//	@Router		/clippy/update-context [post]
func (h *Handler) UpdateContext(w http.ResponseWriter, r *http.Request) {
	if _, err := h.clippy.UpdateContext(r.Context()); err != nil {
		respondError(w, err, "update context failed")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "context updated"})
}

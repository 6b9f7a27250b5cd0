package models

import (
	"encoding/json"
	"time"
)

// The REST contract keeps the original flat wire shape for the tagged unions:
// every variant field is present, null unless it belongs to the populated
// variant.

type folderItemWire struct {
	ID       string   `json:"id"`
	FolderID string   `json:"folderId"`
	Type     ItemType `json:"type"`
	Name     string   `json:"name"`
	X        int      `json:"x"`
	Y        int      `json:"y"`

	FileURL      *string `json:"fileUrl"`
	FileID       *string `json:"fileId"`
	OriginalName *string `json:"originalName"`
	MimeType     *string `json:"mimeType"`
	FileSize     *int64  `json:"fileSize"`

	URL        *string `json:"url"`
	FaviconURL *string `json:"faviconUrl"`

	Content *string `json:"content"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MarshalJSON flattens the variant payload into nullable per-variant fields.
func (i FolderItem) MarshalJSON() ([]byte, error) {
	w := folderItemWire{
		ID:       i.ID,
		FolderID: i.FolderID,
		Type:     i.Type,
		Name:     i.Name,
		X:        i.X,
		Y:        i.Y,

		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
	switch {
	case i.File != nil:
		w.FileURL = &i.File.FileURL
		w.FileID = &i.File.FileID
		w.OriginalName = &i.File.OriginalName
		w.MimeType = &i.File.MimeType
		w.FileSize = &i.File.FileSize
	case i.Bookmark != nil:
		w.URL = &i.Bookmark.URL
		w.FaviconURL = &i.Bookmark.FaviconURL
	case i.Note != nil:
		w.Content = &i.Note.Content
	}
	return json.Marshal(w)
}

// UnmarshalJSON rebuilds the tagged union from the flat wire shape.
func (i *FolderItem) UnmarshalJSON(data []byte) error {
	var w folderItemWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*i = FolderItem{
		ID:        w.ID,
		FolderID:  w.FolderID,
		Type:      w.Type,
		Name:      w.Name,
		X:         w.X,
		Y:         w.Y,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
	switch w.Type {
	case ItemFile:
		p := FilePayload{}
		if w.FileURL != nil {
			p.FileURL = *w.FileURL
		}
		if w.FileID != nil {
			p.FileID = *w.FileID
		}
		if w.OriginalName != nil {
			p.OriginalName = *w.OriginalName
		}
		if w.MimeType != nil {
			p.MimeType = *w.MimeType
		}
		if w.FileSize != nil {
			p.FileSize = *w.FileSize
		}
		i.File = &p
	case ItemBookmark:
		p := BookmarkPayload{}
		if w.URL != nil {
			p.URL = *w.URL
		}
		if w.FaviconURL != nil {
			p.FaviconURL = *w.FaviconURL
		}
		i.Bookmark = &p
	case ItemNote:
		p := NotePayload{}
		if w.Content != nil {
			p.Content = *w.Content
		}
		i.Note = &p
	}
	return nil
}

type vaultItemWire struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Type VaultType `json:"type"`

	Username *string `json:"username"`
	Password *string `json:"password"`
	APIKey   *string `json:"apiKey"`
	Value    *string `json:"value"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MarshalJSON flattens the variant payload into nullable per-variant fields.
func (v VaultItem) MarshalJSON() ([]byte, error) {
	w := vaultItemWire{
		ID:        v.ID,
		Name:      v.Name,
		Type:      v.Type,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
	switch {
	case v.Password != nil:
		w.Username = &v.Password.Username
		w.Password = &v.Password.Password
	case v.APIKey != nil:
		w.APIKey = &v.APIKey.APIKey
	case v.Value != nil:
		w.Value = &v.Value.Value
	}
	return json.Marshal(w)
}

// UnmarshalJSON rebuilds the tagged union from the flat wire shape.
func (v *VaultItem) UnmarshalJSON(data []byte) error {
	var w vaultItemWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*v = VaultItem{
		ID:        w.ID,
		Name:      w.Name,
		Type:      w.Type,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
	switch w.Type {
	case VaultPassword:
		p := PasswordPayload{}
		if w.Username != nil {
			p.Username = *w.Username
		}
		if w.Password != nil {
			p.Password = *w.Password
		}
		v.Password = &p
	case VaultAPIKey:
		p := APIKeyPayload{}
		if w.APIKey != nil {
			p.APIKey = *w.APIKey
		}
		v.APIKey = &p
	case VaultValue:
		p := ValuePayload{}
		if w.Value != nil {
			p.Value = *w.Value
		}
		v.Value = &p
	}
	return nil
}

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/models"
)

// Memory is an in-process Store used by tests and by dev mode when no mongo
// uri is configured. All state is lost on restart.
type Memory struct {
	mu sync.RWMutex

	folders      map[string]models.Folder
	items        map[string]models.FolderItem
	documents    map[string]models.Document
	messages     []models.DocMessage
	mailingLists map[string]models.MailingList
	vaultItems   map[string]models.VaultItem
	snapshot     *models.ContextSnapshot
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		folders:      make(map[string]models.Folder),
		items:        make(map[string]models.FolderItem),
		documents:    make(map[string]models.Document),
		mailingLists: make(map[string]models.MailingList),
		vaultItems:   make(map[string]models.VaultItem),
	}
}

var _ Store = (*Memory)(nil)

// Folders returns all folders ordered by id (ids are time-ordered).
func (m *Memory) Folders(_ context.Context) ([]models.Folder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Folder, 0, len(m.folders))
	for _, f := range m.folders {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) Folder(_ context.Context, id string) (*models.Folder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.folders[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &f, nil
}

func (m *Memory) CreateFolder(_ context.Context, f *models.Folder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.folders {
		if existing.Name == f.Name {
			return apperr.ErrDuplicateName
		}
	}
	f.ID = NewID()
	m.folders[f.ID] = *f
	return nil
}

func (m *Memory) UpdateFolder(_ context.Context, id string, upd FolderUpdate) (*models.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.folders[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	if upd.Name != nil {
		for otherID, other := range m.folders {
			if otherID != id && other.Name == *upd.Name {
				return nil, apperr.ErrDuplicateName
			}
		}
		f.Name = *upd.Name
	}
	if upd.X != nil {
		f.X = *upd.X
	}
	if upd.Y != nil {
		f.Y = *upd.Y
	}
	m.folders[id] = f
	return &f, nil
}

func (m *Memory) DeleteFolder(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.folders, id)
	return nil
}

// ItemsByFolder returns the items owned by folderID ordered by id.
func (m *Memory) ItemsByFolder(_ context.Context, folderID string) ([]models.FolderItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.FolderItem, 0)
	for _, it := range m.items {
		if it.FolderID == folderID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) Item(_ context.Context, id string) (*models.FolderItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.items[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &it, nil
}

func (m *Memory) CreateItem(_ context.Context, item *models.FolderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item.ID = NewID()
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	m.items[item.ID] = *item
	return nil
}

func (m *Memory) UpdateItem(_ context.Context, id string, upd ItemUpdate) (*models.FolderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	if upd.Name != nil {
		it.Name = *upd.Name
	}
	if upd.X != nil {
		it.X = *upd.X
	}
	if upd.Y != nil {
		it.Y = *upd.Y
	}
	if upd.Content != nil && it.Note != nil {
		note := *it.Note
		note.Content = *upd.Content
		it.Note = &note
	}
	it.UpdatedAt = time.Now().UTC()
	m.items[id] = it
	return &it, nil
}

func (m *Memory) DeleteItem(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

// Documents returns all documents, newest first.
func (m *Memory) Documents(_ context.Context) ([]models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Document, 0, len(m.documents))
	for _, d := range m.documents {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *Memory) Document(_ context.Context, id string) (*models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.documents[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &d, nil
}

func (m *Memory) DocumentsByIDs(_ context.Context, ids []string) ([]models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Document, 0, len(ids))
	for _, id := range ids {
		if d, ok := m.documents[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *Memory) CreateDocument(_ context.Context, d *models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d.ID = NewID()
	d.CreatedAt = time.Now().UTC()
	m.documents[d.ID] = *d
	return nil
}

func (m *Memory) RenameDocument(_ context.Context, id, name string) (*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.documents[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	d.Name = name
	m.documents[id] = d
	return &d, nil
}

func (m *Memory) DeleteDocument(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.documents, id)
	return nil
}

// Messages returns the full chat history in creation order.
func (m *Memory) Messages(_ context.Context) ([]models.DocMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.DocMessage, len(m.messages))
	copy(out, m.messages)
	return out, nil
}

func (m *Memory) CreateMessage(_ context.Context, msg *models.DocMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = NewID()
	msg.CreatedAt = time.Now().UTC()
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *Memory) DeleteMessagesByDocument(_ context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.messages[:0]
	for _, msg := range m.messages {
		if msg.DocumentID != documentID {
			kept = append(kept, msg)
		}
	}
	m.messages = kept
	return nil
}

// MailingLists returns all mailing lists ordered by id.
func (m *Memory) MailingLists(_ context.Context) ([]models.MailingList, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.MailingList, 0, len(m.mailingLists))
	for _, ml := range m.mailingLists {
		out = append(out, ml)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) MailingList(_ context.Context, id string) (*models.MailingList, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ml, ok := m.mailingLists[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &ml, nil
}

func (m *Memory) CreateMailingList(_ context.Context, ml *models.MailingList) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.mailingLists {
		if existing.Name == ml.Name {
			return apperr.ErrDuplicateName
		}
	}
	ml.ID = NewID()
	ml.CreatedAt = time.Now().UTC()
	m.mailingLists[ml.ID] = *ml
	return nil
}

func (m *Memory) UpdateMailingList(_ context.Context, id, name string, emails []string) (*models.MailingList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ml, ok := m.mailingLists[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	for otherID, other := range m.mailingLists {
		if otherID != id && other.Name == name {
			return nil, apperr.ErrDuplicateName
		}
	}
	ml.Name = name
	ml.Emails = append([]string(nil), emails...)
	m.mailingLists[id] = ml
	return &ml, nil
}

func (m *Memory) DeleteMailingList(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.mailingLists, id)
	return nil
}

// VaultItems returns all vault items ordered by id.
func (m *Memory) VaultItems(_ context.Context) ([]models.VaultItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.VaultItem, 0, len(m.vaultItems))
	for _, v := range m.vaultItems {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) VaultItem(_ context.Context, id string) (*models.VaultItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vaultItems[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &v, nil
}

func (m *Memory) CreateVaultItem(_ context.Context, v *models.VaultItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v.ID = NewID()
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now
	m.vaultItems[v.ID] = *v
	return nil
}

func (m *Memory) ReplaceVaultItem(_ context.Context, id string, v *models.VaultItem) (*models.VaultItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.vaultItems[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	v.ID = id
	v.CreatedAt = existing.CreatedAt
	v.UpdatedAt = time.Now().UTC()
	m.vaultItems[id] = *v
	return v, nil
}

func (m *Memory) DeleteVaultItem(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vaultItems, id)
	return nil
}

// Context returns the singleton snapshot, or ErrNotFound before the first
// update-context run.
func (m *Memory) Context(_ context.Context) (*models.ContextSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snapshot == nil {
		return nil, apperr.ErrNotFound
	}
	snap := *m.snapshot
	return &snap, nil
}

func (m *Memory) UpsertContext(_ context.Context, data string) (*models.ContextSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snapshot == nil {
		m.snapshot = &models.ContextSnapshot{ID: NewID()}
	}
	m.snapshot.ContextData = data
	m.snapshot.UpdatedAt = time.Now().UTC()
	snap := *m.snapshot
	return &snap, nil
}

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/models"
)

// Collection names.
const (
	colFolders      = "folders"
	colItems        = "folder_items"
	colDocuments    = "documents"
	colMessages     = "doc_messages"
	colMailingLists = "mailing_lists"
	colVaultItems   = "vault_items"
	colContexts     = "contexts"
)

// Mongo implements Store on a MongoDB database.
type Mongo struct {
	db *mongo.Database
}

var _ Store = (*Mongo)(nil)

// Connect dials MongoDB and verifies the connection with a ping. The returned
// client is the lifecycle-managed handle the caller must Disconnect on
// shutdown.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(10).
		SetServerSelectionTimeout(5 * time.Second)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("store: connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("store: ping mongo: %w", err)
	}
	return client, nil
}

// NewMongo creates a Mongo store on the given database.
func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

// EnsureIndexes creates the unique-name and lookup indexes the store relies
// on. Idempotent; safe to run at every startup.
func (s *Mongo) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	specs := []struct {
		col   string
		model mongo.IndexModel
	}{
		{colFolders, mongo.IndexModel{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique}},
		{colMailingLists, mongo.IndexModel{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique}},
		{colItems, mongo.IndexModel{Keys: bson.D{{Key: "folderId", Value: 1}}}},
		{colMessages, mongo.IndexModel{Keys: bson.D{{Key: "documentId", Value: 1}}}},
		{colMessages, mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: 1}}}},
	}
	for _, spec := range specs {
		if _, err := s.db.Collection(spec.col).Indexes().CreateOne(ctx, spec.model); err != nil {
			return fmt.Errorf("store: ensure index on %s: %w", spec.col, err)
		}
	}
	return nil
}

// mapWriteErr translates driver errors into the apperr taxonomy.
func mapWriteErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return apperr.ErrDuplicateName
	}
	return err
}

func findAll[T any](ctx context.Context, col *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func findByID[T any](ctx context.Context, col *mongo.Collection, id string) (*T, error) {
	var v T
	err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func findOneAndUpdate[T any](ctx context.Context, col *mongo.Collection, id string, update bson.M) (*T, error) {
	var v T
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, mapWriteErr(err)
	}
	return &v, nil
}

func deleteByID(ctx context.Context, col *mongo.Collection, id string) error {
	// Missing ids delete zero documents, which is exactly the no-op we want.
	_, err := col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *Mongo) Folders(ctx context.Context) ([]models.Folder, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return findAll[models.Folder](ctx, s.db.Collection(colFolders), bson.M{}, opts)
}

func (s *Mongo) Folder(ctx context.Context, id string) (*models.Folder, error) {
	return findByID[models.Folder](ctx, s.db.Collection(colFolders), id)
}

func (s *Mongo) CreateFolder(ctx context.Context, f *models.Folder) error {
	f.ID = NewID()
	if _, err := s.db.Collection(colFolders).InsertOne(ctx, f); err != nil {
		return mapWriteErr(err)
	}
	return nil
}

func (s *Mongo) UpdateFolder(ctx context.Context, id string, upd FolderUpdate) (*models.Folder, error) {
	set := bson.M{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.X != nil {
		set["x"] = *upd.X
	}
	if upd.Y != nil {
		set["y"] = *upd.Y
	}
	if len(set) == 0 {
		return s.Folder(ctx, id)
	}
	return findOneAndUpdate[models.Folder](ctx, s.db.Collection(colFolders), id, bson.M{"$set": set})
}

func (s *Mongo) DeleteFolder(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db.Collection(colFolders), id)
}

func (s *Mongo) ItemsByFolder(ctx context.Context, folderID string) ([]models.FolderItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return findAll[models.FolderItem](ctx, s.db.Collection(colItems), bson.M{"folderId": folderID}, opts)
}

func (s *Mongo) Item(ctx context.Context, id string) (*models.FolderItem, error) {
	return findByID[models.FolderItem](ctx, s.db.Collection(colItems), id)
}

func (s *Mongo) CreateItem(ctx context.Context, item *models.FolderItem) error {
	item.ID = NewID()
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	_, err := s.db.Collection(colItems).InsertOne(ctx, item)
	return err
}

func (s *Mongo) UpdateItem(ctx context.Context, id string, upd ItemUpdate) (*models.FolderItem, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.X != nil {
		set["x"] = *upd.X
	}
	if upd.Y != nil {
		set["y"] = *upd.Y
	}
	if upd.Content != nil {
		set["note.content"] = *upd.Content
	}
	return findOneAndUpdate[models.FolderItem](ctx, s.db.Collection(colItems), id, bson.M{"$set": set})
}

func (s *Mongo) DeleteItem(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db.Collection(colItems), id)
}

func (s *Mongo) Documents(ctx context.Context) ([]models.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findAll[models.Document](ctx, s.db.Collection(colDocuments), bson.M{}, opts)
}

func (s *Mongo) Document(ctx context.Context, id string) (*models.Document, error) {
	return findByID[models.Document](ctx, s.db.Collection(colDocuments), id)
}

func (s *Mongo) DocumentsByIDs(ctx context.Context, ids []string) ([]models.Document, error) {
	if len(ids) == 0 {
		return []models.Document{}, nil
	}
	return findAll[models.Document](ctx, s.db.Collection(colDocuments), bson.M{"_id": bson.M{"$in": ids}})
}

func (s *Mongo) CreateDocument(ctx context.Context, d *models.Document) error {
	d.ID = NewID()
	d.CreatedAt = time.Now().UTC()
	_, err := s.db.Collection(colDocuments).InsertOne(ctx, d)
	return err
}

func (s *Mongo) RenameDocument(ctx context.Context, id, name string) (*models.Document, error) {
	return findOneAndUpdate[models.Document](ctx, s.db.Collection(colDocuments), id, bson.M{"$set": bson.M{"name": name}})
}

func (s *Mongo) DeleteDocument(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db.Collection(colDocuments), id)
}

func (s *Mongo) Messages(ctx context.Context) ([]models.DocMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	return findAll[models.DocMessage](ctx, s.db.Collection(colMessages), bson.M{}, opts)
}

func (s *Mongo) CreateMessage(ctx context.Context, m *models.DocMessage) error {
	m.ID = NewID()
	m.CreatedAt = time.Now().UTC()
	_, err := s.db.Collection(colMessages).InsertOne(ctx, m)
	return err
}

func (s *Mongo) DeleteMessagesByDocument(ctx context.Context, documentID string) error {
	_, err := s.db.Collection(colMessages).DeleteMany(ctx, bson.M{"documentId": documentID})
	return err
}

func (s *Mongo) MailingLists(ctx context.Context) ([]models.MailingList, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return findAll[models.MailingList](ctx, s.db.Collection(colMailingLists), bson.M{}, opts)
}

func (s *Mongo) MailingList(ctx context.Context, id string) (*models.MailingList, error) {
	return findByID[models.MailingList](ctx, s.db.Collection(colMailingLists), id)
}

func (s *Mongo) CreateMailingList(ctx context.Context, ml *models.MailingList) error {
	ml.ID = NewID()
	ml.CreatedAt = time.Now().UTC()
	if _, err := s.db.Collection(colMailingLists).InsertOne(ctx, ml); err != nil {
		return mapWriteErr(err)
	}
	return nil
}

func (s *Mongo) UpdateMailingList(ctx context.Context, id, name string, emails []string) (*models.MailingList, error) {
	update := bson.M{"$set": bson.M{"name": name, "emails": emails}}
	return findOneAndUpdate[models.MailingList](ctx, s.db.Collection(colMailingLists), id, update)
}

func (s *Mongo) DeleteMailingList(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db.Collection(colMailingLists), id)
}

func (s *Mongo) VaultItems(ctx context.Context) ([]models.VaultItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return findAll[models.VaultItem](ctx, s.db.Collection(colVaultItems), bson.M{}, opts)
}

func (s *Mongo) VaultItem(ctx context.Context, id string) (*models.VaultItem, error) {
	return findByID[models.VaultItem](ctx, s.db.Collection(colVaultItems), id)
}

func (s *Mongo) CreateVaultItem(ctx context.Context, v *models.VaultItem) error {
	v.ID = NewID()
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now
	_, err := s.db.Collection(colVaultItems).InsertOne(ctx, v)
	return err
}

func (s *Mongo) ReplaceVaultItem(ctx context.Context, id string, v *models.VaultItem) (*models.VaultItem, error) {
	existing, err := s.VaultItem(ctx, id)
	if err != nil {
		return nil, err
	}
	v.ID = id
	v.CreatedAt = existing.CreatedAt
	v.UpdatedAt = time.Now().UTC()
	if _, err := s.db.Collection(colVaultItems).ReplaceOne(ctx, bson.M{"_id": id}, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Mongo) DeleteVaultItem(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db.Collection(colVaultItems), id)
}

func (s *Mongo) Context(ctx context.Context) (*models.ContextSnapshot, error) {
	var snap models.ContextSnapshot
	opts := options.FindOne().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	err := s.db.Collection(colContexts).FindOne(ctx, bson.M{}, opts).Decode(&snap)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *Mongo) UpsertContext(ctx context.Context, data string) (*models.ContextSnapshot, error) {
	now := time.Now().UTC()
	existing, err := s.Context(ctx)
	if errors.Is(err, apperr.ErrNotFound) {
		snap := &models.ContextSnapshot{ID: NewID(), ContextData: data, UpdatedAt: now}
		if _, err := s.db.Collection(colContexts).InsertOne(ctx, snap); err != nil {
			return nil, err
		}
		return snap, nil
	}
	if err != nil {
		return nil, err
	}
	update := bson.M{"$set": bson.M{"contextData": data, "updatedAt": now}}
	return findOneAndUpdate[models.ContextSnapshot](ctx, s.db.Collection(colContexts), existing.ID, update)
}

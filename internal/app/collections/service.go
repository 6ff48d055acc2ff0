package collections

import (
	"context"
	"errors"

	"github.com/j-cqln/reverb/internal/catalog"
	"github.com/j-cqln/reverb/internal/store"
	"github.com/j-cqln/reverb/shared/go/models"
)

// ErrNotOwner signals an attempt to modify a collection owned by someone
// else.
var ErrNotOwner = errors.New("collection belongs to another user")

// Store defines persistence operations required for collection workflows.
type Store interface {
	CreateCollection(ctx context.Context, userID int64, name, description, image string) (int64, error)
	AddToCollection(ctx context.Context, collectionID int64, spotifyID string, kind models.Kind, image string) error
	RemoveFromCollection(ctx context.Context, collectionID int64, kind models.Kind, spotifyID string, lookupImage store.ImageLookup) error
	CollectionByID(ctx context.Context, collectionID int64) (*models.Collection, error)
	CollectionsByUser(ctx context.Context, userID int64) ([]models.Collection, error)
	CollectionContent(ctx context.Context, collectionID int64) (models.ContentIDs, error)
	SearchCollections(ctx context.Context, query string) ([]models.Collection, []string, error)
	DeleteCollection(ctx context.Context, collectionID int64) error
	RandomCollection(ctx context.Context) (*models.Collection, error)
}

// Catalog is the slice of the external catalog the collection workflows use.
type Catalog interface {
	GetImage(ctx context.Context, kind models.Kind, id string) (string, error)
	GetManyByIDs(ctx context.Context, ids models.ContentIDs) ([]catalog.Item, error)
}

// Owner pairs a collection with its owner's handle, for search results that
// span users.
type Owner struct {
	Collection models.Collection `json:"collection"`
	Username   string            `json:"username"`
}

// Service describes high level collection operations used by HTTP handlers.
type Service interface {
	Create(ctx context.Context, userID int64, name, description string) (int64, error)
	Add(ctx context.Context, userID, collectionID int64, kind models.Kind, contentID string) error
	Remove(ctx context.Context, userID, collectionID int64, kind models.Kind, contentID string) error
	Delete(ctx context.Context, userID, collectionID int64) error
	ByUser(ctx context.Context, userID int64) ([]models.Collection, error)
	Get(ctx context.Context, collectionID int64) (*models.Collection, []catalog.Item, error)
	Search(ctx context.Context, query string) ([]Owner, error)
	Random(ctx context.Context) (*models.Collection, error)
}

type service struct {
	store   Store
	catalog Catalog
}

// New constructs a collection Service backed by the given store and catalog.
func New(st Store, cat Catalog) Service {
	return &service{store: st, catalog: cat}
}

func (s *service) Create(ctx context.Context, userID int64, name, description string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.store.CreateCollection(ctx, userID, name, description, "")
}

// Add resolves the item's image from the catalog and records the membership.
// The store promotes the image to the collection when the item is the first
// member.
func (s *service) Add(ctx context.Context, userID, collectionID int64, kind models.Kind, contentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.requireOwner(ctx, userID, collectionID); err != nil {
		return err
	}

	image, err := s.catalog.GetImage(ctx, kind, contentID)
	if err != nil {
		return err
	}

	return s.store.AddToCollection(ctx, collectionID, contentID, kind, image)
}

// Remove drops the membership. When the removed item was the first member,
// the store re-derives the collection image from the new first member using
// the catalog lookup passed here.
func (s *service) Remove(ctx context.Context, userID, collectionID int64, kind models.Kind, contentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.requireOwner(ctx, userID, collectionID); err != nil {
		return err
	}

	return s.store.RemoveFromCollection(ctx, collectionID, kind, contentID, s.catalog.GetImage)
}

func (s *service) Delete(ctx context.Context, userID, collectionID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.requireOwner(ctx, userID, collectionID); err != nil {
		return err
	}
	return s.store.DeleteCollection(ctx, collectionID)
}

func (s *service) ByUser(ctx context.Context, userID int64) ([]models.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.CollectionsByUser(ctx, userID)
}

// Get returns the collection and its members resolved against the catalog,
// tracks before albums, each kind in insertion order.
func (s *service) Get(ctx context.Context, collectionID int64) (*models.Collection, []catalog.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	collection, err := s.store.CollectionByID(ctx, collectionID)
	if err != nil {
		return nil, nil, err
	}

	ids, err := s.store.CollectionContent(ctx, collectionID)
	if err != nil {
		return nil, nil, err
	}
	if ids.Empty() {
		return collection, []catalog.Item{}, nil
	}

	items, err := s.catalog.GetManyByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	return collection, items, nil
}

func (s *service) Search(ctx context.Context, query string) ([]Owner, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	found, usernames, err := s.store.SearchCollections(ctx, query)
	if err != nil {
		return nil, err
	}

	owners := make([]Owner, 0, len(found))
	for i, c := range found {
		owners = append(owners, Owner{Collection: c, Username: usernames[i]})
	}
	return owners, nil
}

func (s *service) Random(ctx context.Context) (*models.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.RandomCollection(ctx)
}

func (s *service) requireOwner(ctx context.Context, userID, collectionID int64) error {
	collection, err := s.store.CollectionByID(ctx, collectionID)
	if err != nil {
		return err
	}
	if collection.UserID != userID {
		return ErrNotOwner
	}
	return nil
}

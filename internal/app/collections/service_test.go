package collections

import (
	"context"
	"errors"
	"testing"

	"github.com/j-cqln/reverb/internal/catalog"
	"github.com/j-cqln/reverb/internal/store"
	"github.com/j-cqln/reverb/shared/go/models"
)

type fakeStore struct {
	Store

	collection *models.Collection
	getErr     error

	addedImage string
	addCalls   int

	content models.ContentIDs
}

func (f *fakeStore) CollectionByID(ctx context.Context, collectionID int64) (*models.Collection, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.collection, nil
}

func (f *fakeStore) AddToCollection(ctx context.Context, collectionID int64, spotifyID string, kind models.Kind, image string) error {
	f.addedImage = image
	f.addCalls++
	return nil
}

func (f *fakeStore) CollectionContent(ctx context.Context, collectionID int64) (models.ContentIDs, error) {
	return f.content, nil
}

type fakeCatalog struct {
	image    string
	imageErr error

	items []catalog.Item
	calls int
}

func (f *fakeCatalog) GetImage(ctx context.Context, kind models.Kind, id string) (string, error) {
	return f.image, f.imageErr
}

func (f *fakeCatalog) GetManyByIDs(ctx context.Context, ids models.ContentIDs) ([]catalog.Item, error) {
	f.calls++
	return f.items, nil
}

func TestAddResolvesImageFromCatalog(t *testing.T) {
	st := &fakeStore{collection: &models.Collection{ID: 7, UserID: 1}}
	cat := &fakeCatalog{image: "http://img/sp-1"}
	svc := New(st, cat)

	if err := svc.Add(context.Background(), 1, 7, models.KindTrack, "sp-1"); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if st.addedImage != "http://img/sp-1" {
		t.Fatalf("expected catalog image forwarded to store, got %q", st.addedImage)
	}
}

func TestAddRejectsForeignCollection(t *testing.T) {
	st := &fakeStore{collection: &models.Collection{ID: 7, UserID: 2}}
	svc := New(st, &fakeCatalog{})

	err := svc.Add(context.Background(), 1, 7, models.KindTrack, "sp-1")
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if st.addCalls != 0 {
		t.Fatal("expected no store call for foreign collection")
	}
}

func TestAddMissingCollection(t *testing.T) {
	st := &fakeStore{getErr: store.ErrCollectionNotFound}
	svc := New(st, &fakeCatalog{})

	err := svc.Add(context.Background(), 1, 7, models.KindTrack, "sp-1")
	if !errors.Is(err, store.ErrCollectionNotFound) {
		t.Fatalf("expected ErrCollectionNotFound, got %v", err)
	}
}

func TestGetSkipsCatalogForEmptyCollection(t *testing.T) {
	st := &fakeStore{collection: &models.Collection{ID: 7, UserID: 1}}
	cat := &fakeCatalog{}
	svc := New(st, cat)

	collection, items, err := svc.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if collection == nil || collection.ID != 7 {
		t.Fatalf("unexpected collection: %+v", collection)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %+v", items)
	}
	if cat.calls != 0 {
		t.Fatal("expected no catalog lookup for empty collection")
	}
}

func TestGetResolvesItems(t *testing.T) {
	st := &fakeStore{
		collection: &models.Collection{ID: 7, UserID: 1},
		content:    models.ContentIDs{Tracks: []string{"sp-1"}},
	}
	cat := &fakeCatalog{items: []catalog.Item{{ID: "sp-1", Kind: models.KindTrack, Name: "Song"}}}
	svc := New(st, cat)

	_, items, err := svc.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "sp-1" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

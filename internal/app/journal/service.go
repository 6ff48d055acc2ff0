package journal

import (
	"context"
	"errors"

	"github.com/j-cqln/reverb/internal/catalog"
	"github.com/j-cqln/reverb/shared/go/models"
)

// Store defines persistence operations required for journal workflows.
type Store interface {
	UpsertJournalEntry(ctx context.Context, userID int64, contentID, text string, kind models.Kind) error
	JournalEntriesByUser(ctx context.Context, userID int64) ([]models.JournalEntry, models.ContentIDs, error)
	JournalEntriesByUserAndContent(ctx context.Context, userID int64, contentID string) ([]models.JournalEntry, error)
	DeleteJournalEntry(ctx context.Context, userID int64, contentID string) error
}

// Catalog is the slice of the external catalog the journal workflows use.
type Catalog interface {
	GetManyByIDs(ctx context.Context, ids models.ContentIDs) ([]catalog.Item, error)
}

// Entry pairs a journal entry with the catalog item it describes.
type Entry struct {
	Entry models.JournalEntry `json:"entry"`
	Item  catalog.Item        `json:"item"`
}

// Service describes high level journal operations used by HTTP handlers.
type Service interface {
	Post(ctx context.Context, userID int64, kind models.Kind, contentID, text string) error
	ByUser(ctx context.Context, userID int64) ([]Entry, error)
	ByContent(ctx context.Context, userID int64, contentID string) ([]models.JournalEntry, error)
	Delete(ctx context.Context, userID int64, contentID string) error
}

type service struct {
	store   Store
	catalog Catalog
}

// New constructs a journal Service backed by the given store and catalog.
func New(st Store, cat Catalog) Service {
	return &service{store: st, catalog: cat}
}

// Post records or overwrites the user's entry for the item.
func (s *service) Post(ctx context.Context, userID int64, kind models.Kind, contentID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.UpsertJournalEntry(ctx, userID, contentID, text, kind)
}

// ByUser returns the user's entries resolved against the catalog, paired by
// position the same way review listings are.
func (s *service) ByUser(ctx context.Context, userID int64) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, ids, err := s.store.JournalEntriesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []Entry{}, nil
	}

	items, err := s.catalog.GetManyByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(items) != len(entries) {
		return nil, errors.New("catalog item count does not match entry count")
	}

	resolved := make([]Entry, 0, len(entries))
	for i, e := range entries {
		resolved = append(resolved, Entry{Entry: e, Item: items[i]})
	}
	return resolved, nil
}

func (s *service) ByContent(ctx context.Context, userID int64, contentID string) ([]models.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.JournalEntriesByUserAndContent(ctx, userID, contentID)
}

func (s *service) Delete(ctx context.Context, userID int64, contentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteJournalEntry(ctx, userID, contentID)
}

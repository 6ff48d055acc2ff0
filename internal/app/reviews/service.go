package reviews

import (
	"context"
	"errors"

	"github.com/j-cqln/reverb/internal/catalog"
	"github.com/j-cqln/reverb/shared/go/models"
)

// Rating bounds for a review.
const (
	MinRating = 1
	MaxRating = 5
)

// ErrInvalidRating signals a rating outside the allowed range.
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// Store defines persistence operations required for review workflows.
type Store interface {
	UpsertReview(ctx context.Context, userID int64, kind models.Kind, contentID string, rating int, text string) error
	ReviewsByUser(ctx context.Context, userID int64) ([]models.Review, models.ContentIDs, error)
	ReviewsByContent(ctx context.Context, kind models.Kind, contentID string) ([]models.Review, error)
	DeleteReview(ctx context.Context, userID int64, contentID string) error
	ReviewCount(ctx context.Context, userID int64) (int, error)
	MostReviewed(ctx context.Context, kind models.Kind, userID *int64) (string, error)
}

// Catalog is the slice of the external catalog the review workflows use.
type Catalog interface {
	GetByID(ctx context.Context, kind models.Kind, id string) (*catalog.Item, error)
	GetManyByIDs(ctx context.Context, ids models.ContentIDs) ([]catalog.Item, error)
}

// Reviewed pairs a review with the catalog item it describes.
type Reviewed struct {
	Review models.Review `json:"review"`
	Item   catalog.Item  `json:"item"`
}

// Service describes high level review operations used by HTTP handlers.
type Service interface {
	Post(ctx context.Context, userID int64, kind models.Kind, contentID string, rating int, text string) error
	ByUser(ctx context.Context, userID int64) ([]Reviewed, error)
	ByContent(ctx context.Context, kind models.Kind, contentID string) ([]models.Review, error)
	Delete(ctx context.Context, userID int64, contentID string) error
	Count(ctx context.Context, userID int64) (int, error)
	MostReviewed(ctx context.Context, kind models.Kind, userID *int64) (*catalog.Item, error)
}

type service struct {
	store   Store
	catalog Catalog
}

// New constructs a review Service backed by the given store and catalog.
func New(st Store, cat Catalog) Service {
	return &service{store: st, catalog: cat}
}

// Post records or overwrites the user's review of the item.
func (s *service) Post(ctx context.Context, userID int64, kind models.Kind, contentID string, rating int, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}
	return s.store.UpsertReview(ctx, userID, kind, contentID, rating, text)
}

// ByUser returns the user's reviews resolved against the catalog. The store
// orders reviews and ids identically, so the batch lookup result pairs with
// the review list by position.
func (s *service) ByUser(ctx context.Context, userID int64) ([]Reviewed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reviews, ids, err := s.store.ReviewsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return []Reviewed{}, nil
	}

	items, err := s.catalog.GetManyByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(items) != len(reviews) {
		return nil, errors.New("catalog item count does not match review count")
	}

	reviewed := make([]Reviewed, 0, len(reviews))
	for i, r := range reviews {
		reviewed = append(reviewed, Reviewed{Review: r, Item: items[i]})
	}
	return reviewed, nil
}

func (s *service) ByContent(ctx context.Context, kind models.Kind, contentID string) ([]models.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ReviewsByContent(ctx, kind, contentID)
}

func (s *service) Delete(ctx context.Context, userID int64, contentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteReview(ctx, userID, contentID)
}

func (s *service) Count(ctx context.Context, userID int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.store.ReviewCount(ctx, userID)
}

// MostReviewed resolves the most reviewed item of the kind, sitewide when
// userID is nil or within one user's reviews otherwise. It returns nil when
// no reviews of the kind exist.
func (s *service) MostReviewed(ctx context.Context, kind models.Kind, userID *int64) (*catalog.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	contentID, err := s.store.MostReviewed(ctx, kind, userID)
	if err != nil {
		return nil, err
	}
	if contentID == "" {
		return nil, nil
	}

	return s.catalog.GetByID(ctx, kind, contentID)
}

// Package catalog talks to the external media catalog. Items have no local
// identity here; the store assigns one the first time an item is referenced.
package catalog

import (
	"context"

	"github.com/j-cqln/reverb/shared/go/models"
)

// Item is one track or album as described by the external catalog.
type Item struct {
	ID       string      `json:"id"`
	Kind     models.Kind `json:"kind"`
	Name     string      `json:"name"`
	ImageURL string      `json:"image_url,omitempty"`
	Artists  []string    `json:"artists,omitempty"`
}

// Client defines the lookup operations the application needs from the
// external catalog.
type Client interface {
	// Search queries the catalog for items of one kind by name.
	Search(ctx context.Context, query string, kind models.Kind, limit int) ([]Item, error)

	// GetByID retrieves one item, or nil when the catalog has no such id.
	GetByID(ctx context.Context, kind models.Kind, id string) (*Item, error)

	// GetManyByIDs retrieves the items for each id, tracks first and albums
	// second, each group in request order. Unresolved ids come back as items
	// with only the id and kind set, so the result always pairs one to one
	// with the request.
	GetManyByIDs(ctx context.Context, ids models.ContentIDs) ([]Item, error)

	// GetImage retrieves the item's display image url, empty when the item
	// has none.
	GetImage(ctx context.Context, kind models.Kind, id string) (string, error)

	// RandomItems samples n distinct items of the kind from the catalog.
	RandomItems(ctx context.Context, kind models.Kind, n int) ([]Item, error)
}

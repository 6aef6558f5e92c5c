// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g. postgres) inside this directory.
package repository

import (
	"context"

	"catalogapi/internal/model"
)

// CatalogRepository defines data access for catalog items.
// No business logic here, strictly persistence operations. Reads and writes
// are individually atomic at the store level; there is no compare-and-swap,
// so concurrent read-modify-write sequences are last-writer-wins.
type CatalogRepository interface {
	// Create inserts a new catalog item record and returns the stored item.
	Create(ctx context.Context, item *model.CatalogItem) (*model.CatalogItem, error)

	// FindByID returns an item by its ID. Returns sql.ErrNoRows when absent.
	FindByID(ctx context.Context, id string) (*model.CatalogItem, error)

	// FindAll returns every catalog item. Linear cost over the full item
	// population; acceptable for small catalogs.
	FindAll(ctx context.Context) ([]model.CatalogItem, error)

	// FindByStatus returns all items whose status equals the given value.
	FindByStatus(ctx context.Context, status model.Status) ([]model.CatalogItem, error)

	// ExistsByTitle reports whether any item has exactly this title
	// (case-sensitive, no normalization). When excludeID is non-empty, the
	// item with that ID is ignored so an item keeping its own title is not
	// counted as a duplicate.
	ExistsByTitle(ctx context.Context, title, excludeID string) (bool, error)

	// Update overwrites the full item record and returns the stored item.
	Update(ctx context.Context, item *model.CatalogItem) (*model.CatalogItem, error)

	// Delete removes an item by ID. It returns nil if the row was deleted or
	// did not exist.
	Delete(ctx context.Context, id string) error
}

package domain

import (
	"context"
	"errors"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// Snapshot is an immutable view of the catalogue. Version changes whenever
// the catalogue does, so derived results can be cached against it.
type Snapshot struct {
	Version  uint64
	Products []Product
}

// CatalogueRepository defines the contract for the session catalogue
type CatalogueRepository interface {
	Snapshot(ctx context.Context) (Snapshot, error)
	FindByID(ctx context.Context, id int) (Product, error)
	Delete(ctx context.Context, id int) (bool, error)
}

package domain

import "context"

// CatalogClient defines the interface for interacting with TheMealDB
type CatalogClient interface {
	// FilterByIngredient returns candidate meal ids for an ingredient. An empty
	// slice with a nil error means the catalog had no candidates.
	FilterByIngredient(ctx context.Context, ingredient string) ([]string, error)
	// LookupMeal returns the full record for one id
	LookupMeal(ctx context.Context, id string) (*Recipe, error)
}

// KeyValueStore is the durable storage used for favorites and search history.
// Get returns ErrKeyNotFound for absent keys. Deleting an absent key is not an error.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}

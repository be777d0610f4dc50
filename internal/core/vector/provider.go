package vector

import (
	"context"
)

// Provider defines the vector database operations the knowledge base needs
type Provider interface {
	// Initialize opens the connection
	Initialize(ctx context.Context) error

	// EnsureCollection creates the collection when it does not exist
	EnsureCollection(ctx context.Context, name string, vectorSize int) error

	// Upsert inserts or replaces points
	Upsert(ctx context.Context, collection string, points []Point) error

	// Delete removes every point matching filter
	Delete(ctx context.Context, collection string, filter *Filter) error

	// Search returns the closest points with a score of at least minScore
	Search(ctx context.Context, collection string, query []float32, limit int, minScore float32, filter *Filter) ([]SearchResult, error)

	// Close closes the connection
	Close() error

	// GetProviderType returns the provider type
	GetProviderType() string
}

// Point represents a vector point with metadata
type Point struct {
	ID      string                 `json:"id"`
	Vector  []float32              `json:"vector"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// SearchResult represents a search result
type SearchResult struct {
	ID      string                 `json:"id"`
	Score   float32                `json:"score"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Filter selects points whose payload matches every Must condition
// and none of the MustNot conditions
type Filter struct {
	Must    []Condition `json:"must,omitempty"`
	MustNot []Condition `json:"must_not,omitempty"`
}

// Condition is an exact keyword match on a payload key
type Condition struct {
	Key   string `json:"key"`
	Match string `json:"match"`
}

package vector

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// upsertBatchSize bounds one embedding request and one upsert call
const upsertBatchSize = 100

// Document is a text to index with its metadata
type Document struct {
	ID       string
	Text     string
	Metadata map[string]interface{}
}

// Service provides high-level vector database operations
type Service struct {
	provider  Provider
	embedding EmbeddingProvider
}

// NewService creates a new vector service
func NewService(provider Provider, embedding EmbeddingProvider) *Service {
	return &Service{
		provider:  provider,
		embedding: embedding,
	}
}

// Initialize connects the provider
func (s *Service) Initialize(ctx context.Context) error {
	if err := s.provider.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize vector provider: %w", err)
	}

	log.Info().
		Str("provider", s.provider.GetProviderType()).
		Str("embedding", s.embedding.GetProviderName()).
		Int("dimensions", s.embedding.GetDimensions()).
		Msg("vector store initialized")
	return nil
}

// EnsureCollection creates the collection with the embedding dimensions
func (s *Service) EnsureCollection(ctx context.Context, name string) error {
	return s.provider.EnsureCollection(ctx, name, s.embedding.GetDimensions())
}

// Index embeds and upserts documents in batches. Returns the number indexed.
func (s *Service) Index(ctx context.Context, collection string, documents []Document) (int, error) {
	indexed := 0
	for start := 0; start < len(documents); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(documents) {
			end = len(documents)
		}
		batch := documents[start:end]

		texts := make([]string, len(batch))
		for i, doc := range batch {
			texts[i] = doc.Text
		}

		embeddings, err := s.embedding.GenerateBatchEmbeddings(ctx, texts)
		if err != nil {
			return indexed, fmt.Errorf("failed to generate batch embeddings: %w", err)
		}

		points := make([]Point, len(batch))
		for i, doc := range batch {
			payload := make(map[string]interface{}, len(doc.Metadata)+1)
			for k, v := range doc.Metadata {
				payload[k] = v
			}
			payload["text"] = doc.Text

			points[i] = Point{ID: doc.ID, Vector: embeddings[i], Payload: payload}
		}

		if err := s.provider.Upsert(ctx, collection, points); err != nil {
			return indexed, err
		}
		indexed += len(batch)
	}
	return indexed, nil
}

// Delete removes the points of collection matching filter
func (s *Service) Delete(ctx context.Context, collection string, filter *Filter) error {
	return s.provider.Delete(ctx, collection, filter)
}

// Search performs semantic search
func (s *Service) Search(ctx context.Context, collection, query string, limit int, minScore float32, filter *Filter) ([]SearchResult, error) {
	queryEmbedding, err := s.embedding.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	return s.provider.Search(ctx, collection, queryEmbedding, limit, minScore, filter)
}

// Close closes all connections
func (s *Service) Close() error {
	return s.provider.Close()
}

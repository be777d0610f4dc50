package kb

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/vector"
)

const payloadGeneration = "generation"

const (
	DefaultTopK     = 8
	DefaultMinScore = float32(0.3)
)

// VectorIndex is the part of vector.Service the knowledge base uses
type VectorIndex interface {
	EnsureCollection(ctx context.Context, name string) error
	Index(ctx context.Context, collection string, documents []vector.Document) (int, error)
	Delete(ctx context.Context, collection string, filter *vector.Filter) error
	Search(ctx context.Context, collection, query string, limit int, minScore float32, filter *vector.Filter) ([]vector.SearchResult, error)
}

// Hit is a retrieved document with its similarity score
type Hit struct {
	Source string
	Text   string
	Score  float32
}

// KnowledgeBase indexes dashboard records and retrieves them for questions
type KnowledgeBase struct {
	index      VectorIndex
	collection string
	topK       int
	minScore   float32
}

func NewKnowledgeBase(index VectorIndex, collection string) *KnowledgeBase {
	return &KnowledgeBase{
		index:      index,
		collection: collection,
		topK:       DefaultTopK,
		minScore:   DefaultMinScore,
	}
}

// Reindex upserts documents, creating the collection when missing, then
// removes the points of records that no longer exist
func (k *KnowledgeBase) Reindex(ctx context.Context, docs []Document) (int, error) {
	start := time.Now()

	if err := k.index.EnsureCollection(ctx, k.collection); err != nil {
		return 0, fmt.Errorf("ensure collection %s: %w", k.collection, err)
	}

	// every point written by this run carries its generation; older
	// generations belong to records that no longer exist
	generation := strconv.FormatInt(start.UnixNano(), 10)
	vdocs := make([]vector.Document, len(docs))
	for i, d := range docs {
		vdocs[i] = vector.Document{
			ID:       d.ID,
			Text:     d.Text,
			Metadata: map[string]interface{}{"source": d.Source, payloadGeneration: generation},
		}
	}

	n, err := k.index.Index(ctx, k.collection, vdocs)
	if err != nil {
		return n, fmt.Errorf("index %s: %w", k.collection, err)
	}
	stale := &vector.Filter{MustNot: []vector.Condition{{Key: payloadGeneration, Match: generation}}}
	if err := k.index.Delete(ctx, k.collection, stale); err != nil {
		return n, fmt.Errorf("prune %s: %w", k.collection, err)
	}

	log.Info().
		Str("collection", k.collection).
		Int("documents", n).
		Dur("took", time.Since(start)).
		Msg("knowledge base reindexed")
	return n, nil
}

// Retrieve returns the best matching documents for a question
func (k *KnowledgeBase) Retrieve(ctx context.Context, question string) ([]Hit, error) {
	results, err := k.index.Search(ctx, k.collection, question, k.topK, k.minScore, nil)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", k.collection, err)
	}

	hits := make([]Hit, 0, len(results))
	for _, r := range results {
		src, _ := r.Payload["source"].(string)
		txt, _ := r.Payload["text"].(string)
		if txt == "" {
			continue
		}
		hits = append(hits, Hit{Source: src, Text: txt, Score: r.Score})
	}
	return hits, nil
}

// ContextDocuments converts hits into prompt context
func ContextDocuments(hits []Hit) []llm.ContextDocument {
	docs := make([]llm.ContextDocument, len(hits))
	for i, h := range hits {
		docs[i] = llm.ContextDocument{Source: h.Source, Content: h.Text}
	}
	return docs
}

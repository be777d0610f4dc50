package vector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	upserts  [][]Point
	searched []float32
	minScore float32
	deleted  *Filter
	err      error
}

func (f *fakeProvider) Initialize(ctx context.Context) error { return f.err }
func (f *fakeProvider) EnsureCollection(ctx context.Context, name string, vectorSize int) error {
	return f.err
}
func (f *fakeProvider) Upsert(ctx context.Context, collection string, points []Point) error {
	if f.err != nil {
		return f.err
	}
	f.upserts = append(f.upserts, points)
	return nil
}
func (f *fakeProvider) Search(ctx context.Context, collection string, query []float32, limit int, minScore float32, filter *Filter) ([]SearchResult, error) {
	f.searched = query
	f.minScore = minScore
	return []SearchResult{{ID: "a", Score: 0.9}}, f.err
}
func (f *fakeProvider) Delete(ctx context.Context, collection string, filter *Filter) error {
	f.deleted = filter
	return f.err
}
func (f *fakeProvider) Close() error            { return nil }
func (f *fakeProvider) GetProviderType() string { return "fake" }

type fakeEmbedding struct{ calls int }

func (f *fakeEmbedding) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	return []float32{float32(len(text))}, nil
}
func (f *fakeEmbedding) GenerateBatchEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t))}
	}
	return out, nil
}
func (f *fakeEmbedding) GetDimensions() int      { return 1 }
func (f *fakeEmbedding) GetProviderName() string { return "fake" }

func TestServiceIndexBatches(t *testing.T) {
	provider := &fakeProvider{}
	embedding := &fakeEmbedding{}
	svc := NewService(provider, embedding)

	docs := make([]Document, 250)
	for i := range docs {
		docs[i] = Document{ID: fmt.Sprintf("doc-%d", i), Text: "texto", Metadata: map[string]interface{}{"source": "posts"}}
	}

	n, err := svc.Index(context.Background(), "kb", docs)
	require.NoError(t, err)
	assert.Equal(t, 250, n)
	assert.Equal(t, 3, embedding.calls)
	require.Len(t, provider.upserts, 3)
	assert.Len(t, provider.upserts[0], 100)
	assert.Len(t, provider.upserts[2], 50)
	assert.Equal(t, "texto", provider.upserts[0][0].Payload["text"])
	assert.Equal(t, "posts", provider.upserts[0][0].Payload["source"])
}

func TestServiceIndexStopsOnUpsertError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("unavailable")}
	svc := NewService(provider, &fakeEmbedding{})

	n, err := svc.Index(context.Background(), "kb", []Document{{ID: "1", Text: "x"}})
	assert.Error(t, err)
	assert.Zero(t, n)
}

func TestServiceSearch(t *testing.T) {
	provider := &fakeProvider{}
	svc := NewService(provider, &fakeEmbedding{})

	results, err := svc.Search(context.Background(), "kb", "vendas", 8, 0.3, nil)
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, []float32{6}, provider.searched)
	assert.InDelta(t, 0.3, provider.minScore, 1e-6)
}

func TestOpenAIEmbeddingProviderOrdersByIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"object": "list",
			"model":  "text-embedding-3-small",
			"data": []map[string]interface{}{
				{"object": "embedding", "index": 1, "embedding": []float32{2}},
				{"object": "embedding", "index": 0, "embedding": []float32{1}},
			},
		})
	}))
	defer srv.Close()

	p, err := NewOpenAIEmbeddingProvider("test-key", "", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, 1536, p.GetDimensions())

	out, err := p.GenerateBatchEmbeddings(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1}, {2}}, out)

	_, err = NewOpenAIEmbeddingProvider("", "", "")
	assert.Error(t, err)
}

func TestConvertFilter(t *testing.T) {
	assert.Nil(t, convertFilter(nil))

	f := convertFilter(&Filter{Must: []Condition{{Key: "source", Match: "shopify"}}})
	require.Len(t, f.Must, 1)
	assert.Equal(t, "source", f.Must[0].GetField().Key)
	assert.Equal(t, "shopify", f.Must[0].GetField().Match.GetKeyword())
}

func TestQdrantValueRoundTrip(t *testing.T) {
	for _, v := range []interface{}{"texto", int64(3), 1.5, true} {
		assert.Equal(t, v, convertFromQdrantValue(convertToQdrantValue(v)))
	}
	assert.Equal(t, int64(7), convertFromQdrantValue(convertToQdrantValue(7)))
}

func TestServiceDelete(t *testing.T) {
	provider := &fakeProvider{}
	svc := NewService(provider, &fakeEmbedding{})

	filter := &Filter{MustNot: []Condition{{Key: "generation", Match: "42"}}}
	require.NoError(t, svc.Delete(context.Background(), "kb", filter))
	assert.Equal(t, filter, provider.deleted)
}

func TestConvertFilterMustNot(t *testing.T) {
	f := convertFilter(&Filter{MustNot: []Condition{{Key: "generation", Match: "42"}}})
	require.NotNil(t, f)
	assert.Empty(t, f.Must)
	require.Len(t, f.MustNot, 1)
	field := f.MustNot[0].GetField()
	assert.Equal(t, "generation", field.GetKey())
	assert.Equal(t, "42", field.GetMatch().GetKeyword())

	assert.Nil(t, convertFilter(&Filter{}))
}

func TestQdrantDeleteRefusesEmptyFilter(t *testing.T) {
	err := NewQdrantProvider(QdrantConfig{}).Delete(context.Background(), "kb", nil)
	assert.ErrorContains(t, err, "empty filter")
}

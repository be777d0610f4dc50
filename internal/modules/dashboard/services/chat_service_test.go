package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/kb"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/models"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/repositories"
)

type fakeRetriever struct {
	hits    []kb.Hit
	err     error
	indexed []kb.Document
}

func (f *fakeRetriever) Retrieve(ctx context.Context, question string) ([]kb.Hit, error) {
	return f.hits, f.err
}

func (f *fakeRetriever) Reindex(ctx context.Context, docs []kb.Document) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.indexed = docs
	return len(docs), nil
}

type fakeGenerator struct {
	last llm.Request
	err  error
}

func (f *fakeGenerator) GenerateResponse(ctx context.Context, req llm.Request) (*llm.Response, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Response{Content: "O post p2 teve o maior alcance.", Model: "gpt-4", Tokens: 42}, nil
}

type fakeChatRepo struct {
	saved   []*models.ChatMessage
	cleared bool
	limits  []int
	err     error
}

func (f *fakeChatRepo) Save(ctx context.Context, messages ...*models.ChatMessage) error {
	f.saved = append(f.saved, messages...)
	return f.err
}

func (f *fakeChatRepo) History(ctx context.Context, userID uuid.UUID, limit int) ([]models.ChatMessage, error) {
	f.limits = append(f.limits, limit)
	out := make([]models.ChatMessage, 0, len(f.saved))
	for _, m := range f.saved {
		if m.UserID == userID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeChatRepo) Clear(ctx context.Context, userID uuid.UUID) error {
	f.cleared = true
	f.saved = nil
	return f.err
}

func TestChatAsk(t *testing.T) {
	retriever := &fakeRetriever{hits: []kb.Hit{{Source: "posts", Text: "Post no dia 2024-05-07, alcance 300", Score: 0.82}}}
	generator := &fakeGenerator{}
	repo := &fakeChatRepo{}
	svc := NewChatService(&fakeSource{}, retriever, generator, repo)
	user := uuid.New()

	answer, err := svc.Ask(context.Background(), user, "  Qual post teve mais alcance?  ")
	require.NoError(t, err)
	assert.Equal(t, "O post p2 teve o maior alcance.", answer.Answer)
	assert.Equal(t, 42, answer.Tokens)
	require.Len(t, answer.Sources, 1)

	assert.Contains(t, generator.last.SystemPrompt, "[1] (posts) Post no dia 2024-05-07")
	assert.Equal(t, "Qual post teve mais alcance?", generator.last.UserMessage)

	require.Len(t, repo.saved, 2)
	assert.Equal(t, models.RoleUser, repo.saved[0].Role)
	assert.NotEqual(t, uuid.Nil, repo.saved[0].ID)
	var sources []models.ChatSource
	require.NoError(t, json.Unmarshal(repo.saved[1].Sources, &sources))
	assert.Equal(t, "posts", sources[0].Source)

	// the next question carries the stored turns as history
	_, err = svc.Ask(context.Background(), user, "E o segundo?")
	require.NoError(t, err)
	assert.Len(t, generator.last.History, 2)
}

func TestChatAskErrors(t *testing.T) {
	user := uuid.New()

	svc := NewChatService(&fakeSource{}, &fakeRetriever{}, &fakeGenerator{}, &fakeChatRepo{})
	_, err := svc.Ask(context.Background(), user, "   ")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	svc = NewChatService(&fakeSource{}, &fakeRetriever{err: errors.New("qdrant down")}, &fakeGenerator{}, &fakeChatRepo{})
	_, err = svc.Ask(context.Background(), user, "oi")
	assert.ErrorIs(t, err, ErrUpstream)

	svc = NewChatService(&fakeSource{}, &fakeRetriever{}, &fakeGenerator{err: errors.New("rate limited")}, &fakeChatRepo{})
	_, err = svc.Ask(context.Background(), user, "oi")
	assert.ErrorIs(t, err, ErrUpstream)

	// a failed history write does not lose the answer
	svc = NewChatService(&fakeSource{}, &fakeRetriever{}, &fakeGenerator{}, &fakeChatRepo{err: errors.New("db")})
	answer, err := svc.Ask(context.Background(), user, "oi")
	require.NoError(t, err)
	assert.NotEmpty(t, answer.Answer)
}

func TestChatHistoryAndReset(t *testing.T) {
	repo := &fakeChatRepo{}
	svc := NewChatService(&fakeSource{}, &fakeRetriever{}, &fakeGenerator{}, repo)
	user := uuid.New()

	_, err := svc.Ask(context.Background(), user, "oi")
	require.NoError(t, err)

	history, err := svc.History(context.Background(), user)
	require.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, []int{historyTurns * 2, repositories.DefaultHistoryLimit}, repo.limits,
		"asking reads the last turns, the history screen the capped list")

	require.NoError(t, svc.Reset(context.Background(), user))
	assert.True(t, repo.cleared)
}

func TestChatReindex(t *testing.T) {
	src := shopifySource()
	src.raw[models.CollectionPosts] = []map[string]interface{}{
		{"timestamp": "2024-05-07T09:00:00Z", "media_type": "VIDEO", "reach": 300.0, "permalink": "p2"},
	}
	retriever := &fakeRetriever{}
	svc := NewChatService(src, retriever, &fakeGenerator{}, &fakeChatRepo{})

	n, err := svc.Reindex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, kb.SourcePosts, retriever.indexed[0].Source)
	assert.Contains(t, retriever.indexed[1].Text, "compressao Com")

	svc = NewChatService(&fakeSource{err: ErrUpstream}, retriever, &fakeGenerator{}, &fakeChatRepo{})
	_, err = svc.Reindex(context.Background())
	assert.ErrorIs(t, err, ErrUpstream)
}

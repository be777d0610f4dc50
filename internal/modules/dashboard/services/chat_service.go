package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/kb"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/models"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/repositories"
)

const historyTurns = 10

// Retriever finds the records relevant to a question and rebuilds the index
type Retriever interface {
	Retrieve(ctx context.Context, question string) ([]kb.Hit, error)
	Reindex(ctx context.Context, docs []kb.Document) (int, error)
}

// Generator produces an answer from a prompt
type Generator interface {
	GenerateResponse(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// ChatService answers questions about the store data from indexed records
type ChatService struct {
	source    RowSource
	retriever Retriever
	generator Generator
	repo      repositories.ChatRepo
}

func NewChatService(source RowSource, retriever Retriever, generator Generator, repo repositories.ChatRepo) *ChatService {
	return &ChatService{
		source:    source,
		retriever: retriever,
		generator: generator,
		repo:      repo,
	}
}

// Ask answers a question and stores both turns of the exchange
func (s *ChatService) Ask(ctx context.Context, userID uuid.UUID, question string) (*models.ChatAnswer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", ErrInvalidRequest)
	}

	hits, err := s.retriever.Retrieve(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	previous, err := s.repo.History(ctx, userID, historyTurns*2)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	history := make([]llm.Message, len(previous))
	for i, m := range previous {
		history[i] = llm.Message{Role: m.Role, Content: m.Content}
	}

	resp, err := s.generator.GenerateResponse(ctx, llm.Request{
		SystemPrompt: llm.BuildAnalystPrompt(kb.ContextDocuments(hits)),
		History:      history,
		UserMessage:  question,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	sources := make([]models.ChatSource, len(hits))
	for i, h := range hits {
		sources[i] = models.ChatSource{Source: h.Source, Content: h.Text, Score: h.Score}
	}
	encoded, err := json.Marshal(sources)
	if err != nil {
		return nil, fmt.Errorf("encode sources: %w", err)
	}

	now := time.Now()
	userMsg := &models.ChatMessage{
		ID:        uuid.New(),
		UserID:    userID,
		Role:      models.RoleUser,
		Content:   question,
		CreatedAt: now,
	}
	answerMsg := &models.ChatMessage{
		ID:        uuid.New(),
		UserID:    userID,
		Role:      models.RoleAssistant,
		Content:   resp.Content,
		Sources:   datatypes.JSON(encoded),
		CreatedAt: now.Add(time.Millisecond),
	}
	if err := s.repo.Save(ctx, userMsg, answerMsg); err != nil {
		// the answer is still useful without the stored history
		log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to store chat messages")
	}

	log.Info().
		Str("user_id", userID.String()).
		Int("sources", len(hits)).
		Int("tokens", resp.Tokens).
		Msg("chat question answered")

	return &models.ChatAnswer{
		Answer:  resp.Content,
		Sources: sources,
		Model:   resp.Model,
		Tokens:  resp.Tokens,
	}, nil
}

// History returns the latest repositories.DefaultHistoryLimit messages of
// the conversation, oldest first. Older messages stay stored until Reset.
func (s *ChatService) History(ctx context.Context, userID uuid.UUID) ([]models.ChatMessage, error) {
	messages, err := s.repo.History(ctx, userID, repositories.DefaultHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return messages, nil
}

// Reset clears the conversation of a user
func (s *ChatService) Reset(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return nil
}

// Reindex rebuilds the knowledge base from the posts and sales collections
func (s *ChatService) Reindex(ctx context.Context) (int, error) {
	posts, postsErr := s.source.Raw(ctx, models.CollectionPosts)
	sales, salesErr := s.source.Raw(ctx, models.CollectionShopify)
	if err := errors.Join(postsErr, salesErr); err != nil {
		return 0, err
	}

	docs := kb.PostDocuments(posts)
	docs = append(docs, kb.ShopifyDocuments(sales, decodeProduct)...)

	n, err := s.retriever.Reindex(ctx, docs)
	if err != nil {
		return n, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return n, nil
}

func decodeProduct(sku string) (kb.ProductAttributes, bool) {
	attrs, ok := DecodeSKU(sku)
	if !ok {
		return kb.ProductAttributes{}, false
	}
	return kb.ProductAttributes{
		Color:       attrs.Color,
		Size:        attrs.Size,
		Length:      attrs.Length,
		Compression: attrs.Compression,
	}, true
}

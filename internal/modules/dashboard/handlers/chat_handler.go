package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/auth"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/models"
)

// Assistant answers questions about the store data
type Assistant interface {
	Ask(ctx context.Context, userID uuid.UUID, question string) (*models.ChatAnswer, error)
	History(ctx context.Context, userID uuid.UUID) ([]models.ChatMessage, error)
	Reset(ctx context.Context, userID uuid.UUID) error
	Reindex(ctx context.Context) (int, error)
}

type ChatHandler struct {
	svc Assistant
}

func NewChatHandler(svc Assistant) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// ChatRequest is the body of POST /chat
type ChatRequest struct {
	Question string `json:"question" example:"Qual post teve mais alcance em maio?"`
}

// Ask godoc
// @Summary Ask the data assistant
// @Description Answers from the indexed posts and sales, citing the retrieved records
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChatRequest true "Question"
// @Success 200 {object} models.ChatAnswer
// @Failure 400 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /api/v1/chat [post]
func (h *ChatHandler) Ask(c *fiber.Ctx) error {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Unauthorized"})
	}

	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	answer, err := h.svc.Ask(c.UserContext(), userID, req.Question)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(answer)
}

// GetHistory godoc
// @Summary Conversation history
// @Description Latest 50 messages, oldest first
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/chat/history [get]
func (h *ChatHandler) GetHistory(c *fiber.Ctx) error {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Unauthorized"})
	}

	messages, err := h.svc.History(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"messages": messages})
}

// ResetHistory godoc
// @Summary Clear the conversation
// @Tags Chat
// @Security BearerAuth
// @Success 204
// @Router /api/v1/chat/history [delete]
func (h *ChatHandler) ResetHistory(c *fiber.Ctx) error {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Unauthorized"})
	}

	if err := h.svc.Reset(c.UserContext(), userID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Reindex godoc
// @Summary Rebuild the knowledge base
// @Description Re-embeds posts and sales into the vector store (admin only)
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/v1/chat/reindex [post]
func (h *ChatHandler) Reindex(c *fiber.Ctx) error {
	n, err := h.svc.Reindex(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	log.Info().Int("documents", n).Msg("Knowledge base reindexed on request")
	return c.JSON(fiber.Map{"indexed": n})
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ChatMessage is one turn of a user's conversation with the assistant
type ChatMessage struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	Role      string         `json:"role" gorm:"not null;check:role IN ('user', 'assistant')"`
	Content   string         `json:"content" gorm:"type:text;not null"`
	Sources   datatypes.JSON `json:"sources,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at" gorm:"default:now()"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatSource is a retrieved document cited by an answer
type ChatSource struct {
	Source  string  `json:"source"`
	Content string  `json:"content"`
	Score   float32 `json:"score"`
}

// ChatAnswer is the response to a question
type ChatAnswer struct {
	Answer  string       `json:"answer"`
	Sources []ChatSource `json:"sources"`
	Model   string       `json:"model"`
	Tokens  int          `json:"tokens"`
}

// File: internal/domain/chat_message.go
package domain

import "time"

// Message roles. AI-authored messages carry a nil UserID.
const (
	RoleUser = "user"
	RoleAI   = "ai"
)

// ChatMessage is one immutable entry in a chat group. Messages are
// append-only; there is no edit operation.
type ChatMessage struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	ChatGroupID uint      `json:"chat_group_id" gorm:"not null;index"`
	UserID      *uint     `json:"user_id"` // nil for AI-authored messages
	Role        string    `json:"role" gorm:"not null"`
	Content     string    `json:"content" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
}

// File: internal/domain/chat_group.go
package domain

import "time"

// MaxGroupTitleLength is the longest auto-derived group title before truncation.
const MaxGroupTitleLength = 30

// ChatGroup is a titled, user-owned container of an ordered message history.
type ChatGroup struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Title     string    `json:"title" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TitleFromMessage derives a group title from the first user message.
// Long messages are cut to MaxGroupTitleLength runes with an ellipsis.
func TitleFromMessage(message string) string {
	runes := []rune(message)
	if len(runes) <= MaxGroupTitleLength {
		return message
	}
	return string(runes[:MaxGroupTitleLength]) + "..."
}

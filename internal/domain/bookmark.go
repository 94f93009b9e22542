// File: internal/domain/bookmark.go
package domain

import "time"

// Bookmark marks one chat message as a favorite of one user. The
// (user_id, chat_message_id) pair is unique; a duplicate create is
// rejected rather than overwritten.
type Bookmark struct {
	ID            uint        `json:"id" gorm:"primarykey"`
	UserID        uint        `json:"user_id" gorm:"not null;uniqueIndex:idx_bookmark_user_message"`
	ChatMessageID uint        `json:"chat_message_id" gorm:"not null;uniqueIndex:idx_bookmark_user_message"`
	ChatMessage   ChatMessage `json:"chat_message" gorm:"foreignKey:ChatMessageID"`
	CreatedAt     time.Time   `json:"created_at"`
}

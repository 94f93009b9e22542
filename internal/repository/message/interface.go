package message

import (
	"context"

	"github.com/ysakura/eigo-coach/internal/domain"
)

// MessageRepository handles chat message data operations. Messages are
// append-only; there is no update or single-message delete.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error)
	FindByID(ctx context.Context, id uint) (*domain.ChatMessage, error)
	FindByGroupID(ctx context.Context, groupID uint) ([]domain.ChatMessage, error)
	CountByGroupID(ctx context.Context, groupID uint) (int64, error)
}

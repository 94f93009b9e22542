package chatgroup

import (
	"context"

	"github.com/ysakura/eigo-coach/internal/domain"
)

// ChatGroupRepository handles chat group data operations. All mutating
// operations are scoped to the owning user.
type ChatGroupRepository interface {
	Create(ctx context.Context, group *domain.ChatGroup) (*domain.ChatGroup, error)
	FindByID(ctx context.Context, id uint) (*domain.ChatGroup, error)
	FindRecentByUserID(ctx context.Context, userID uint, limit int) ([]domain.ChatGroup, error)
	Delete(ctx context.Context, groupID, userID uint) error
	TouchUpdatedAt(ctx context.Context, groupID uint) error
	VerifyOwnership(ctx context.Context, groupID, userID uint) (bool, error)
}

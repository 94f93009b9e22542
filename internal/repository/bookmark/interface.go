package bookmark

import (
	"context"

	"github.com/ysakura/eigo-coach/internal/domain"
)

// BookmarkRepository handles bookmark data operations. A bookmark is unique
// per (user, message); a duplicate create reports ErrAlreadyBookmarked.
type BookmarkRepository interface {
	Create(ctx context.Context, bookmark *domain.Bookmark) (*domain.Bookmark, error)
	Delete(ctx context.Context, bookmarkID, userID uint) error
	FindByUserID(ctx context.Context, userID uint) ([]domain.Bookmark, error)
	ExistsByUserAndMessage(ctx context.Context, userID, messageID uint) (bool, error)
}

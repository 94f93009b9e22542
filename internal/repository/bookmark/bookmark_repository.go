// File: internal/repository/bookmark/bookmark_repository.go
package bookmark

import (
	"context"
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/ysakura/eigo-coach/internal/domain"
)

var (
	ErrAlreadyBookmarked  = errors.New("message already bookmarked")
	ErrBookmarkNotFound   = errors.New("bookmark not found")
	ErrUnauthorizedAccess = errors.New("unauthorized access to bookmark")
)

type gormBookmarkRepository struct {
	db *gorm.DB
}

func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &gormBookmarkRepository{db: db}
}

func (r *gormBookmarkRepository) Create(ctx context.Context, bookmark *domain.Bookmark) (*domain.Bookmark, error) {
	if bookmark.UserID == 0 || bookmark.ChatMessageID == 0 {
		return nil, errors.New("invalid user ID or message ID")
	}

	if err := r.db.WithContext(ctx).Create(bookmark).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyBookmarked
		}
		log.Printf("[BookmarkRepository] Database error creating bookmark for user ID %d: %v", bookmark.UserID, err)
		return nil, errors.New("database error creating bookmark")
	}
	return bookmark, nil
}

func (r *gormBookmarkRepository) Delete(ctx context.Context, bookmarkID, userID uint) error {
	if bookmarkID == 0 || userID == 0 {
		return errors.New("invalid bookmark ID or user ID")
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", bookmarkID, userID).
		Delete(&domain.Bookmark{})
	if result.Error != nil {
		log.Printf("[BookmarkRepository] Database error deleting bookmark ID %d for user ID %d: %v", bookmarkID, userID, result.Error)
		return errors.New("database error deleting bookmark")
	}
	if result.RowsAffected == 0 {
		return ErrUnauthorizedAccess
	}
	return nil
}

// FindByUserID returns the user's bookmarks newest first, with the
// bookmarked message preloaded for display.
func (r *gormBookmarkRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Bookmark, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var bookmarks []domain.Bookmark
	err := r.db.WithContext(ctx).
		Preload("ChatMessage").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&bookmarks).Error
	if err != nil {
		log.Printf("[BookmarkRepository] Database error finding bookmarks for user ID %d: %v", userID, err)
		return nil, errors.New("database error fetching bookmarks")
	}
	return bookmarks, nil
}

func (r *gormBookmarkRepository) ExistsByUserAndMessage(ctx context.Context, userID, messageID uint) (bool, error) {
	if userID == 0 || messageID == 0 {
		return false, errors.New("invalid user ID or message ID")
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Bookmark{}).
		Where("user_id = ? AND chat_message_id = ?", userID, messageID).
		Count(&count).Error
	if err != nil {
		log.Printf("[BookmarkRepository] Database error checking bookmark existence for user ID %d: %v", userID, err)
		return false, errors.New("database error checking bookmark")
	}
	return count > 0, nil
}

// isUniqueViolation matches the unique-index breach across drivers without
// depending on driver-specific error types.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

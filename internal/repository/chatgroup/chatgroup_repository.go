// File: internal/repository/chatgroup/chatgroup_repository.go
package chatgroup

import (
	"context"
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/ysakura/eigo-coach/internal/domain"
)

var (
	ErrGroupNotFound      = errors.New("chat group not found")
	ErrUnauthorizedAccess = errors.New("unauthorized access to chat group")
)

// DefaultRecentLimit bounds the sidebar listing of recent groups.
const DefaultRecentLimit = 10

type gormChatGroupRepository struct {
	db *gorm.DB
}

func NewChatGroupRepository(db *gorm.DB) ChatGroupRepository {
	return &gormChatGroupRepository{db: db}
}

func (r *gormChatGroupRepository) Create(ctx context.Context, group *domain.ChatGroup) (*domain.ChatGroup, error) {
	if group.UserID == 0 {
		return nil, errors.New("invalid user ID")
	}
	if strings.TrimSpace(group.Title) == "" {
		return nil, errors.New("group title cannot be empty")
	}

	if err := r.db.WithContext(ctx).Create(group).Error; err != nil {
		log.Printf("[ChatGroupRepository] Database error creating group for user ID %d: %v", group.UserID, err)
		return nil, errors.New("database error creating chat group")
	}
	return group, nil
}

func (r *gormChatGroupRepository) FindByID(ctx context.Context, id uint) (*domain.ChatGroup, error) {
	if id == 0 {
		return nil, errors.New("invalid group ID")
	}

	var group domain.ChatGroup
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		log.Printf("[ChatGroupRepository] Database error finding group ID %d: %v", id, err)
		return nil, errors.New("database error finding chat group")
	}
	return &group, nil
}

func (r *gormChatGroupRepository) FindRecentByUserID(ctx context.Context, userID uint, limit int) ([]domain.ChatGroup, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}
	if limit <= 0 || limit > 100 {
		limit = DefaultRecentLimit
	}

	var groups []domain.ChatGroup
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC, id DESC").
		Limit(limit).
		Find(&groups).Error
	if err != nil {
		log.Printf("[ChatGroupRepository] Database error finding groups for user ID %d: %v", userID, err)
		return nil, errors.New("database error fetching chat groups")
	}
	return groups, nil
}

// Delete removes a group and all of its messages. Deleting a group the
// caller does not own reports ErrUnauthorizedAccess without touching rows.
func (r *gormChatGroupRepository) Delete(ctx context.Context, groupID, userID uint) error {
	if groupID == 0 || userID == 0 {
		return errors.New("invalid group ID or user ID")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", groupID, userID).Delete(&domain.ChatGroup{})
		if result.Error != nil {
			log.Printf("[ChatGroupRepository] Database error deleting group ID %d for user ID %d: %v", groupID, userID, result.Error)
			return errors.New("database error deleting chat group")
		}
		if result.RowsAffected == 0 {
			return ErrUnauthorizedAccess
		}
		if err := tx.Where("chat_group_id = ?", groupID).Delete(&domain.ChatMessage{}).Error; err != nil {
			log.Printf("[ChatGroupRepository] Database error cascading message delete for group ID %d: %v", groupID, err)
			return errors.New("database error deleting group messages")
		}
		return nil
	})
}

func (r *gormChatGroupRepository) TouchUpdatedAt(ctx context.Context, groupID uint) error {
	if groupID == 0 {
		return errors.New("invalid group ID")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.ChatGroup{}).
		Where("id = ?", groupID).
		Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP"))
	if result.Error != nil {
		log.Printf("[ChatGroupRepository] Database error touching group ID %d: %v", groupID, result.Error)
		return errors.New("database error updating group timestamp")
	}
	if result.RowsAffected == 0 {
		return ErrGroupNotFound
	}
	return nil
}

func (r *gormChatGroupRepository) VerifyOwnership(ctx context.Context, groupID, userID uint) (bool, error) {
	if groupID == 0 || userID == 0 {
		return false, errors.New("invalid group ID or user ID")
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.ChatGroup{}).
		Where("id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	if err != nil {
		log.Printf("[ChatGroupRepository] Database error checking ownership of group ID %d: %v", groupID, err)
		return false, errors.New("database error checking group ownership")
	}
	return count > 0, nil
}

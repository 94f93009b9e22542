// File: internal/repository/message/message_repository.go
package message

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/ysakura/eigo-coach/internal/domain"
)

var ErrMessageNotFound = errors.New("chat message not found")

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) Create(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error) {
	if msg.ChatGroupID == 0 {
		return nil, errors.New("invalid chat group ID")
	}
	if msg.Role != domain.RoleUser && msg.Role != domain.RoleAI {
		return nil, errors.New("invalid message role")
	}
	if msg.Content == "" {
		return nil, errors.New("message content cannot be empty")
	}

	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		log.Printf("[MessageRepository] Database error creating message in group ID %d: %v", msg.ChatGroupID, err)
		return nil, errors.New("database error creating message")
	}
	return msg, nil
}

func (r *gormMessageRepository) FindByID(ctx context.Context, id uint) (*domain.ChatMessage, error) {
	if id == 0 {
		return nil, errors.New("invalid message ID")
	}

	var msg domain.ChatMessage
	if err := r.db.WithContext(ctx).First(&msg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		log.Printf("[MessageRepository] Database error finding message ID %d: %v", id, err)
		return nil, errors.New("database error finding message")
	}
	return &msg, nil
}

// FindByGroupID returns the group's messages in creation order, oldest first.
func (r *gormMessageRepository) FindByGroupID(ctx context.Context, groupID uint) ([]domain.ChatMessage, error) {
	if groupID == 0 {
		return nil, errors.New("invalid chat group ID")
	}

	var messages []domain.ChatMessage
	err := r.db.WithContext(ctx).
		Where("chat_group_id = ?", groupID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error finding messages for group ID %d: %v", groupID, err)
		return nil, errors.New("database error fetching messages")
	}
	return messages, nil
}

func (r *gormMessageRepository) CountByGroupID(ctx context.Context, groupID uint) (int64, error) {
	if groupID == 0 {
		return 0, errors.New("invalid chat group ID")
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.ChatMessage{}).
		Where("chat_group_id = ?", groupID).
		Count(&count).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error counting messages for group ID %d: %v", groupID, err)
		return 0, errors.New("database error counting messages")
	}
	return count, nil
}

// File: internal/services/chat_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/ysakura/eigo-coach/internal/domain"
	"github.com/ysakura/eigo-coach/internal/repository/chatgroup"
	"github.com/ysakura/eigo-coach/internal/repository/message"
)

var (
	ErrUnauthorized = errors.New("chat group not found or unauthorized")
	ErrEmptyMessage = errors.New("message cannot be empty")
)

// ChatService owns chat group and message operations. It also implements
// the suggestion orchestrator's MessageStore so completed variants land in
// the right group.
type ChatService struct {
	groupRepo   chatgroup.ChatGroupRepository
	messageRepo message.MessageRepository
	logger      Logger
}

func NewChatService(groupRepo chatgroup.ChatGroupRepository, messageRepo message.MessageRepository, logger Logger) (*ChatService, error) {
	if groupRepo == nil {
		return nil, errors.New("chat group repository is required")
	}
	if messageRepo == nil {
		return nil, errors.New("message repository is required")
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}
	return &ChatService{groupRepo: groupRepo, messageRepo: messageRepo, logger: logger}, nil
}

// CreateGroup creates an empty titled group for the user.
func (s *ChatService) CreateGroup(ctx context.Context, userID uint, title string) (*domain.ChatGroup, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("group title cannot be empty")
	}
	return s.groupRepo.Create(ctx, &domain.ChatGroup{UserID: userID, Title: domain.TitleFromMessage(title)})
}

// CreateGroupWithMessage creates a group titled after the first user message
// and stores that message in it. Used on the first submit of a fresh chat.
func (s *ChatService) CreateGroupWithMessage(ctx context.Context, userID uint, messageText string) (*domain.ChatGroup, *domain.ChatMessage, error) {
	messageText = strings.TrimSpace(messageText)
	if messageText == "" {
		return nil, nil, ErrEmptyMessage
	}

	group, err := s.groupRepo.Create(ctx, &domain.ChatGroup{
		UserID: userID,
		Title:  domain.TitleFromMessage(messageText),
	})
	if err != nil {
		return nil, nil, err
	}

	userMessage, err := s.messageRepo.Create(ctx, &domain.ChatMessage{
		ChatGroupID: group.ID,
		UserID:      &userID,
		Role:        domain.RoleUser,
		Content:     messageText,
	})
	if err != nil {
		return nil, nil, err
	}
	return group, userMessage, nil
}

// GetUserGroups lists the user's most recently active groups.
func (s *ChatService) GetUserGroups(ctx context.Context, userID uint) ([]domain.ChatGroup, error) {
	return s.groupRepo.FindRecentByUserID(ctx, userID, chatgroup.DefaultRecentLimit)
}

// GetGroupMessages lists a group's messages oldest first, enforcing
// ownership.
func (s *ChatService) GetGroupMessages(ctx context.Context, userID, groupID uint) ([]domain.ChatMessage, error) {
	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil || group.UserID != userID {
		return nil, ErrUnauthorized
	}
	return s.messageRepo.FindByGroupID(ctx, groupID)
}

// DeleteGroup removes a group and its messages, enforcing ownership.
func (s *ChatService) DeleteGroup(ctx context.Context, userID, groupID uint) error {
	err := s.groupRepo.Delete(ctx, groupID, userID)
	if errors.Is(err, chatgroup.ErrUnauthorizedAccess) {
		return ErrUnauthorized
	}
	return err
}

// VerifyOwnership reports whether the group belongs to the user.
func (s *ChatService) VerifyOwnership(ctx context.Context, userID, groupID uint) (bool, error) {
	return s.groupRepo.VerifyOwnership(ctx, groupID, userID)
}

// SaveUserMessage appends a user message to an owned group. The AI replies
// for it are saved separately by the orchestrator; the two writes are not
// atomic, and a crash in between leaves a user message with no replies,
// which reads back as an empty suggestion set.
func (s *ChatService) SaveUserMessage(ctx context.Context, userID, groupID uint, messageText string) (*domain.ChatMessage, error) {
	messageText = strings.TrimSpace(messageText)
	if messageText == "" {
		return nil, ErrEmptyMessage
	}

	owned, err := s.groupRepo.VerifyOwnership(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, ErrUnauthorized
	}

	msg, err := s.messageRepo.Create(ctx, &domain.ChatMessage{
		ChatGroupID: groupID,
		UserID:      &userID,
		Role:        domain.RoleUser,
		Content:     messageText,
	})
	if err != nil {
		return nil, err
	}
	if err := s.groupRepo.TouchUpdatedAt(ctx, groupID); err != nil {
		s.logger.Warn("failed to touch group after user message", "group_id", groupID, "error", err)
	}
	return msg, nil
}

// SaveAIMessage appends an AI message to a group. Ownership was verified
// when the round started; AI messages carry no author.
func (s *ChatService) SaveAIMessage(ctx context.Context, groupID uint, content string) (*domain.ChatMessage, error) {
	msg, err := s.messageRepo.Create(ctx, &domain.ChatMessage{
		ChatGroupID: groupID,
		Role:        domain.RoleAI,
		Content:     content,
	})
	if err != nil {
		return nil, err
	}
	if err := s.groupRepo.TouchUpdatedAt(ctx, groupID); err != nil {
		s.logger.Warn("failed to touch group after AI message", "group_id", groupID, "error", err)
	}
	return msg, nil
}

// GetMessage returns one message by ID.
func (s *ChatService) GetMessage(ctx context.Context, messageID uint) (*domain.ChatMessage, error) {
	return s.messageRepo.FindByID(ctx, messageID)
}

// GetGroup returns one group by ID.
func (s *ChatService) GetGroup(ctx context.Context, groupID uint) (*domain.ChatGroup, error) {
	return s.groupRepo.FindByID(ctx, groupID)
}

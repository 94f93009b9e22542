// File: internal/services/bookmark_service.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/ysakura/eigo-coach/internal/domain"
	"github.com/ysakura/eigo-coach/internal/repository/bookmark"
	"github.com/ysakura/eigo-coach/internal/repository/chatgroup"
	"github.com/ysakura/eigo-coach/internal/repository/message"
	"github.com/ysakura/eigo-coach/internal/services/markdown"
)

// ErrAlreadyBookmarked mirrors the repository sentinel for handler use.
var ErrAlreadyBookmarked = bookmark.ErrAlreadyBookmarked

// BookmarkView is a bookmark prepared for display, with the suggestion text
// rendered to HTML.
type BookmarkView struct {
	ID            uint      `json:"id"`
	ChatMessageID uint      `json:"chat_message_id"`
	Content       string    `json:"content"`
	ContentHTML   string    `json:"content_html,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// BookmarkService owns bookmark operations, enforcing that users only
// bookmark messages inside their own chat groups.
type BookmarkService struct {
	bookmarkRepo bookmark.BookmarkRepository
	messageRepo  message.MessageRepository
	groupRepo    chatgroup.ChatGroupRepository
	renderer     *markdown.Renderer
	logger       Logger
}

func NewBookmarkService(
	bookmarkRepo bookmark.BookmarkRepository,
	messageRepo message.MessageRepository,
	groupRepo chatgroup.ChatGroupRepository,
	logger Logger,
) (*BookmarkService, error) {
	if bookmarkRepo == nil || messageRepo == nil || groupRepo == nil {
		return nil, errors.New("bookmark, message and group repositories are required")
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}
	return &BookmarkService{
		bookmarkRepo: bookmarkRepo,
		messageRepo:  messageRepo,
		groupRepo:    groupRepo,
		renderer:     markdown.NewRenderer(),
		logger:       logger,
	}, nil
}

// Create bookmarks a chat message for the user. The message must exist and
// live in a group the user owns. Bookmarking the same message twice reports
// ErrAlreadyBookmarked and never creates a second row.
func (s *BookmarkService) Create(ctx context.Context, userID, messageID uint) (*domain.Bookmark, error) {
	msg, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	owned, err := s.groupRepo.VerifyOwnership(ctx, msg.ChatGroupID, userID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, ErrUnauthorized
	}

	created, err := s.bookmarkRepo.Create(ctx, &domain.Bookmark{
		UserID:        userID,
		ChatMessageID: messageID,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("bookmark created", "user_id", userID, "message_id", messageID)
	return created, nil
}

// Delete removes one of the user's bookmarks.
func (s *BookmarkService) Delete(ctx context.Context, userID, bookmarkID uint) error {
	err := s.bookmarkRepo.Delete(ctx, bookmarkID, userID)
	if errors.Is(err, bookmark.ErrUnauthorizedAccess) {
		return ErrUnauthorized
	}
	return err
}

// List returns the user's bookmarks newest first, each with rendered HTML.
// A rendering failure downgrades that entry to plain text only.
func (s *BookmarkService) List(ctx context.Context, userID uint) ([]BookmarkView, error) {
	bookmarks, err := s.bookmarkRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]BookmarkView, 0, len(bookmarks))
	for _, b := range bookmarks {
		view := BookmarkView{
			ID:            b.ID,
			ChatMessageID: b.ChatMessageID,
			Content:       b.ChatMessage.Content,
			CreatedAt:     b.CreatedAt,
		}
		if html, err := s.renderer.Render(b.ChatMessage.Content); err == nil {
			view.ContentHTML = html
		} else {
			s.logger.Warn("bookmark render failed", "bookmark_id", b.ID, "error", err)
		}
		views = append(views, view)
	}
	return views, nil
}

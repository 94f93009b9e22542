// File: internal/services/chat_service_test.go
package services

import (
	"context"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ysakura/eigo-coach/internal/domain"
	"github.com/ysakura/eigo-coach/internal/repository/bookmark"
	"github.com/ysakura/eigo-coach/internal/repository/chatgroup"
	"github.com/ysakura/eigo-coach/internal/repository/message"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.ChatGroup{}, &domain.ChatMessage{}, &domain.Bookmark{}))
	return db
}

func newTestChatService(t *testing.T) (*ChatService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	svc, err := NewChatService(chatgroup.NewChatGroupRepository(db), message.NewMessageRepository(db), &NoOpLogger{})
	require.NoError(t, err)
	return svc, db
}

func newTestBookmarkService(t *testing.T, db *gorm.DB) *BookmarkService {
	t.Helper()
	svc, err := NewBookmarkService(
		bookmark.NewBookmarkRepository(db),
		message.NewMessageRepository(db),
		chatgroup.NewChatGroupRepository(db),
		&NoOpLogger{},
	)
	require.NoError(t, err)
	return svc
}

func TestCreateGroupWithMessageTruncatesTitle(t *testing.T) {
	svc, _ := newTestChatService(t)
	ctx := context.Background()

	long := strings.Repeat("a", 45)
	group, msg, err := svc.CreateGroupWithMessage(ctx, 1, long)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 30)+"...", group.Title)
	assert.Equal(t, long, msg.Content, "the stored message keeps its full text")
	assert.Equal(t, domain.RoleUser, msg.Role)
	require.NotNil(t, msg.UserID)
	assert.Equal(t, uint(1), *msg.UserID)
}

func TestCreateGroupWithMessageKeepsShortTitleIntact(t *testing.T) {
	svc, _ := newTestChatService(t)

	group, _, err := svc.CreateGroupWithMessage(context.Background(), 1, "How do I order coffee?")
	require.NoError(t, err)
	assert.Equal(t, "How do I order coffee?", group.Title)
}

func TestCreateGroupWithMessageTruncatesByRunes(t *testing.T) {
	svc, _ := newTestChatService(t)

	long := strings.Repeat("あ", 40)
	group, _, err := svc.CreateGroupWithMessage(context.Background(), 1, long)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("あ", 30)+"...", group.Title)
}

func TestCreateGroupWithMessageRejectsEmpty(t *testing.T) {
	svc, _ := newTestChatService(t)

	_, _, err := svc.CreateGroupWithMessage(context.Background(), 1, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestGetGroupMessagesEnforcesOwnership(t *testing.T) {
	svc, _ := newTestChatService(t)
	ctx := context.Background()

	group, _, err := svc.CreateGroupWithMessage(ctx, 1, "hello")
	require.NoError(t, err)

	_, err = svc.GetGroupMessages(ctx, 2, group.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	msgs, err := svc.GetGroupMessages(ctx, 1, group.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestSaveAIMessageHasNoAuthor(t *testing.T) {
	svc, _ := newTestChatService(t)
	ctx := context.Background()

	group, _, err := svc.CreateGroupWithMessage(ctx, 1, "hello")
	require.NoError(t, err)

	saved, err := svc.SaveAIMessage(ctx, group.ID, "Hi there! こんにちは！")
	require.NoError(t, err)
	assert.Nil(t, saved.UserID)
	assert.Equal(t, domain.RoleAI, saved.Role)

	msgs, err := svc.GetGroupMessages(ctx, 1, group.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.RoleUser, msgs[0].Role)
	assert.Equal(t, domain.RoleAI, msgs[1].Role)
}

func TestSaveUserMessageRequiresOwnership(t *testing.T) {
	svc, _ := newTestChatService(t)
	ctx := context.Background()

	group, _, err := svc.CreateGroupWithMessage(ctx, 1, "hello")
	require.NoError(t, err)

	_, err = svc.SaveUserMessage(ctx, 2, group.ID, "not my group")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestDeleteGroupRemovesMessages(t *testing.T) {
	svc, db := newTestChatService(t)
	ctx := context.Background()

	group, _, err := svc.CreateGroupWithMessage(ctx, 1, "hello")
	require.NoError(t, err)
	_, err = svc.SaveAIMessage(ctx, group.ID, "reply")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteGroup(ctx, 1, group.ID))

	var count int64
	require.NoError(t, db.Model(&domain.ChatMessage{}).Where("chat_group_id = ?", group.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteGroupRejectsForeignOwner(t *testing.T) {
	svc, _ := newTestChatService(t)
	ctx := context.Background()

	group, _, err := svc.CreateGroupWithMessage(ctx, 1, "hello")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteGroup(ctx, 2, group.ID), ErrUnauthorized)
}

func TestGetUserGroupsReturnsRecentFirst(t *testing.T) {
	svc, _ := newTestChatService(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		_, _, err := svc.CreateGroupWithMessage(ctx, 1, strings.Repeat("x", i+1))
		require.NoError(t, err)
	}

	groups, err := svc.GetUserGroups(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, groups, chatgroup.DefaultRecentLimit)
	assert.Equal(t, strings.Repeat("x", 12), groups[0].Title, "newest group comes first")
}

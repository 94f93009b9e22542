// File: internal/services/bookmark_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ysakura/eigo-coach/internal/domain"
)

func TestBookmarkDuplicateIsRejected(t *testing.T) {
	chatSvc, db := newTestChatService(t)
	svc := newTestBookmarkService(t, db)
	ctx := context.Background()

	group, _, err := chatSvc.CreateGroupWithMessage(ctx, 1, "hello")
	require.NoError(t, err)
	ai, err := chatSvc.SaveAIMessage(ctx, group.ID, "Could you pass the salt?")
	require.NoError(t, err)

	_, err = svc.Create(ctx, 1, ai.ID)
	require.NoError(t, err)

	_, err = svc.Create(ctx, 1, ai.ID)
	assert.ErrorIs(t, err, ErrAlreadyBookmarked)

	var count int64
	require.NoError(t, db.Model(&domain.Bookmark{}).Where("user_id = ? AND chat_message_id = ?", 1, ai.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "a duplicate request never creates a second row")
}

func TestBookmarkRequiresGroupOwnership(t *testing.T) {
	chatSvc, db := newTestChatService(t)
	svc := newTestBookmarkService(t, db)
	ctx := context.Background()

	group, _, err := chatSvc.CreateGroupWithMessage(ctx, 1, "hello")
	require.NoError(t, err)
	ai, err := chatSvc.SaveAIMessage(ctx, group.ID, "reply")
	require.NoError(t, err)

	_, err = svc.Create(ctx, 2, ai.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestBookmarkListRendersHTML(t *testing.T) {
	chatSvc, db := newTestChatService(t)
	svc := newTestBookmarkService(t, db)
	ctx := context.Background()

	group, _, err := chatSvc.CreateGroupWithMessage(ctx, 1, "hello")
	require.NoError(t, err)
	ai, err := chatSvc.SaveAIMessage(ctx, group.ID, "**Nice to meet you.**\nはじめまして。")
	require.NoError(t, err)

	_, err = svc.Create(ctx, 1, ai.ID)
	require.NoError(t, err)

	views, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, ai.ID, views[0].ChatMessageID)
	assert.Contains(t, views[0].Content, "Nice to meet you.")
	assert.Contains(t, views[0].ContentHTML, "<strong>Nice to meet you.</strong>")
	assert.Contains(t, views[0].ContentHTML, "はじめまして。")
}

func TestBookmarkDeleteScopedToOwner(t *testing.T) {
	chatSvc, db := newTestChatService(t)
	svc := newTestBookmarkService(t, db)
	ctx := context.Background()

	group, _, err := chatSvc.CreateGroupWithMessage(ctx, 1, "hello")
	require.NoError(t, err)
	ai, err := chatSvc.SaveAIMessage(ctx, group.ID, "reply")
	require.NoError(t, err)
	created, err := svc.Create(ctx, 1, ai.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, 2, created.ID), ErrUnauthorized)
	assert.NoError(t, svc.Delete(ctx, 1, created.ID))
}

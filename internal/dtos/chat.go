// File: internal/dtos/chat.go
package dtos

type CreateGroupRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
}

type GroupWithMessageRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

type SuggestRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

type CreateBookmarkRequest struct {
	ChatMessageID uint `json:"chat_message_id" validate:"required,gt=0"`
}

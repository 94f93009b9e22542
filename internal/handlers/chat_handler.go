// File: internal/handlers/chat_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ysakura/eigo-coach/internal/dtos"
	"github.com/ysakura/eigo-coach/internal/middleware"
	"github.com/ysakura/eigo-coach/internal/services"
)

type ChatHandler struct {
	chatService *services.ChatService
}

func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// GetUserGroups lists the caller's most recently active chat groups.
func (h *ChatHandler) GetUserGroups(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	groups, err := h.chatService.GetUserGroups(r.Context(), userID)
	if err != nil {
		writeError(w, "could not retrieve chat groups", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// CreateGroup creates an empty titled group.
func (h *ChatHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dtos.CreateGroupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	group, err := h.chatService.CreateGroup(r.Context(), userID, req.Title)
	if err != nil {
		writeError(w, "could not create chat group", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

// CreateGroupWithMessage creates a group from the first user message of a
// fresh chat, storing the message and deriving the title from it.
func (h *ChatHandler) CreateGroupWithMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dtos.GroupWithMessageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	group, userMessage, err := h.chatService.CreateGroupWithMessage(r.Context(), userID, req.Message)
	if err != nil {
		writeError(w, "could not create chat group", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"chat_group":   group,
		"user_message": userMessage,
	})
}

// GetGroupMessages lists a group's messages in creation order.
func (h *ChatHandler) GetGroupMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	groupID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "invalid group ID", http.StatusBadRequest)
		return
	}

	messages, err := h.chatService.GetGroupMessages(r.Context(), userID, groupID)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			writeError(w, "access denied", http.StatusForbidden)
			return
		}
		writeError(w, "could not retrieve messages", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// DeleteGroup removes a group and all of its messages.
func (h *ChatHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	groupID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "invalid group ID", http.StatusBadRequest)
		return
	}

	if err := h.chatService.DeleteGroup(r.Context(), userID, groupID); err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			writeError(w, "access denied", http.StatusForbidden)
			return
		}
		writeError(w, "could not delete chat group", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request, name string) (uint, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid ID")
	}
	return uint(id), nil
}

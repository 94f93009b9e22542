// File: internal/handlers/bookmark_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/ysakura/eigo-coach/internal/dtos"
	"github.com/ysakura/eigo-coach/internal/middleware"
	"github.com/ysakura/eigo-coach/internal/repository/message"
	"github.com/ysakura/eigo-coach/internal/services"
)

type BookmarkHandler struct {
	bookmarkService *services.BookmarkService
}

func NewBookmarkHandler(bookmarkService *services.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{bookmarkService: bookmarkService}
}

// Create bookmarks a chat message. A repeated bookmark of the same message
// answers 409 without creating a second row.
func (h *BookmarkHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dtos.CreateBookmarkRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.bookmarkService.Create(r.Context(), userID, req.ChatMessageID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyBookmarked):
			writeError(w, "already bookmarked", http.StatusConflict)
		case errors.Is(err, services.ErrUnauthorized):
			writeError(w, "access denied", http.StatusForbidden)
		case errors.Is(err, message.ErrMessageNotFound):
			writeError(w, "chat message not found", http.StatusNotFound)
		default:
			writeError(w, "could not create bookmark", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// List returns the caller's bookmarks newest first.
func (h *BookmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	views, err := h.bookmarkService.List(r.Context(), userID)
	if err != nil {
		writeError(w, "could not retrieve bookmarks", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// Delete removes one of the caller's bookmarks.
func (h *BookmarkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	bookmarkID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "invalid bookmark ID", http.StatusBadRequest)
		return
	}

	if err := h.bookmarkService.Delete(r.Context(), userID, bookmarkID); err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			writeError(w, "access denied", http.StatusForbidden)
			return
		}
		writeError(w, "could not delete bookmark", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

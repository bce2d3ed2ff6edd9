package handler

import (
	"log/slog"
	"net/http"

	"github.com/msomdec/skill-swap/internal/service"
	"github.com/msomdec/skill-swap/internal/view"
	datastar "github.com/starfederation/datastar-go/datastar"
)

// NotificationHandler serves the current user's notifications.
type NotificationHandler struct {
	notes *service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notes *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notes: notes}
}

// HandleList returns notifications newest first plus the unread count.
// GET /api/notifications
func (h *NotificationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	items, err := h.notes.ListForUser(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, "list notifications", err)
		return
	}
	unread, err := h.notes.UnreadCount(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, "count unread notifications", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": toNotificationDTOs(items),
		"unread":        unread,
	})
}

// HandleMarkRead POST /api/notifications/{id}/read
func (h *NotificationHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if err := h.notes.MarkRead(r.Context(), user.ID, r.PathValue("id")); err != nil {
		writeServiceError(w, "mark notification read", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMarkAllRead POST /api/notifications/read-all
func (h *NotificationHandler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if err := h.notes.MarkAllRead(r.Context(), user.ID); err != nil {
		writeServiceError(w, "mark all notifications read", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleBadge patches the unread badge and the notification list over SSE.
// GET /notifications/badge
func (h *NotificationHandler) HandleBadge(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	unread, err := h.notes.UnreadCount(r.Context(), user.ID)
	if err != nil {
		slog.Error("count unread notifications", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	items, err := h.notes.ListForUser(r.Context(), user.ID)
	if err != nil {
		slog.Error("list notifications", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sse := datastar.NewSSE(w, r)

	// Replace the badge element itself.
	if err := sse.PatchElementTempl(view.NotificationBadge(unread)); err != nil {
		slog.Warn("patch notification badge", "error", err)
		return
	}
	if err := sse.PatchElementTempl(
		view.NotificationList(items),
		datastar.WithSelectorID(view.NotificationListID),
		datastar.WithModeInner(),
	); err != nil {
		slog.Warn("patch notification list", "error", err)
	}
}

package handler

import (
	"net/http"

	"github.com/msomdec/skill-swap/internal/domain"
	"github.com/msomdec/skill-swap/internal/service"
)

// AdminHandler serves moderation and monitoring endpoints. Every route is
// mounted behind RequireAdmin.
type AdminHandler struct {
	users *service.UserService
	swaps *service.SwapService
	notes *service.NotificationService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(users *service.UserService, swaps *service.SwapService, notes *service.NotificationService) *AdminHandler {
	return &AdminHandler{users: users, swaps: swaps, notes: notes}
}

// HandleStats GET /api/admin/stats
func (h *AdminHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.swaps.Stats(r.Context())
	if err != nil {
		writeServiceError(w, "platform stats", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stats": toStatsDTO(stats)})
}

// HandleUsers lists every account, including private and banned ones.
// GET /api/admin/users
func (h *AdminHandler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeServiceError(w, "list users", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": toUserDTOs(users)})
}

// HandleBan POST /api/admin/users/{id}/ban
func (h *AdminHandler) HandleBan(w http.ResponseWriter, r *http.Request) {
	h.setBanned(w, r, true)
}

// HandleUnban POST /api/admin/users/{id}/unban
func (h *AdminHandler) HandleUnban(w http.ResponseWriter, r *http.Request) {
	h.setBanned(w, r, false)
}

func (h *AdminHandler) setBanned(w http.ResponseWriter, r *http.Request, banned bool) {
	user, err := h.users.SetBanned(r.Context(), r.PathValue("id"), banned)
	if err != nil {
		writeServiceError(w, "set banned", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserDTO(user)})
}

// HandleSwaps monitors all swaps, optionally filtered by status.
// GET /api/admin/swaps?status=
func (h *AdminHandler) HandleSwaps(w http.ResponseWriter, r *http.Request) {
	swaps, err := h.swaps.ListAll(r.Context(), domain.SwapStatus(r.URL.Query().Get("status")))
	if err != nil {
		writeServiceError(w, "list all swaps", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"swaps": toSwapDTOs(swaps)})
}

// HandleBroadcast sends a platform message to every active member.
// POST /api/admin/messages
// Request: {"title":"...","content":"...","type":"info|warning|update"}
func (h *AdminHandler) HandleBroadcast(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		Type    string `json:"type"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	delivered, err := h.notes.Broadcast(r.Context(), domain.PlatformMessage{
		Title:   req.Title,
		Content: req.Content,
		Type:    domain.MessageType(req.Type),
	})
	if err != nil {
		writeServiceError(w, "broadcast message", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"delivered": delivered})
}

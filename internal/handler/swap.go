package handler

import (
	"net/http"

	"github.com/msomdec/skill-swap/internal/domain"
	"github.com/msomdec/skill-swap/internal/service"
)

// SwapHandler exposes the swap lifecycle over JSON.
type SwapHandler struct {
	swaps *service.SwapService
}

// NewSwapHandler creates a new SwapHandler.
func NewSwapHandler(swaps *service.SwapService) *SwapHandler {
	return &SwapHandler{swaps: swaps}
}

// HandleCreate opens a swap request from the current user.
// POST /api/swaps
// Request: {"recipientId":"...","offeredSkill":"...","requestedSkill":"...","message":"..."}
func (h *SwapHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req struct {
		RecipientID    string `json:"recipientId"`
		OfferedSkill   string `json:"offeredSkill"`
		RequestedSkill string `json:"requestedSkill"`
		Message        string `json:"message"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	swap, err := h.swaps.Create(r.Context(), domain.CreateSwap{
		RequesterID:    user.ID,
		RecipientID:    req.RecipientID,
		OfferedSkill:   req.OfferedSkill,
		RequestedSkill: req.RequestedSkill,
		Message:        req.Message,
	})
	if err != nil {
		writeServiceError(w, "create swap", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"swap": toSwapDTO(swap)})
}

// HandleList lists the current user's swaps.
// GET /api/swaps?box=sent|received|all&status=
func (h *SwapHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var direction domain.SwapDirection
	switch box := r.URL.Query().Get("box"); box {
	case "", "all":
		direction = domain.DirectionAll
	case "sent":
		direction = domain.DirectionSent
	case "received":
		direction = domain.DirectionReceived
	default:
		writeError(w, http.StatusUnprocessableEntity, "box must be sent, received or all")
		return
	}

	status := domain.SwapStatus(r.URL.Query().Get("status"))
	swaps, err := h.swaps.ListForUser(r.Context(), user.ID, direction, status)
	if err != nil {
		writeServiceError(w, "list swaps", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"swaps": toSwapDTOs(swaps)})
}

// HandleGet returns one swap the current user takes part in.
// GET /api/swaps/{id}
func (h *SwapHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	swap, err := h.swaps.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, "get swap", err)
		return
	}
	if !swap.Involves(user.ID) && !service.CanAccessAdmin(user) {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"swap": toSwapDTO(swap)})
}

// HandleAccept POST /api/swaps/{id}/accept
func (h *SwapHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	swap, err := h.swaps.Accept(r.Context(), domain.AcceptSwap(actionFor(r)))
	h.respond(w, "accept swap", swap, err)
}

// HandleReject POST /api/swaps/{id}/reject
func (h *SwapHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	swap, err := h.swaps.Reject(r.Context(), domain.RejectSwap(actionFor(r)))
	h.respond(w, "reject swap", swap, err)
}

// HandleCancel POST /api/swaps/{id}/cancel, also mounted for administrators.
func (h *SwapHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	swap, err := h.swaps.Cancel(r.Context(), domain.CancelSwap(actionFor(r)))
	h.respond(w, "cancel swap", swap, err)
}

// HandleComplete closes an accepted swap and rates the counterpart.
// POST /api/swaps/{id}/complete
// Request: {"rating":1-5,"feedback":"..."}
func (h *SwapHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rating   int    `json:"rating"`
		Feedback string `json:"feedback"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	a := actionFor(r)
	swap, err := h.swaps.Complete(r.Context(), domain.CompleteSwap{
		RequestID:    a.RequestID,
		ActingUserID: a.ActingUserID,
		Rating:       req.Rating,
		Feedback:     req.Feedback,
	})
	h.respond(w, "complete swap", swap, err)
}

// HandleDelete removes a pending or cancelled request.
// DELETE /api/swaps/{id}
func (h *SwapHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.swaps.Delete(r.Context(), domain.DeleteSwap(actionFor(r))); err != nil {
		writeServiceError(w, "delete swap", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SwapHandler) respond(w http.ResponseWriter, op string, swap *domain.SwapRequest, err error) {
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"swap": toSwapDTO(swap)})
}

func actionFor(r *http.Request) domain.SwapAction {
	return domain.SwapAction{
		RequestID:    r.PathValue("id"),
		ActingUserID: UserFromContext(r.Context()).ID,
	}
}

package handler

import (
	"net/http"

	"github.com/msomdec/skill-swap/internal/service"
)

// UserHandler serves the member directory and profile editing.
type UserHandler struct {
	users *service.UserService
	swaps *service.SwapService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService, swaps *service.SwapService) *UserHandler {
	return &UserHandler{users: users, swaps: swaps}
}

// HandleBrowse lists public members.
// GET /api/users?q=&skill=
func (h *UserHandler) HandleBrowse(w http.ResponseWriter, r *http.Request) {
	var viewerID string
	if user := UserFromContext(r.Context()); user != nil {
		viewerID = user.ID
	}

	users, err := h.users.Browse(r.Context(), viewerID, service.BrowseQuery{
		Search: r.URL.Query().Get("q"),
		Skill:  r.URL.Query().Get("skill"),
	})
	if err != nil {
		writeServiceError(w, "browse users", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": toPublicUserDTOs(users)})
}

// HandleGet returns one member. Private or banned members are only visible
// to themselves and administrators.
// GET /api/users/{id}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	target, err := h.users.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, "get user", err)
		return
	}

	viewer := UserFromContext(r.Context())
	switch {
	case viewer != nil && (viewer.ID == target.ID || service.CanAccessAdmin(viewer)):
		writeJSON(w, http.StatusOK, map[string]any{"user": toUserDTO(target)})
	case target.Browseable():
		writeJSON(w, http.StatusOK, map[string]any{"user": toPublicUserDTO(target)})
	default:
		writeError(w, http.StatusNotFound, "Not found.")
	}
}

// HandleSkills lists every skill offered or wanted by a public member.
// GET /api/skills
func (h *UserHandler) HandleSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.users.AllSkills(r.Context())
	if err != nil {
		writeServiceError(w, "list skills", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"skills": orEmpty(skills)})
}

// HandleUpdateProfile edits the current user's profile.
// PUT /api/profile
func (h *UserHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req struct {
		Name          string   `json:"name"`
		Location      string   `json:"location"`
		ProfilePhoto  string   `json:"profilePhoto"`
		SkillsOffered []string `json:"skillsOffered"`
		SkillsWanted  []string `json:"skillsWanted"`
		Availability  []string `json:"availability"`
		IsPublic      bool     `json:"isPublic"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	updated, err := h.users.UpdateProfile(r.Context(), user.ID, service.ProfileUpdate{
		Name:          req.Name,
		Location:      req.Location,
		PhotoURL:      req.ProfilePhoto,
		SkillsOffered: req.SkillsOffered,
		SkillsWanted:  req.SkillsWanted,
		Availability:  req.Availability,
		IsPublic:      req.IsPublic,
	})
	if err != nil {
		writeServiceError(w, "update profile", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserDTO(updated)})
}

// HandleDashboard returns the current user's swap counts and recent activity.
// GET /api/dashboard
func (h *UserHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	summary, err := h.swaps.Summary(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, "dashboard summary", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":    toUserDTO(user),
		"summary": toSummaryDTO(summary),
	})
}

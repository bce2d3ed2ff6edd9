package handler

import (
	"time"

	"github.com/msomdec/skill-swap/internal/domain"
	"github.com/msomdec/skill-swap/internal/service"
)

// UserDTO is the JSON representation of a user. Email and moderation fields
// are only filled for the user themself and administrators.
type UserDTO struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email,omitempty"`
	Location       string   `json:"location"`
	ProfilePhoto   string   `json:"profilePhoto"`
	SkillsOffered  []string `json:"skillsOffered"`
	SkillsWanted   []string `json:"skillsWanted"`
	Availability   []string `json:"availability"`
	IsPublic       bool     `json:"isPublic"`
	Role           string   `json:"role,omitempty"`
	Rating         float64  `json:"rating"`
	RatingCount    int      `json:"ratingCount"`
	CompletedSwaps int      `json:"completedSwaps"`
	IsBanned       bool     `json:"isBanned,omitempty"`
	JoinedDate     string   `json:"joinedDate"`
}

func toPublicUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:             u.ID,
		Name:           u.Name,
		Location:       u.Location,
		ProfilePhoto:   u.PhotoURL,
		SkillsOffered:  orEmpty(u.SkillsOffered),
		SkillsWanted:   orEmpty(u.SkillsWanted),
		Availability:   orEmpty(u.Availability),
		IsPublic:       u.IsPublic,
		Rating:         u.Rating,
		RatingCount:    u.RatingCount,
		CompletedSwaps: u.CompletedSwaps,
		JoinedDate:     u.JoinedAt.Format(time.RFC3339),
	}
}

func toUserDTO(u *domain.User) UserDTO {
	dto := toPublicUserDTO(u)
	dto.Email = u.Email
	dto.Role = string(u.Role)
	dto.IsBanned = u.IsBanned
	return dto
}

func toPublicUserDTOs(users []domain.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i := range users {
		dtos[i] = toPublicUserDTO(&users[i])
	}
	return dtos
}

func toUserDTOs(users []domain.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i := range users {
		dtos[i] = toUserDTO(&users[i])
	}
	return dtos
}

// SwapDTO is the JSON representation of a swap request.
type SwapDTO struct {
	ID             string  `json:"id"`
	RequesterID    string  `json:"requesterId"`
	RecipientID    string  `json:"recipientId"`
	OfferedSkill   string  `json:"offeredSkill"`
	RequestedSkill string  `json:"requestedSkill"`
	Message        string  `json:"message"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      *string `json:"updatedAt"`
	Rating         *int    `json:"rating,omitempty"`
	Feedback       *string `json:"feedback,omitempty"`
	RatedBy        string  `json:"ratedBy,omitempty"`
}

func toSwapDTO(s *domain.SwapRequest) SwapDTO {
	dto := SwapDTO{
		ID:             s.ID,
		RequesterID:    s.RequesterID,
		RecipientID:    s.RecipientID,
		OfferedSkill:   s.OfferedSkill,
		RequestedSkill: s.RequestedSkill,
		Message:        s.Message,
		Status:         string(s.Status),
		CreatedAt:      s.CreatedAt.Format(time.RFC3339),
		Rating:         s.Rating,
		Feedback:       s.Feedback,
		RatedBy:        s.RatedBy,
	}
	if s.UpdatedAt != nil {
		t := s.UpdatedAt.Format(time.RFC3339)
		dto.UpdatedAt = &t
	}
	return dto
}

func toSwapDTOs(swaps []domain.SwapRequest) []SwapDTO {
	dtos := make([]SwapDTO, len(swaps))
	for i := range swaps {
		dtos[i] = toSwapDTO(&swaps[i])
	}
	return dtos
}

// NotificationDTO is the JSON representation of a notification.
type NotificationDTO struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"createdAt"`
}

func toNotificationDTOs(items []domain.Notification) []NotificationDTO {
	dtos := make([]NotificationDTO, len(items))
	for i, n := range items {
		dtos[i] = NotificationDTO{
			ID:        n.ID,
			Type:      string(n.Kind),
			Message:   n.Message,
			Read:      n.Read,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		}
	}
	return dtos
}

// StatsDTO is the JSON representation of the admin overview.
type StatsDTO struct {
	ActiveUsers    int `json:"activeUsers"`
	BannedUsers    int `json:"bannedUsers"`
	PendingSwaps   int `json:"pendingSwaps"`
	AcceptedSwaps  int `json:"acceptedSwaps"`
	CompletedSwaps int `json:"completedSwaps"`
	TotalSwaps     int `json:"totalSwaps"`
}

func toStatsDTO(s service.PlatformStats) StatsDTO {
	return StatsDTO(s)
}

// SummaryDTO is the JSON representation of a member's dashboard.
type SummaryDTO struct {
	Pending   int       `json:"pending"`
	Accepted  int       `json:"accepted"`
	Completed int       `json:"completed"`
	Recent    []SwapDTO `json:"recent"`
}

func toSummaryDTO(s service.UserSummary) SummaryDTO {
	return SummaryDTO{
		Pending:   s.Pending,
		Accepted:  s.Accepted,
		Completed: s.Completed,
		Recent:    toSwapDTOs(s.Recent),
	}
}

func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

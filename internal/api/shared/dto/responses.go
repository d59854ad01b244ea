package dto

import (
	"github.com/emberdao/soulforge/internal/store"
	"github.com/emberdao/soulforge/internal/store/schema"
)

// AuthResponse is returned by the login endpoints
type AuthResponse struct {
	Token string       `json:"token"`
	User  *schema.User `json:"user"`
}

// ContributionResponse is returned when a contribution is recorded. It carries
// the new ledger entry plus the updated user so clients can refresh trust
// displays without a second round trip.
type ContributionResponse struct {
	Entry         *schema.FlameLogEntry `json:"entry"`
	User          *schema.User          `json:"user"`
	AwardedBadges []*schema.UserBadge   `json:"awardedBadges,omitempty"`
}

// DashboardResponse is the admin dashboard aggregate
type DashboardResponse struct {
	Stats *store.DashboardStats `json:"stats"`
}

// HealthResponse is the health check payload
type HealthResponse struct {
	Status string `json:"status"`
}

package schema

import (
	"time"
)

// Badge represents the badges table - static reference data seeded at startup
type Badge struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	// Name is the unique badge name; the seed upsert key
	Name string `gorm:"column:name;not null;uniqueIndex;type:text" json:"name"`
	// Description explains how the badge is earned
	Description string `gorm:"column:description;not null;type:text" json:"description"`
	// Icon is the client-side icon identifier
	Icon string `gorm:"column:icon;not null;type:text" json:"icon"`
	// RequiredPoints is the trust-score threshold for automatic awarding
	RequiredPoints int `gorm:"column:required_points;not null" json:"requiredPoints"`
	// Category tags the badge (general, contribution, governance, ...)
	Category string `gorm:"column:category;not null;type:text" json:"category"`
}

// TableName specifies the table name for the Badge model
func (Badge) TableName() string {
	return "badges"
}

// UserBadge represents the user_badges join table recording when a user
// earned a badge. Unique per (user, badge) so awarding is idempotent.
type UserBadge struct {
	ID int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	// UserID is the user who earned the badge
	UserID int64 `gorm:"column:user_id;not null;uniqueIndex:idx_user_badges_user_badge,priority:1" json:"userId"`
	// BadgeID is the earned badge
	BadgeID int64 `gorm:"column:badge_id;not null;uniqueIndex:idx_user_badges_user_badge,priority:2" json:"badgeId"`
	// EarnedAt is the timestamp the badge was granted
	EarnedAt time.Time `gorm:"column:earned_at;not null;default:now()" json:"earnedAt"`

	Badge *Badge `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
}

// TableName specifies the table name for the UserBadge model
func (UserBadge) TableName() string {
	return "user_badges"
}

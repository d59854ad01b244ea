package schema

import (
	"time"
)

// ContributionCategory represents the contribution_categories table - static
// reference data mapping a contribution kind to its point value
type ContributionCategory struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	// Name is the unique category name; the seed upsert key
	Name string `gorm:"column:name;not null;uniqueIndex;type:text" json:"name"`
	// Description explains what qualifies as this contribution kind
	Description string `gorm:"column:description;not null;type:text" json:"description"`
	// PointValue is the trust points awarded per entry of this category
	PointValue int `gorm:"column:point_value;not null" json:"pointValue"`
}

// TableName specifies the table name for the ContributionCategory model
func (ContributionCategory) TableName() string {
	return "contribution_categories"
}

// FlameLogEntry represents the flame_log table - the append-only contribution
// ledger. PointsEarned snapshots the category's point value at creation time,
// so later category edits never rewrite history.
type FlameLogEntry struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	// UserID is the contributing user
	UserID int64 `gorm:"column:user_id;not null;index:idx_flame_log_user_created,priority:1" json:"userId"`
	// CategoryID is the contribution category
	CategoryID int64 `gorm:"column:category_id;not null" json:"categoryId"`
	// Title is the short contribution summary
	Title string `gorm:"column:title;not null;type:text" json:"title"`
	// Description is the free-text detail
	Description string `gorm:"column:description;not null;type:text" json:"description"`
	// PointsEarned is the point value snapshot taken at creation
	PointsEarned int `gorm:"column:points_earned;not null" json:"pointsEarned"`
	// CreatedAt orders the ledger, newest first
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();index:idx_flame_log_user_created,priority:2,sort:desc" json:"createdAt"`

	Category *ContributionCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// TableName specifies the table name for the FlameLogEntry model
func (FlameLogEntry) TableName() string {
	return "flame_log"
}

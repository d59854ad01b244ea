package schema

import (
	"time"
)

// User represents the users table - a community member identified by wallet address
type User struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	// Username is the unique display name
	Username string `gorm:"column:username;not null;uniqueIndex;type:text" json:"username"`
	// PasswordHash is the bcrypt hash of the user's password; never serialized
	PasswordHash string `gorm:"column:password_hash;not null;type:text" json:"-"`
	// WalletAddress is the user's EIP-55 normalized wallet address
	WalletAddress string `gorm:"column:wallet_address;not null;uniqueIndex;type:text" json:"walletAddress"`
	// Email is the optional contact address
	Email *string `gorm:"column:email;type:text" json:"email,omitempty"`
	// TrustScore is the cumulative point total from the user's flame log
	TrustScore int `gorm:"column:trust_score;not null;default:0" json:"trustScore"`
	// TrustLevel is derived from TrustScore; recomputed on every score change
	TrustLevel int `gorm:"column:trust_level;not null;default:1" json:"trustLevel"`
	// IsAdmin grants access to the admin back-office and review operations
	IsAdmin bool `gorm:"column:is_admin;not null;default:false" json:"isAdmin"`
	// CreatedAt is the timestamp when the account was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()" json:"createdAt"`

	// Associations
	SoulIDs          []SoulID        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	FlameLogEntries  []FlameLogEntry `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Badges           []UserBadge     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Votes            []Vote          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	TransferRequests []TransferRequest `gorm:"foreignKey:FromUserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

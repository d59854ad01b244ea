package schema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/emberdao/soulforge/internal/domain"
)

// SoulID represents the soul_ids table - the non-transferable identity NFT
// bound to a user. Ownership changes only through the transfer-request
// workflow, which deactivates the source record and mints a replacement.
type SoulID struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	// TokenID is the unique on-chain token identifier (ULID when minted here)
	TokenID string `gorm:"column:token_id;not null;uniqueIndex;type:text" json:"tokenId"`
	// UserID is the owning user
	UserID int64 `gorm:"column:user_id;not null;index" json:"userId"`
	// Metadata is the token metadata blob (name, image, attributes)
	Metadata datatypes.JSON `gorm:"column:metadata;not null" json:"metadata"`
	// Network identifies the blockchain network (CAIP-2, e.g. "eip155:1")
	Network domain.Network `gorm:"column:network;not null;type:text" json:"network"`
	// IsActive is false once the token has been superseded by a transfer
	IsActive bool `gorm:"column:is_active;not null;default:true" json:"isActive"`
	// MintedAt is the timestamp when this record was minted
	MintedAt time.Time `gorm:"column:minted_at;not null;default:now()" json:"mintedAt"`
}

// TableName specifies the table name for the SoulID model
func (SoulID) TableName() string {
	return "soul_ids"
}

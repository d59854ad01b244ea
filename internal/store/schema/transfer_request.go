package schema

import (
	"time"

	"github.com/emberdao/soulforge/internal/domain"
)

// TransferRequest represents the transfer_requests table - the approval
// workflow for moving a Soul ID to a new wallet. Status transitions once,
// pending -> approved|rejected, via a conditional update.
type TransferRequest struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	// SoulIDID is the Soul ID being transferred
	SoulIDID int64 `gorm:"column:soul_id_id;not null" json:"nftId"`
	// FromUserID is the current owner requesting the transfer
	FromUserID int64 `gorm:"column:from_user_id;not null" json:"fromUserId"`
	// ToWalletAddress is the EIP-55 normalized destination wallet
	ToWalletAddress string `gorm:"column:to_wallet_address;not null;type:text" json:"toWalletAddress"`
	// Reason is the requester's free-text justification
	Reason string `gorm:"column:reason;not null;type:text" json:"reason"`
	// Status is pending, approved or rejected
	Status domain.TransferStatus `gorm:"column:status;not null;default:pending;index" json:"status"`
	// ReviewedBy is the admin who reviewed the request; nil while pending
	ReviewedBy *int64 `gorm:"column:reviewed_by" json:"reviewedBy,omitempty"`
	// RequestedAt is the submission timestamp
	RequestedAt time.Time `gorm:"column:requested_at;not null;default:now()" json:"requestedAt"`
	// ReviewedAt is set on the pending -> terminal transition; nil while pending
	ReviewedAt *time.Time `gorm:"column:reviewed_at" json:"reviewedAt,omitempty"`

	SoulID    *SoulID `gorm:"foreignKey:SoulIDID" json:"nft,omitempty"`
	Requester *User   `gorm:"foreignKey:FromUserID" json:"requester,omitempty"`
}

// TableName specifies the table name for the TransferRequest model
func (TransferRequest) TableName() string {
	return "transfer_requests"
}

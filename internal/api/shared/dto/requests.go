package dto

import (
	"errors"
	"time"

	"gorm.io/datatypes"

	"github.com/emberdao/soulforge/internal/domain"
)

// LoginRequest is the wallet login payload
type LoginRequest struct {
	WalletAddress string `json:"walletAddress"`
	Password      string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if r.WalletAddress == "" || r.Password == "" {
		return errors.New("wallet address and password are required")
	}
	if !domain.IsValidWalletAddress(r.WalletAddress) {
		return errors.New("invalid wallet address")
	}
	return nil
}

// AdminLoginRequest is the back-office login payload
type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *AdminLoginRequest) Validate() error {
	if r.Username == "" || r.Password == "" {
		return errors.New("username and password are required")
	}
	return nil
}

// RegisterUserRequest is the user registration payload
type RegisterUserRequest struct {
	Username      string  `json:"username"`
	Password      string  `json:"password"`
	WalletAddress string  `json:"walletAddress"`
	Email         *string `json:"email,omitempty"`
}

func (r *RegisterUserRequest) Validate() error {
	if r.Username == "" {
		return errors.New("username is required")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	if !domain.IsValidWalletAddress(r.WalletAddress) {
		return errors.New("invalid wallet address")
	}
	return nil
}

// AdminCreateUserRequest is the back-office user creation payload
type AdminCreateUserRequest struct {
	RegisterUserRequest
	IsAdmin bool `json:"isAdmin"`
}

// MintSoulIDRequest is the Soul ID mint payload
type MintSoulIDRequest struct {
	UserID   int64          `json:"userId"`
	TokenID  string         `json:"tokenId,omitempty"`
	Metadata datatypes.JSON `json:"metadata,omitempty"`
	Network  domain.Network `json:"network"`
}

func (r *MintSoulIDRequest) Validate() error {
	if r.UserID <= 0 {
		return errors.New("userId is required")
	}
	if r.Network == "" {
		return errors.New("network is required")
	}
	if !domain.IsValidNetwork(r.Network) {
		return errors.New("unsupported network")
	}
	return nil
}

// RecordContributionRequest is the flame log entry payload
type RecordContributionRequest struct {
	UserID      int64  `json:"userId"`
	CategoryID  int64  `json:"categoryId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

func (r *RecordContributionRequest) Validate() error {
	if r.UserID <= 0 {
		return errors.New("userId is required")
	}
	if r.CategoryID <= 0 {
		return errors.New("categoryId is required")
	}
	if r.Title == "" {
		return errors.New("title is required")
	}
	return nil
}

// CreateProposalRequest is the proposal creation payload
type CreateProposalRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatorID   int64     `json:"creatorId"`
	StartDate   time.Time `json:"startDate,omitempty"`
	EndDate     time.Time `json:"endDate"`
}

func (r *CreateProposalRequest) Validate() error {
	if r.Title == "" {
		return errors.New("title is required")
	}
	if r.Description == "" {
		return errors.New("description is required")
	}
	if r.CreatorID <= 0 {
		return errors.New("creatorId is required")
	}
	if r.EndDate.IsZero() {
		return errors.New("endDate is required")
	}
	if !r.StartDate.IsZero() && !r.EndDate.After(r.StartDate) {
		return errors.New("endDate must be after startDate")
	}
	return nil
}

// CastVoteRequest is the vote payload
type CastVoteRequest struct {
	ProposalID int64 `json:"proposalId"`
	UserID     int64 `json:"userId"`
	VoteType   bool  `json:"voteType"`
}

func (r *CastVoteRequest) Validate() error {
	if r.ProposalID <= 0 {
		return errors.New("proposalId is required")
	}
	if r.UserID <= 0 {
		return errors.New("userId is required")
	}
	return nil
}

// CreateTransferRequestRequest is the transfer request submission payload
type CreateTransferRequestRequest struct {
	NFTID           int64  `json:"nftId"`
	FromUserID      int64  `json:"fromUserId"`
	ToWalletAddress string `json:"toWalletAddress"`
	Reason          string `json:"reason"`
}

func (r *CreateTransferRequestRequest) Validate() error {
	if r.NFTID <= 0 {
		return errors.New("nftId is required")
	}
	if r.FromUserID <= 0 {
		return errors.New("fromUserId is required")
	}
	if !domain.IsValidWalletAddress(r.ToWalletAddress) {
		return errors.New("invalid destination wallet address")
	}
	if r.Reason == "" {
		return errors.New("reason is required")
	}
	return nil
}

// ReviewTransferRequestRequest is the transfer review payload. The reviewer
// is the authenticated admin, not part of the body.
type ReviewTransferRequestRequest struct {
	Status domain.TransferStatus `json:"status"`
}

func (r *ReviewTransferRequestRequest) Validate() error {
	if r.Status == "" {
		return errors.New("status is required")
	}
	if !domain.IsTerminalTransferStatus(r.Status) {
		return errors.New("status must be approved or rejected")
	}
	return nil
}

// AssignBadgeRequest is the manual badge grant payload
type AssignBadgeRequest struct {
	BadgeID int64 `json:"badgeId"`
}

func (r *AssignBadgeRequest) Validate() error {
	if r.BadgeID <= 0 {
		return errors.New("badgeId is required")
	}
	return nil
}

package store

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/emberdao/soulforge/internal/domain"
	"github.com/emberdao/soulforge/internal/store/schema"
)

// Store defines the interface for database operations. The postgres
// implementation is the production backend; an in-memory implementation
// backs unit tests.
type Store interface {
	// Ping checks datastore reachability
	Ping(ctx context.Context) error
	// SeedReferenceData idempotently upserts the built-in contribution
	// categories and badges by unique name
	SeedReferenceData(ctx context.Context) error

	// GetUser retrieves a user by id
	GetUser(ctx context.Context, id int64) (*schema.User, error)
	// GetUserByWalletAddress retrieves a user by normalized wallet address
	GetUserByWalletAddress(ctx context.Context, walletAddress string) (*schema.User, error)
	// GetUserByUsername retrieves a user by username
	GetUserByUsername(ctx context.Context, username string) (*schema.User, error)
	// CreateUser registers a user; fails with ErrWalletAlreadyRegistered on a
	// duplicate wallet address
	CreateUser(ctx context.Context, input CreateUserInput) (*schema.User, error)
	// PromoteUser sets the admin flag on a user
	PromoteUser(ctx context.Context, id int64) (*schema.User, error)
	// ListUsers retrieves all users ordered by creation time, oldest first
	ListUsers(ctx context.Context) ([]*schema.User, error)
	// GetDashboardStats aggregates the admin dashboard counters
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)

	// GetSoulID retrieves a Soul ID by internal id
	GetSoulID(ctx context.Context, id int64) (*schema.SoulID, error)
	// GetActiveSoulIDByUser retrieves a user's active Soul ID
	GetActiveSoulIDByUser(ctx context.Context, userID int64) (*schema.SoulID, error)
	// MintSoulID creates a Soul ID record for a user
	MintSoulID(ctx context.Context, input MintSoulIDInput) (*schema.SoulID, error)

	// ListBadges retrieves all badge definitions
	ListBadges(ctx context.Context) ([]*schema.Badge, error)
	// GetUserBadges retrieves a user's earned badges with earn timestamps
	GetUserBadges(ctx context.Context, userID int64) ([]*schema.UserBadge, error)
	// AssignBadge grants a badge to a user; a repeat grant returns the
	// existing record unchanged
	AssignBadge(ctx context.Context, userID, badgeID int64) (*schema.UserBadge, error)

	// ListContributionCategories retrieves all contribution categories
	ListContributionCategories(ctx context.Context) ([]*schema.ContributionCategory, error)
	// GetContributionCategory retrieves a category by id
	GetContributionCategory(ctx context.Context, id int64) (*schema.ContributionCategory, error)

	// RecordContribution appends a flame log entry stamped with the category's
	// current point value, adds the points to the user's trust score and
	// recomputes the trust level, all in one transaction. Badges whose
	// threshold the new score reaches are awarded idempotently.
	RecordContribution(ctx context.Context, input RecordContributionInput) (*ContributionResult, error)
	// GetFlameLog retrieves a user's ledger entries with categories, newest
	// first, bounded by limit when limit > 0
	GetFlameLog(ctx context.Context, userID int64, limit int) ([]*schema.FlameLogEntry, error)

	// ListProposals retrieves proposals newest-created first; activeOnly
	// filters to active proposals whose voting window contains now
	ListProposals(ctx context.Context, activeOnly bool) ([]*schema.Proposal, error)
	// GetProposal retrieves a proposal by id
	GetProposal(ctx context.Context, id int64) (*schema.Proposal, error)
	// CreateProposal creates a proposal with zeroed tallies
	CreateProposal(ctx context.Context, input CreateProposalInput) (*schema.Proposal, error)

	// CastVote records a vote and increments the matching tally in one
	// transaction. Fails with ErrProposalNotFound, ErrProposalInactive,
	// ErrVotingClosed or ErrAlreadyVoted; the duplicate check is the unique
	// (proposal_id, user_id) index, not a read-then-write.
	CastVote(ctx context.Context, input CastVoteInput) (*schema.Vote, error)
	// GetVotesByProposal retrieves all votes on a proposal
	GetVotesByProposal(ctx context.Context, proposalID int64) ([]*schema.Vote, error)

	// ListTransferRequests retrieves requests newest first, decorated with
	// Soul ID and requester; status filters when non-empty
	ListTransferRequests(ctx context.Context, status domain.TransferStatus) ([]*schema.TransferRequest, error)
	// GetTransferRequest retrieves a request by id
	GetTransferRequest(ctx context.Context, id int64) (*schema.TransferRequest, error)
	// CreateTransferRequest submits a pending transfer request
	CreateTransferRequest(ctx context.Context, input CreateTransferRequestInput) (*schema.TransferRequest, error)
	// ReviewTransferRequest performs the pending -> approved|rejected
	// transition as a conditional update; approval deactivates the source
	// Soul ID and mints a replacement for the destination wallet's user in
	// the same transaction
	ReviewTransferRequest(ctx context.Context, input ReviewTransferRequestInput) (*schema.TransferRequest, error)
}

// CreateUserInput holds the fields for registering a user
type CreateUserInput struct {
	Username      string
	PasswordHash  string
	WalletAddress string // already EIP-55 normalized by the caller
	Email         *string
	IsAdmin       bool
}

// MintSoulIDInput holds the fields for minting a Soul ID
type MintSoulIDInput struct {
	TokenID  string
	UserID   int64
	Metadata datatypes.JSON
	Network  domain.Network
}

// RecordContributionInput holds the fields for a flame log entry
type RecordContributionInput struct {
	UserID      int64
	CategoryID  int64
	Title       string
	Description string
}

// ContributionResult is the outcome of a recorded contribution
type ContributionResult struct {
	Entry         *schema.FlameLogEntry
	User          *schema.User
	AwardedBadges []*schema.UserBadge
}

// CreateProposalInput holds the fields for creating a proposal
type CreateProposalInput struct {
	Title       string
	Description string
	CreatorID   int64
	StartDate   time.Time // zero value defaults to now
	EndDate     time.Time
}

// CastVoteInput holds the fields for casting a vote
type CastVoteInput struct {
	ProposalID int64
	UserID     int64
	VoteType   bool // true = for, false = against
}

// CreateTransferRequestInput holds the fields for submitting a transfer request
type CreateTransferRequestInput struct {
	SoulIDID        int64
	FromUserID      int64
	ToWalletAddress string // already EIP-55 normalized by the caller
	Reason          string
}

// ReviewTransferRequestInput holds the fields for reviewing a transfer request
type ReviewTransferRequestInput struct {
	RequestID  int64
	Status     domain.TransferStatus // approved or rejected
	ReviewerID int64
}

// DashboardStats aggregates the admin dashboard counters
type DashboardStats struct {
	UserCount               int64          `json:"userCount"`
	ProposalCount           int64          `json:"proposalCount"`
	PendingTransferRequests int64          `json:"pendingTransferRequests"`
	RecentUsers             []*schema.User `json:"recentUsers"`
}

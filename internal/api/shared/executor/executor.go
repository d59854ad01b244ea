package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/emberdao/soulforge/internal/api/shared/dto"
	apierrors "github.com/emberdao/soulforge/internal/api/shared/errors"
	"github.com/emberdao/soulforge/internal/auth"
	"github.com/emberdao/soulforge/internal/domain"
	"github.com/emberdao/soulforge/internal/store"
	"github.com/emberdao/soulforge/internal/store/schema"
)

// EventDispatcher queues platform events for publishing. Satisfied by
// *messaging.Dispatcher.
type EventDispatcher interface {
	Dispatch(eventType domain.PlatformEventType, userID, subjectID *int64)
}

// Executor holds the business logic behind the REST handlers
type Executor interface {
	// Login authenticates a user by wallet address and password
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	// AdminLogin authenticates a back-office admin by username and password
	AdminLogin(ctx context.Context, req dto.AdminLoginRequest) (*dto.AuthResponse, error)
	// RegisterUser registers a new user with a hashed password
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*schema.User, error)
	// AdminCreateUser creates a user from the back office, optionally as admin
	AdminCreateUser(ctx context.Context, req dto.AdminCreateUserRequest) (*schema.User, error)

	// GetUserByWallet retrieves a user by wallet address
	GetUserByWallet(ctx context.Context, walletAddress string) (*schema.User, error)

	// GetActiveSoulID retrieves a user's active Soul ID
	GetActiveSoulID(ctx context.Context, userID int64) (*schema.SoulID, error)
	// MintSoulID mints a Soul ID for a user
	MintSoulID(ctx context.Context, req dto.MintSoulIDRequest) (*schema.SoulID, error)

	// ListBadges retrieves all badge definitions
	ListBadges(ctx context.Context) ([]*schema.Badge, error)
	// GetUserBadges retrieves a user's earned badges
	GetUserBadges(ctx context.Context, userID int64) ([]*schema.UserBadge, error)
	// AssignBadge grants a badge to a user
	AssignBadge(ctx context.Context, userID int64, req dto.AssignBadgeRequest) (*schema.UserBadge, error)

	// ListContributionCategories retrieves all contribution categories
	ListContributionCategories(ctx context.Context) ([]*schema.ContributionCategory, error)
	// RecordContribution appends a flame log entry and applies its points
	RecordContribution(ctx context.Context, req dto.RecordContributionRequest) (*dto.ContributionResponse, error)
	// GetFlameLog retrieves a user's contribution ledger
	GetFlameLog(ctx context.Context, userID int64, limit int) ([]*schema.FlameLogEntry, error)

	// ListProposals retrieves proposals, optionally only currently votable ones
	ListProposals(ctx context.Context, activeOnly bool) ([]*schema.Proposal, error)
	// GetProposal retrieves a proposal by id
	GetProposal(ctx context.Context, id int64) (*schema.Proposal, error)
	// CreateProposal creates a proposal
	CreateProposal(ctx context.Context, req dto.CreateProposalRequest) (*schema.Proposal, error)
	// CastVote casts a vote on a proposal
	CastVote(ctx context.Context, req dto.CastVoteRequest) (*schema.Vote, error)

	// ListTransferRequests retrieves transfer requests with an optional status filter
	ListTransferRequests(ctx context.Context, status domain.TransferStatus) ([]*schema.TransferRequest, error)
	// CreateTransferRequest submits a transfer request
	CreateTransferRequest(ctx context.Context, req dto.CreateTransferRequestRequest) (*schema.TransferRequest, error)
	// ReviewTransferRequest approves or rejects a pending transfer request
	ReviewTransferRequest(ctx context.Context, requestID int64, req dto.ReviewTransferRequestRequest, reviewer *schema.User) (*schema.TransferRequest, error)

	// GetDashboard aggregates the admin dashboard counters
	GetDashboard(ctx context.Context) (*dto.DashboardResponse, error)
	// ListUsers retrieves all users
	ListUsers(ctx context.Context) ([]*schema.User, error)
	// PromoteUser grants the admin role to a user
	PromoteUser(ctx context.Context, userID int64) (*schema.User, error)
}

type executor struct {
	store      store.Store
	tokens     *auth.Service
	dispatcher EventDispatcher
}

// NewExecutor creates the shared executor. dispatcher may be nil when event
// publishing is disabled.
func NewExecutor(store store.Store, tokens *auth.Service, dispatcher EventDispatcher) Executor {
	return &executor{store: store, tokens: tokens, dispatcher: dispatcher}
}

func (e *executor) dispatch(eventType domain.PlatformEventType, userID, subjectID *int64) {
	if e.dispatcher == nil {
		return
	}
	e.dispatcher.Dispatch(eventType, userID, subjectID)
}

func (e *executor) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := e.store.GetUserByWalletAddress(ctx, req.WalletAddress)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get user: %v", err))
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apierrors.NewUnauthorizedError("Invalid credentials")
	}

	token, err := e.tokens.IssueToken(user)
	if err != nil {
		return nil, apierrors.NewInternalError(fmt.Sprintf("Failed to issue token: %v", err))
	}
	return &dto.AuthResponse{Token: token, User: user}, nil
}

func (e *executor) AdminLogin(ctx context.Context, req dto.AdminLoginRequest) (*dto.AuthResponse, error) {
	user, err := e.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get user: %v", err))
	}
	if user == nil || !user.IsAdmin || !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apierrors.NewUnauthorizedError("Invalid admin credentials")
	}

	token, err := e.tokens.IssueToken(user)
	if err != nil {
		return nil, apierrors.NewInternalError(fmt.Sprintf("Failed to issue token: %v", err))
	}
	return &dto.AuthResponse{Token: token, User: user}, nil
}

func (e *executor) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*schema.User, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apierrors.NewInternalError(fmt.Sprintf("Failed to hash password: %v", err))
	}

	user, err := e.store.CreateUser(ctx, store.CreateUserInput{
		Username:      req.Username,
		PasswordHash:  hash,
		WalletAddress: domain.NormalizeWalletAddress(req.WalletAddress),
		Email:         req.Email,
	})
	if err != nil {
		if errors.Is(err, domain.ErrWalletAlreadyRegistered) {
			return nil, apierrors.NewConflictError("User with this wallet address already exists")
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to create user: %v", err))
	}

	e.dispatch(domain.EventTypeUserRegistered, &user.ID, nil)
	return user, nil
}

func (e *executor) AdminCreateUser(ctx context.Context, req dto.AdminCreateUserRequest) (*schema.User, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apierrors.NewInternalError(fmt.Sprintf("Failed to hash password: %v", err))
	}

	user, err := e.store.CreateUser(ctx, store.CreateUserInput{
		Username:      req.Username,
		PasswordHash:  hash,
		WalletAddress: domain.NormalizeWalletAddress(req.WalletAddress),
		Email:         req.Email,
		IsAdmin:       req.IsAdmin,
	})
	if err != nil {
		if errors.Is(err, domain.ErrWalletAlreadyRegistered) {
			return nil, apierrors.NewConflictError("User with this wallet address already exists")
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to create user: %v", err))
	}

	e.dispatch(domain.EventTypeUserRegistered, &user.ID, nil)
	return user, nil
}

func (e *executor) GetUserByWallet(ctx context.Context, walletAddress string) (*schema.User, error) {
	user, err := e.store.GetUserByWalletAddress(ctx, walletAddress)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get user: %v", err))
	}
	return user, nil
}

func (e *executor) GetActiveSoulID(ctx context.Context, userID int64) (*schema.SoulID, error) {
	soulID, err := e.store.GetActiveSoulIDByUser(ctx, userID)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get soul id: %v", err))
	}
	return soulID, nil
}

func (e *executor) MintSoulID(ctx context.Context, req dto.MintSoulIDRequest) (*schema.SoulID, error) {
	soulID, err := e.store.MintSoulID(ctx, store.MintSoulIDInput{
		TokenID:  req.TokenID,
		UserID:   req.UserID,
		Metadata: req.Metadata,
		Network:  req.Network,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, apierrors.NewNotFoundError("User not found")
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to mint soul id: %v", err))
	}

	e.dispatch(domain.EventTypeSoulIDMinted, &soulID.UserID, &soulID.ID)
	return soulID, nil
}

func (e *executor) ListBadges(ctx context.Context) ([]*schema.Badge, error) {
	badges, err := e.store.ListBadges(ctx)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list badges: %v", err))
	}
	return badges, nil
}

func (e *executor) GetUserBadges(ctx context.Context, userID int64) ([]*schema.UserBadge, error) {
	badges, err := e.store.GetUserBadges(ctx, userID)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get user badges: %v", err))
	}
	return badges, nil
}

func (e *executor) AssignBadge(ctx context.Context, userID int64, req dto.AssignBadgeRequest) (*schema.UserBadge, error) {
	userBadge, err := e.store.AssignBadge(ctx, userID, req.BadgeID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return nil, apierrors.NewNotFoundError("User not found")
		case errors.Is(err, domain.ErrBadgeNotFound):
			return nil, apierrors.NewNotFoundError("Badge not found")
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to assign badge: %v", err))
	}

	e.dispatch(domain.EventTypeBadgeEarned, &userID, &userBadge.BadgeID)
	return userBadge, nil
}

func (e *executor) ListContributionCategories(ctx context.Context) ([]*schema.ContributionCategory, error) {
	categories, err := e.store.ListContributionCategories(ctx)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list categories: %v", err))
	}
	return categories, nil
}

func (e *executor) RecordContribution(ctx context.Context, req dto.RecordContributionRequest) (*dto.ContributionResponse, error) {
	result, err := e.store.RecordContribution(ctx, store.RecordContributionInput{
		UserID:      req.UserID,
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return nil, apierrors.NewNotFoundError("User not found")
		case errors.Is(err, domain.ErrCategoryNotFound):
			return nil, apierrors.NewNotFoundError("Contribution category not found")
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to record contribution: %v", err))
	}

	e.dispatch(domain.EventTypeContributionRecorded, &result.User.ID, &result.Entry.ID)
	for _, awarded := range result.AwardedBadges {
		e.dispatch(domain.EventTypeBadgeEarned, &result.User.ID, &awarded.BadgeID)
	}

	return &dto.ContributionResponse{
		Entry:         result.Entry,
		User:          result.User,
		AwardedBadges: result.AwardedBadges,
	}, nil
}

func (e *executor) GetFlameLog(ctx context.Context, userID int64, limit int) ([]*schema.FlameLogEntry, error) {
	entries, err := e.store.GetFlameLog(ctx, userID, limit)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get flame log: %v", err))
	}
	return entries, nil
}

func (e *executor) ListProposals(ctx context.Context, activeOnly bool) ([]*schema.Proposal, error) {
	proposals, err := e.store.ListProposals(ctx, activeOnly)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list proposals: %v", err))
	}
	return proposals, nil
}

func (e *executor) GetProposal(ctx context.Context, id int64) (*schema.Proposal, error) {
	proposal, err := e.store.GetProposal(ctx, id)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get proposal: %v", err))
	}
	return proposal, nil
}

func (e *executor) CreateProposal(ctx context.Context, req dto.CreateProposalRequest) (*schema.Proposal, error) {
	proposal, err := e.store.CreateProposal(ctx, store.CreateProposalInput{
		Title:       req.Title,
		Description: req.Description,
		CreatorID:   req.CreatorID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, apierrors.NewNotFoundError("Creator not found")
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to create proposal: %v", err))
	}

	e.dispatch(domain.EventTypeProposalCreated, &proposal.CreatorID, &proposal.ID)
	return proposal, nil
}

func (e *executor) CastVote(ctx context.Context, req dto.CastVoteRequest) (*schema.Vote, error) {
	vote, err := e.store.CastVote(ctx, store.CastVoteInput{
		ProposalID: req.ProposalID,
		UserID:     req.UserID,
		VoteType:   req.VoteType,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProposalNotFound):
			return nil, apierrors.NewNotFoundError("Proposal not found")
		case errors.Is(err, domain.ErrProposalInactive):
			return nil, apierrors.NewInvalidStateError("Proposal is not active")
		case errors.Is(err, domain.ErrVotingClosed):
			return nil, apierrors.NewInvalidStateError("Proposal voting period is not active")
		case errors.Is(err, domain.ErrAlreadyVoted):
			return nil, apierrors.NewConflictError("User has already voted on this proposal")
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to cast vote: %v", err))
	}

	e.dispatch(domain.EventTypeVoteCast, &vote.UserID, &vote.ProposalID)
	return vote, nil
}

func (e *executor) ListTransferRequests(ctx context.Context, status domain.TransferStatus) ([]*schema.TransferRequest, error) {
	requests, err := e.store.ListTransferRequests(ctx, status)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list transfer requests: %v", err))
	}
	return requests, nil
}

func (e *executor) CreateTransferRequest(ctx context.Context, req dto.CreateTransferRequestRequest) (*schema.TransferRequest, error) {
	request, err := e.store.CreateTransferRequest(ctx, store.CreateTransferRequestInput{
		SoulIDID:        req.NFTID,
		FromUserID:      req.FromUserID,
		ToWalletAddress: domain.NormalizeWalletAddress(req.ToWalletAddress),
		Reason:          req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSoulIDNotFound):
			return nil, apierrors.NewNotFoundError("Soul ID not found")
		case errors.Is(err, domain.ErrNotOwner):
			return nil, apierrors.NewForbiddenError("This Soul ID does not belong to the specified user")
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to create transfer request: %v", err))
	}

	e.dispatch(domain.EventTypeTransferSubmitted, &request.FromUserID, &request.ID)
	return request, nil
}

func (e *executor) ReviewTransferRequest(ctx context.Context, requestID int64, req dto.ReviewTransferRequestRequest, reviewer *schema.User) (*schema.TransferRequest, error) {
	if reviewer == nil || !reviewer.IsAdmin {
		return nil, apierrors.NewForbiddenError("Only admins can approve/reject transfer requests")
	}

	request, err := e.store.ReviewTransferRequest(ctx, store.ReviewTransferRequestInput{
		RequestID:  requestID,
		Status:     req.Status,
		ReviewerID: reviewer.ID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTransferRequestNotFound):
			return nil, apierrors.NewNotFoundError("Transfer request not found")
		case errors.Is(err, domain.ErrRequestNotPending):
			return nil, apierrors.NewInvalidStateError("Transfer request has already been reviewed")
		case errors.Is(err, domain.ErrDestinationNotRegistered):
			return nil, apierrors.NewInvalidStateError("Destination wallet is not registered")
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to review transfer request: %v", err))
	}

	e.dispatch(domain.EventTypeTransferReviewed, &reviewer.ID, &request.ID)
	return request, nil
}

func (e *executor) GetDashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	stats, err := e.store.GetDashboardStats(ctx)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get dashboard stats: %v", err))
	}
	return &dto.DashboardResponse{Stats: stats}, nil
}

func (e *executor) ListUsers(ctx context.Context) ([]*schema.User, error) {
	users, err := e.store.ListUsers(ctx)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list users: %v", err))
	}
	return users, nil
}

func (e *executor) PromoteUser(ctx context.Context, userID int64) (*schema.User, error) {
	user, err := e.store.PromoteUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, apierrors.NewNotFoundError("User not found")
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to promote user: %v", err))
	}

	e.dispatch(domain.EventTypeUserPromoted, &user.ID, nil)
	return user, nil
}

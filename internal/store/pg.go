package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emberdao/soulforge/internal/domain"
	"github.com/emberdao/soulforge/internal/store/schema"
)

type pgStore struct {
	db        *gorm.DB
	levelStep int
}

// NewPGStore creates a new PostgreSQL store instance. levelStep is the number
// of trust points per trust level; zero selects the default.
// The gorm connection must be opened with TranslateError enabled so unique
// violations surface as gorm.ErrDuplicatedKey.
func NewPGStore(db *gorm.DB, levelStep int) Store {
	if levelStep <= 0 {
		levelStep = domain.DefaultLevelStep
	}
	return &pgStore{db: db, levelStep: levelStep}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. It accesses the underlying *sql.DB and sets the pool
// configuration. Zero values select defaults:
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings
// into safe values.
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// Ping checks datastore reachability
func (s *pgStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// GetUser retrieves a user by id
func (s *pgStore) GetUser(ctx context.Context, id int64) (*schema.User, error) {
	var user schema.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetUserByWalletAddress retrieves a user by normalized wallet address
func (s *pgStore) GetUserByWalletAddress(ctx context.Context, walletAddress string) (*schema.User, error) {
	var user schema.User
	err := s.db.WithContext(ctx).
		Where("wallet_address = ?", domain.NormalizeWalletAddress(walletAddress)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by wallet address: %w", err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username
func (s *pgStore) GetUserByUsername(ctx context.Context, username string) (*schema.User, error) {
	var user schema.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

// CreateUser registers a user
func (s *pgStore) CreateUser(ctx context.Context, input CreateUserInput) (*schema.User, error) {
	user := schema.User{
		Username:      input.Username,
		PasswordHash:  input.PasswordHash,
		WalletAddress: domain.NormalizeWalletAddress(input.WalletAddress),
		Email:         input.Email,
		TrustLevel:    domain.TrustLevel(0, s.levelStep),
		IsAdmin:       input.IsAdmin,
		CreatedAt:     time.Now().UTC(),
	}

	err := s.db.WithContext(ctx).Create(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrWalletAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// PromoteUser sets the admin flag on a user
func (s *pgStore) PromoteUser(ctx context.Context, id int64) (*schema.User, error) {
	var user schema.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		if user.IsAdmin {
			return nil
		}

		if err := tx.Model(&schema.User{}).Where("id = ?", id).
			UpdateColumn("is_admin", true).Error; err != nil {
			return fmt.Errorf("failed to promote user: %w", err)
		}
		user.IsAdmin = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers retrieves all users ordered by creation time, oldest first
func (s *pgStore) ListUsers(ctx context.Context) ([]*schema.User, error) {
	var users []*schema.User
	err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetDashboardStats aggregates the admin dashboard counters
func (s *pgStore) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats

	if err := s.db.WithContext(ctx).Model(&schema.User{}).Count(&stats.UserCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&schema.Proposal{}).Count(&stats.ProposalCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count proposals: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&schema.TransferRequest{}).
		Where("status = ?", domain.TransferStatusPending).
		Count(&stats.PendingTransferRequests).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending transfer requests: %w", err)
	}
	if err := s.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(5).
		Find(&stats.RecentUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to list recent users: %w", err)
	}

	return &stats, nil
}

// GetSoulID retrieves a Soul ID by internal id
func (s *pgStore) GetSoulID(ctx context.Context, id int64) (*schema.SoulID, error) {
	var soulID schema.SoulID
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&soulID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get soul id: %w", err)
	}
	return &soulID, nil
}

// GetActiveSoulIDByUser retrieves a user's active Soul ID
func (s *pgStore) GetActiveSoulIDByUser(ctx context.Context, userID int64) (*schema.SoulID, error) {
	var soulID schema.SoulID
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("minted_at DESC, id DESC").
		First(&soulID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get soul id for user: %w", err)
	}
	return &soulID, nil
}

// MintSoulID creates a Soul ID record for a user
func (s *pgStore) MintSoulID(ctx context.Context, input MintSoulIDInput) (*schema.SoulID, error) {
	user, err := s.GetUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	soulID := schema.SoulID{
		TokenID:  input.TokenID,
		UserID:   input.UserID,
		Metadata: input.Metadata,
		Network:  input.Network,
		IsActive: true,
		MintedAt: time.Now().UTC(),
	}
	if soulID.TokenID == "" {
		soulID.TokenID = ulid.Make().String()
	}

	if err := s.db.WithContext(ctx).Create(&soulID).Error; err != nil {
		return nil, fmt.Errorf("failed to mint soul id: %w", err)
	}
	return &soulID, nil
}

// ListBadges retrieves all badge definitions
func (s *pgStore) ListBadges(ctx context.Context) ([]*schema.Badge, error) {
	var badges []*schema.Badge
	err := s.db.WithContext(ctx).Order("required_points ASC, id ASC").Find(&badges).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	return badges, nil
}

// GetUserBadges retrieves a user's earned badges with earn timestamps
func (s *pgStore) GetUserBadges(ctx context.Context, userID int64) ([]*schema.UserBadge, error) {
	var userBadges []*schema.UserBadge
	err := s.db.WithContext(ctx).
		Preload("Badge").
		Where("user_id = ?", userID).
		Order("earned_at ASC, id ASC").
		Find(&userBadges).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user badges: %w", err)
	}
	return userBadges, nil
}

// AssignBadge grants a badge to a user. A repeat grant is a no-op returning
// the existing record; the unique (user_id, badge_id) index makes this safe
// under concurrent requests.
func (s *pgStore) AssignBadge(ctx context.Context, userID, badgeID int64) (*schema.UserBadge, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	var badge schema.Badge
	if err := s.db.WithContext(ctx).Where("id = ?", badgeID).First(&badge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBadgeNotFound
		}
		return nil, fmt.Errorf("failed to get badge: %w", err)
	}

	userBadge := schema.UserBadge{
		UserID:   userID,
		BadgeID:  badgeID,
		EarnedAt: time.Now().UTC(),
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&userBadge).Error
	if err != nil {
		return nil, fmt.Errorf("failed to assign badge: %w", err)
	}

	// On conflict the insert was skipped; fetch the original grant.
	if err := s.db.WithContext(ctx).
		Preload("Badge").
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		First(&userBadge).Error; err != nil {
		return nil, fmt.Errorf("failed to load assigned badge: %w", err)
	}
	return &userBadge, nil
}

// ListContributionCategories retrieves all contribution categories
func (s *pgStore) ListContributionCategories(ctx context.Context) ([]*schema.ContributionCategory, error) {
	var categories []*schema.ContributionCategory
	err := s.db.WithContext(ctx).Order("id ASC").Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list contribution categories: %w", err)
	}
	return categories, nil
}

// GetContributionCategory retrieves a category by id
func (s *pgStore) GetContributionCategory(ctx context.Context, id int64) (*schema.ContributionCategory, error) {
	var category schema.ContributionCategory
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get contribution category: %w", err)
	}
	return &category, nil
}

// RecordContribution appends a flame log entry and updates the owning user's
// trust score and level in the same transaction. The score increment and the
// level recompute are SQL expressions over the stored score, so concurrent
// contributions cannot lose updates.
func (s *pgStore) RecordContribution(ctx context.Context, input RecordContributionInput) (*ContributionResult, error) {
	var result ContributionResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user schema.User
		if err := tx.Where("id = ?", input.UserID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		var category schema.ContributionCategory
		if err := tx.Where("id = ?", input.CategoryID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCategoryNotFound
			}
			return fmt.Errorf("failed to get contribution category: %w", err)
		}

		entry := schema.FlameLogEntry{
			UserID:       input.UserID,
			CategoryID:   input.CategoryID,
			Title:        input.Title,
			Description:  input.Description,
			PointsEarned: category.PointValue,
			CreatedAt:    time.Now().UTC(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to create flame log entry: %w", err)
		}

		if err := tx.Model(&schema.User{}).Where("id = ?", input.UserID).
			Updates(map[string]interface{}{
				"trust_score": gorm.Expr("trust_score + ?", category.PointValue),
				"trust_level": gorm.Expr("(trust_score + ?) / ? + 1", category.PointValue, s.levelStep),
			}).Error; err != nil {
			return fmt.Errorf("failed to update trust score: %w", err)
		}

		if err := tx.Where("id = ?", input.UserID).First(&user).Error; err != nil {
			return fmt.Errorf("failed to reload user: %w", err)
		}

		awarded, err := awardEarnedBadges(tx, &user)
		if err != nil {
			return err
		}

		entry.Category = &category
		result.Entry = &entry
		result.User = &user
		result.AwardedBadges = awarded
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// awardEarnedBadges grants every badge whose point threshold the user's score
// has reached and that the user does not already hold. Must run inside the
// caller's transaction.
func awardEarnedBadges(tx *gorm.DB, user *schema.User) ([]*schema.UserBadge, error) {
	var eligible []*schema.Badge
	if err := tx.Where("required_points <= ?", user.TrustScore).
		Order("required_points ASC").
		Find(&eligible).Error; err != nil {
		return nil, fmt.Errorf("failed to list eligible badges: %w", err)
	}
	if len(eligible) == 0 {
		return nil, nil
	}

	var heldIDs []int64
	if err := tx.Model(&schema.UserBadge{}).
		Where("user_id = ?", user.ID).
		Pluck("badge_id", &heldIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to list held badges: %w", err)
	}
	held := make(map[int64]bool, len(heldIDs))
	for _, id := range heldIDs {
		held[id] = true
	}

	now := time.Now().UTC()
	var awarded []*schema.UserBadge
	for _, badge := range eligible {
		if held[badge.ID] {
			continue
		}
		userBadge := schema.UserBadge{
			UserID:   user.ID,
			BadgeID:  badge.ID,
			EarnedAt: now,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&userBadge)
		if res.Error != nil {
			return nil, fmt.Errorf("failed to award badge: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			continue
		}
		userBadge.Badge = badge
		awarded = append(awarded, &userBadge)
	}

	return awarded, nil
}

// GetFlameLog retrieves a user's ledger entries with categories, newest first
func (s *pgStore) GetFlameLog(ctx context.Context, userID int64, limit int) ([]*schema.FlameLogEntry, error) {
	query := s.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var entries []*schema.FlameLogEntry
	if err := query.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to get flame log: %w", err)
	}
	return entries, nil
}

// ListProposals retrieves proposals newest-created first
func (s *pgStore) ListProposals(ctx context.Context, activeOnly bool) ([]*schema.Proposal, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if activeOnly {
		now := time.Now().UTC()
		query = query.Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, now, now)
	}

	var proposals []*schema.Proposal
	if err := query.Find(&proposals).Error; err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	return proposals, nil
}

// GetProposal retrieves a proposal by id
func (s *pgStore) GetProposal(ctx context.Context, id int64) (*schema.Proposal, error) {
	var proposal schema.Proposal
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&proposal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}
	return &proposal, nil
}

// CreateProposal creates a proposal with zeroed tallies
func (s *pgStore) CreateProposal(ctx context.Context, input CreateProposalInput) (*schema.Proposal, error) {
	creator, err := s.GetUser(ctx, input.CreatorID)
	if err != nil {
		return nil, err
	}
	if creator == nil {
		return nil, domain.ErrUserNotFound
	}

	now := time.Now().UTC()
	proposal := schema.Proposal{
		Title:       input.Title,
		Description: input.Description,
		CreatorID:   input.CreatorID,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		IsActive:    true,
		CreatedAt:   now,
	}
	if proposal.StartDate.IsZero() {
		proposal.StartDate = now
	}

	if err := s.db.WithContext(ctx).Create(&proposal).Error; err != nil {
		return nil, fmt.Errorf("failed to create proposal: %w", err)
	}
	return &proposal, nil
}

// CastVote records a vote and increments the matching tally in one
// transaction. The unique (proposal_id, user_id) index enforces the one-vote
// invariant; two racing requests cannot both commit.
func (s *pgStore) CastVote(ctx context.Context, input CastVoteInput) (*schema.Vote, error) {
	var vote schema.Vote

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var proposal schema.Proposal
		if err := tx.Where("id = ?", input.ProposalID).First(&proposal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrProposalNotFound
			}
			return fmt.Errorf("failed to get proposal: %w", err)
		}

		if !proposal.IsActive {
			return domain.ErrProposalInactive
		}

		now := time.Now().UTC()
		if now.Before(proposal.StartDate) || now.After(proposal.EndDate) {
			return domain.ErrVotingClosed
		}

		vote = schema.Vote{
			ProposalID: input.ProposalID,
			UserID:     input.UserID,
			VoteType:   input.VoteType,
			VotedAt:    now,
		}
		if err := tx.Create(&vote).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrAlreadyVoted
			}
			return fmt.Errorf("failed to create vote: %w", err)
		}

		column := "votes_against"
		if input.VoteType {
			column = "votes_for"
		}
		if err := tx.Model(&schema.Proposal{}).Where("id = ?", input.ProposalID).
			UpdateColumn(column, gorm.Expr(column+" + 1")).Error; err != nil {
			return fmt.Errorf("failed to update vote tally: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &vote, nil
}

// GetVotesByProposal retrieves all votes on a proposal
func (s *pgStore) GetVotesByProposal(ctx context.Context, proposalID int64) ([]*schema.Vote, error) {
	var votes []*schema.Vote
	err := s.db.WithContext(ctx).
		Where("proposal_id = ?", proposalID).
		Order("voted_at ASC, id ASC").
		Find(&votes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get votes: %w", err)
	}
	return votes, nil
}

// ListTransferRequests retrieves requests newest first, decorated with the
// Soul ID and requesting user
func (s *pgStore) ListTransferRequests(ctx context.Context, status domain.TransferStatus) ([]*schema.TransferRequest, error) {
	query := s.db.WithContext(ctx).
		Preload("SoulID").
		Preload("Requester").
		Order("requested_at DESC, id DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []*schema.TransferRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to list transfer requests: %w", err)
	}
	return requests, nil
}

// GetTransferRequest retrieves a request by id
func (s *pgStore) GetTransferRequest(ctx context.Context, id int64) (*schema.TransferRequest, error) {
	var request schema.TransferRequest
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get transfer request: %w", err)
	}
	return &request, nil
}

// CreateTransferRequest submits a pending transfer request
func (s *pgStore) CreateTransferRequest(ctx context.Context, input CreateTransferRequestInput) (*schema.TransferRequest, error) {
	soulID, err := s.GetSoulID(ctx, input.SoulIDID)
	if err != nil {
		return nil, err
	}
	if soulID == nil {
		return nil, domain.ErrSoulIDNotFound
	}
	if soulID.UserID != input.FromUserID {
		return nil, domain.ErrNotOwner
	}

	request := schema.TransferRequest{
		SoulIDID:        input.SoulIDID,
		FromUserID:      input.FromUserID,
		ToWalletAddress: domain.NormalizeWalletAddress(input.ToWalletAddress),
		Reason:          input.Reason,
		Status:          domain.TransferStatusPending,
		RequestedAt:     time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&request).Error; err != nil {
		return nil, fmt.Errorf("failed to create transfer request: %w", err)
	}
	return &request, nil
}

// ReviewTransferRequest performs the pending -> approved|rejected transition.
// The conditional update is the re-review guard: zero rows affected means the
// request is gone or already terminal, and the whole transaction rolls back.
func (s *pgStore) ReviewTransferRequest(ctx context.Context, input ReviewTransferRequestInput) (*schema.TransferRequest, error) {
	if !domain.IsTerminalTransferStatus(input.Status) {
		return nil, fmt.Errorf("invalid review status: %s", input.Status)
	}

	var request schema.TransferRequest

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		res := tx.Model(&schema.TransferRequest{}).
			Where("id = ? AND status = ?", input.RequestID, domain.TransferStatusPending).
			Updates(map[string]interface{}{
				"status":      input.Status,
				"reviewed_by": input.ReviewerID,
				"reviewed_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update transfer request: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var existing schema.TransferRequest
			if err := tx.Where("id = ?", input.RequestID).First(&existing).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ErrTransferRequestNotFound
				}
				return fmt.Errorf("failed to get transfer request: %w", err)
			}
			return domain.ErrRequestNotPending
		}

		if err := tx.Where("id = ?", input.RequestID).First(&request).Error; err != nil {
			return fmt.Errorf("failed to reload transfer request: %w", err)
		}

		if input.Status == domain.TransferStatusApproved {
			return completeApprovedTransfer(tx, &request, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).
		Preload("SoulID").
		Preload("Requester").
		Where("id = ?", request.ID).
		First(&request).Error; err != nil {
		return nil, fmt.Errorf("failed to load reviewed transfer request: %w", err)
	}
	return &request, nil
}

// completeApprovedTransfer deactivates the source Soul ID and mints a
// replacement bound to the destination wallet's user. The destination must be
// a registered user; otherwise the transaction rolls back and the request
// stays pending.
func completeApprovedTransfer(tx *gorm.DB, request *schema.TransferRequest, now time.Time) error {
	var source schema.SoulID
	if err := tx.Where("id = ?", request.SoulIDID).First(&source).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrSoulIDNotFound
		}
		return fmt.Errorf("failed to get soul id: %w", err)
	}

	var destination schema.User
	if err := tx.Where("wallet_address = ?", request.ToWalletAddress).First(&destination).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrDestinationNotRegistered
		}
		return fmt.Errorf("failed to get destination user: %w", err)
	}

	if err := tx.Model(&schema.SoulID{}).Where("id = ?", source.ID).
		UpdateColumn("is_active", false).Error; err != nil {
		return fmt.Errorf("failed to deactivate soul id: %w", err)
	}

	replacement := schema.SoulID{
		TokenID:  ulid.Make().String(),
		UserID:   destination.ID,
		Metadata: source.Metadata,
		Network:  source.Network,
		IsActive: true,
		MintedAt: now,
	}
	if err := tx.Create(&replacement).Error; err != nil {
		return fmt.Errorf("failed to mint replacement soul id: %w", err)
	}

	return nil
}

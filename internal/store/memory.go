package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/emberdao/soulforge/internal/domain"
	"github.com/emberdao/soulforge/internal/store/schema"
)

// memStore is an in-memory Store used by unit tests. It mirrors the error
// semantics of the postgres implementation, including the uniqueness
// guarantees the database enforces with indexes.
type memStore struct {
	mu        sync.Mutex
	levelStep int

	users      map[int64]*schema.User
	soulIDs    map[int64]*schema.SoulID
	badges     map[int64]*schema.Badge
	userBadges map[int64]*schema.UserBadge
	categories map[int64]*schema.ContributionCategory
	flameLog   map[int64]*schema.FlameLogEntry
	proposals  map[int64]*schema.Proposal
	votes      map[int64]*schema.Vote
	transfers  map[int64]*schema.TransferRequest

	nextID map[string]int64
}

// NewMemoryStore creates an empty in-memory store. levelStep is the number of
// trust points per trust level; zero selects the default.
func NewMemoryStore(levelStep int) Store {
	if levelStep <= 0 {
		levelStep = domain.DefaultLevelStep
	}
	return &memStore{
		levelStep:  levelStep,
		users:      map[int64]*schema.User{},
		soulIDs:    map[int64]*schema.SoulID{},
		badges:     map[int64]*schema.Badge{},
		userBadges: map[int64]*schema.UserBadge{},
		categories: map[int64]*schema.ContributionCategory{},
		flameLog:   map[int64]*schema.FlameLogEntry{},
		proposals:  map[int64]*schema.Proposal{},
		votes:      map[int64]*schema.Vote{},
		transfers:  map[int64]*schema.TransferRequest{},
		nextID:     map[string]int64{},
	}
}

func (s *memStore) next(table string) int64 {
	s.nextID[table]++
	return s.nextID[table]
}

func (s *memStore) Ping(_ context.Context) error {
	return nil
}

func (s *memStore) SeedReferenceData(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, seed := range seedCategories {
		var existing *schema.ContributionCategory
		for _, c := range s.categories {
			if c.Name == seed.Name {
				existing = c
				break
			}
		}
		if existing != nil {
			existing.Description = seed.Description
			existing.PointValue = seed.PointValue
			continue
		}
		category := seed
		category.ID = s.next("contribution_categories")
		s.categories[category.ID] = &category
	}

	for _, seed := range seedBadges {
		var existing *schema.Badge
		for _, b := range s.badges {
			if b.Name == seed.Name {
				existing = b
				break
			}
		}
		if existing != nil {
			existing.Description = seed.Description
			existing.Icon = seed.Icon
			existing.RequiredPoints = seed.RequiredPoints
			existing.Category = seed.Category
			continue
		}
		badge := seed
		badge.ID = s.next("badges")
		s.badges[badge.ID] = &badge
	}

	return nil
}

func (s *memStore) GetUser(_ context.Context, id int64) (*schema.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (s *memStore) GetUserByWalletAddress(_ context.Context, walletAddress string) (*schema.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	normalized := domain.NormalizeWalletAddress(walletAddress)
	for _, user := range s.users {
		if user.WalletAddress == normalized {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memStore) GetUserByUsername(_ context.Context, username string) (*schema.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memStore) CreateUser(_ context.Context, input CreateUserInput) (*schema.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := domain.NormalizeWalletAddress(input.WalletAddress)
	for _, user := range s.users {
		if user.WalletAddress == normalized || user.Username == input.Username {
			return nil, domain.ErrWalletAlreadyRegistered
		}
	}

	user := &schema.User{
		ID:            s.next("users"),
		Username:      input.Username,
		PasswordHash:  input.PasswordHash,
		WalletAddress: normalized,
		Email:         input.Email,
		TrustLevel:    domain.TrustLevel(0, s.levelStep),
		IsAdmin:       input.IsAdmin,
		CreatedAt:     time.Now().UTC(),
	}
	s.users[user.ID] = user
	copied := *user
	return &copied, nil
}

func (s *memStore) PromoteUser(_ context.Context, id int64) (*schema.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.IsAdmin = true
	copied := *user
	return &copied, nil
}

func (s *memStore) ListUsers(_ context.Context) ([]*schema.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]*schema.User, 0, len(s.users))
	for _, user := range s.users {
		copied := *user
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (s *memStore) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &DashboardStats{
		UserCount:     int64(len(s.users)),
		ProposalCount: int64(len(s.proposals)),
	}
	for _, request := range s.transfers {
		if request.Status == domain.TransferStatusPending {
			stats.PendingTransferRequests++
		}
	}

	// newest first
	for i := len(users) - 1; i >= 0 && len(stats.RecentUsers) < 5; i-- {
		stats.RecentUsers = append(stats.RecentUsers, users[i])
	}
	return stats, nil
}

func (s *memStore) GetSoulID(_ context.Context, id int64) (*schema.SoulID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	soulID, ok := s.soulIDs[id]
	if !ok {
		return nil, nil
	}
	copied := *soulID
	return &copied, nil
}

func (s *memStore) GetActiveSoulIDByUser(_ context.Context, userID int64) (*schema.SoulID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *schema.SoulID
	for _, soulID := range s.soulIDs {
		if soulID.UserID != userID || !soulID.IsActive {
			continue
		}
		if latest == nil || soulID.MintedAt.After(latest.MintedAt) ||
			(soulID.MintedAt.Equal(latest.MintedAt) && soulID.ID > latest.ID) {
			latest = soulID
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (s *memStore) MintSoulID(_ context.Context, input MintSoulIDInput) (*schema.SoulID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[input.UserID]; !ok {
		return nil, domain.ErrUserNotFound
	}

	soulID := &schema.SoulID{
		ID:       s.next("soul_ids"),
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
	s.soulIDs[soulID.ID] = soulID
	copied := *soulID
	return &copied, nil
}

func (s *memStore) ListBadges(_ context.Context) ([]*schema.Badge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	badges := make([]*schema.Badge, 0, len(s.badges))
	for _, badge := range s.badges {
		copied := *badge
		badges = append(badges, &copied)
	}
	sort.Slice(badges, func(i, j int) bool {
		if badges[i].RequiredPoints == badges[j].RequiredPoints {
			return badges[i].ID < badges[j].ID
		}
		return badges[i].RequiredPoints < badges[j].RequiredPoints
	})
	return badges, nil
}

func (s *memStore) GetUserBadges(_ context.Context, userID int64) ([]*schema.UserBadge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var userBadges []*schema.UserBadge
	for _, userBadge := range s.userBadges {
		if userBadge.UserID != userID {
			continue
		}
		copied := *userBadge
		if badge, ok := s.badges[copied.BadgeID]; ok {
			badgeCopy := *badge
			copied.Badge = &badgeCopy
		}
		userBadges = append(userBadges, &copied)
	}
	sort.Slice(userBadges, func(i, j int) bool {
		if userBadges[i].EarnedAt.Equal(userBadges[j].EarnedAt) {
			return userBadges[i].ID < userBadges[j].ID
		}
		return userBadges[i].EarnedAt.Before(userBadges[j].EarnedAt)
	})
	return userBadges, nil
}

func (s *memStore) AssignBadge(_ context.Context, userID, badgeID int64) (*schema.UserBadge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	badge, ok := s.badges[badgeID]
	if !ok {
		return nil, domain.ErrBadgeNotFound
	}

	for _, existing := range s.userBadges {
		if existing.UserID == userID && existing.BadgeID == badgeID {
			copied := *existing
			badgeCopy := *badge
			copied.Badge = &badgeCopy
			return &copied, nil
		}
	}

	userBadge := &schema.UserBadge{
		ID:       s.next("user_badges"),
		UserID:   userID,
		BadgeID:  badgeID,
		EarnedAt: time.Now().UTC(),
	}
	s.userBadges[userBadge.ID] = userBadge

	copied := *userBadge
	badgeCopy := *badge
	copied.Badge = &badgeCopy
	return &copied, nil
}

func (s *memStore) ListContributionCategories(_ context.Context) ([]*schema.ContributionCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	categories := make([]*schema.ContributionCategory, 0, len(s.categories))
	for _, category := range s.categories {
		copied := *category
		categories = append(categories, &copied)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

func (s *memStore) GetContributionCategory(_ context.Context, id int64) (*schema.ContributionCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	category, ok := s.categories[id]
	if !ok {
		return nil, nil
	}
	copied := *category
	return &copied, nil
}

func (s *memStore) RecordContribution(_ context.Context, input RecordContributionInput) (*ContributionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[input.UserID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	category, ok := s.categories[input.CategoryID]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}

	now := time.Now().UTC()
	entry := &schema.FlameLogEntry{
		ID:           s.next("flame_log"),
		UserID:       input.UserID,
		CategoryID:   input.CategoryID,
		Title:        input.Title,
		Description:  input.Description,
		PointsEarned: category.PointValue,
		CreatedAt:    now,
	}
	s.flameLog[entry.ID] = entry

	user.TrustScore += category.PointValue
	user.TrustLevel = domain.TrustLevel(user.TrustScore, s.levelStep)

	var awarded []*schema.UserBadge
	for _, badge := range s.badges {
		if badge.RequiredPoints > user.TrustScore {
			continue
		}
		held := false
		for _, existing := range s.userBadges {
			if existing.UserID == user.ID && existing.BadgeID == badge.ID {
				held = true
				break
			}
		}
		if held {
			continue
		}
		userBadge := &schema.UserBadge{
			ID:       s.next("user_badges"),
			UserID:   user.ID,
			BadgeID:  badge.ID,
			EarnedAt: now,
		}
		s.userBadges[userBadge.ID] = userBadge
		copied := *userBadge
		badgeCopy := *badge
		copied.Badge = &badgeCopy
		awarded = append(awarded, &copied)
	}
	sort.Slice(awarded, func(i, j int) bool {
		return awarded[i].Badge.RequiredPoints < awarded[j].Badge.RequiredPoints
	})

	entryCopy := *entry
	categoryCopy := *category
	entryCopy.Category = &categoryCopy
	userCopy := *user
	return &ContributionResult{
		Entry:         &entryCopy,
		User:          &userCopy,
		AwardedBadges: awarded,
	}, nil
}

func (s *memStore) GetFlameLog(_ context.Context, userID int64, limit int) ([]*schema.FlameLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var entries []*schema.FlameLogEntry
	for _, entry := range s.flameLog {
		if entry.UserID != userID {
			continue
		}
		copied := *entry
		if category, ok := s.categories[copied.CategoryID]; ok {
			categoryCopy := *category
			copied.Category = &categoryCopy
		}
		entries = append(entries, &copied)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].ID > entries[j].ID
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *memStore) ListProposals(_ context.Context, activeOnly bool) ([]*schema.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	var proposals []*schema.Proposal
	for _, proposal := range s.proposals {
		if activeOnly {
			if !proposal.IsActive || now.Before(proposal.StartDate) || now.After(proposal.EndDate) {
				continue
			}
		}
		copied := *proposal
		proposals = append(proposals, &copied)
	}
	sort.Slice(proposals, func(i, j int) bool {
		if proposals[i].CreatedAt.Equal(proposals[j].CreatedAt) {
			return proposals[i].ID > proposals[j].ID
		}
		return proposals[i].CreatedAt.After(proposals[j].CreatedAt)
	})
	return proposals, nil
}

func (s *memStore) GetProposal(_ context.Context, id int64) (*schema.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	proposal, ok := s.proposals[id]
	if !ok {
		return nil, nil
	}
	copied := *proposal
	return &copied, nil
}

func (s *memStore) CreateProposal(_ context.Context, input CreateProposalInput) (*schema.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[input.CreatorID]; !ok {
		return nil, domain.ErrUserNotFound
	}

	now := time.Now().UTC()
	proposal := &schema.Proposal{
		ID:          s.next("proposals"),
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
	s.proposals[proposal.ID] = proposal
	copied := *proposal
	return &copied, nil
}

func (s *memStore) CastVote(_ context.Context, input CastVoteInput) (*schema.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proposal, ok := s.proposals[input.ProposalID]
	if !ok {
		return nil, domain.ErrProposalNotFound
	}
	if !proposal.IsActive {
		return nil, domain.ErrProposalInactive
	}
	now := time.Now().UTC()
	if now.Before(proposal.StartDate) || now.After(proposal.EndDate) {
		return nil, domain.ErrVotingClosed
	}
	for _, vote := range s.votes {
		if vote.ProposalID == input.ProposalID && vote.UserID == input.UserID {
			return nil, domain.ErrAlreadyVoted
		}
	}

	vote := &schema.Vote{
		ID:         s.next("votes"),
		ProposalID: input.ProposalID,
		UserID:     input.UserID,
		VoteType:   input.VoteType,
		VotedAt:    now,
	}
	s.votes[vote.ID] = vote
	if vote.VoteType {
		proposal.VotesFor++
	} else {
		proposal.VotesAgainst++
	}
	copied := *vote
	return &copied, nil
}

func (s *memStore) GetVotesByProposal(_ context.Context, proposalID int64) ([]*schema.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var votes []*schema.Vote
	for _, vote := range s.votes {
		if vote.ProposalID != proposalID {
			continue
		}
		copied := *vote
		votes = append(votes, &copied)
	}
	sort.Slice(votes, func(i, j int) bool {
		if votes[i].VotedAt.Equal(votes[j].VotedAt) {
			return votes[i].ID < votes[j].ID
		}
		return votes[i].VotedAt.Before(votes[j].VotedAt)
	})
	return votes, nil
}

func (s *memStore) ListTransferRequests(_ context.Context, status domain.TransferStatus) ([]*schema.TransferRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var requests []*schema.TransferRequest
	for _, request := range s.transfers {
		if status != "" && request.Status != status {
			continue
		}
		copied := *request
		s.decorateTransferRequest(&copied)
		requests = append(requests, &copied)
	}
	sort.Slice(requests, func(i, j int) bool {
		if requests[i].RequestedAt.Equal(requests[j].RequestedAt) {
			return requests[i].ID > requests[j].ID
		}
		return requests[i].RequestedAt.After(requests[j].RequestedAt)
	})
	return requests, nil
}

func (s *memStore) decorateTransferRequest(request *schema.TransferRequest) {
	if soulID, ok := s.soulIDs[request.SoulIDID]; ok {
		copied := *soulID
		request.SoulID = &copied
	}
	if requester, ok := s.users[request.FromUserID]; ok {
		copied := *requester
		request.Requester = &copied
	}
}

func (s *memStore) GetTransferRequest(_ context.Context, id int64) (*schema.TransferRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.transfers[id]
	if !ok {
		return nil, nil
	}
	copied := *request
	return &copied, nil
}

func (s *memStore) CreateTransferRequest(_ context.Context, input CreateTransferRequestInput) (*schema.TransferRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	soulID, ok := s.soulIDs[input.SoulIDID]
	if !ok {
		return nil, domain.ErrSoulIDNotFound
	}
	if soulID.UserID != input.FromUserID {
		return nil, domain.ErrNotOwner
	}

	request := &schema.TransferRequest{
		ID:              s.next("transfer_requests"),
		SoulIDID:        input.SoulIDID,
		FromUserID:      input.FromUserID,
		ToWalletAddress: domain.NormalizeWalletAddress(input.ToWalletAddress),
		Reason:          input.Reason,
		Status:          domain.TransferStatusPending,
		RequestedAt:     time.Now().UTC(),
	}
	s.transfers[request.ID] = request
	copied := *request
	return &copied, nil
}

func (s *memStore) ReviewTransferRequest(_ context.Context, input ReviewTransferRequestInput) (*schema.TransferRequest, error) {
	if !domain.IsTerminalTransferStatus(input.Status) {
		return nil, fmt.Errorf("invalid review status: %s", input.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	request, ok := s.transfers[input.RequestID]
	if !ok {
		return nil, domain.ErrTransferRequestNotFound
	}
	if request.Status != domain.TransferStatusPending {
		return nil, domain.ErrRequestNotPending
	}

	now := time.Now().UTC()

	if input.Status == domain.TransferStatusApproved {
		source, ok := s.soulIDs[request.SoulIDID]
		if !ok {
			return nil, domain.ErrSoulIDNotFound
		}
		var destination *schema.User
		for _, user := range s.users {
			if user.WalletAddress == request.ToWalletAddress {
				destination = user
				break
			}
		}
		if destination == nil {
			return nil, domain.ErrDestinationNotRegistered
		}

		source.IsActive = false
		replacement := &schema.SoulID{
			ID:       s.next("soul_ids"),
			TokenID:  ulid.Make().String(),
			UserID:   destination.ID,
			Metadata: source.Metadata,
			Network:  source.Network,
			IsActive: true,
			MintedAt: now,
		}
		s.soulIDs[replacement.ID] = replacement
	}

	reviewer := input.ReviewerID
	request.Status = input.Status
	request.ReviewedBy = &reviewer
	request.ReviewedAt = &now

	copied := *request
	s.decorateTransferRequest(&copied)
	return &copied, nil
}

package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/emberdao/soulforge/internal/domain"
	"github.com/emberdao/soulforge/internal/store/schema"
)

// StoreTestSuite provides the interface for running store tests against different implementations
type StoreTestSuite struct {
	Store Store
	// InitDB should be called before each test to initialize the database
	InitDB func(t *testing.T) Store
	// CleanupDB should be called after each test to clean up the database
	CleanupDB func(t *testing.T)
}

// =============================================================================
// Test Data Builders
// =============================================================================

var testUserCounter int

// buildTestUser creates a unique test user input
func buildTestUser() CreateUserInput {
	testUserCounter++
	return CreateUserInput{
		Username:      fmt.Sprintf("ember_%d_%d", time.Now().UnixNano(), testUserCounter),
		PasswordHash:  "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		WalletAddress: fmt.Sprintf("0x%040d", time.Now().UnixNano()+int64(testUserCounter)),
	}
}

// mustCreateUser registers a user and fails the test on error
func mustCreateUser(t *testing.T, store Store) *schema.User {
	t.Helper()
	user, err := store.CreateUser(context.Background(), buildTestUser())
	require.NoError(t, err)
	require.NotNil(t, user)
	return user
}

// mustSeed loads the reference categories and badges
func mustSeed(t *testing.T, store Store) {
	t.Helper()
	require.NoError(t, store.SeedReferenceData(context.Background()))
}

// categoryByName finds a seeded category
func categoryByName(t *testing.T, store Store, name string) *schema.ContributionCategory {
	t.Helper()
	categories, err := store.ListContributionCategories(context.Background())
	require.NoError(t, err)
	for _, category := range categories {
		if category.Name == name {
			return category
		}
	}
	t.Fatalf("category %q not seeded", name)
	return nil
}

// badgeByName finds a seeded badge
func badgeByName(t *testing.T, store Store, name string) *schema.Badge {
	t.Helper()
	badges, err := store.ListBadges(context.Background())
	require.NoError(t, err)
	for _, badge := range badges {
		if badge.Name == name {
			return badge
		}
	}
	t.Fatalf("badge %q not seeded", name)
	return nil
}

// =============================================================================
// Test: Users
// =============================================================================

func testUsers(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("create and fetch by id, wallet and username", func(t *testing.T) {
		input := buildTestUser()
		input.WalletAddress = "0x8ba1f109551bd432803012645ac136ddd64dba72"

		user, err := store.CreateUser(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, input.Username, user.Username)
		assert.Equal(t, 0, user.TrustScore)
		assert.Equal(t, 1, user.TrustLevel)
		assert.False(t, user.IsAdmin)
		// stored address is EIP-55 normalized
		assert.Equal(t, "0x8ba1f109551bD432803012645Ac136ddd64DBA72", user.WalletAddress)

		byID, err := store.GetUser(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.Equal(t, user.Username, byID.Username)

		// lookup is case-insensitive through normalization
		byWallet, err := store.GetUserByWalletAddress(ctx, "0x8BA1F109551BD432803012645AC136DDD64DBA72")
		require.NoError(t, err)
		require.NotNil(t, byWallet)
		assert.Equal(t, user.ID, byWallet.ID)

		byName, err := store.GetUserByUsername(ctx, user.Username)
		require.NoError(t, err)
		require.NotNil(t, byName)
		assert.Equal(t, user.ID, byName.ID)
	})

	t.Run("missing users return nil without error", func(t *testing.T) {
		user, err := store.GetUser(ctx, 99999999)
		require.NoError(t, err)
		assert.Nil(t, user)

		user, err = store.GetUserByWalletAddress(ctx, "0x0000000000000000000000000000000000000001")
		require.NoError(t, err)
		assert.Nil(t, user)

		user, err = store.GetUserByUsername(ctx, "nobody-here")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("duplicate wallet is rejected", func(t *testing.T) {
		input := buildTestUser()
		_, err := store.CreateUser(ctx, input)
		require.NoError(t, err)

		dup := buildTestUser()
		dup.WalletAddress = input.WalletAddress
		_, err = store.CreateUser(ctx, dup)
		assert.ErrorIs(t, err, domain.ErrWalletAlreadyRegistered)
	})

	t.Run("promote sets admin flag once", func(t *testing.T) {
		user := mustCreateUser(t, store)

		promoted, err := store.PromoteUser(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, promoted.IsAdmin)

		// idempotent
		promoted, err = store.PromoteUser(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, promoted.IsAdmin)

		_, err = store.PromoteUser(ctx, 99999999)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("dashboard stats count pending work", func(t *testing.T) {
		before, err := store.GetDashboardStats(ctx)
		require.NoError(t, err)

		user := mustCreateUser(t, store)

		after, err := store.GetDashboardStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, before.UserCount+1, after.UserCount)
		require.NotEmpty(t, after.RecentUsers)
		assert.Equal(t, user.ID, after.RecentUsers[0].ID)
		assert.LessOrEqual(t, len(after.RecentUsers), 5)
	})
}

// =============================================================================
// Test: Soul IDs
// =============================================================================

func testSoulIDs(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("mint and fetch active soul id", func(t *testing.T) {
		user := mustCreateUser(t, store)

		soulID, err := store.MintSoulID(ctx, MintSoulIDInput{
			UserID:   user.ID,
			Metadata: datatypes.JSON([]byte(`{"tier":"founding"}`)),
			Network:  domain.NetworkEthereumMainnet,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, soulID.TokenID)
		assert.True(t, soulID.IsActive)
		assert.Equal(t, domain.NetworkEthereumMainnet, soulID.Network)

		active, err := store.GetActiveSoulIDByUser(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, active)
		assert.Equal(t, soulID.ID, active.ID)

		byID, err := store.GetSoulID(ctx, soulID.ID)
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.Equal(t, soulID.TokenID, byID.TokenID)
	})

	t.Run("mint for unknown user fails", func(t *testing.T) {
		_, err := store.MintSoulID(ctx, MintSoulIDInput{
			UserID:  99999999,
			Network: domain.NetworkEthereumMainnet,
		})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("user without a soul id yields nil", func(t *testing.T) {
		user := mustCreateUser(t, store)
		active, err := store.GetActiveSoulIDByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Nil(t, active)
	})
}

// =============================================================================
// Test: Badges
// =============================================================================

func testBadges(t *testing.T, store Store) {
	ctx := context.Background()
	mustSeed(t, store)

	t.Run("seeded badges are ordered by threshold", func(t *testing.T) {
		badges, err := store.ListBadges(ctx)
		require.NoError(t, err)
		require.Len(t, badges, 7)
		assert.Equal(t, "Early Adopter", badges[0].Name)
		assert.Equal(t, 50, badges[0].RequiredPoints)
		assert.Equal(t, "Community Builder", badges[6].Name)
		for i := 1; i < len(badges); i++ {
			assert.GreaterOrEqual(t, badges[i].RequiredPoints, badges[i-1].RequiredPoints)
		}
	})

	t.Run("assign badge is idempotent", func(t *testing.T) {
		user := mustCreateUser(t, store)
		badge := badgeByName(t, store, "Early Adopter")

		first, err := store.AssignBadge(ctx, user.ID, badge.ID)
		require.NoError(t, err)
		require.NotNil(t, first.Badge)
		assert.Equal(t, badge.Name, first.Badge.Name)

		second, err := store.AssignBadge(ctx, user.ID, badge.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.EarnedAt.Unix(), second.EarnedAt.Unix())

		earned, err := store.GetUserBadges(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, earned, 1)
	})

	t.Run("assigning unknown badge or user fails", func(t *testing.T) {
		user := mustCreateUser(t, store)
		badge := badgeByName(t, store, "Governance")

		_, err := store.AssignBadge(ctx, user.ID, 99999999)
		assert.ErrorIs(t, err, domain.ErrBadgeNotFound)

		_, err = store.AssignBadge(ctx, 99999999, badge.ID)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

// =============================================================================
// Test: Contributions
// =============================================================================

func testRecordContribution(t *testing.T, store Store) {
	ctx := context.Background()
	mustSeed(t, store)

	t.Run("entry snapshots points and updates score and level", func(t *testing.T) {
		user := mustCreateUser(t, store)
		category := categoryByName(t, store, "Forum Contributions")

		result, err := store.RecordContribution(ctx, RecordContributionInput{
			UserID:      user.ID,
			CategoryID:  category.ID,
			Title:       "Answered onboarding questions",
			Description: "Helped three newcomers in the forum",
		})
		require.NoError(t, err)
		assert.Equal(t, 15, result.Entry.PointsEarned)
		require.NotNil(t, result.Entry.Category)
		assert.Equal(t, category.Name, result.Entry.Category.Name)
		assert.Equal(t, 15, result.User.TrustScore)
		assert.Equal(t, 1, result.User.TrustLevel)
		assert.Empty(t, result.AwardedBadges)

		// 15 + 10 = 25 crosses the 20-point level boundary
		governance := categoryByName(t, store, "Governance Participation")
		result, err = store.RecordContribution(ctx, RecordContributionInput{
			UserID:     user.ID,
			CategoryID: governance.ID,
			Title:      "Voted on treasury proposal",
		})
		require.NoError(t, err)
		assert.Equal(t, 25, result.User.TrustScore)
		assert.Equal(t, 2, result.User.TrustLevel)
	})

	t.Run("crossing a badge threshold awards the badge once", func(t *testing.T) {
		user := mustCreateUser(t, store)
		category := categoryByName(t, store, "Project Submission") // 50 points

		result, err := store.RecordContribution(ctx, RecordContributionInput{
			UserID:     user.ID,
			CategoryID: category.ID,
			Title:      "Shipped the governance dashboard",
		})
		require.NoError(t, err)
		require.Len(t, result.AwardedBadges, 1)
		assert.Equal(t, "Early Adopter", result.AwardedBadges[0].Badge.Name)

		// next contribution must not re-award
		result, err = store.RecordContribution(ctx, RecordContributionInput{
			UserID:     user.ID,
			CategoryID: category.ID,
			Title:      "Shipped the voting widget",
		})
		require.NoError(t, err)
		assert.Equal(t, 100, result.User.TrustScore)
		// 75 and 100 thresholds crossed, 50 already held
		require.Len(t, result.AwardedBadges, 2)
		assert.Equal(t, "Governance", result.AwardedBadges[0].Badge.Name)
		assert.Equal(t, "Flame 100", result.AwardedBadges[1].Badge.Name)

		earned, err := store.GetUserBadges(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, earned, 3)
	})

	t.Run("unknown user or category fails", func(t *testing.T) {
		user := mustCreateUser(t, store)
		category := categoryByName(t, store, "Community Events")

		_, err := store.RecordContribution(ctx, RecordContributionInput{
			UserID:     99999999,
			CategoryID: category.ID,
			Title:      "x",
		})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)

		_, err = store.RecordContribution(ctx, RecordContributionInput{
			UserID:     user.ID,
			CategoryID: 99999999,
			Title:      "x",
		})
		assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

		// failed contribution must not move the score
		reloaded, err := store.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, reloaded.TrustScore)
	})

	t.Run("flame log lists newest first and honors limit", func(t *testing.T) {
		user := mustCreateUser(t, store)
		category := categoryByName(t, store, "Content Creation")

		for i := 0; i < 3; i++ {
			_, err := store.RecordContribution(ctx, RecordContributionInput{
				UserID:     user.ID,
				CategoryID: category.ID,
				Title:      fmt.Sprintf("Post %d", i),
			})
			require.NoError(t, err)
		}

		entries, err := store.GetFlameLog(ctx, user.ID, 0)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "Post 2", entries[0].Title)
		require.NotNil(t, entries[0].Category)
		assert.Equal(t, category.Name, entries[0].Category.Name)

		limited, err := store.GetFlameLog(ctx, user.ID, 2)
		require.NoError(t, err)
		assert.Len(t, limited, 2)
	})
}

// =============================================================================
// Test: Proposals and Votes
// =============================================================================

func testProposalsAndVotes(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("create proposal defaults the window start", func(t *testing.T) {
		creator := mustCreateUser(t, store)

		proposal, err := store.CreateProposal(ctx, CreateProposalInput{
			Title:       "Fund the builder grants round",
			Description: "Allocate 5% of treasury to grants",
			CreatorID:   creator.ID,
			EndDate:     time.Now().UTC().Add(72 * time.Hour),
		})
		require.NoError(t, err)
		assert.True(t, proposal.IsActive)
		assert.False(t, proposal.StartDate.IsZero())
		assert.Zero(t, proposal.VotesFor)
		assert.Zero(t, proposal.VotesAgainst)

		fetched, err := store.GetProposal(ctx, proposal.ID)
		require.NoError(t, err)
		require.NotNil(t, fetched)
		assert.Equal(t, proposal.Title, fetched.Title)

		_, err = store.CreateProposal(ctx, CreateProposalInput{
			Title:     "Orphan",
			CreatorID: 99999999,
			EndDate:   time.Now().UTC().Add(time.Hour),
		})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("active filter excludes proposals outside their window", func(t *testing.T) {
		creator := mustCreateUser(t, store)
		now := time.Now().UTC()

		open, err := store.CreateProposal(ctx, CreateProposalInput{
			Title:     "Open proposal",
			CreatorID: creator.ID,
			EndDate:   now.Add(24 * time.Hour),
		})
		require.NoError(t, err)

		closed, err := store.CreateProposal(ctx, CreateProposalInput{
			Title:     "Closed proposal",
			CreatorID: creator.ID,
			StartDate: now.Add(-48 * time.Hour),
			EndDate:   now.Add(-24 * time.Hour),
		})
		require.NoError(t, err)

		active, err := store.ListProposals(ctx, true)
		require.NoError(t, err)
		ids := make(map[int64]bool, len(active))
		for _, p := range active {
			ids[p.ID] = true
		}
		assert.True(t, ids[open.ID])
		assert.False(t, ids[closed.ID])

		all, err := store.ListProposals(ctx, false)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(all), 2)
	})

	t.Run("votes increment tallies and each user votes once", func(t *testing.T) {
		creator := mustCreateUser(t, store)
		proposal, err := store.CreateProposal(ctx, CreateProposalInput{
			Title:     "Adopt the new charter",
			CreatorID: creator.ID,
			EndDate:   time.Now().UTC().Add(24 * time.Hour),
		})
		require.NoError(t, err)

		alice := mustCreateUser(t, store)
		bob := mustCreateUser(t, store)

		_, err = store.CastVote(ctx, CastVoteInput{ProposalID: proposal.ID, UserID: alice.ID, VoteType: true})
		require.NoError(t, err)
		_, err = store.CastVote(ctx, CastVoteInput{ProposalID: proposal.ID, UserID: bob.ID, VoteType: false})
		require.NoError(t, err)

		_, err = store.CastVote(ctx, CastVoteInput{ProposalID: proposal.ID, UserID: alice.ID, VoteType: false})
		assert.ErrorIs(t, err, domain.ErrAlreadyVoted)

		fetched, err := store.GetProposal(ctx, proposal.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, fetched.VotesFor)
		assert.Equal(t, 1, fetched.VotesAgainst)

		votes, err := store.GetVotesByProposal(ctx, proposal.ID)
		require.NoError(t, err)
		assert.Len(t, votes, 2)
	})

	t.Run("voting outside the window is rejected", func(t *testing.T) {
		creator := mustCreateUser(t, store)
		voter := mustCreateUser(t, store)
		now := time.Now().UTC()

		ended, err := store.CreateProposal(ctx, CreateProposalInput{
			Title:     "Already ended",
			CreatorID: creator.ID,
			StartDate: now.Add(-48 * time.Hour),
			EndDate:   now.Add(-24 * time.Hour),
		})
		require.NoError(t, err)

		_, err = store.CastVote(ctx, CastVoteInput{ProposalID: ended.ID, UserID: voter.ID, VoteType: true})
		assert.ErrorIs(t, err, domain.ErrVotingClosed)

		notYet, err := store.CreateProposal(ctx, CreateProposalInput{
			Title:     "Not open yet",
			CreatorID: creator.ID,
			StartDate: now.Add(24 * time.Hour),
			EndDate:   now.Add(48 * time.Hour),
		})
		require.NoError(t, err)

		_, err = store.CastVote(ctx, CastVoteInput{ProposalID: notYet.ID, UserID: voter.ID, VoteType: true})
		assert.ErrorIs(t, err, domain.ErrVotingClosed)

		_, err = store.CastVote(ctx, CastVoteInput{ProposalID: 99999999, UserID: voter.ID, VoteType: true})
		assert.ErrorIs(t, err, domain.ErrProposalNotFound)

		// a rejected vote must not move the tallies
		fetched, err := store.GetProposal(ctx, ended.ID)
		require.NoError(t, err)
		assert.Zero(t, fetched.VotesFor)
	})
}

// =============================================================================
// Test: Transfer Requests
// =============================================================================

func testTransferRequests(t *testing.T, store Store) {
	ctx := context.Background()

	setup := func(t *testing.T) (*schema.User, *schema.SoulID) {
		owner := mustCreateUser(t, store)
		soulID, err := store.MintSoulID(ctx, MintSoulIDInput{
			UserID:   owner.ID,
			Metadata: datatypes.JSON([]byte(`{"tier":"member"}`)),
			Network:  domain.NetworkEthereumMainnet,
		})
		require.NoError(t, err)
		return owner, soulID
	}

	t.Run("create requires ownership of the soul id", func(t *testing.T) {
		owner, soulID := setup(t)
		stranger := mustCreateUser(t, store)

		request, err := store.CreateTransferRequest(ctx, CreateTransferRequestInput{
			SoulIDID:        soulID.ID,
			FromUserID:      owner.ID,
			ToWalletAddress: stranger.WalletAddress,
			Reason:          "Moving to a hardware wallet",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.TransferStatusPending, request.Status)
		assert.Nil(t, request.ReviewedBy)
		assert.Nil(t, request.ReviewedAt)

		_, err = store.CreateTransferRequest(ctx, CreateTransferRequestInput{
			SoulIDID:        soulID.ID,
			FromUserID:      stranger.ID,
			ToWalletAddress: owner.WalletAddress,
			Reason:          "not mine",
		})
		assert.ErrorIs(t, err, domain.ErrNotOwner)

		_, err = store.CreateTransferRequest(ctx, CreateTransferRequestInput{
			SoulIDID:        99999999,
			FromUserID:      owner.ID,
			ToWalletAddress: stranger.WalletAddress,
			Reason:          "ghost",
		})
		assert.ErrorIs(t, err, domain.ErrSoulIDNotFound)
	})

	t.Run("rejection finalizes without touching the soul id", func(t *testing.T) {
		owner, soulID := setup(t)
		destination := mustCreateUser(t, store)
		admin := mustCreateUser(t, store)

		request, err := store.CreateTransferRequest(ctx, CreateTransferRequestInput{
			SoulIDID:        soulID.ID,
			FromUserID:      owner.ID,
			ToWalletAddress: destination.WalletAddress,
			Reason:          "switching wallets",
		})
		require.NoError(t, err)

		reviewed, err := store.ReviewTransferRequest(ctx, ReviewTransferRequestInput{
			RequestID:  request.ID,
			Status:     domain.TransferStatusRejected,
			ReviewerID: admin.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.TransferStatusRejected, reviewed.Status)
		require.NotNil(t, reviewed.ReviewedBy)
		assert.Equal(t, admin.ID, *reviewed.ReviewedBy)
		require.NotNil(t, reviewed.ReviewedAt)

		source, err := store.GetSoulID(ctx, soulID.ID)
		require.NoError(t, err)
		assert.True(t, source.IsActive)

		// terminal requests cannot be reviewed again
		_, err = store.ReviewTransferRequest(ctx, ReviewTransferRequestInput{
			RequestID:  request.ID,
			Status:     domain.TransferStatusApproved,
			ReviewerID: admin.ID,
		})
		assert.ErrorIs(t, err, domain.ErrRequestNotPending)
	})

	t.Run("approval deactivates the source and mints for the destination", func(t *testing.T) {
		owner, soulID := setup(t)
		destination := mustCreateUser(t, store)
		admin := mustCreateUser(t, store)

		request, err := store.CreateTransferRequest(ctx, CreateTransferRequestInput{
			SoulIDID:        soulID.ID,
			FromUserID:      owner.ID,
			ToWalletAddress: destination.WalletAddress,
			Reason:          "gifting membership",
		})
		require.NoError(t, err)

		reviewed, err := store.ReviewTransferRequest(ctx, ReviewTransferRequestInput{
			RequestID:  request.ID,
			Status:     domain.TransferStatusApproved,
			ReviewerID: admin.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.TransferStatusApproved, reviewed.Status)

		source, err := store.GetSoulID(ctx, soulID.ID)
		require.NoError(t, err)
		assert.False(t, source.IsActive)

		replacement, err := store.GetActiveSoulIDByUser(ctx, destination.ID)
		require.NoError(t, err)
		require.NotNil(t, replacement)
		assert.NotEqual(t, soulID.TokenID, replacement.TokenID)
		assert.Equal(t, soulID.Network, replacement.Network)
		assert.JSONEq(t, string(soulID.Metadata), string(replacement.Metadata))
	})

	t.Run("approval fails when the destination wallet is unregistered", func(t *testing.T) {
		owner, soulID := setup(t)
		admin := mustCreateUser(t, store)

		request, err := store.CreateTransferRequest(ctx, CreateTransferRequestInput{
			SoulIDID:        soulID.ID,
			FromUserID:      owner.ID,
			ToWalletAddress: "0x00000000000000000000000000000000DeaDBeef",
			Reason:          "external wallet",
		})
		require.NoError(t, err)

		_, err = store.ReviewTransferRequest(ctx, ReviewTransferRequestInput{
			RequestID:  request.ID,
			Status:     domain.TransferStatusApproved,
			ReviewerID: admin.ID,
		})
		assert.ErrorIs(t, err, domain.ErrDestinationNotRegistered)

		// the failed review rolls back, the request stays pending
		pending, err := store.GetTransferRequest(ctx, request.ID)
		require.NoError(t, err)
		require.NotNil(t, pending)
		assert.Equal(t, domain.TransferStatusPending, pending.Status)

		source, err := store.GetSoulID(ctx, soulID.ID)
		require.NoError(t, err)
		assert.True(t, source.IsActive)
	})

	t.Run("listing filters by status", func(t *testing.T) {
		owner, soulID := setup(t)
		destination := mustCreateUser(t, store)

		request, err := store.CreateTransferRequest(ctx, CreateTransferRequestInput{
			SoulIDID:        soulID.ID,
			FromUserID:      owner.ID,
			ToWalletAddress: destination.WalletAddress,
			Reason:          "filter me",
		})
		require.NoError(t, err)

		pending, err := store.ListTransferRequests(ctx, domain.TransferStatusPending)
		require.NoError(t, err)
		var found bool
		for _, r := range pending {
			if r.ID == request.ID {
				found = true
				require.NotNil(t, r.SoulID)
				require.NotNil(t, r.Requester)
				assert.Equal(t, owner.ID, r.Requester.ID)
			}
			assert.Equal(t, domain.TransferStatusPending, r.Status)
		}
		assert.True(t, found)

		_, err = store.ReviewTransferRequest(ctx, ReviewTransferRequestInput{
			RequestID:  request.ID,
			Status:     domain.TransferStatusPending,
			ReviewerID: owner.ID,
		})
		assert.Error(t, err, "pending is not a terminal review status")

		missing, err := store.GetTransferRequest(ctx, 99999999)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})
}

// =============================================================================
// Test: Seeding
// =============================================================================

func testSeedReferenceData(t *testing.T, store Store) {
	ctx := context.Background()

	require.NoError(t, store.SeedReferenceData(ctx))
	// second run must not duplicate rows
	require.NoError(t, store.SeedReferenceData(ctx))

	categories, err := store.ListContributionCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 5)

	forum := categoryByName(t, store, "Forum Contributions")
	assert.Equal(t, 15, forum.PointValue)
	project := categoryByName(t, store, "Project Submission")
	assert.Equal(t, 50, project.PointValue)

	badges, err := store.ListBadges(ctx)
	require.NoError(t, err)
	assert.Len(t, badges, 7)
}

// RunStoreTests runs the shared store suite against an implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"Users", testUsers},
		{"SoulIDs", testSoulIDs},
		{"Badges", testBadges},
		{"RecordContribution", testRecordContribution},
		{"ProposalsAndVotes", testProposalsAndVotes},
		{"TransferRequests", testTransferRequests},
		{"SeedReferenceData", testSeedReferenceData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}

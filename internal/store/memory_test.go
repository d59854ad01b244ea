package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberdao/soulforge/internal/domain"
)

// TestMemoryStore runs the shared store suite against the in-memory implementation
func TestMemoryStore(t *testing.T) {
	RunStoreTests(t,
		func(t *testing.T) Store { return NewMemoryStore(20) },
		func(t *testing.T) {},
	)
}

// Deactivation has no store operation; reach into the struct to cover the
// inactive-proposal guard.
func TestMemoryStoreCastVoteInactiveProposal(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(20)

	creator := mustCreateUser(t, store)
	proposal, err := store.CreateProposal(ctx, CreateProposalInput{
		Title:     "Halted proposal",
		CreatorID: creator.ID,
		EndDate:   time.Now().UTC().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	mem := store.(*memStore)
	mem.proposals[proposal.ID].IsActive = false

	voter := mustCreateUser(t, store)
	_, err = store.CastVote(ctx, CastVoteInput{ProposalID: proposal.ID, UserID: voter.ID, VoteType: true})
	assert.ErrorIs(t, err, domain.ErrProposalInactive)
}

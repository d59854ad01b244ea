package schema

import (
	"time"
)

// Proposal represents the proposals table - a governance proposal open for
// voting inside [StartDate, EndDate]. Tallies mutate only through vote
// insertion, inside the same transaction as the vote row.
type Proposal struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	// Title is the proposal headline
	Title string `gorm:"column:title;not null;type:text" json:"title"`
	// Description is the full proposal text
	Description string `gorm:"column:description;not null;type:text" json:"description"`
	// CreatorID is the proposing user
	CreatorID int64 `gorm:"column:creator_id;not null" json:"creatorId"`
	// StartDate opens the voting window
	StartDate time.Time `gorm:"column:start_date;not null;default:now()" json:"startDate"`
	// EndDate closes the voting window
	EndDate time.Time `gorm:"column:end_date;not null" json:"endDate"`
	// IsActive can be cleared by an admin to halt voting early
	IsActive bool `gorm:"column:is_active;not null;default:true" json:"isActive"`
	// VotesFor is the running count of "for" votes
	VotesFor int `gorm:"column:votes_for;not null;default:0" json:"votesFor"`
	// VotesAgainst is the running count of "against" votes
	VotesAgainst int `gorm:"column:votes_against;not null;default:0" json:"votesAgainst"`
	// CreatedAt orders proposal listings, newest first
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()" json:"createdAt"`

	Votes []Vote `gorm:"foreignKey:ProposalID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for the Proposal model
func (Proposal) TableName() string {
	return "proposals"
}

// Vote represents the votes table. The unique (proposal_id, user_id) index is
// what enforces the one-vote-per-user invariant under concurrent requests.
type Vote struct {
	ID int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	// ProposalID is the voted proposal
	ProposalID int64 `gorm:"column:proposal_id;not null;uniqueIndex:idx_votes_proposal_user,priority:1" json:"proposalId"`
	// UserID is the voting user
	UserID int64 `gorm:"column:user_id;not null;uniqueIndex:idx_votes_proposal_user,priority:2" json:"userId"`
	// VoteType is true for a "for" vote, false for "against"
	VoteType bool `gorm:"column:vote_type;not null" json:"voteType"`
	// VotedAt is the timestamp the vote was cast
	VotedAt time.Time `gorm:"column:voted_at;not null;default:now()" json:"votedAt"`
}

// TableName specifies the table name for the Vote model
func (Vote) TableName() string {
	return "votes"
}

package domain

import "time"

// PlatformEventType represents the type of platform event
type PlatformEventType string

const (
	EventTypeUserRegistered       PlatformEventType = "user.registered"
	EventTypeUserPromoted         PlatformEventType = "user.promoted"
	EventTypeSoulIDMinted         PlatformEventType = "soulid.minted"
	EventTypeContributionRecorded PlatformEventType = "contribution.recorded"
	EventTypeBadgeEarned          PlatformEventType = "badge.earned"
	EventTypeProposalCreated      PlatformEventType = "proposal.created"
	EventTypeVoteCast             PlatformEventType = "vote.cast"
	EventTypeTransferSubmitted    PlatformEventType = "transfer.submitted"
	EventTypeTransferReviewed     PlatformEventType = "transfer.reviewed"
)

// PlatformEvent is the normalized event published to NATS after a state change.
// Consumers (the web client's cache invalidation, audit tooling) treat it as
// a notification; the relational store remains the source of truth.
type PlatformEvent struct {
	EventID   string            `json:"event_id"`
	EventType PlatformEventType `json:"event_type"`
	UserID    *int64            `json:"user_id,omitempty"`
	SubjectID *int64            `json:"subject_id,omitempty"` // id of the entity the event is about
	Timestamp time.Time         `json:"timestamp"`
}

func (e *PlatformEvent) Valid() bool {
	if e.EventID == "" || e.Timestamp.IsZero() {
		return false
	}

	switch e.EventType {
	case EventTypeUserRegistered,
		EventTypeUserPromoted,
		EventTypeSoulIDMinted,
		EventTypeContributionRecorded,
		EventTypeBadgeEarned,
		EventTypeProposalCreated,
		EventTypeVoteCast,
		EventTypeTransferSubmitted,
		EventTypeTransferReviewed:
		return true
	default:
		return false
	}
}

package domain

import "errors"

var (
	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrCategoryNotFound is returned when a contribution category is not found
	ErrCategoryNotFound = errors.New("contribution category not found")

	// ErrProposalNotFound is returned when a proposal is not found
	ErrProposalNotFound = errors.New("proposal not found")

	// ErrSoulIDNotFound is returned when a Soul ID is not found
	ErrSoulIDNotFound = errors.New("soul id not found")

	// ErrBadgeNotFound is returned when a badge is not found
	ErrBadgeNotFound = errors.New("badge not found")

	// ErrTransferRequestNotFound is returned when a transfer request is not found
	ErrTransferRequestNotFound = errors.New("transfer request not found")

	// ErrWalletAlreadyRegistered is returned when the wallet address is taken
	ErrWalletAlreadyRegistered = errors.New("wallet address already registered")

	// ErrAlreadyVoted is returned when a user votes twice on the same proposal
	ErrAlreadyVoted = errors.New("user has already voted on this proposal")

	// ErrProposalInactive is returned when voting on a deactivated proposal
	ErrProposalInactive = errors.New("proposal is not active")

	// ErrVotingClosed is returned when voting outside the proposal's window
	ErrVotingClosed = errors.New("proposal voting period is not active")

	// ErrNotOwner is returned when a transfer is requested by a non-owner
	ErrNotOwner = errors.New("soul id does not belong to the specified user")

	// ErrRequestNotPending is returned when reviewing an already-reviewed request
	ErrRequestNotPending = errors.New("transfer request has already been reviewed")

	// ErrDestinationNotRegistered is returned when approving a transfer to a
	// wallet with no registered user. Soul IDs are identity-bound, so the
	// replacement mint needs an owning user row.
	ErrDestinationNotRegistered = errors.New("destination wallet is not registered")
)

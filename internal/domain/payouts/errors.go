package payouts

import "errors"

var (
	ErrNoEligibleMembers    = errors.New("no eligible members")
	ErrRecipientRequired    = errors.New("recipient is required for bidding groups")
	ErrRecipientNotEligible = errors.New("recipient is not eligible this cycle")
	ErrRoundTaken           = errors.New("payout round already scheduled")
)

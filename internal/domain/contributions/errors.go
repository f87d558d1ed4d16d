package contributions

import "errors"

var (
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrInvalidRound          = errors.New("round must be at least 1")
	ErrInvalidMethod         = errors.New("invalid payment method")
	ErrInvalidCurrency       = errors.New("currency must be a 3-letter code")
	ErrDuplicateContribution = errors.New("contribution already recorded for this round")
)

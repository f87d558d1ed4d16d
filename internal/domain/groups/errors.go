package groups

import "errors"

var (
	ErrGroupNotFound        = errors.New("group not found")
	ErrGroupCodeNotFound    = errors.New("group code not found")
	ErrAlreadyMember        = errors.New("already a member")
	ErrMemberNotFound       = errors.New("member not found")
	ErrInviteNotFound       = errors.New("invite not found")
	ErrInviteNotAccepted    = errors.New("invite not accepted")
	ErrNotOwner             = errors.New("not owner")
	ErrCannotRemoveOwner    = errors.New("cannot remove owner")
	ErrGroupFull            = errors.New("group is full")
	ErrCodeGenerationFailed = errors.New("group code generation failed")
	ErrInvalidPage          = errors.New("invalid page")

	ErrNameRequired        = errors.New("name is required")
	ErrInvalidAmount       = errors.New("contribution amount must be positive")
	ErrInvalidCurrency     = errors.New("currency must be a 3-letter code")
	ErrInvalidFrequency    = errors.New("invalid frequency")
	ErrInvalidPayoutMethod = errors.New("invalid payout method")
	ErrInvalidMaxMembers   = errors.New("max members must not be negative")
)

// IsValidationError reports whether err rejects the caller's input rather
// than the group's state.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrNameRequired,
		ErrInvalidAmount,
		ErrInvalidCurrency,
		ErrInvalidFrequency,
		ErrInvalidPayoutMethod,
		ErrInvalidMaxMembers,
		ErrInvalidPage,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

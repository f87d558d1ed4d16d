package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	contributionsdomain "naat/internal/domain/contributions"
	groupsdomain "naat/internal/domain/groups"
	payoutsdomain "naat/internal/domain/payouts"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

type businessError struct {
	err    error
	status int
	code   string
}

var businessErrors = []businessError{
	{groupsdomain.ErrGroupNotFound, http.StatusNotFound, "group_not_found"},
	{groupsdomain.ErrGroupCodeNotFound, http.StatusNotFound, "group_code_not_found"},
	{groupsdomain.ErrMemberNotFound, http.StatusNotFound, "member_not_found"},
	{groupsdomain.ErrInviteNotFound, http.StatusNotFound, "invite_not_found"},
	{groupsdomain.ErrInviteNotAccepted, http.StatusForbidden, "invite_not_accepted"},
	{groupsdomain.ErrNotOwner, http.StatusForbidden, "not_owner"},
	{groupsdomain.ErrAlreadyMember, http.StatusConflict, "already_member"},
	{groupsdomain.ErrCannotRemoveOwner, http.StatusConflict, "cannot_remove_owner"},
	{groupsdomain.ErrGroupFull, http.StatusConflict, "group_full"},
	{contributionsdomain.ErrDuplicateContribution, http.StatusConflict, "duplicate_contribution"},
	{contributionsdomain.ErrInvalidAmount, http.StatusBadRequest, "invalid_request"},
	{contributionsdomain.ErrInvalidRound, http.StatusBadRequest, "invalid_request"},
	{contributionsdomain.ErrInvalidMethod, http.StatusBadRequest, "invalid_request"},
	{contributionsdomain.ErrInvalidCurrency, http.StatusBadRequest, "invalid_request"},
	{payoutsdomain.ErrNoEligibleMembers, http.StatusConflict, "no_eligible_members"},
	{payoutsdomain.ErrRecipientRequired, http.StatusBadRequest, "invalid_request"},
	{payoutsdomain.ErrRecipientNotEligible, http.StatusConflict, "recipient_not_eligible"},
	{payoutsdomain.ErrRoundTaken, http.StatusConflict, "round_taken"},
}

// writeDomainError maps service errors to responses. Known errors are
// business failures; anything else is logged as internal.
func (h *Handlers) writeDomainError(w http.ResponseWriter, r *http.Request, op string, err error, args ...any) {
	if groupsdomain.IsValidationError(err) {
		h.logger(r).BusinessError(op+": invalid request", err, args...)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	for _, known := range businessErrors {
		if errors.Is(err, known.err) {
			h.logger(r).BusinessError(op+": "+known.err.Error(), err, args...)
			writeError(w, known.status, known.code, known.err.Error())
			return
		}
	}
	h.logger(r).InternalError(op+": failed", err, args...)
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

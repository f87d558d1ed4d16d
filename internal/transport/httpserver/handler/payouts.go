package handler

import (
	"net/http"
	"strings"
	"time"

	payoutsdomain "naat/internal/domain/payouts"
	"naat/internal/transport/httpserver/middleware"

	"github.com/go-chi/chi/v5"
)

type schedulePayoutRequest struct {
	RecipientID string `json:"recipient_id"`
}

type payoutResponse struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"group_id"`
	RecipientID string    `json:"recipient_id"`
	Round       int       `json:"round"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
}

type payoutsResponse struct {
	Payouts []payoutResponse `json:"payouts"`
}

func (h *Handlers) ListPayouts(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	groupID := chi.URLParam(r, "id")

	if _, err := h.Groups.GetGroup(r.Context(), user.ID, groupID); err != nil {
		h.writeDomainError(w, r, "payouts.list", err, "user_id", user.ID, "group_id", groupID)
		return
	}

	items, err := h.Payouts.List(r.Context(), groupID)
	if err != nil {
		h.writeDomainError(w, r, "payouts.list", err, "user_id", user.ID, "group_id", groupID)
		return
	}

	response := payoutsResponse{Payouts: make([]payoutResponse, 0, len(items))}
	for i := range items {
		response.Payouts = append(response.Payouts, toPayoutResponse(&items[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) SchedulePayout(w http.ResponseWriter, r *http.Request) {
	var req schedulePayoutRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
			return
		}
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	groupID := chi.URLParam(r, "id")

	group, err := h.Groups.RequireOwner(r.Context(), user.ID, groupID)
	if err != nil {
		h.writeDomainError(w, r, "payouts.schedule", err, "user_id", user.ID, "group_id", groupID)
		return
	}
	members, err := h.Groups.ListMembers(r.Context(), user.ID, groupID)
	if err != nil {
		h.writeDomainError(w, r, "payouts.schedule", err, "user_id", user.ID, "group_id", groupID)
		return
	}

	payout, err := h.Payouts.Schedule(r.Context(), payoutsdomain.ScheduleInput{
		Group:       *group,
		Members:     members,
		RecipientID: strings.TrimSpace(req.RecipientID),
	})
	if err != nil {
		h.writeDomainError(w, r, "payouts.schedule", err, "user_id", user.ID, "group_id", groupID, "payout_method", group.PayoutMethod)
		return
	}

	h.logger(r).Info("payouts.schedule: scheduled", "group_id", groupID, "round", payout.Round, "recipient_id", payout.RecipientID)
	writeJSON(w, http.StatusCreated, toPayoutResponse(payout))
}

func toPayoutResponse(item *payoutsdomain.Payout) payoutResponse {
	return payoutResponse{
		ID:          item.ID,
		GroupID:     item.GroupID,
		RecipientID: item.RecipientID,
		Round:       item.Round,
		Amount:      item.Amount,
		Currency:    item.Currency,
		CreatedAt:   item.CreatedAt,
	}
}

package handler

import (
	"net/http"
	"strings"
	"time"

	contributionsdomain "naat/internal/domain/contributions"
	groupsdomain "naat/internal/domain/groups"
	"naat/internal/transport/httpserver/middleware"

	"github.com/go-chi/chi/v5"
)

type recordContributionRequest struct {
	Round     int      `json:"round"`
	Amount    *float64 `json:"amount"`
	Currency  *string  `json:"currency"`
	Method    string   `json:"method"`
	Reference *string  `json:"reference"`
	PaidAt    *string  `json:"paid_at"`
}

type contributionResponse struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"group_id"`
	UserID    string    `json:"user_id"`
	Round     int       `json:"round"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Method    string    `json:"method"`
	Reference *string   `json:"reference,omitempty"`
	PaidAt    time.Time `json:"paid_at"`
	CreatedAt time.Time `json:"created_at"`
}

type listContributionsResponse struct {
	Items  []contributionResponse `json:"items"`
	Total  int64                  `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

type roundSummaryResponse struct {
	Round        int     `json:"round"`
	Collected    float64 `json:"collected"`
	Expected     float64 `json:"expected"`
	Contributors int64   `json:"contributors"`
	Currency     string  `json:"currency"`
}

func (h *Handlers) ListContributions(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	groupID := chi.URLParam(r, "id")

	query := r.URL.Query()
	round, err := parseOptionalInt(query.Get("round"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid round")
		return
	}
	limit, err := parseIntParam(query.Get("limit"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}
	offset, err := parseIntParam(query.Get("offset"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid offset")
		return
	}

	if _, err := h.Groups.GetGroup(r.Context(), user.ID, groupID); err != nil {
		h.writeDomainError(w, r, "contributions.list", err, "user_id", user.ID, "group_id", groupID)
		return
	}

	filter := contributionsdomain.ListFilter{
		Round:  round,
		UserID: strings.TrimSpace(query.Get("user_id")),
		Limit:  limit,
		Offset: offset,
	}
	items, total, err := h.Contributions.List(r.Context(), groupID, filter)
	if err != nil {
		h.writeDomainError(w, r, "contributions.list", err, "user_id", user.ID, "group_id", groupID)
		return
	}

	response := listContributionsResponse{
		Items:  make([]contributionResponse, 0, len(items)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for i := range items {
		response.Items = append(response.Items, toContributionResponse(&items[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) RecordContribution(w http.ResponseWriter, r *http.Request) {
	var req recordContributionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	paidAt, err := parseTimeParam(req.PaidAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "paid_at must be RFC3339")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	groupID := chi.URLParam(r, "id")

	group, err := h.Groups.RequireActiveMember(r.Context(), user.ID, groupID)
	if err != nil {
		h.writeDomainError(w, r, "contributions.record", err, "user_id", user.ID, "group_id", groupID)
		return
	}

	input := contributionsdomain.RecordInput{
		GroupID:   groupID,
		UserID:    user.ID,
		Round:     req.Round,
		Amount:    group.ContributionAmount,
		Currency:  group.Currency,
		Method:    contributionsdomain.Method(strings.TrimSpace(req.Method)),
		Reference: req.Reference,
		PaidAt:    paidAt,
	}
	if req.Amount != nil {
		input.Amount = *req.Amount
	}
	if req.Currency != nil {
		input.Currency = *req.Currency
	}

	result, err := h.Contributions.Record(r.Context(), input)
	if err != nil {
		h.writeDomainError(w, r, "contributions.record", err, "user_id", user.ID, "group_id", groupID, "round", req.Round)
		return
	}

	writeJSON(w, http.StatusCreated, toContributionResponse(result))
}

func (h *Handlers) ContributionSummary(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	groupID := chi.URLParam(r, "id")

	round, err := parseOptionalInt(r.URL.Query().Get("round"))
	if err != nil || round == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "round is required")
		return
	}

	group, err := h.Groups.GetGroup(r.Context(), user.ID, groupID)
	if err != nil {
		h.writeDomainError(w, r, "contributions.summary", err, "user_id", user.ID, "group_id", groupID)
		return
	}
	members, err := h.Groups.ListMembers(r.Context(), user.ID, groupID)
	if err != nil {
		h.writeDomainError(w, r, "contributions.summary", err, "user_id", user.ID, "group_id", groupID)
		return
	}

	summary, err := h.Contributions.RoundSummary(r.Context(), groupID, *round)
	if err != nil {
		h.writeDomainError(w, r, "contributions.summary", err, "user_id", user.ID, "group_id", groupID, "round", *round)
		return
	}

	var active int
	for _, member := range members {
		if member.Status == groupsdomain.StatusActive {
			active++
		}
	}

	writeJSON(w, http.StatusOK, roundSummaryResponse{
		Round:        summary.Round,
		Collected:    summary.Collected,
		Expected:     group.ContributionAmount * float64(active),
		Contributors: summary.Contributors,
		Currency:     group.Currency,
	})
}

func toContributionResponse(item *contributionsdomain.Contribution) contributionResponse {
	return contributionResponse{
		ID:        item.ID,
		GroupID:   item.GroupID,
		UserID:    item.UserID,
		Round:     item.Round,
		Amount:    item.Amount,
		Currency:  item.Currency,
		Method:    string(item.Method),
		Reference: item.Reference,
		PaidAt:    item.PaidAt,
		CreatedAt: item.CreatedAt,
	}
}

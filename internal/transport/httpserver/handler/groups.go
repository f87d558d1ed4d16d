package handler

import (
	"net/http"
	"strings"
	"time"

	groupsdomain "naat/internal/domain/groups"
	"naat/internal/transport/httpserver/middleware"

	"github.com/go-chi/chi/v5"
)

type createGroupRequest struct {
	Name               string  `json:"name"`
	Description        *string `json:"description"`
	ContributionAmount float64 `json:"contribution_amount"`
	Currency           string  `json:"currency"`
	Frequency          string  `json:"frequency"`
	PayoutMethod       string  `json:"payout_method"`
	MaxMembers         int     `json:"max_members"`
}

type updateGroupRequest struct {
	Name               *string  `json:"name"`
	Description        *string  `json:"description"`
	ContributionAmount *float64 `json:"contribution_amount"`
	Frequency          *string  `json:"frequency"`
	PayoutMethod       *string  `json:"payout_method"`
	MaxMembers         *int     `json:"max_members"`
}

type joinGroupRequest struct {
	Code string `json:"code"`
}

type groupResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Description        *string   `json:"description"`
	Code               string    `json:"code"`
	ContributionAmount float64   `json:"contribution_amount"`
	Currency           string    `json:"currency"`
	Frequency          string    `json:"frequency"`
	PayoutMethod       string    `json:"payout_method"`
	MaxMembers         int       `json:"max_members"`
	CreatedBy          string    `json:"created_by"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type groupPageResponse struct {
	Groups   []groupResponse `json:"groups"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	HasMore  bool            `json:"has_more"`
	NextPage *int            `json:"next_page"`
}

func (h *Handlers) ListGroups(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	query := r.URL.Query()
	page, pageSize, err := pageWindow(query.Get("page"), query.Get("page_size"), h.pagination)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.Groups.ListGroupsPage(r.Context(), user.ID, page, pageSize)
	if err != nil {
		h.writeDomainError(w, r, "groups.list", err, "user_id", user.ID, "page", page, "page_size", pageSize)
		return
	}

	response := groupPageResponse{
		Groups:   make([]groupResponse, 0, len(result.Groups)),
		Page:     result.Page,
		PageSize: result.PageSize,
		HasMore:  result.HasMore,
		NextPage: result.NextPage(),
	}
	for i := range result.Groups {
		response.Groups = append(response.Groups, toGroupResponse(&result.Groups[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	result, err := h.Groups.CreateGroup(r.Context(), user.ID, groupsdomain.CreateGroupInput{
		Name:               req.Name,
		Description:        req.Description,
		ContributionAmount: req.ContributionAmount,
		Currency:           req.Currency,
		Frequency:          groupsdomain.Frequency(strings.TrimSpace(req.Frequency)),
		PayoutMethod:       groupsdomain.PayoutMethod(strings.TrimSpace(req.PayoutMethod)),
		MaxMembers:         req.MaxMembers,
	})
	if err != nil {
		h.writeDomainError(w, r, "groups.create", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusCreated, toGroupResponse(result))
}

func (h *Handlers) JoinGroup(w http.ResponseWriter, r *http.Request) {
	var req joinGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.Code = strings.TrimSpace(req.Code)
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "code is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	result, err := h.Groups.JoinGroup(r.Context(), user.ID, req.Code)
	if err != nil {
		h.writeDomainError(w, r, "groups.join", err, "user_id", user.ID, "code", req.Code)
		return
	}

	writeJSON(w, http.StatusOK, toGroupResponse(result))
}

func (h *Handlers) GetGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	groupID := chi.URLParam(r, "id")

	result, err := h.Groups.GetGroup(r.Context(), user.ID, groupID)
	if err != nil {
		h.writeDomainError(w, r, "groups.get", err, "user_id", user.ID, "group_id", groupID)
		return
	}

	writeJSON(w, http.StatusOK, toGroupResponse(result))
}

func (h *Handlers) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	var req updateGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	groupID := chi.URLParam(r, "id")

	input := groupsdomain.UpdateGroupInput{
		Name:               req.Name,
		Description:        req.Description,
		ContributionAmount: req.ContributionAmount,
		MaxMembers:         req.MaxMembers,
	}
	if req.Frequency != nil {
		frequency := groupsdomain.Frequency(strings.TrimSpace(*req.Frequency))
		input.Frequency = &frequency
	}
	if req.PayoutMethod != nil {
		method := groupsdomain.PayoutMethod(strings.TrimSpace(*req.PayoutMethod))
		input.PayoutMethod = &method
	}

	result, err := h.Groups.UpdateGroup(r.Context(), user.ID, groupID, input)
	if err != nil {
		h.writeDomainError(w, r, "groups.update", err, "user_id", user.ID, "group_id", groupID)
		return
	}

	writeJSON(w, http.StatusOK, toGroupResponse(result))
}

func (h *Handlers) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	groupID := chi.URLParam(r, "id")

	if err := h.Groups.DeleteGroup(r.Context(), user.ID, groupID); err != nil {
		h.writeDomainError(w, r, "groups.delete", err, "user_id", user.ID, "group_id", groupID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	groupID := chi.URLParam(r, "id")

	if err := h.Groups.LeaveGroup(r.Context(), user.ID, groupID); err != nil {
		h.writeDomainError(w, r, "groups.leave", err, "user_id", user.ID, "group_id", groupID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	groupID := chi.URLParam(r, "id")

	if err := h.Groups.AcceptInvite(r.Context(), user.ID, groupID); err != nil {
		h.writeDomainError(w, r, "groups.accept", err, "user_id", user.ID, "group_id", groupID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toGroupResponse(group *groupsdomain.Group) groupResponse {
	return groupResponse{
		ID:                 group.ID,
		Name:               group.Name,
		Description:        group.Description,
		Code:               group.Code,
		ContributionAmount: group.ContributionAmount,
		Currency:           group.Currency,
		Frequency:          string(group.Frequency),
		PayoutMethod:       string(group.PayoutMethod),
		MaxMembers:         group.MaxMembers,
		CreatedBy:          group.CreatedBy,
		CreatedAt:          group.CreatedAt,
		UpdatedAt:          group.UpdatedAt,
	}
}

package handler

import (
	"net/http"
	"strings"
	"time"

	groupsdomain "naat/internal/domain/groups"
	"naat/internal/transport/httpserver/middleware"

	"github.com/go-chi/chi/v5"
)

type inviteMemberRequest struct {
	UserID string `json:"user_id"`
}

type memberResponse struct {
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	JoinedAt  time.Time `json:"joined_at"`
	Email     *string   `json:"email,omitempty"`
	Name      *string   `json:"name,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
}

type membersResponse struct {
	Members []memberResponse `json:"members"`
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	groupID := chi.URLParam(r, "id")

	members, err := h.Groups.ListMembers(r.Context(), user.ID, groupID)
	if err != nil {
		h.writeDomainError(w, r, "groups.members.list", err, "user_id", user.ID, "group_id", groupID)
		return
	}

	response := membersResponse{Members: make([]memberResponse, 0, len(members))}
	for _, member := range members {
		response.Members = append(response.Members, toMemberResponse(member))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) InviteMember(w http.ResponseWriter, r *http.Request) {
	var req inviteMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	groupID := chi.URLParam(r, "id")

	member, err := h.Groups.InviteMember(r.Context(), user.ID, groupID, req.UserID)
	if err != nil {
		h.writeDomainError(w, r, "groups.members.invite", err, "user_id", user.ID, "group_id", groupID, "invitee_id", req.UserID)
		return
	}

	writeJSON(w, http.StatusCreated, memberResponse{
		UserID:   member.UserID,
		Role:     member.Role,
		Status:   member.Status,
		JoinedAt: member.JoinedAt,
	})
}

func (h *Handlers) RemoveMember(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	groupID := chi.URLParam(r, "id")
	memberID := strings.TrimSpace(chi.URLParam(r, "user_id"))
	if memberID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}

	if err := h.Groups.RemoveMember(r.Context(), user.ID, groupID, memberID); err != nil {
		h.writeDomainError(w, r, "groups.members.remove", err, "user_id", user.ID, "group_id", groupID, "member_id", memberID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toMemberResponse(member groupsdomain.MemberProfile) memberResponse {
	return memberResponse{
		UserID:    member.UserID,
		Role:      member.Role,
		Status:    member.Status,
		JoinedAt:  member.JoinedAt,
		Email:     member.Email,
		Name:      member.Name,
		AvatarURL: member.AvatarURL,
	}
}

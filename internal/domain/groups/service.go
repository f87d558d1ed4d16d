package groups

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"slices"
	"strings"

	"github.com/google/uuid"

	"naat/internal/querycache"
)

const (
	groupCodeLength   = 6
	groupCodeAttempts = 10
	defaultCurrency   = "XOF"
)

type Service struct {
	repo    Repository
	pages   *PageFetcher
	cache   Cache
	newCode func() (string, error)
}

// NewService wires the repository behind cache. A nil cache disables caching.
func NewService(repo Repository, cache Cache) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{
		repo:  repo,
		pages: NewPageFetcher(repo),
		cache: cache,
		newCode: func() (string, error) {
			return generateCode(groupCodeLength)
		},
	}
}

func (s *Service) ListGroupsPage(ctx context.Context, userID string, page, pageSize int) (Page, error) {
	result, err := cached(ctx, s.cache, queryGroupPage, []any{userID, page, pageSize}, func(ctx context.Context) (Page, error) {
		return s.pages.FetchPage(ctx, userID, page, pageSize)
	})
	if err != nil {
		return Page{}, err
	}
	result.Groups = slices.Clone(result.Groups)
	return result, nil
}

// GetGroup returns the group if userID holds any membership in it. Outsiders
// get ErrGroupNotFound so group ids cannot be probed.
func (s *Service) GetGroup(ctx context.Context, userID, groupID string) (*Group, error) {
	group, err := cached(ctx, s.cache, queryGroupGet, []any{groupID, userID}, func(ctx context.Context) (Group, error) {
		if _, err := s.repo.GetMember(ctx, groupID, userID); err != nil {
			if errors.Is(err, ErrMemberNotFound) {
				return Group{}, ErrGroupNotFound
			}
			return Group{}, err
		}
		group, err := s.repo.GetGroup(ctx, groupID)
		if err != nil {
			return Group{}, err
		}
		return *group, nil
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// RequireOwner returns the group when userID owns it.
func (s *Service) RequireOwner(ctx context.Context, userID, groupID string) (*Group, error) {
	group, err := s.GetGroup(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}
	if group.CreatedBy != userID {
		return nil, ErrNotOwner
	}
	return group, nil
}

// RequireActiveMember returns the group when userID is an active member.
// Pending invitees get ErrInviteNotAccepted.
func (s *Service) RequireActiveMember(ctx context.Context, userID, groupID string) (*Group, error) {
	group, err := s.GetGroup(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}
	member, err := s.repo.GetMember(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	if member.Status != StatusActive {
		return nil, ErrInviteNotAccepted
	}
	return group, nil
}

func (s *Service) CreateGroup(ctx context.Context, userID string, input CreateGroupInput) (*Group, error) {
	group := Group{
		Name:               strings.TrimSpace(input.Name),
		Description:        trimOptional(input.Description),
		ContributionAmount: input.ContributionAmount,
		Currency:           normalizeCurrency(input.Currency),
		Frequency:          input.Frequency,
		PayoutMethod:       input.PayoutMethod,
		MaxMembers:         input.MaxMembers,
		CreatedBy:          userID,
	}
	if err := validateGroup(&group); err != nil {
		return nil, err
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		code, err := s.generateUniqueCode(ctx, tx)
		if err != nil {
			return err
		}
		group.ID = uuid.NewString()
		group.Code = code

		if err := tx.CreateGroup(ctx, &group); err != nil {
			return err
		}
		return tx.AddMember(ctx, &Membership{
			GroupID: group.ID,
			UserID:  userID,
			Role:    RoleOwner,
			Status:  StatusActive,
		})
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(querycache.Pattern(userID))
	return &group, nil
}

func (s *Service) UpdateGroup(ctx context.Context, userID, groupID string, input UpdateGroupInput) (*Group, error) {
	if _, err := s.RequireOwner(ctx, userID, groupID); err != nil {
		return nil, err
	}

	var result Group
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		group, err := tx.GetGroup(ctx, groupID)
		if err != nil {
			return err
		}
		applyUpdate(group, input)
		if err := validateGroup(group); err != nil {
			return err
		}
		if input.MaxMembers != nil && group.MaxMembers > 0 {
			count, err := tx.CountMembers(ctx, groupID)
			if err != nil {
				return err
			}
			if count > int64(group.MaxMembers) {
				return ErrGroupFull
			}
		}
		if err := tx.UpdateGroup(ctx, group); err != nil {
			return err
		}
		result = *group
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateGroup(groupID)
	return &result, nil
}

func (s *Service) DeleteGroup(ctx context.Context, userID, groupID string) error {
	if _, err := s.RequireOwner(ctx, userID, groupID); err != nil {
		return err
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.DeleteMembersByGroup(ctx, groupID); err != nil {
			return err
		}
		return tx.DeleteGroup(ctx, groupID)
	})
	if err != nil {
		return err
	}

	s.invalidateGroup(groupID)
	return nil
}

// JoinGroup adds userID as an active member of the group behind code. A
// pending invitee is activated.
func (s *Service) JoinGroup(ctx context.Context, userID, code string) (*Group, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrGroupCodeNotFound
	}

	var result Group
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		group, err := tx.GetGroupByCode(ctx, code)
		if err != nil {
			return err
		}

		existing, err := tx.GetMember(ctx, group.ID, userID)
		switch {
		case err == nil && existing.Status == StatusActive:
			return ErrAlreadyMember
		case err == nil:
			if err := tx.UpdateMemberStatus(ctx, group.ID, userID, StatusActive); err != nil {
				return err
			}
			result = *group
			return nil
		case !errors.Is(err, ErrMemberNotFound):
			return err
		}

		if err := ensureCapacity(ctx, tx, group); err != nil {
			return err
		}
		if err := tx.AddMember(ctx, &Membership{
			GroupID: group.ID,
			UserID:  userID,
			Role:    RoleMember,
			Status:  StatusActive,
		}); err != nil {
			return err
		}
		result = *group
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateMembership(result.ID, userID)
	return &result, nil
}

func (s *Service) InviteMember(ctx context.Context, ownerID, groupID, inviteeID string) (*Membership, error) {
	inviteeID = strings.TrimSpace(inviteeID)
	if inviteeID == "" {
		return nil, ErrMemberNotFound
	}
	group, err := s.RequireOwner(ctx, ownerID, groupID)
	if err != nil {
		return nil, err
	}

	member := Membership{
		GroupID: groupID,
		UserID:  inviteeID,
		Role:    RoleMember,
		Status:  StatusPending,
	}
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		_, err := tx.GetMember(ctx, groupID, inviteeID)
		if err == nil {
			return ErrAlreadyMember
		}
		if !errors.Is(err, ErrMemberNotFound) {
			return err
		}
		if err := ensureCapacity(ctx, tx, group); err != nil {
			return err
		}
		return tx.AddMember(ctx, &member)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateMembership(groupID, inviteeID)
	return &member, nil
}

func (s *Service) AcceptInvite(ctx context.Context, userID, groupID string) error {
	member, err := s.repo.GetMember(ctx, groupID, userID)
	if errors.Is(err, ErrMemberNotFound) {
		return ErrInviteNotFound
	}
	if err != nil {
		return err
	}
	if member.Status != StatusPending {
		return ErrInviteNotFound
	}
	if err := s.repo.UpdateMemberStatus(ctx, groupID, userID, StatusActive); err != nil {
		return err
	}

	s.invalidateMembership(groupID, userID)
	return nil
}

func (s *Service) ListMembers(ctx context.Context, userID, groupID string) ([]MemberProfile, error) {
	if _, err := s.GetGroup(ctx, userID, groupID); err != nil {
		return nil, err
	}
	members, err := cached(ctx, s.cache, queryGroupMembers, []any{groupID}, func(ctx context.Context) ([]MemberProfile, error) {
		return s.repo.ListMembersWithProfiles(ctx, groupID)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(members), nil
}

func (s *Service) RemoveMember(ctx context.Context, actorID, groupID, memberID string) error {
	group, err := s.RequireOwner(ctx, actorID, groupID)
	if err != nil {
		return err
	}
	if memberID == group.CreatedBy {
		return ErrCannotRemoveOwner
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetMember(ctx, groupID, memberID); err != nil {
			return err
		}
		return tx.DeleteMember(ctx, groupID, memberID)
	})
	if err != nil {
		return err
	}

	s.invalidateMembership(groupID, memberID)
	return nil
}

// LeaveGroup removes userID from the group. An owner hands the group to the
// earliest-joined active member; a sole owner deletes it.
func (s *Service) LeaveGroup(ctx context.Context, userID, groupID string) error {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		member, err := tx.GetMember(ctx, groupID, userID)
		if errors.Is(err, ErrMemberNotFound) {
			return ErrGroupNotFound
		}
		if err != nil {
			return err
		}

		if member.Role != RoleOwner {
			return tx.DeleteMember(ctx, groupID, userID)
		}

		members, err := tx.ListMembers(ctx, groupID)
		if err != nil {
			return err
		}
		successor := nextOwner(members, userID)
		if successor == nil {
			if err := tx.DeleteMembersByGroup(ctx, groupID); err != nil {
				return err
			}
			return tx.DeleteGroup(ctx, groupID)
		}

		if err := tx.UpdateMemberRole(ctx, groupID, successor.UserID, RoleOwner); err != nil {
			return err
		}
		if err := tx.UpdateGroupOwner(ctx, groupID, successor.UserID); err != nil {
			return err
		}
		return tx.DeleteMember(ctx, groupID, userID)
	})
	if err != nil {
		return err
	}

	s.invalidateGroup(groupID)
	s.cache.Invalidate(querycache.Pattern(userID))
	return nil
}

func (s *Service) invalidateGroup(groupID string) {
	s.cache.Invalidate(querycache.Pattern(groupID))
	s.cache.Invalidate(querycache.QueryPattern(queryGroupPage))
}

func (s *Service) invalidateMembership(groupID, userID string) {
	s.cache.Invalidate(querycache.Pattern(groupID))
	s.cache.Invalidate(querycache.Pattern(userID))
}

func nextOwner(members []Membership, leavingID string) *Membership {
	var successor *Membership
	for i := range members {
		m := &members[i]
		if m.UserID == leavingID || m.Status != StatusActive {
			continue
		}
		if successor == nil || m.JoinedAt.Before(successor.JoinedAt) {
			successor = m
		}
	}
	return successor
}

func ensureCapacity(ctx context.Context, repo Repository, group *Group) error {
	if group.MaxMembers <= 0 {
		return nil
	}
	count, err := repo.CountMembers(ctx, group.ID)
	if err != nil {
		return err
	}
	if count >= int64(group.MaxMembers) {
		return ErrGroupFull
	}
	return nil
}

func applyUpdate(group *Group, input UpdateGroupInput) {
	if input.Name != nil {
		group.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		group.Description = trimOptional(input.Description)
	}
	if input.ContributionAmount != nil {
		group.ContributionAmount = *input.ContributionAmount
	}
	if input.Frequency != nil {
		group.Frequency = *input.Frequency
	}
	if input.PayoutMethod != nil {
		group.PayoutMethod = *input.PayoutMethod
	}
	if input.MaxMembers != nil {
		group.MaxMembers = *input.MaxMembers
	}
}

func validateGroup(group *Group) error {
	switch {
	case group.Name == "":
		return ErrNameRequired
	case group.ContributionAmount <= 0:
		return ErrInvalidAmount
	case len(group.Currency) != 3:
		return ErrInvalidCurrency
	case !group.Frequency.Valid():
		return ErrInvalidFrequency
	case !group.PayoutMethod.Valid():
		return ErrInvalidPayoutMethod
	case group.MaxMembers < 0:
		return ErrInvalidMaxMembers
	}
	return nil
}

func normalizeCurrency(value string) string {
	value = strings.ToUpper(strings.TrimSpace(value))
	if value == "" {
		return defaultCurrency
	}
	return value
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (s *Service) generateUniqueCode(ctx context.Context, repo Repository) (string, error) {
	for i := 0; i < groupCodeAttempts; i++ {
		code, err := s.newCode()
		if err != nil {
			return "", err
		}
		taken, err := repo.IsCodeTaken(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeGenerationFailed
}

func generateCode(length int) (string, error) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	max := big.NewInt(int64(len(alphabet)))

	var builder strings.Builder
	builder.Grow(length)

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(alphabet[n.Int64()])
	}

	return builder.String(), nil
}

package groups

import (
	"context"
	"slices"
	"sync"
	"time"
)

type fakeGroupRepo struct {
	mu      sync.Mutex
	groups  map[string]*Group
	members map[string]*Membership
	codes   map[string]string

	failOwned       error
	failMemberships error
	failByIDs       error
	calls           map[string]int
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{
		groups:  make(map[string]*Group),
		members: make(map[string]*Membership),
		codes:   make(map[string]string),
		calls:   make(map[string]int),
	}
}

func memberKey(groupID, userID string) string {
	return groupID + "|" + userID
}

func (r *fakeGroupRepo) seedGroup(group Group) *Group {
	r.mu.Lock()
	defer r.mu.Unlock()
	g := group
	r.groups[g.ID] = &g
	if g.Code != "" {
		r.codes[g.Code] = g.ID
	}
	return &g
}

func (r *fakeGroupRepo) seedMember(member Membership) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if member.Status == "" {
		member.Status = StatusActive
	}
	m := member
	r.members[memberKey(m.GroupID, m.UserID)] = &m
}

func (r *fakeGroupRepo) member(groupID, userID string) *Membership {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.members[memberKey(groupID, userID)]
}

func (r *fakeGroupRepo) callCount(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[name]
}

func (r *fakeGroupRepo) record(name string) {
	r.calls[name]++
}

func (r *fakeGroupRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func sortGroups(groups []Group, limit int) []Group {
	slices.SortFunc(groups, func(a, b Group) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		if a.ID > b.ID {
			return -1
		}
		if a.ID < b.ID {
			return 1
		}
		return 0
	})
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

func (r *fakeGroupRepo) ListOwnedGroups(ctx context.Context, userID string, limit int) ([]Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("ListOwnedGroups")
	if r.failOwned != nil {
		return nil, r.failOwned
	}
	var result []Group
	for _, g := range r.groups {
		if g.CreatedBy == userID {
			result = append(result, *g)
		}
	}
	return sortGroups(result, limit), nil
}

func (r *fakeGroupRepo) ListMembershipGroupIDs(ctx context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("ListMembershipGroupIDs")
	if r.failMemberships != nil {
		return nil, r.failMemberships
	}
	var ids []string
	for _, m := range r.members {
		if m.UserID == userID {
			ids = append(ids, m.GroupID)
		}
	}
	return ids, nil
}

func (r *fakeGroupRepo) ListGroupsByIDs(ctx context.Context, groupIDs []string, limit int) ([]Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("ListGroupsByIDs")
	if r.failByIDs != nil {
		return nil, r.failByIDs
	}
	var result []Group
	for _, id := range groupIDs {
		if g, ok := r.groups[id]; ok {
			result = append(result, *g)
		}
	}
	return sortGroups(result, limit), nil
}

func (r *fakeGroupRepo) GetGroup(ctx context.Context, groupID string) (*Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("GetGroup")
	g, ok := r.groups[groupID]
	if !ok {
		return nil, ErrGroupNotFound
	}
	copied := *g
	return &copied, nil
}

func (r *fakeGroupRepo) GetGroupByCode(ctx context.Context, code string) (*Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.codes[code]
	if !ok {
		return nil, ErrGroupCodeNotFound
	}
	g, ok := r.groups[id]
	if !ok {
		return nil, ErrGroupCodeNotFound
	}
	copied := *g
	return &copied, nil
}

func (r *fakeGroupRepo) CreateGroup(ctx context.Context, group *Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}
	g := *group
	r.groups[g.ID] = &g
	r.codes[g.Code] = g.ID
	return nil
}

func (r *fakeGroupRepo) UpdateGroup(ctx context.Context, group *Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.groups[group.ID]; !ok {
		return ErrGroupNotFound
	}
	g := *group
	r.groups[g.ID] = &g
	return nil
}

func (r *fakeGroupRepo) UpdateGroupOwner(ctx context.Context, groupID, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[groupID]
	if !ok {
		return ErrGroupNotFound
	}
	g.CreatedBy = ownerID
	return nil
}

func (r *fakeGroupRepo) DeleteGroup(ctx context.Context, groupID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.groups[groupID]; ok {
		delete(r.codes, g.Code)
	}
	delete(r.groups, groupID)
	return nil
}

func (r *fakeGroupRepo) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.codes[code]
	return ok, nil
}

func (r *fakeGroupRepo) GetMember(ctx context.Context, groupID, userID string) (*Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("GetMember")
	m, ok := r.members[memberKey(groupID, userID)]
	if !ok {
		return nil, ErrMemberNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeGroupRepo) ListMembers(ctx context.Context, groupID string) ([]Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []Membership
	for _, m := range r.members {
		if m.GroupID == groupID {
			result = append(result, *m)
		}
	}
	return result, nil
}

func (r *fakeGroupRepo) ListMembersWithProfiles(ctx context.Context, groupID string) ([]MemberProfile, error) {
	members, _ := r.ListMembers(ctx, groupID)
	r.mu.Lock()
	r.record("ListMembersWithProfiles")
	r.mu.Unlock()
	result := make([]MemberProfile, 0, len(members))
	for _, m := range members {
		result = append(result, MemberProfile{
			UserID:   m.UserID,
			Role:     m.Role,
			Status:   m.Status,
			JoinedAt: m.JoinedAt,
		})
	}
	return result, nil
}

func (r *fakeGroupRepo) AddMember(ctx context.Context, member *Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now().UTC()
	}
	m := *member
	r.members[memberKey(m.GroupID, m.UserID)] = &m
	return nil
}

func (r *fakeGroupRepo) UpdateMemberRole(ctx context.Context, groupID, userID, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[memberKey(groupID, userID)]
	if !ok {
		return ErrMemberNotFound
	}
	m.Role = role
	return nil
}

func (r *fakeGroupRepo) UpdateMemberStatus(ctx context.Context, groupID, userID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[memberKey(groupID, userID)]
	if !ok {
		return ErrMemberNotFound
	}
	m.Status = status
	return nil
}

func (r *fakeGroupRepo) DeleteMember(ctx context.Context, groupID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, memberKey(groupID, userID))
	return nil
}

func (r *fakeGroupRepo) DeleteMembersByGroup(ctx context.Context, groupID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, m := range r.members {
		if m.GroupID == groupID {
			delete(r.members, key)
		}
	}
	return nil
}

func (r *fakeGroupRepo) CountMembers(ctx context.Context, groupID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, m := range r.members {
		if m.GroupID == groupID {
			count++
		}
	}
	return count, nil
}

package groups

import "context"

// PageSource is the read side PageFetcher needs. Group lists are ordered by
// created_at desc, id desc and hold at most limit rows.
type PageSource interface {
	ListOwnedGroups(ctx context.Context, userID string, limit int) ([]Group, error)
	ListMembershipGroupIDs(ctx context.Context, userID string) ([]string, error)
	ListGroupsByIDs(ctx context.Context, groupIDs []string, limit int) ([]Group, error)
}

type Repository interface {
	PageSource

	Transaction(ctx context.Context, fn func(Repository) error) error
	GetGroup(ctx context.Context, groupID string) (*Group, error)
	GetGroupByCode(ctx context.Context, code string) (*Group, error)
	CreateGroup(ctx context.Context, group *Group) error
	UpdateGroup(ctx context.Context, group *Group) error
	UpdateGroupOwner(ctx context.Context, groupID, ownerID string) error
	DeleteGroup(ctx context.Context, groupID string) error
	IsCodeTaken(ctx context.Context, code string) (bool, error)

	GetMember(ctx context.Context, groupID, userID string) (*Membership, error)
	ListMembers(ctx context.Context, groupID string) ([]Membership, error)
	ListMembersWithProfiles(ctx context.Context, groupID string) ([]MemberProfile, error)
	AddMember(ctx context.Context, member *Membership) error
	UpdateMemberRole(ctx context.Context, groupID, userID, role string) error
	UpdateMemberStatus(ctx context.Context, groupID, userID, status string) error
	DeleteMember(ctx context.Context, groupID, userID string) error
	DeleteMembersByGroup(ctx context.Context, groupID string) error
	CountMembers(ctx context.Context, groupID string) (int64, error)
}

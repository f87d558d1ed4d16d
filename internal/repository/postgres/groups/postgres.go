package groups

import (
	"context"
	"errors"
	"time"

	groupsdomain "naat/internal/domain/groups"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(groupsdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func newestFirst(db *gorm.DB, limit int) *gorm.DB {
	db = db.Order("created_at desc").Order("id desc")
	if limit > 0 {
		db = db.Limit(limit)
	}
	return db
}

func (r *PostgresRepository) ListOwnedGroups(ctx context.Context, userID string, limit int) ([]groupsdomain.Group, error) {
	var groups []groupsdomain.Group
	query := r.db.WithContext(ctx).Where("created_by = ?", userID)
	if err := newestFirst(query, limit).Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *PostgresRepository) ListMembershipGroupIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&groupsdomain.Membership{}).
		Where("user_id = ?", userID).
		Pluck("group_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostgresRepository) ListGroupsByIDs(ctx context.Context, groupIDs []string, limit int) ([]groupsdomain.Group, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	var groups []groupsdomain.Group
	query := r.db.WithContext(ctx).Where("id IN ?", groupIDs)
	if err := newestFirst(query, limit).Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *PostgresRepository) GetGroup(ctx context.Context, groupID string) (*groupsdomain.Group, error) {
	var group groupsdomain.Group
	if err := r.db.WithContext(ctx).Where("id = ?", groupID).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, groupsdomain.ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *PostgresRepository) GetGroupByCode(ctx context.Context, code string) (*groupsdomain.Group, error) {
	var group groupsdomain.Group
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, groupsdomain.ErrGroupCodeNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *PostgresRepository) CreateGroup(ctx context.Context, group *groupsdomain.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *PostgresRepository) UpdateGroup(ctx context.Context, group *groupsdomain.Group) error {
	result := r.db.WithContext(ctx).
		Model(&groupsdomain.Group{}).
		Where("id = ?", group.ID).
		Updates(map[string]interface{}{
			"name":                group.Name,
			"description":         group.Description,
			"contribution_amount": group.ContributionAmount,
			"currency":            group.Currency,
			"frequency":           group.Frequency,
			"payout_method":       group.PayoutMethod,
			"max_members":         group.MaxMembers,
			"updated_at":          time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return groupsdomain.ErrGroupNotFound
	}
	return nil
}

func (r *PostgresRepository) UpdateGroupOwner(ctx context.Context, groupID, ownerID string) error {
	return r.db.WithContext(ctx).Model(&groupsdomain.Group{}).Where("id = ?", groupID).Update("created_by", ownerID).Error
}

func (r *PostgresRepository) DeleteGroup(ctx context.Context, groupID string) error {
	return r.db.WithContext(ctx).Delete(&groupsdomain.Group{}, "id = ?", groupID).Error
}

func (r *PostgresRepository) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&groupsdomain.Group{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) GetMember(ctx context.Context, groupID, userID string) (*groupsdomain.Membership, error) {
	var member groupsdomain.Membership
	if err := r.db.WithContext(ctx).Where("group_id = ? AND user_id = ?", groupID, userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, groupsdomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context, groupID string) ([]groupsdomain.Membership, error) {
	var members []groupsdomain.Membership
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("joined_at asc").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) ListMembersWithProfiles(ctx context.Context, groupID string) ([]groupsdomain.MemberProfile, error) {
	type memberRow struct {
		UserID    string    `gorm:"column:user_id"`
		Role      string    `gorm:"column:role"`
		Status    string    `gorm:"column:status"`
		JoinedAt  time.Time `gorm:"column:joined_at"`
		Email     *string   `gorm:"column:email"`
		Name      *string   `gorm:"column:name"`
		AvatarURL *string   `gorm:"column:avatar_url"`
	}

	var rows []memberRow
	if err := r.db.WithContext(ctx).
		Table("memberships").
		Select("memberships.user_id, memberships.role, memberships.status, memberships.joined_at, user_profiles.email, user_profiles.name, user_profiles.avatar_url").
		Joins("left join user_profiles on user_profiles.user_id = memberships.user_id").
		Where("memberships.group_id = ?", groupID).
		Order("memberships.joined_at asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	members := make([]groupsdomain.MemberProfile, 0, len(rows))
	for _, row := range rows {
		members = append(members, groupsdomain.MemberProfile(row))
	}
	return members, nil
}

func (r *PostgresRepository) AddMember(ctx context.Context, member *groupsdomain.Membership) error {
	return r.db.WithContext(ctx).Omit("Group").Create(member).Error
}

func (r *PostgresRepository) UpdateMemberRole(ctx context.Context, groupID, userID, role string) error {
	return r.updateMember(ctx, groupID, userID, "role", role)
}

func (r *PostgresRepository) UpdateMemberStatus(ctx context.Context, groupID, userID, status string) error {
	return r.updateMember(ctx, groupID, userID, "status", status)
}

func (r *PostgresRepository) updateMember(ctx context.Context, groupID, userID, column, value string) error {
	result := r.db.WithContext(ctx).Model(&groupsdomain.Membership{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return groupsdomain.ErrMemberNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteMember(ctx context.Context, groupID, userID string) error {
	return r.db.WithContext(ctx).Delete(&groupsdomain.Membership{}, "group_id = ? AND user_id = ?", groupID, userID).Error
}

func (r *PostgresRepository) DeleteMembersByGroup(ctx context.Context, groupID string) error {
	return r.db.WithContext(ctx).Where("group_id = ?", groupID).Delete(&groupsdomain.Membership{}).Error
}

func (r *PostgresRepository) CountMembers(ctx context.Context, groupID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&groupsdomain.Membership{}).Where("group_id = ?", groupID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

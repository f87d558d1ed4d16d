package contributions

import (
	"context"
	"errors"

	contributionsdomain "naat/internal/domain/contributions"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListContributions(ctx context.Context, groupID string, filter contributionsdomain.ListFilter) ([]contributionsdomain.Contribution, int64, error) {
	query := r.db.WithContext(ctx).Model(&contributionsdomain.Contribution{}).Where("group_id = ?", groupID)
	if filter.Round != nil {
		query = query.Where("round = ?", *filter.Round)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("round desc, paid_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var items []contributionsdomain.Contribution
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PostgresRepository) CreateContribution(ctx context.Context, contribution *contributionsdomain.Contribution) error {
	err := r.db.WithContext(ctx).Create(contribution).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return contributionsdomain.ErrDuplicateContribution
	}
	return err
}

func (r *PostgresRepository) HasContribution(ctx context.Context, groupID, userID string, round int) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&contributionsdomain.Contribution{}).
		Where("group_id = ? AND user_id = ? AND round = ?", groupID, userID, round).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) SummarizeRound(ctx context.Context, groupID string, round int) (contributionsdomain.RoundSummary, error) {
	var row struct {
		Collected    float64
		Contributors int64
	}
	if err := r.db.WithContext(ctx).
		Model(&contributionsdomain.Contribution{}).
		Select("COALESCE(SUM(amount), 0) AS collected, COUNT(DISTINCT user_id) AS contributors").
		Where("group_id = ? AND round = ?", groupID, round).
		Scan(&row).Error; err != nil {
		return contributionsdomain.RoundSummary{}, err
	}
	return contributionsdomain.RoundSummary{
		Round:        round,
		Collected:    row.Collected,
		Contributors: row.Contributors,
	}, nil
}

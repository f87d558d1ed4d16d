package payouts

import (
	"context"
	"errors"

	payoutsdomain "naat/internal/domain/payouts"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(payoutsdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListPayouts(ctx context.Context, groupID string) ([]payoutsdomain.Payout, error) {
	var items []payoutsdomain.Payout
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("round asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CreatePayout fails with ErrRoundTaken when a concurrent schedule already
// claimed the round.
func (r *PostgresRepository) CreatePayout(ctx context.Context, payout *payoutsdomain.Payout) error {
	err := r.db.WithContext(ctx).Create(payout).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return payoutsdomain.ErrRoundTaken
	}
	return err
}

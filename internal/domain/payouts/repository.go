package payouts

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	ListPayouts(ctx context.Context, groupID string) ([]Payout, error)
	CreatePayout(ctx context.Context, payout *Payout) error
}

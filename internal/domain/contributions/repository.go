package contributions

import "context"

type Repository interface {
	ListContributions(ctx context.Context, groupID string, filter ListFilter) ([]Contribution, int64, error)
	CreateContribution(ctx context.Context, contribution *Contribution) error
	HasContribution(ctx context.Context, groupID, userID string, round int) (bool, error)
	SummarizeRound(ctx context.Context, groupID string, round int) (RoundSummary, error)
}

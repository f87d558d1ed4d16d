package contributions

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Record stores one member's payment for a round. Each member pays at most
// once per round.
func (s *Service) Record(ctx context.Context, input RecordInput) (*Contribution, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if input.Round < 1 {
		return nil, ErrInvalidRound
	}
	if !input.Method.Valid() {
		return nil, ErrInvalidMethod
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if len(currency) != 3 {
		return nil, ErrInvalidCurrency
	}

	exists, err := s.repo.HasContribution(ctx, input.GroupID, input.UserID, input.Round)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateContribution
	}

	paidAt := s.now().UTC()
	if input.PaidAt != nil {
		paidAt = input.PaidAt.UTC()
	}

	contribution := Contribution{
		ID:        uuid.NewString(),
		GroupID:   input.GroupID,
		UserID:    input.UserID,
		Round:     input.Round,
		Amount:    input.Amount,
		Currency:  currency,
		Method:    input.Method,
		Reference: input.Reference,
		PaidAt:    paidAt,
	}
	if err := s.repo.CreateContribution(ctx, &contribution); err != nil {
		return nil, err
	}
	return &contribution, nil
}

func (s *Service) List(ctx context.Context, groupID string, filter ListFilter) ([]Contribution, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Round != nil && *filter.Round < 1 {
		return nil, 0, ErrInvalidRound
	}
	return s.repo.ListContributions(ctx, groupID, filter)
}

func (s *Service) RoundSummary(ctx context.Context, groupID string, round int) (RoundSummary, error) {
	if round < 1 {
		return RoundSummary{}, ErrInvalidRound
	}
	return s.repo.SummarizeRound(ctx, groupID, round)
}

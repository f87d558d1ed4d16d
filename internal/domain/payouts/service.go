package payouts

import (
	"cmp"
	"context"
	"crypto/rand"
	"math/big"
	"slices"

	"github.com/google/uuid"

	"naat/internal/domain/groups"
)

type Service struct {
	repo Repository
	pick func(n int) (int, error)
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, pick: randomIndex}
}

func (s *Service) List(ctx context.Context, groupID string) ([]Payout, error) {
	return s.repo.ListPayouts(ctx, groupID)
}

// Schedule records the next payout of the group. Every active member is paid
// once per cycle; a cycle spans as many rounds as there are active members.
func (s *Service) Schedule(ctx context.Context, input ScheduleInput) (*Payout, error) {
	active := activeMembers(input.Members)
	if len(active) == 0 {
		return nil, ErrNoEligibleMembers
	}

	var result Payout
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		history, err := tx.ListPayouts(ctx, input.Group.ID)
		if err != nil {
			return err
		}

		eligible := eligibleMembers(active, history)
		if len(eligible) == 0 {
			return ErrNoEligibleMembers
		}

		recipient, err := s.chooseRecipient(input.Group.PayoutMethod, eligible, input.RecipientID)
		if err != nil {
			return err
		}

		result = Payout{
			ID:          uuid.NewString(),
			GroupID:     input.Group.ID,
			RecipientID: recipient,
			Round:       len(history) + 1,
			Amount:      input.Group.ContributionAmount * float64(len(active)),
			Currency:    input.Group.Currency,
		}
		return tx.CreatePayout(ctx, &result)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) chooseRecipient(method groups.PayoutMethod, eligible []groups.MemberProfile, requested string) (string, error) {
	switch method {
	case groups.PayoutRandom:
		i, err := s.pick(len(eligible))
		if err != nil {
			return "", err
		}
		return eligible[i].UserID, nil
	case groups.PayoutBidding:
		if requested == "" {
			return "", ErrRecipientRequired
		}
		for _, m := range eligible {
			if m.UserID == requested {
				return requested, nil
			}
		}
		return "", ErrRecipientNotEligible
	default:
		return eligible[0].UserID, nil
	}
}

// activeMembers returns active members in rotation order: join time, then id.
func activeMembers(members []groups.MemberProfile) []groups.MemberProfile {
	var active []groups.MemberProfile
	for _, m := range members {
		if m.Status == groups.StatusActive {
			active = append(active, m)
		}
	}
	slices.SortFunc(active, func(a, b groups.MemberProfile) int {
		if c := a.JoinedAt.Compare(b.JoinedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	})
	return active
}

// eligibleMembers returns the active members not yet paid in the current
// cycle. Walking history in round order, a cycle closes once every currently
// active member has been paid since the previous close. Payouts to members
// who are no longer active do not count.
func eligibleMembers(active []groups.MemberProfile, history []Payout) []groups.MemberProfile {
	activeIDs := make(map[string]struct{}, len(active))
	for _, m := range active {
		activeIDs[m.UserID] = struct{}{}
	}

	paidThisCycle := make(map[string]struct{})
	for _, p := range history {
		if _, ok := activeIDs[p.RecipientID]; !ok {
			continue
		}
		paidThisCycle[p.RecipientID] = struct{}{}
		if len(paidThisCycle) == len(activeIDs) {
			clear(paidThisCycle)
		}
	}

	var eligible []groups.MemberProfile
	for _, m := range active {
		if _, paid := paidThisCycle[m.UserID]; !paid {
			eligible = append(eligible, m)
		}
	}
	return eligible
}

func randomIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

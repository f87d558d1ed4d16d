package payouts

import (
	"time"

	"naat/internal/domain/groups"
)

type Payout struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	GroupID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_payout_round"`
	RecipientID string    `gorm:"type:uuid;not null;index"`
	Round       int       `gorm:"not null;uniqueIndex:idx_payout_round"`
	Amount      float64   `gorm:"type:numeric(12,2);not null"`
	Currency    string    `gorm:"size:3;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

type ScheduleInput struct {
	Group   groups.Group
	Members []groups.MemberProfile
	// RecipientID is the winning bidder; only used by bidding groups.
	RecipientID string
}

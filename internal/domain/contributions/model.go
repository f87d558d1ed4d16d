package contributions

import "time"

type Method string

const (
	MethodCard         Method = "card"
	MethodPayPal       Method = "paypal"
	MethodBankTransfer Method = "bank_transfer"
	MethodCash         Method = "cash"
)

func (m Method) Valid() bool {
	switch m {
	case MethodCard, MethodPayPal, MethodBankTransfer, MethodCash:
		return true
	}
	return false
}

type Contribution struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	GroupID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_contribution_round"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_contribution_round"`
	Round     int       `gorm:"not null;uniqueIndex:idx_contribution_round"`
	Amount    float64   `gorm:"type:numeric(12,2);not null"`
	Currency  string    `gorm:"size:3;not null"`
	Method    Method    `gorm:"type:varchar(16);not null"`
	Reference *string   `gorm:"type:text"`
	PaidAt    time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type ListFilter struct {
	Round  *int
	UserID string
	Limit  int
	Offset int
}

type RecordInput struct {
	GroupID   string
	UserID    string
	Round     int
	Amount    float64
	Currency  string
	Method    Method
	Reference *string
	PaidAt    *time.Time
}

type RoundSummary struct {
	Round        int
	Collected    float64
	Contributors int64
}

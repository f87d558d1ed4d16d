package groups

import "time"

const (
	RoleOwner  = "owner"
	RoleMember = "member"

	StatusActive  = "active"
	StatusPending = "pending"
)

type Frequency string

const (
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

type PayoutMethod string

const (
	PayoutRotation PayoutMethod = "rotation"
	PayoutRandom   PayoutMethod = "random"
	PayoutBidding  PayoutMethod = "bidding"
)

func (m PayoutMethod) Valid() bool {
	switch m {
	case PayoutRotation, PayoutRandom, PayoutBidding:
		return true
	}
	return false
}

type Group struct {
	ID                 string       `gorm:"type:uuid;primaryKey"`
	Name               string       `gorm:"not null"`
	Description        *string      `gorm:"type:text"`
	Code               string       `gorm:"size:6;not null;uniqueIndex"`
	ContributionAmount float64      `gorm:"type:numeric(12,2);not null"`
	Currency           string       `gorm:"size:3;not null"`
	Frequency          Frequency    `gorm:"type:varchar(16);not null"`
	PayoutMethod       PayoutMethod `gorm:"type:varchar(16);not null"`
	MaxMembers         int          `gorm:"not null;default:0"`
	CreatedBy          string       `gorm:"type:uuid;not null;index"`
	CreatedAt          time.Time    `gorm:"autoCreateTime"`
	UpdatedAt          time.Time    `gorm:"autoUpdateTime"`
}

type Membership struct {
	GroupID  string    `gorm:"type:uuid;primaryKey"`
	UserID   string    `gorm:"type:uuid;primaryKey;index"`
	Role     string    `gorm:"type:varchar(16);not null"`
	Status   string    `gorm:"type:varchar(16);not null"`
	JoinedAt time.Time `gorm:"autoCreateTime"`

	Group Group `gorm:"foreignKey:GroupID;references:ID;constraint:OnDelete:CASCADE"`
}

type MemberProfile struct {
	UserID    string
	Role      string
	Status    string
	JoinedAt  time.Time
	Email     *string
	Name      *string
	AvatarURL *string
}

// Page is one window of the groups a user owns or belongs to.
type Page struct {
	Groups   []Group
	Page     int
	PageSize int
	HasMore  bool
}

func (p Page) NextPage() *int {
	if !p.HasMore {
		return nil
	}
	next := p.Page + 1
	return &next
}

type CreateGroupInput struct {
	Name               string
	Description        *string
	ContributionAmount float64
	Currency           string
	Frequency          Frequency
	PayoutMethod       PayoutMethod
	MaxMembers         int
}

// UpdateGroupInput leaves nil fields unchanged.
type UpdateGroupInput struct {
	Name               *string
	Description        *string
	ContributionAmount *float64
	Frequency          *Frequency
	PayoutMethod       *PayoutMethod
	MaxMembers         *int
}

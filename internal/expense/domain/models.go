package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Expense is a company expense. Direct expenses carry a PartnerID and hit
// that partner in full; apportioned expenses are split by the percentage
// rows in ExpenseApportionment.
type Expense struct {
	ID        snowflake.ID  `gorm:"primaryKey"`
	CompanyID snowflake.ID  `gorm:"column:company_id;not null;index"`
	PartnerID *snowflake.ID `gorm:"column:partner_id;index"`

	Date        time.Time       `gorm:"not null;index"`
	GroupCode   string          `gorm:"column:group_code;type:varchar(32);not null;default:GENERAL"`
	Description string          `gorm:"type:text"`
	Amount      decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0"`

	Apportioned bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Expense) TableName() string { return "expenses" }

// ExpenseApportionment is one partner's percentage of an apportioned expense.
type ExpenseApportionment struct {
	ID         snowflake.ID    `gorm:"primaryKey"`
	ExpenseID  snowflake.ID    `gorm:"column:expense_id;not null;index"`
	PartnerID  snowflake.ID    `gorm:"column:partner_id;not null;index"`
	Percentage decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
}

func (ExpenseApportionment) TableName() string { return "expense_apportionments" }

// PartnerExpenseLine is one expense as seen by a partner, with the value
// already reduced to the partner's portion.
type PartnerExpenseLine struct {
	ExpenseID    snowflake.ID
	Date         time.Time
	GroupCode    string
	Description  string
	TotalAmount  decimal.Decimal
	Percentage   decimal.Decimal
	PartnerValue decimal.Decimal
}

type Repository interface {
	// ListDirect returns the partner's own (non-apportioned) expenses in
	// [start, end).
	ListDirect(ctx context.Context, companyID, partnerID snowflake.ID, start, end time.Time) ([]PartnerExpenseLine, error)
	// ListApportioned returns apportioned company expenses in [start, end)
	// reduced to the partner's percentage. Expenses without a row for the
	// partner contribute nothing.
	ListApportioned(ctx context.Context, companyID, partnerID snowflake.ID, start, end time.Time) ([]PartnerExpenseLine, error)
}

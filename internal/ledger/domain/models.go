package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Movement is one entry on a partner's current account. Amounts are
// signed: credits positive, debits negative.
type Movement struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	CompanyID snowflake.ID `gorm:"column:company_id;not null;index"`
	PartnerID snowflake.ID `gorm:"column:partner_id;not null;index;uniqueIndex:ux_movement_tax_posting,priority:1"`

	Date        time.Time       `gorm:"not null;index"`
	Amount      decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0"`
	Description string          `gorm:"type:text;not null"`
	Memo        string          `gorm:"type:text"`

	// TaxCode and Competence identify automatic tax postings; both are
	// null on ordinary movements. The pair (partner_id, tax_code,
	// competence) is unique so a posting is never duplicated.
	TaxCode    *string `gorm:"column:tax_code;type:varchar(16);uniqueIndex:ux_movement_tax_posting,priority:2"`
	Competence *string `gorm:"column:competence;type:varchar(7);uniqueIndex:ux_movement_tax_posting,priority:3"`

	Automatic  bool `gorm:"not null;default:false"`
	Reconciled bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Movement) TableName() string { return "partner_movements" }

type Repository interface {
	ListForPartner(ctx context.Context, partnerID snowflake.ID, start, end time.Time) ([]Movement, error)
	SumForPartner(ctx context.Context, partnerID snowflake.ID, start, end time.Time) (decimal.Decimal, error)

	// FindTaxPosting returns the automatic posting for the key, or nil.
	FindTaxPosting(ctx context.Context, tx *gorm.DB, partnerID snowflake.ID, taxCode, competence string) (*Movement, error)
	Create(ctx context.Context, tx *gorm.DB, movement *Movement) error
	UpdateAmount(ctx context.Context, tx *gorm.DB, id snowflake.ID, amount decimal.Decimal, updatedAt time.Time) error
	Delete(ctx context.Context, tx *gorm.DB, id snowflake.ID) error
}

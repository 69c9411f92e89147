package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Result is the outcome of one engine run. PayableByTax is the
// side-channel map consumed by the automatic tax posting.
type Result struct {
	Snapshot     *TaxSnapshot
	PayableByTax map[string]decimal.Decimal
}

type Service interface {
	// Run assesses one (company, partner, period) key and upserts its
	// snapshot. Re-running with identical inputs yields identical
	// snapshot field values.
	Run(ctx context.Context, companyID, partnerID snowflake.ID, period Period) (*Result, error)
}

type SnapshotRepository interface {
	FindByKey(ctx context.Context, companyID, partnerID snowflake.ID, period string) (*TaxSnapshot, error)
	// Upsert writes the snapshot, fully replacing every computed column
	// when the key already exists.
	Upsert(ctx context.Context, tx *gorm.DB, snapshot *TaxSnapshot) error
}

type FinancialIncomeRepository interface {
	SumForPeriod(ctx context.Context, companyID snowflake.ID, start, end time.Time) (decimal.Decimal, error)
}

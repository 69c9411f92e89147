package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/socimed/fiscal/internal/assessment/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type snapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) domain.SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) FindByKey(ctx context.Context, companyID, partnerID snowflake.ID, period string) (*domain.TaxSnapshot, error) {
	var snapshot domain.TaxSnapshot
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND partner_id = ? AND period = ?", companyID, partnerID, period).
		First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// replacedColumns lists every computed column. The upsert replaces all of
// them so a stale snapshot can never survive a recomputation.
var replacedColumns = snapshotColumns()

func snapshotColumns() []string {
	cols := []string{
		"regime", "regime_source", "rates_unconfigured", "notes",
		"revenue_consultations", "revenue_other", "revenue_total",
		"financial_income",
		"emission_base_presumed", "quarter_emission_base_presumed",
		"csll_base", "irpj_base_presumed", "irpj_base_total",
		"irpj_additional_monthly", "irpj_additional_quarterly",
		"partner_revenue_gross", "partner_revenue_net", "partner_emission_gross",
		"partner_irpj_additional_monthly", "partner_irpj_additional_quarterly",
		"total_tax_to_provision", "provisioned_from_prior_period",
		"expenses_direct", "expenses_apportioned", "expenses_total",
		"movement_balance", "net_result", "balance_to_transfer",
		"invoice_lines", "direct_expense_lines", "apportioned_expense_lines", "movement_lines",
		"computed_at", "updated_at",
	}
	for _, prefix := range []string{"pis_", "cofins_", "csll_", "irpj_", "iss_"} {
		cols = append(cols, prefix+"due", prefix+"withheld", prefix+"payable")
		p := "partner_" + prefix
		cols = append(cols, p+"share", p+"withheld", p+"payable")
	}
	return cols
}

func (r *snapshotRepository) Upsert(ctx context.Context, tx *gorm.DB, snapshot *domain.TaxSnapshot) error {
	return r.conn(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_id"}, {Name: "partner_id"}, {Name: "period"}},
			DoUpdates: clause.AssignmentColumns(replacedColumns),
		}).
		Create(snapshot).Error
}

func (r *snapshotRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

type financialIncomeRepository struct {
	db *gorm.DB
}

func NewFinancialIncomeRepository(db *gorm.DB) domain.FinancialIncomeRepository {
	return &financialIncomeRepository{db: db}
}

func (r *financialIncomeRepository) SumForPeriod(ctx context.Context, companyID snowflake.ID, start, end time.Time) (decimal.Decimal, error) {
	var entries []domain.FinancialIncomeEntry
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND date >= ? AND date < ?", companyID, start, end).
		Find(&entries).Error
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total, nil
}

package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Regime selects which invoice date drives the company tax base.
type Regime string

const (
	RegimeAccrual Regime = "accrual" // base by emission date (competência)
	RegimeCash    Regime = "cash"    // base by receipt date (caixa)
)

func (r Regime) Valid() bool {
	return r == RegimeAccrual || r == RegimeCash
}

// Periodicity is the company's additional-IRPJ election.
type Periodicity string

const (
	PeriodicityMonthly   Periodicity = "monthly"
	PeriodicityQuarterly Periodicity = "quarterly"
)

// RegimeSource records how a regime was resolved for a reference date.
type RegimeSource string

const (
	RegimeSourceHistorical      RegimeSource = "historical"
	RegimeSourceCurrentFallback RegimeSource = "current_fallback"
)

// Company is a professional-services company assessed by the engine.
type Company struct {
	ID   snowflake.ID `gorm:"primaryKey"`
	Name string       `gorm:"type:text;not null"`
	CNPJ string       `gorm:"type:varchar(18);uniqueIndex"`

	Regime                Regime      `gorm:"type:text;not null;default:accrual"`
	AdditionalPeriodicity Periodicity `gorm:"column:additional_periodicity;type:text;not null;default:monthly"`

	// ReceiptCapThreshold is a legacy receipt-based cap input kept for
	// compatibility with imported configurations. It does not participate
	// in the assessment pipeline.
	ReceiptCapThreshold decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0"`

	// ISSDueDay is the municipal ISS due day (1-28).
	ISSDueDay int `gorm:"column:iss_due_day;not null;default:10"`

	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Company) TableName() string { return "companies" }

// Partner is a member (sócio) of a company receiving apportioned results.
type Partner struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	CompanyID snowflake.ID `gorm:"column:company_id;not null;index"`
	Name      string       `gorm:"type:text;not null"`
	CPF       string       `gorm:"type:varchar(14)"`

	Active    bool       `gorm:"not null;default:true"`
	JoinedAt  *time.Time `gorm:"column:joined_at"`
	LeftAt    *time.Time `gorm:"column:left_at"`
	CreatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Partner) TableName() string { return "partners" }

// RegimeHistoryEntry is one interval of the append-only regime table.
// Entries for a company never overlap; at most one has a null end date.
type RegimeHistoryEntry struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	CompanyID snowflake.ID `gorm:"column:company_id;not null;index"`
	Regime    Regime       `gorm:"type:text;not null"`
	StartDate time.Time    `gorm:"column:start_date;not null"`
	EndDate   *time.Time   `gorm:"column:end_date"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (RegimeHistoryEntry) TableName() string { return "regime_history" }

// Covers reports whether the entry is in force on the given date.
func (e RegimeHistoryEntry) Covers(date time.Time) bool {
	if date.Before(e.StartDate) {
		return false
	}
	if e.EndDate != nil && date.After(*e.EndDate) {
		return false
	}
	return true
}

// RegimeResolution is the outcome of a point-in-time regime lookup.
type RegimeResolution struct {
	Regime Regime
	Source RegimeSource
	// Note carries the advisory attached on fallback resolutions.
	Note string
}

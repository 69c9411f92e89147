package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// RateSchedule holds the tax rates and presumption percentages in force
// for a company from EffectiveFrom onward. Lookup picks the most recent
// schedule with effective_from <= reference date.
type RateSchedule struct {
	ID            snowflake.ID `gorm:"primaryKey"`
	CompanyID     snowflake.ID `gorm:"column:company_id;not null;index"`
	EffectiveFrom time.Time    `gorm:"column:effective_from;not null;index"`

	PISRate    decimal.Decimal `gorm:"column:pis_rate;type:numeric(5,2);not null;default:0"`
	COFINSRate decimal.Decimal `gorm:"column:cofins_rate;type:numeric(5,2);not null;default:0"`
	CSLLRate   decimal.Decimal `gorm:"column:csll_rate;type:numeric(5,2);not null;default:0"`
	IRPJRate   decimal.Decimal `gorm:"column:irpj_rate;type:numeric(5,2);not null;default:0"`
	ISSRate    decimal.Decimal `gorm:"column:iss_rate;type:numeric(5,2);not null;default:0"`

	// Presumption percentages per service category (presumed-profit base).
	IRPJPresumptionConsultations decimal.Decimal `gorm:"column:irpj_presumption_consultations;type:numeric(5,2);not null;default:0"`
	IRPJPresumptionOther         decimal.Decimal `gorm:"column:irpj_presumption_other;type:numeric(5,2);not null;default:0"`
	CSLLPresumptionConsultations decimal.Decimal `gorm:"column:csll_presumption_consultations;type:numeric(5,2);not null;default:0"`
	CSLLPresumptionOther         decimal.Decimal `gorm:"column:csll_presumption_other;type:numeric(5,2);not null;default:0"`

	// Additional-IRPJ surtax on presumed profit above the threshold.
	IRPJAdditionalRate               decimal.Decimal `gorm:"column:irpj_additional_rate;type:numeric(5,2);not null;default:0"`
	IRPJAdditionalMonthlyThreshold   decimal.Decimal `gorm:"column:irpj_additional_monthly_threshold;type:numeric(15,2);not null;default:0"`
	IRPJAdditionalQuarterlyThreshold decimal.Decimal `gorm:"column:irpj_additional_quarterly_threshold;type:numeric(15,2);not null;default:0"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (RateSchedule) TableName() string { return "rate_schedules" }

// Statutory returns a schedule carrying the statutory defaults for
// presumed-profit service companies. Used for seeding new companies.
func Statutory(companyID snowflake.ID, effectiveFrom time.Time) RateSchedule {
	return RateSchedule{
		CompanyID:                        companyID,
		EffectiveFrom:                    effectiveFrom,
		PISRate:                          decimal.RequireFromString("0.65"),
		COFINSRate:                       decimal.RequireFromString("3.00"),
		CSLLRate:                         decimal.RequireFromString("9.00"),
		IRPJRate:                         decimal.RequireFromString("15.00"),
		IRPJPresumptionConsultations:     decimal.RequireFromString("32.00"),
		IRPJPresumptionOther:             decimal.RequireFromString("32.00"),
		CSLLPresumptionConsultations:     decimal.RequireFromString("32.00"),
		CSLLPresumptionOther:             decimal.RequireFromString("32.00"),
		IRPJAdditionalRate:               decimal.RequireFromString("10.00"),
		IRPJAdditionalMonthlyThreshold:   decimal.RequireFromString("20000.00"),
		IRPJAdditionalQuarterlyThreshold: decimal.RequireFromString("60000.00"),
	}
}

// Resolution is the outcome of a rate lookup. When no schedule covers the
// reference date the engine proceeds with zero rates and flags the result
// instead of failing, so reports still render with visible markers.
type Resolution struct {
	Schedule     RateSchedule
	Unconfigured bool
}

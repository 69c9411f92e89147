package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Tax codes used on snapshots and automatic postings.
const (
	TaxPIS    = "PIS"
	TaxCOFINS = "COFINS"
	TaxCSLL   = "CSLL"
	TaxIRPJ   = "IRPJ"
	TaxISS    = "ISSQN"
)

// TaxFigure is the company-level outcome for one tax.
type TaxFigure struct {
	Due      decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0"`
	Withheld decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0"`
	Payable  decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0"`
}

// PartnerTaxFigure is the partner-level apportionment for one tax.
type PartnerTaxFigure struct {
	Share    decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0"`
	Withheld decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0"`
	Payable  decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0"`
}

// FinancialIncomeEntry is income from financial investments, which joins
// the IRPJ ordinary base but never the additional-IRPJ base.
type FinancialIncomeEntry struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	CompanyID snowflake.ID `gorm:"column:company_id;not null;index"`

	Date        time.Time       `gorm:"not null;index"`
	Description string          `gorm:"type:text"`
	Amount      decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (FinancialIncomeEntry) TableName() string { return "financial_income_entries" }

// TaxSnapshot is the persisted assessment for one (company, partner,
// period) key. Recomputation fully overwrites every computed column;
// the record is never partially patched.
type TaxSnapshot struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	CompanyID snowflake.ID `gorm:"column:company_id;not null;uniqueIndex:ux_tax_snapshot_key,priority:1"`
	PartnerID snowflake.ID `gorm:"column:partner_id;not null;uniqueIndex:ux_tax_snapshot_key,priority:2"`
	Period    string       `gorm:"type:varchar(7);not null;uniqueIndex:ux_tax_snapshot_key,priority:3"`

	Regime            string         `gorm:"type:text;not null"`
	RegimeSource      string         `gorm:"column:regime_source;type:text;not null"`
	RatesUnconfigured bool           `gorm:"column:rates_unconfigured;not null;default:false"`
	Notes             datatypes.JSON `gorm:"type:json"`

	// Company revenue in the regime-selected base.
	RevenueConsultations decimal.Decimal `gorm:"column:revenue_consultations;type:numeric(15,2);not null;default:0"`
	RevenueOther         decimal.Decimal `gorm:"column:revenue_other;type:numeric(15,2);not null;default:0"`
	RevenueTotal         decimal.Decimal `gorm:"column:revenue_total;type:numeric(15,2);not null;default:0"`

	FinancialIncome decimal.Decimal `gorm:"column:financial_income;type:numeric(15,2);not null;default:0"`

	// Emission-dated presumed bases driving the additional-IRPJ, monthly
	// and per containing quarter.
	EmissionBasePresumed        decimal.Decimal `gorm:"column:emission_base_presumed;type:numeric(15,2);not null;default:0"`
	QuarterEmissionBasePresumed decimal.Decimal `gorm:"column:quarter_emission_base_presumed;type:numeric(15,2);not null;default:0"`

	CSLLBase         decimal.Decimal `gorm:"column:csll_base;type:numeric(15,2);not null;default:0"`
	IRPJBasePresumed decimal.Decimal `gorm:"column:irpj_base_presumed;type:numeric(15,2);not null;default:0"`
	IRPJBaseTotal    decimal.Decimal `gorm:"column:irpj_base_total;type:numeric(15,2);not null;default:0"`

	PIS    TaxFigure `gorm:"embedded;embeddedPrefix:pis_"`
	COFINS TaxFigure `gorm:"embedded;embeddedPrefix:cofins_"`
	CSLL   TaxFigure `gorm:"embedded;embeddedPrefix:csll_"`
	IRPJ   TaxFigure `gorm:"embedded;embeddedPrefix:irpj_"`
	ISS    TaxFigure `gorm:"embedded;embeddedPrefix:iss_"`

	IRPJAdditionalMonthly   decimal.Decimal `gorm:"column:irpj_additional_monthly;type:numeric(15,2);not null;default:0"`
	IRPJAdditionalQuarterly decimal.Decimal `gorm:"column:irpj_additional_quarterly;type:numeric(15,2);not null;default:0"`

	// Partner figures. Revenue recognized this period is receipt-dated;
	// the emission-dated gross backs the additional-IRPJ apportionment.
	PartnerRevenueGross  decimal.Decimal `gorm:"column:partner_revenue_gross;type:numeric(15,2);not null;default:0"`
	PartnerRevenueNet    decimal.Decimal `gorm:"column:partner_revenue_net;type:numeric(15,2);not null;default:0"`
	PartnerEmissionGross decimal.Decimal `gorm:"column:partner_emission_gross;type:numeric(15,2);not null;default:0"`

	PartnerPIS    PartnerTaxFigure `gorm:"embedded;embeddedPrefix:partner_pis_"`
	PartnerCOFINS PartnerTaxFigure `gorm:"embedded;embeddedPrefix:partner_cofins_"`
	PartnerCSLL   PartnerTaxFigure `gorm:"embedded;embeddedPrefix:partner_csll_"`
	PartnerIRPJ   PartnerTaxFigure `gorm:"embedded;embeddedPrefix:partner_irpj_"`
	PartnerISS    PartnerTaxFigure `gorm:"embedded;embeddedPrefix:partner_iss_"`

	PartnerIRPJAdditionalMonthly   decimal.Decimal `gorm:"column:partner_irpj_additional_monthly;type:numeric(15,2);not null;default:0"`
	PartnerIRPJAdditionalQuarterly decimal.Decimal `gorm:"column:partner_irpj_additional_quarterly;type:numeric(15,2);not null;default:0"`

	// TotalTaxToProvision sums the ordinary partner payables only (PIS,
	// COFINS, CSLL, IRPJ). Additional-IRPJ and ISS are tracked in their
	// own columns and stay out of this sum.
	TotalTaxToProvision        decimal.Decimal `gorm:"column:total_tax_to_provision;type:numeric(15,2);not null;default:0"`
	ProvisionedFromPriorPeriod decimal.Decimal `gorm:"column:provisioned_from_prior_period;type:numeric(15,2);not null;default:0"`

	ExpensesDirect      decimal.Decimal `gorm:"column:expenses_direct;type:numeric(15,2);not null;default:0"`
	ExpensesApportioned decimal.Decimal `gorm:"column:expenses_apportioned;type:numeric(15,2);not null;default:0"`
	ExpensesTotal       decimal.Decimal `gorm:"column:expenses_total;type:numeric(15,2);not null;default:0"`

	MovementBalance   decimal.Decimal `gorm:"column:movement_balance;type:numeric(15,2);not null;default:0"`
	NetResult         decimal.Decimal `gorm:"column:net_result;type:numeric(15,2);not null;default:0"`
	BalanceToTransfer decimal.Decimal `gorm:"column:balance_to_transfer;type:numeric(15,2);not null;default:0"`

	// Display-only sub-documents for report rendering. Never read back
	// as computation input.
	InvoiceLines            datatypes.JSON `gorm:"column:invoice_lines;type:json"`
	DirectExpenseLines      datatypes.JSON `gorm:"column:direct_expense_lines;type:json"`
	ApportionedExpenseLines datatypes.JSON `gorm:"column:apportioned_expense_lines;type:json"`
	MovementLines           datatypes.JSON `gorm:"column:movement_lines;type:json"`

	ComputedAt time.Time `gorm:"column:computed_at;not null"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (TaxSnapshot) TableName() string { return "tax_snapshots" }

// InvoiceLine is the display row persisted per invoice on the snapshot.
type InvoiceLine struct {
	Number       string `json:"number"`
	Payer        string `json:"payer,omitempty"`
	Category     string `json:"category"`
	EmissionDate string `json:"emission_date"`
	ReceiptDate  string `json:"receipt_date,omitempty"`
	Gross        string `json:"gross"`
	Net          string `json:"net"`
	PartnerGross string `json:"partner_gross"`
	PartnerNet   string `json:"partner_net"`
}

// ExpenseLine is the display row persisted per expense on the snapshot.
type ExpenseLine struct {
	Date         string `json:"date"`
	Group        string `json:"group"`
	Description  string `json:"description"`
	TotalAmount  string `json:"total_amount"`
	Percentage   string `json:"percentage"`
	PartnerValue string `json:"partner_value"`
}

// MovementLine is the display row persisted per ledger movement.
type MovementLine struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

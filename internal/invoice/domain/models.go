package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Category is the service category on an invoice, which selects the
// presumption percentage applied to its revenue.
type Category string

const (
	CategoryConsultations Category = "consultations"
	CategoryOther         Category = "other"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusReceived  Status = "received"
	StatusCancelled Status = "cancelled"
)

// Invoice is a service invoice issued through the company (nota fiscal).
// The engine only reads invoices; creation and editing live elsewhere.
type Invoice struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	CompanyID snowflake.ID `gorm:"column:company_id;not null;index"`

	Number string `gorm:"type:varchar(64)"`
	Payer  string `gorm:"type:text"`

	EmissionDate time.Time  `gorm:"column:emission_date;not null;index"`
	ReceiptDate  *time.Time `gorm:"column:receipt_date;index"`
	DueDate      *time.Time `gorm:"column:due_date"`

	GrossValue decimal.Decimal `gorm:"column:gross_value;type:numeric(15,2);not null;default:0"`
	NetValue   decimal.Decimal `gorm:"column:net_value;type:numeric(15,2);not null;default:0"`

	Category Category `gorm:"type:text;not null;default:consultations"`
	Status   Status   `gorm:"type:text;not null;default:pending;index"`

	WithheldIRPJ   decimal.Decimal `gorm:"column:withheld_irpj;type:numeric(15,2);not null;default:0"`
	WithheldCSLL   decimal.Decimal `gorm:"column:withheld_csll;type:numeric(15,2);not null;default:0"`
	WithheldPIS    decimal.Decimal `gorm:"column:withheld_pis;type:numeric(15,2);not null;default:0"`
	WithheldCOFINS decimal.Decimal `gorm:"column:withheld_cofins;type:numeric(15,2);not null;default:0"`
	WithheldISS    decimal.Decimal `gorm:"column:withheld_iss;type:numeric(15,2);not null;default:0"`

	PartnerShares []InvoicePartnerShare `gorm:"foreignKey:InvoiceID"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Invoice) TableName() string { return "invoices" }

// InvoicePartnerShare is the pre-computed apportionment of one invoice to
// one partner. Immutable once the invoice is finalized.
type InvoicePartnerShare struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	InvoiceID snowflake.ID `gorm:"column:invoice_id;not null;index"`
	PartnerID snowflake.ID `gorm:"column:partner_id;not null;index"`

	Percentage decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`

	GrossAmount decimal.Decimal `gorm:"column:gross_amount;type:numeric(15,2);not null;default:0"`
	NetAmount   decimal.Decimal `gorm:"column:net_amount;type:numeric(15,2);not null;default:0"`

	WithheldIRPJ   decimal.Decimal `gorm:"column:withheld_irpj;type:numeric(15,2);not null;default:0"`
	WithheldCSLL   decimal.Decimal `gorm:"column:withheld_csll;type:numeric(15,2);not null;default:0"`
	WithheldPIS    decimal.Decimal `gorm:"column:withheld_pis;type:numeric(15,2);not null;default:0"`
	WithheldCOFINS decimal.Decimal `gorm:"column:withheld_cofins;type:numeric(15,2);not null;default:0"`
	WithheldISS    decimal.Decimal `gorm:"column:withheld_iss;type:numeric(15,2);not null;default:0"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (InvoicePartnerShare) TableName() string { return "invoice_partner_shares" }

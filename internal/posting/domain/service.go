package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	assessmentdomain "github.com/socimed/fiscal/internal/assessment/domain"
)

type Service interface {
	// PostTaxes reconciles the partner's automatic tax movements with the
	// payable amounts for the competence. One movement per tax, dated the
	// statutory payment date; unchanged amounts are left untouched, changed
	// amounts updated in place, and zero payables remove the movement.
	PostTaxes(ctx context.Context, companyID, partnerID snowflake.ID, period assessmentdomain.Period, payables map[string]decimal.Decimal) error
}

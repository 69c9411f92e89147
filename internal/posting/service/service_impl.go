package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	assessmentdomain "github.com/socimed/fiscal/internal/assessment/domain"
	"github.com/socimed/fiscal/internal/clock"
	ledgerdomain "github.com/socimed/fiscal/internal/ledger/domain"
	"github.com/socimed/fiscal/internal/posting/domain"
	"github.com/socimed/fiscal/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// paymentSlip names the collection document: DARF for the federal taxes,
// the municipal slip for ISS.
func paymentSlip(taxCode string) string {
	if taxCode == assessmentdomain.TaxISS {
		return "Guia de recolhimento municipal"
	}
	return "DARF"
}

// postedTaxes fixes the reconciliation order so repeated runs touch
// movements deterministically.
var postedTaxes = []string{
	assessmentdomain.TaxPIS,
	assessmentdomain.TaxCOFINS,
	assessmentdomain.TaxCSLL,
	assessmentdomain.TaxIRPJ,
	assessmentdomain.TaxISS,
}

type serviceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock

	Ledger ledgerdomain.Repository
}

type service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	clock  clock.Clock
	ledger ledgerdomain.Repository
}

func NewService(p serviceParam) domain.Service {
	return &service{
		db:     p.DB,
		log:    p.Log.Named("posting.service"),
		genID:  p.GenID,
		clock:  p.Clock,
		ledger: p.Ledger,
	}
}

func (s *service) PostTaxes(ctx context.Context, companyID, partnerID snowflake.ID, period assessmentdomain.Period, payables map[string]decimal.Decimal) error {
	competence := period.Competence()
	postingDate := period.PostingDate()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, taxCode := range postedTaxes {
			payable := payables[taxCode]

			existing, err := s.ledger.FindTaxPosting(ctx, tx, partnerID, taxCode, competence)
			if err != nil {
				return err
			}

			if payable.IsZero() {
				if existing == nil {
					continue
				}
				if err := s.ledger.Delete(ctx, tx, existing.ID); err != nil {
					return err
				}
				s.log.Info("tax posting removed",
					zap.String("partner_id", partnerID.String()),
					zap.String("tax_code", taxCode),
					zap.String("competence", competence),
				)
				continue
			}

			// Tax payments debit the partner account.
			amount := payable.Neg()

			if existing == nil {
				code := taxCode
				comp := competence
				movement := &ledgerdomain.Movement{
					ID:          s.genID.Generate(),
					CompanyID:   companyID,
					PartnerID:   partnerID,
					Date:        postingDate,
					Amount:      amount,
					Description: fmt.Sprintf("Pagamento %s - Competência %s - Lançamento automático", taxCode, competence),
					Memo:        paymentSlip(taxCode),
					TaxCode:     &code,
					Competence:  &comp,
					Automatic:   true,
				}
				if err := s.ledger.Create(ctx, tx, movement); err != nil {
					if db.IsDuplicateKeyErr(err) {
						// Lost a race with a concurrent run for the same key.
						return fmt.Errorf("tax posting for %s %s already created concurrently: %w", taxCode, competence, err)
					}
					return err
				}
				continue
			}

			if existing.Amount.Equal(amount) {
				continue
			}
			if err := s.ledger.UpdateAmount(ctx, tx, existing.ID, amount, s.clock.Now()); err != nil {
				return err
			}
			s.log.Info("tax posting updated",
				zap.String("partner_id", partnerID.String()),
				zap.String("tax_code", taxCode),
				zap.String("competence", competence),
				zap.String("amount", amount.StringFixed(2)),
			)
		}
		return nil
	})
}

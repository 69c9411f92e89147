package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/socimed/fiscal/internal/assessment/calc"
	"github.com/socimed/fiscal/internal/assessment/domain"
	"github.com/socimed/fiscal/internal/clock"
	companydomain "github.com/socimed/fiscal/internal/company/domain"
	expensedomain "github.com/socimed/fiscal/internal/expense/domain"
	invoicedomain "github.com/socimed/fiscal/internal/invoice/domain"
	ledgerdomain "github.com/socimed/fiscal/internal/ledger/domain"
	ratesdomain "github.com/socimed/fiscal/internal/rates/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type serviceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock

	Company         companydomain.Service
	Rates           ratesdomain.Resolver
	Invoices        invoicedomain.Repository
	Expenses        expensedomain.Repository
	Ledger          ledgerdomain.Repository
	Snapshots       domain.SnapshotRepository
	FinancialIncome domain.FinancialIncomeRepository
}

type service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock

	company   companydomain.Service
	rates     ratesdomain.Resolver
	invoices  invoicedomain.Repository
	expenses  expensedomain.Repository
	ledger    ledgerdomain.Repository
	snapshots domain.SnapshotRepository
	finIncome domain.FinancialIncomeRepository
}

func NewService(p serviceParam) domain.Service {
	return &service{
		db:        p.DB,
		log:       p.Log.Named("assessment.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		company:   p.Company,
		rates:     p.Rates,
		invoices:  p.Invoices,
		expenses:  p.Expenses,
		ledger:    p.Ledger,
		snapshots: p.Snapshots,
		finIncome: p.FinancialIncome,
	}
}

func (s *service) Run(ctx context.Context, companyID, partnerID snowflake.ID, period domain.Period) (*domain.Result, error) {
	if _, err := s.company.Get(ctx, companyID); err != nil {
		if errors.Is(err, companydomain.ErrNotFound) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, err
	}
	if err := s.checkPartner(ctx, companyID, partnerID); err != nil {
		return nil, err
	}

	regime, err := s.company.ResolveRegime(ctx, companyID, period.Start())
	if err != nil {
		return nil, err
	}
	rates, err := s.rates.Resolve(ctx, companyID, period.Start())
	if err != nil {
		return nil, err
	}
	sched := rates.Schedule

	inputs, err := s.loadInvoiceSets(ctx, companyID, period, regime.Regime)
	if err != nil {
		return nil, err
	}

	snapshot := &domain.TaxSnapshot{
		ID:                s.genID.Generate(),
		CompanyID:         companyID,
		PartnerID:         partnerID,
		Period:            period.String(),
		Regime:            string(regime.Regime),
		RegimeSource:      string(regime.Source),
		RatesUnconfigured: rates.Unconfigured,
		ComputedAt:        s.clock.Now(),
	}

	var notes []string
	if regime.Note != "" {
		notes = append(notes, regime.Note)
	}
	if rates.Unconfigured {
		notes = append(notes, "no rate schedule configured for this period; all rates resolved to zero")
	}
	if snapshot.Notes, err = json.Marshal(notes); err != nil {
		return nil, err
	}

	// Company bases. Ordinary taxes read the regime-selected revenue;
	// the additional-IRPJ always reads emission-dated revenue; withheld
	// amounts always follow the receipt date.
	revenue := invoicedomain.AggregateRevenue(inputs.regimeSet)
	withheld := invoicedomain.AggregateWithheld(inputs.receiptMonth)
	emissionRevenue := invoicedomain.AggregateRevenue(inputs.emissionMonth)
	quarterRevenue := invoicedomain.AggregateRevenue(inputs.emissionQuarter)

	snapshot.RevenueConsultations = revenue.Consultations
	snapshot.RevenueOther = revenue.Other
	snapshot.RevenueTotal = revenue.Total

	snapshot.FinancialIncome, err = s.finIncome.SumForPeriod(ctx, companyID, period.Start(), period.End())
	if err != nil {
		return nil, err
	}

	snapshot.IRPJBasePresumed = calc.PresumedBase(revenue.Consultations, revenue.Other,
		sched.IRPJPresumptionConsultations, sched.IRPJPresumptionOther)
	snapshot.IRPJBaseTotal = snapshot.IRPJBasePresumed.Add(snapshot.FinancialIncome)
	snapshot.CSLLBase = calc.PresumedBase(revenue.Consultations, revenue.Other,
		sched.CSLLPresumptionConsultations, sched.CSLLPresumptionOther)
	snapshot.EmissionBasePresumed = calc.PresumedBase(emissionRevenue.Consultations, emissionRevenue.Other,
		sched.IRPJPresumptionConsultations, sched.IRPJPresumptionOther)
	snapshot.QuarterEmissionBasePresumed = calc.PresumedBase(quarterRevenue.Consultations, quarterRevenue.Other,
		sched.IRPJPresumptionConsultations, sched.IRPJPresumptionOther)

	// Company-level due, withheld and payable per tax.
	snapshot.PIS = taxFigure(calc.Flat(revenue.Total, sched.PISRate), withheld.PIS)
	snapshot.COFINS = taxFigure(calc.Flat(revenue.Total, sched.COFINSRate), withheld.COFINS)
	snapshot.CSLL = taxFigure(calc.Flat(snapshot.CSLLBase, sched.CSLLRate), withheld.CSLL)
	snapshot.IRPJ = taxFigure(calc.Flat(snapshot.IRPJBaseTotal, sched.IRPJRate), withheld.IRPJ)
	snapshot.ISS = taxFigure(calc.Flat(emissionRevenue.Total, sched.ISSRate), withheld.ISS)

	snapshot.IRPJAdditionalMonthly = calc.Additional(snapshot.EmissionBasePresumed,
		sched.IRPJAdditionalMonthlyThreshold, sched.IRPJAdditionalRate)
	snapshot.IRPJAdditionalQuarterly = calc.Additional(snapshot.QuarterEmissionBasePresumed,
		sched.IRPJAdditionalQuarterlyThreshold, sched.IRPJAdditionalRate)

	// Partner apportionment.
	regimeAlloc := invoicedomain.AllocateToPartner(inputs.regimeSet, partnerID)
	receiptAlloc := invoicedomain.AllocateToPartner(inputs.receiptMonth, partnerID)
	emissionAlloc := invoicedomain.AllocateToPartner(inputs.emissionMonth, partnerID)
	quarterAlloc := invoicedomain.AllocateToPartner(inputs.emissionQuarter, partnerID)

	snapshot.PartnerRevenueGross = receiptAlloc.Gross
	snapshot.PartnerRevenueNet = receiptAlloc.Net
	snapshot.PartnerEmissionGross = emissionAlloc.Gross

	partnerIRPJBase := calc.PresumedBase(regimeAlloc.ByCategory.Consultations, regimeAlloc.ByCategory.Other,
		sched.IRPJPresumptionConsultations, sched.IRPJPresumptionOther)
	partnerCSLLBase := calc.PresumedBase(regimeAlloc.ByCategory.Consultations, regimeAlloc.ByCategory.Other,
		sched.CSLLPresumptionConsultations, sched.CSLLPresumptionOther)
	partnerEmissionBase := calc.PresumedBase(emissionAlloc.ByCategory.Consultations, emissionAlloc.ByCategory.Other,
		sched.IRPJPresumptionConsultations, sched.IRPJPresumptionOther)
	partnerQuarterBase := calc.PresumedBase(quarterAlloc.ByCategory.Consultations, quarterAlloc.ByCategory.Other,
		sched.IRPJPresumptionConsultations, sched.IRPJPresumptionOther)

	snapshot.PartnerPIS = partnerFigure(
		calc.Apportion(snapshot.PIS.Due, regimeAlloc.Gross, revenue.Total), receiptAlloc.Withheld.PIS)
	snapshot.PartnerCOFINS = partnerFigure(
		calc.Apportion(snapshot.COFINS.Due, regimeAlloc.Gross, revenue.Total), receiptAlloc.Withheld.COFINS)
	snapshot.PartnerCSLL = partnerFigure(
		calc.Apportion(snapshot.CSLL.Due, partnerCSLLBase, snapshot.CSLLBase), receiptAlloc.Withheld.CSLL)
	snapshot.PartnerIRPJ = partnerFigure(
		calc.Apportion(snapshot.IRPJ.Due, partnerIRPJBase, snapshot.IRPJBasePresumed), receiptAlloc.Withheld.IRPJ)
	snapshot.PartnerISS = partnerFigure(
		calc.Apportion(snapshot.ISS.Due, emissionAlloc.Gross, emissionRevenue.Total), receiptAlloc.Withheld.ISS)

	snapshot.PartnerIRPJAdditionalMonthly = calc.Apportion(
		snapshot.IRPJAdditionalMonthly, partnerEmissionBase, snapshot.EmissionBasePresumed)
	snapshot.PartnerIRPJAdditionalQuarterly = calc.Apportion(
		snapshot.IRPJAdditionalQuarterly, partnerQuarterBase, snapshot.QuarterEmissionBasePresumed)

	// Ordinary partner payables only; additional-IRPJ and ISS stay out.
	snapshot.TotalTaxToProvision = snapshot.PartnerPIS.Payable.
		Add(snapshot.PartnerCOFINS.Payable).
		Add(snapshot.PartnerCSLL.Payable).
		Add(snapshot.PartnerIRPJ.Payable)

	previous, err := s.snapshots.FindByKey(ctx, companyID, partnerID, period.Previous().String())
	if err != nil {
		return nil, err
	}
	if previous != nil {
		snapshot.ProvisionedFromPriorPeriod = previous.TotalTaxToProvision
	} else {
		snapshot.ProvisionedFromPriorPeriod = decimal.Zero
	}

	if err := s.fillExpenses(ctx, snapshot, companyID, partnerID, period); err != nil {
		return nil, err
	}
	if err := s.fillMovements(ctx, snapshot, partnerID, period); err != nil {
		return nil, err
	}

	snapshot.NetResult = snapshot.PartnerRevenueNet.Sub(snapshot.ExpensesTotal)
	snapshot.BalanceToTransfer = snapshot.NetResult.Add(snapshot.MovementBalance)

	if snapshot.InvoiceLines, err = invoiceLines(inputs.regimeSet, partnerID); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.snapshots.Upsert(ctx, tx, snapshot)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("assessment computed",
		zap.String("company_id", companyID.String()),
		zap.String("partner_id", partnerID.String()),
		zap.String("period", period.String()),
		zap.String("total_tax_to_provision", snapshot.TotalTaxToProvision.String()),
	)

	return &domain.Result{
		Snapshot: snapshot,
		PayableByTax: map[string]decimal.Decimal{
			domain.TaxPIS:    snapshot.PartnerPIS.Payable,
			domain.TaxCOFINS: snapshot.PartnerCOFINS.Payable,
			domain.TaxCSLL:   snapshot.PartnerCSLL.Payable,
			domain.TaxIRPJ:   snapshot.PartnerIRPJ.Payable,
			domain.TaxISS:    snapshot.PartnerISS.Payable,
		},
	}, nil
}

func (s *service) checkPartner(ctx context.Context, companyID, partnerID snowflake.ID) error {
	partners, err := s.company.ListActivePartners(ctx, companyID)
	if err != nil {
		return err
	}
	for _, p := range partners {
		if p.ID == partnerID {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrPartnerNotFound, partnerID)
}

// invoiceSets are the three date-keyed invoice selections the pipeline
// reads. regimeSet aliases emissionMonth or receiptMonth per the regime.
type invoiceSets struct {
	emissionMonth   []invoicedomain.Invoice
	receiptMonth    []invoicedomain.Invoice
	emissionQuarter []invoicedomain.Invoice
	regimeSet       []invoicedomain.Invoice
}

func (s *service) loadInvoiceSets(ctx context.Context, companyID snowflake.ID, period domain.Period, regime companydomain.Regime) (*invoiceSets, error) {
	var sets invoiceSets
	var err error

	if sets.emissionMonth, err = s.invoices.ListByEmission(ctx, companyID, period.Start(), period.End()); err != nil {
		return nil, err
	}
	if sets.receiptMonth, err = s.invoices.ListByReceipt(ctx, companyID, period.Start(), period.End()); err != nil {
		return nil, err
	}
	if sets.emissionQuarter, err = s.invoices.ListByEmission(ctx, companyID, period.QuarterStart(), period.QuarterEnd()); err != nil {
		return nil, err
	}

	if regime == companydomain.RegimeCash {
		sets.regimeSet = sets.receiptMonth
	} else {
		sets.regimeSet = sets.emissionMonth
	}
	return &sets, nil
}

func (s *service) fillExpenses(ctx context.Context, snapshot *domain.TaxSnapshot, companyID, partnerID snowflake.ID, period domain.Period) error {
	direct, err := s.expenses.ListDirect(ctx, companyID, partnerID, period.Start(), period.End())
	if err != nil {
		return err
	}
	apportioned, err := s.expenses.ListApportioned(ctx, companyID, partnerID, period.Start(), period.End())
	if err != nil {
		return err
	}

	for _, line := range direct {
		snapshot.ExpensesDirect = snapshot.ExpensesDirect.Add(line.PartnerValue)
	}
	for _, line := range apportioned {
		snapshot.ExpensesApportioned = snapshot.ExpensesApportioned.Add(line.PartnerValue)
	}
	snapshot.ExpensesTotal = snapshot.ExpensesDirect.Add(snapshot.ExpensesApportioned)

	if snapshot.DirectExpenseLines, err = expenseLines(direct); err != nil {
		return err
	}
	if snapshot.ApportionedExpenseLines, err = expenseLines(apportioned); err != nil {
		return err
	}
	return nil
}

func (s *service) fillMovements(ctx context.Context, snapshot *domain.TaxSnapshot, partnerID snowflake.ID, period domain.Period) error {
	movements, err := s.ledger.ListForPartner(ctx, partnerID, period.Start(), period.End())
	if err != nil {
		return err
	}
	balance, err := s.ledger.SumForPartner(ctx, partnerID, period.Start(), period.End())
	if err != nil {
		return err
	}
	snapshot.MovementBalance = balance

	lines := make([]domain.MovementLine, 0, len(movements))
	for _, m := range movements {
		lines = append(lines, domain.MovementLine{
			Date:        m.Date.Format("2006-01-02"),
			Description: m.Description,
			Amount:      m.Amount.StringFixed(2),
		})
	}
	snapshot.MovementLines, err = json.Marshal(lines)
	return err
}

func taxFigure(due, withheld decimal.Decimal) domain.TaxFigure {
	return domain.TaxFigure{Due: due, Withheld: withheld, Payable: calc.Payable(due, withheld)}
}

func partnerFigure(share, withheld decimal.Decimal) domain.PartnerTaxFigure {
	return domain.PartnerTaxFigure{Share: share, Withheld: withheld, Payable: calc.Payable(share, withheld)}
}

func invoiceLines(invoices []invoicedomain.Invoice, partnerID snowflake.ID) ([]byte, error) {
	lines := make([]domain.InvoiceLine, 0, len(invoices))
	for _, inv := range invoices {
		line := domain.InvoiceLine{
			Number:       inv.Number,
			Payer:        inv.Payer,
			Category:     string(inv.Category),
			EmissionDate: inv.EmissionDate.Format("2006-01-02"),
			Gross:        inv.GrossValue.StringFixed(2),
			Net:          inv.NetValue.StringFixed(2),
			PartnerGross: decimal.Zero.StringFixed(2),
			PartnerNet:   decimal.Zero.StringFixed(2),
		}
		if inv.ReceiptDate != nil {
			line.ReceiptDate = inv.ReceiptDate.Format("2006-01-02")
		}
		for _, share := range inv.PartnerShares {
			if share.PartnerID == partnerID {
				line.PartnerGross = share.GrossAmount.StringFixed(2)
				line.PartnerNet = share.NetAmount.StringFixed(2)
				break
			}
		}
		lines = append(lines, line)
	}
	return json.Marshal(lines)
}

func expenseLines(in []expensedomain.PartnerExpenseLine) ([]byte, error) {
	lines := make([]domain.ExpenseLine, 0, len(in))
	for _, e := range in {
		lines = append(lines, domain.ExpenseLine{
			Date:         e.Date.Format("2006-01-02"),
			Group:        e.GroupCode,
			Description:  e.Description,
			TotalAmount:  e.TotalAmount.StringFixed(2),
			Percentage:   e.Percentage.StringFixed(2),
			PartnerValue: e.PartnerValue.StringFixed(2),
		})
	}
	return json.Marshal(lines)
}

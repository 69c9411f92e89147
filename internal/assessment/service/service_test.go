package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/socimed/fiscal/internal/assessment/domain"
	assessmentrepo "github.com/socimed/fiscal/internal/assessment/repository"
	"github.com/socimed/fiscal/internal/clock"
	companydomain "github.com/socimed/fiscal/internal/company/domain"
	companyrepo "github.com/socimed/fiscal/internal/company/repository"
	companyservice "github.com/socimed/fiscal/internal/company/service"
	expensedomain "github.com/socimed/fiscal/internal/expense/domain"
	expenserepo "github.com/socimed/fiscal/internal/expense/repository"
	invoicedomain "github.com/socimed/fiscal/internal/invoice/domain"
	invoicerepo "github.com/socimed/fiscal/internal/invoice/repository"
	ledgerdomain "github.com/socimed/fiscal/internal/ledger/domain"
	ledgerrepo "github.com/socimed/fiscal/internal/ledger/repository"
	ratesdomain "github.com/socimed/fiscal/internal/rates/domain"
	ratesrepo "github.com/socimed/fiscal/internal/rates/repository"
	ratesservice "github.com/socimed/fiscal/internal/rates/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	node    *snowflake.Node
	svc     domain.Service
	company *companydomain.Company
	partner *companydomain.Partner
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setupFixture(t *testing.T, regime companydomain.Regime) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&companydomain.Company{},
		&companydomain.Partner{},
		&companydomain.RegimeHistoryEntry{},
		&ratesdomain.RateSchedule{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoicePartnerShare{},
		&expensedomain.Expense{},
		&expensedomain.ExpenseApportionment{},
		&ledgerdomain.Movement{},
		&domain.FinancialIncomeEntry{},
		&domain.TaxSnapshot{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()
	clk := clock.NewFakeClock(time.Date(2025, time.September, 1, 10, 0, 0, 0, time.UTC))

	company := &companydomain.Company{
		ID:     node.Generate(),
		Name:   "Clínica Exemplo",
		Regime: regime,
		Active: true,
	}
	require.NoError(t, db.Create(company).Error)

	partner := &companydomain.Partner{
		ID:        node.Generate(),
		CompanyID: company.ID,
		Name:      "Dra. Ana",
		Active:    true,
	}
	require.NoError(t, db.Create(partner).Error)

	rates := ratesdomain.Statutory(company.ID, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
	rates.ID = node.Generate()
	require.NoError(t, db.Create(&rates).Error)

	companySvc := companyservice.NewService(companyservice.ServiceParam{
		DB:         db,
		Log:        log,
		GenID:      node,
		Clock:      clk,
		Repository: companyrepo.NewRepository(db),
	})
	resolver := ratesservice.NewResolver(ratesservice.ResolverParam{
		Log:        log,
		Repository: ratesrepo.NewRepository(db),
	})

	svc := NewService(serviceParam{
		DB:              db,
		Log:             log,
		GenID:           node,
		Clock:           clk,
		Company:         companySvc,
		Rates:           resolver,
		Invoices:        invoicerepo.NewRepository(db),
		Expenses:        expenserepo.NewRepository(db),
		Ledger:          ledgerrepo.NewRepository(db),
		Snapshots:       assessmentrepo.NewSnapshotRepository(db),
		FinancialIncome: assessmentrepo.NewFinancialIncomeRepository(db),
	})

	return &fixture{db: db, node: node, svc: svc, company: company, partner: partner}
}

// addInvoice seeds an invoice fully allocated to the fixture partner.
func (f *fixture) addInvoice(t *testing.T, emission time.Time, receipt *time.Time, gross, net string, category invoicedomain.Category, status invoicedomain.Status) *invoicedomain.Invoice {
	t.Helper()
	id := f.node.Generate()
	inv := &invoicedomain.Invoice{
		ID:           id,
		CompanyID:    f.company.ID,
		Number:       id.String(),
		EmissionDate: emission,
		ReceiptDate:  receipt,
		GrossValue:   d(gross),
		NetValue:     d(net),
		Category:     category,
		Status:       status,
	}
	require.NoError(t, f.db.Create(inv).Error)
	require.NoError(t, f.db.Create(&invoicedomain.InvoicePartnerShare{
		ID:          f.node.Generate(),
		InvoiceID:   inv.ID,
		PartnerID:   f.partner.ID,
		Percentage:  d("100.00"),
		GrossAmount: d(gross),
		NetAmount:   d(net),
	}).Error)
	return inv
}

func TestRunComputesMonthlyAssessment(t *testing.T) {
	f := setupFixture(t, companydomain.RegimeAccrual)
	ctx := context.Background()
	period := domain.Period{Year: 2025, Month: time.July}

	emission := time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC)
	receipt := time.Date(2025, time.July, 20, 0, 0, 0, 0, time.UTC)
	f.addInvoice(t, emission, &receipt, "10000.00", "9500.00", invoicedomain.CategoryConsultations, invoicedomain.StatusReceived)

	result, err := f.svc.Run(ctx, f.company.ID, f.partner.ID, period)
	require.NoError(t, err)
	snap := result.Snapshot

	assert.True(t, d("10000.00").Equal(snap.RevenueConsultations))
	assert.True(t, d("10000.00").Equal(snap.RevenueTotal))

	// Presumption 32%, IRPJ 15%, CSLL 9%, PIS 0.65%, COFINS 3%.
	assert.True(t, d("3200.00").Equal(snap.IRPJBasePresumed))
	assert.True(t, d("3200.00").Equal(snap.CSLLBase))
	assert.True(t, d("480.00").Equal(snap.IRPJ.Due))
	assert.True(t, d("288.00").Equal(snap.CSLL.Due))
	assert.True(t, d("65.00").Equal(snap.PIS.Due))
	assert.True(t, d("300.00").Equal(snap.COFINS.Due))

	// Base below the monthly threshold: no additional-IRPJ.
	assert.True(t, snap.IRPJAdditionalMonthly.IsZero())

	// Sole partner takes the full apportionment.
	assert.True(t, d("480.00").Equal(snap.PartnerIRPJ.Share))
	assert.True(t, d("65.00").Equal(snap.PartnerPIS.Payable))
	assert.True(t, d("1133.00").Equal(snap.TotalTaxToProvision))

	// Received in July, so the partner recognizes the revenue this period.
	assert.True(t, d("10000.00").Equal(snap.PartnerRevenueGross))
	assert.True(t, d("9500.00").Equal(snap.PartnerRevenueNet))
	assert.True(t, d("9500.00").Equal(snap.NetResult))

	assert.True(t, d("480.00").Equal(result.PayableByTax[domain.TaxIRPJ]))

	// No regime history was seeded: the fallback and its advisory are
	// visible on the snapshot.
	assert.Equal(t, string(companydomain.RegimeSourceCurrentFallback), snap.RegimeSource)
	assert.NotEqual(t, "null", string(snap.Notes))
}

func TestRunRecordsExpensesAndTransferBalance(t *testing.T) {
	f := setupFixture(t, companydomain.RegimeAccrual)
	ctx := context.Background()
	period := domain.Period{Year: 2025, Month: time.July}

	emission := time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC)
	receipt := time.Date(2025, time.July, 20, 0, 0, 0, 0, time.UTC)
	f.addInvoice(t, emission, &receipt, "10000.00", "9500.00", invoicedomain.CategoryConsultations, invoicedomain.StatusReceived)

	// Direct expense for the partner plus a 40% apportioned company expense.
	require.NoError(t, f.db.Create(&expensedomain.Expense{
		ID: f.node.Generate(), CompanyID: f.company.ID, PartnerID: &f.partner.ID,
		Date: emission, GroupCode: "MATERIAL", Amount: d("350.00"),
	}).Error)
	sharedID := f.node.Generate()
	require.NoError(t, f.db.Create(&expensedomain.Expense{
		ID: sharedID, CompanyID: f.company.ID,
		Date: emission, GroupCode: "ALUGUEL", Amount: d("3000.00"), Apportioned: true,
	}).Error)
	require.NoError(t, f.db.Create(&expensedomain.ExpenseApportionment{
		ID: f.node.Generate(), ExpenseID: sharedID, PartnerID: f.partner.ID,
		Percentage: d("40.00"),
	}).Error)

	// An ordinary current-account movement inside the period.
	require.NoError(t, f.db.Create(&ledgerdomain.Movement{
		ID: f.node.Generate(), CompanyID: f.company.ID, PartnerID: f.partner.ID,
		Date: emission, Amount: d("-120.00"), Description: "Mensalidade associação",
	}).Error)

	result, err := f.svc.Run(ctx, f.company.ID, f.partner.ID, period)
	require.NoError(t, err)
	snap := result.Snapshot

	assert.True(t, d("350.00").Equal(snap.ExpensesDirect))
	assert.True(t, d("1200.00").Equal(snap.ExpensesApportioned))
	assert.True(t, d("1550.00").Equal(snap.ExpensesTotal))
	assert.True(t, d("-120.00").Equal(snap.MovementBalance))

	// net_result = recognized net revenue − expenses; the transfer balance
	// folds the movement balance in.
	assert.True(t, d("7950.00").Equal(snap.NetResult))
	assert.True(t, d("7830.00").Equal(snap.BalanceToTransfer))
}

func TestRunCashRegimeUsesReceiptDatedRevenue(t *testing.T) {
	f := setupFixture(t, companydomain.RegimeCash)
	ctx := context.Background()
	period := domain.Period{Year: 2025, Month: time.July}

	// Emitted in July but only received in August: no cash-regime revenue
	// in July.
	emission := time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC)
	receipt := time.Date(2025, time.August, 5, 0, 0, 0, 0, time.UTC)
	f.addInvoice(t, emission, &receipt, "10000.00", "9500.00", invoicedomain.CategoryConsultations, invoicedomain.StatusReceived)

	result, err := f.svc.Run(ctx, f.company.ID, f.partner.ID, period)
	require.NoError(t, err)
	snap := result.Snapshot

	assert.True(t, snap.RevenueTotal.IsZero())
	assert.True(t, snap.IRPJ.Due.IsZero())
	assert.True(t, snap.TotalTaxToProvision.IsZero())

	// The emission-dated base for the additional-IRPJ is tracked anyway.
	assert.True(t, d("3200.00").Equal(snap.EmissionBasePresumed))
}

func TestRunExcludesCancelledInvoices(t *testing.T) {
	f := setupFixture(t, companydomain.RegimeAccrual)
	ctx := context.Background()
	period := domain.Period{Year: 2025, Month: time.July}

	emission := time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC)
	f.addInvoice(t, emission, nil, "10000.00", "9500.00", invoicedomain.CategoryConsultations, invoicedomain.StatusPending)
	f.addInvoice(t, emission, nil, "99999.00", "99999.00", invoicedomain.CategoryConsultations, invoicedomain.StatusCancelled)

	result, err := f.svc.Run(ctx, f.company.ID, f.partner.ID, period)
	require.NoError(t, err)

	assert.True(t, d("10000.00").Equal(result.Snapshot.RevenueTotal))
}

func TestRunIsIdempotent(t *testing.T) {
	f := setupFixture(t, companydomain.RegimeAccrual)
	ctx := context.Background()
	period := domain.Period{Year: 2025, Month: time.July}

	emission := time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC)
	receipt := time.Date(2025, time.July, 20, 0, 0, 0, 0, time.UTC)
	f.addInvoice(t, emission, &receipt, "10000.00", "9500.00", invoicedomain.CategoryConsultations, invoicedomain.StatusReceived)

	first, err := f.svc.Run(ctx, f.company.ID, f.partner.ID, period)
	require.NoError(t, err)
	second, err := f.svc.Run(ctx, f.company.ID, f.partner.ID, period)
	require.NoError(t, err)

	var count int64
	require.NoError(t, f.db.Model(&domain.TaxSnapshot{}).
		Where("company_id = ? AND partner_id = ? AND period = ?", f.company.ID, f.partner.ID, period.String()).
		Count(&count).Error)
	assert.EqualValues(t, 1, count, "re-run must overwrite, not duplicate")

	assert.True(t, first.Snapshot.TotalTaxToProvision.Equal(second.Snapshot.TotalTaxToProvision))
	assert.True(t, first.Snapshot.IRPJ.Due.Equal(second.Snapshot.IRPJ.Due))
}

func TestRunCarriesForwardPriorProvision(t *testing.T) {
	f := setupFixture(t, companydomain.RegimeAccrual)
	ctx := context.Background()

	emission := time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC)
	receipt := time.Date(2025, time.July, 20, 0, 0, 0, 0, time.UTC)
	f.addInvoice(t, emission, &receipt, "10000.00", "9500.00", invoicedomain.CategoryConsultations, invoicedomain.StatusReceived)

	july, err := f.svc.Run(ctx, f.company.ID, f.partner.ID, domain.Period{Year: 2025, Month: time.July})
	require.NoError(t, err)
	assert.True(t, july.Snapshot.ProvisionedFromPriorPeriod.IsZero(), "no June snapshot exists")

	august, err := f.svc.Run(ctx, f.company.ID, f.partner.ID, domain.Period{Year: 2025, Month: time.August})
	require.NoError(t, err)
	assert.True(t, july.Snapshot.TotalTaxToProvision.Equal(august.Snapshot.ProvisionedFromPriorPeriod))
}

func TestRunAdditionalIRPJStaysOutOfProvisionSum(t *testing.T) {
	f := setupFixture(t, companydomain.RegimeAccrual)
	ctx := context.Background()
	period := domain.Period{Year: 2025, Month: time.July}

	emission := time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC)
	receipt := time.Date(2025, time.July, 20, 0, 0, 0, 0, time.UTC)
	f.addInvoice(t, emission, &receipt, "100000.00", "95000.00", invoicedomain.CategoryConsultations, invoicedomain.StatusReceived)

	result, err := f.svc.Run(ctx, f.company.ID, f.partner.ID, period)
	require.NoError(t, err)
	snap := result.Snapshot

	// Presumed base 32,000 exceeds the 20,000 monthly threshold.
	assert.True(t, d("32000.00").Equal(snap.EmissionBasePresumed))
	assert.True(t, d("1200.00").Equal(snap.IRPJAdditionalMonthly))
	assert.True(t, d("1200.00").Equal(snap.PartnerIRPJAdditionalMonthly))

	// PIS 650 + COFINS 3000 + CSLL 2880 + IRPJ 4800; the additional is
	// tracked separately and never joins the provision sum.
	assert.True(t, d("11330.00").Equal(snap.TotalTaxToProvision))
}

func TestRunWithUnconfiguredRatesFlagsSnapshot(t *testing.T) {
	f := setupFixture(t, companydomain.RegimeAccrual)
	ctx := context.Background()

	// January 2024 predates the seeded schedule.
	period := domain.Period{Year: 2024, Month: time.January}
	result, err := f.svc.Run(ctx, f.company.ID, f.partner.ID, period)
	require.NoError(t, err)

	assert.True(t, result.Snapshot.RatesUnconfigured)
	assert.True(t, result.Snapshot.IRPJ.Due.IsZero())
}

func TestRunUnknownPartnerFails(t *testing.T) {
	f := setupFixture(t, companydomain.RegimeAccrual)

	_, err := f.svc.Run(context.Background(), f.company.ID, f.node.Generate(), domain.Period{Year: 2025, Month: time.July})
	assert.ErrorIs(t, err, domain.ErrPartnerNotFound)
}

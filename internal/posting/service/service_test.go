package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	assessmentdomain "github.com/socimed/fiscal/internal/assessment/domain"
	"github.com/socimed/fiscal/internal/clock"
	ledgerdomain "github.com/socimed/fiscal/internal/ledger/domain"
	ledgerrepo "github.com/socimed/fiscal/internal/ledger/repository"
	"github.com/socimed/fiscal/internal/posting/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setupService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&ledgerdomain.Movement{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(serviceParam{
		DB:     db,
		Log:    zap.NewNop(),
		GenID:  node,
		Clock:  clock.NewFakeClock(time.Date(2025, time.September, 1, 10, 0, 0, 0, time.UTC)),
		Ledger: ledgerrepo.NewRepository(db),
	})
	return svc, db, node
}

func listPostings(t *testing.T, db *gorm.DB, partnerID snowflake.ID) []ledgerdomain.Movement {
	t.Helper()
	var movements []ledgerdomain.Movement
	require.NoError(t, db.Where("partner_id = ? AND automatic = ?", partnerID, true).
		Order("tax_code ASC").Find(&movements).Error)
	return movements
}

func TestPostTaxesCreatesDebitsOnStatutoryDate(t *testing.T) {
	svc, db, node := setupService(t)
	companyID, partnerID := node.Generate(), node.Generate()
	period := assessmentdomain.Period{Year: 2025, Month: time.July}

	err := svc.PostTaxes(context.Background(), companyID, partnerID, period, map[string]decimal.Decimal{
		assessmentdomain.TaxPIS:  d("65.00"),
		assessmentdomain.TaxIRPJ: d("480.00"),
	})
	require.NoError(t, err)

	movements := listPostings(t, db, partnerID)
	require.Len(t, movements, 2)

	byTax := map[string]ledgerdomain.Movement{}
	for _, m := range movements {
		require.NotNil(t, m.TaxCode)
		byTax[*m.TaxCode] = m
	}

	irpj := byTax[assessmentdomain.TaxIRPJ]
	assert.True(t, d("-480.00").Equal(irpj.Amount), "postings debit the partner account")
	assert.True(t, irpj.Date.Equal(time.Date(2025, time.August, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Pagamento IRPJ - Competência 07/2025 - Lançamento automático", irpj.Description)
	assert.Equal(t, "DARF", irpj.Memo)
	require.NotNil(t, irpj.Competence)
	assert.Equal(t, "07/2025", *irpj.Competence)
	assert.True(t, irpj.Automatic)
}

func TestPostTaxesSkipsUnchangedAndUpdatesChanged(t *testing.T) {
	svc, db, node := setupService(t)
	companyID, partnerID := node.Generate(), node.Generate()
	period := assessmentdomain.Period{Year: 2025, Month: time.July}
	ctx := context.Background()

	require.NoError(t, svc.PostTaxes(ctx, companyID, partnerID, period, map[string]decimal.Decimal{
		assessmentdomain.TaxPIS: d("65.00"),
	}))
	first := listPostings(t, db, partnerID)
	require.Len(t, first, 1)

	// Same payable: the movement is left untouched.
	require.NoError(t, svc.PostTaxes(ctx, companyID, partnerID, period, map[string]decimal.Decimal{
		assessmentdomain.TaxPIS: d("65.00"),
	}))
	second := listPostings(t, db, partnerID)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.True(t, first[0].UpdatedAt.Equal(second[0].UpdatedAt))

	// Changed payable: updated in place, never duplicated.
	require.NoError(t, svc.PostTaxes(ctx, companyID, partnerID, period, map[string]decimal.Decimal{
		assessmentdomain.TaxPIS: d("80.00"),
	}))
	third := listPostings(t, db, partnerID)
	require.Len(t, third, 1)
	assert.Equal(t, first[0].ID, third[0].ID)
	assert.True(t, d("-80.00").Equal(third[0].Amount))
}

func TestPostTaxesRemovesZeroedPayables(t *testing.T) {
	svc, db, node := setupService(t)
	companyID, partnerID := node.Generate(), node.Generate()
	period := assessmentdomain.Period{Year: 2025, Month: time.July}
	ctx := context.Background()

	require.NoError(t, svc.PostTaxes(ctx, companyID, partnerID, period, map[string]decimal.Decimal{
		assessmentdomain.TaxCOFINS: d("300.00"),
	}))
	require.Len(t, listPostings(t, db, partnerID), 1)

	// Recomputed to zero: the stale posting disappears.
	require.NoError(t, svc.PostTaxes(ctx, companyID, partnerID, period, map[string]decimal.Decimal{}))
	assert.Empty(t, listPostings(t, db, partnerID))
}

func TestPostTaxesKeepsOrdinaryMovementsIntact(t *testing.T) {
	svc, db, node := setupService(t)
	companyID, partnerID := node.Generate(), node.Generate()
	period := assessmentdomain.Period{Year: 2025, Month: time.July}
	ctx := context.Background()

	ordinary := &ledgerdomain.Movement{
		ID:          node.Generate(),
		CompanyID:   companyID,
		PartnerID:   partnerID,
		Date:        time.Date(2025, time.July, 3, 0, 0, 0, 0, time.UTC),
		Amount:      d("-120.00"),
		Description: "Mensalidade associação",
	}
	require.NoError(t, db.Create(ordinary).Error)

	require.NoError(t, svc.PostTaxes(ctx, companyID, partnerID, period, map[string]decimal.Decimal{}))

	var reloaded ledgerdomain.Movement
	require.NoError(t, db.First(&reloaded, "id = ?", ordinary.ID).Error)
	assert.True(t, d("-120.00").Equal(reloaded.Amount))
}

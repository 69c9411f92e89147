package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	ledgerdomain "github.com/socimed/fiscal/internal/ledger/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ledgerdomain.Repository {
	return &repository{db: db}
}

func (r *repository) ListForPartner(ctx context.Context, partnerID snowflake.ID, start, end time.Time) ([]ledgerdomain.Movement, error) {
	var movements []ledgerdomain.Movement
	err := r.db.WithContext(ctx).
		Where("partner_id = ? AND date >= ? AND date < ?", partnerID, start, end).
		Order("date ASC, id ASC").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}

func (r *repository) SumForPartner(ctx context.Context, partnerID snowflake.ID, start, end time.Time) (decimal.Decimal, error) {
	movements, err := r.ListForPartner(ctx, partnerID, start, end)
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, m := range movements {
		sum = sum.Add(m.Amount)
	}
	return sum, nil
}

func (r *repository) FindTaxPosting(ctx context.Context, tx *gorm.DB, partnerID snowflake.ID, taxCode, competence string) (*ledgerdomain.Movement, error) {
	conn := r.conn(tx)
	var movement ledgerdomain.Movement
	err := conn.WithContext(ctx).
		Where("partner_id = ? AND tax_code = ? AND competence = ?", partnerID, taxCode, competence).
		First(&movement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &movement, nil
}

func (r *repository) Create(ctx context.Context, tx *gorm.DB, movement *ledgerdomain.Movement) error {
	return r.conn(tx).WithContext(ctx).Create(movement).Error
}

func (r *repository) UpdateAmount(ctx context.Context, tx *gorm.DB, id snowflake.ID, amount decimal.Decimal, updatedAt time.Time) error {
	return r.conn(tx).WithContext(ctx).
		Model(&ledgerdomain.Movement{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"amount":     amount,
			"updated_at": updatedAt,
		}).Error
}

func (r *repository) Delete(ctx context.Context, tx *gorm.DB, id snowflake.ID) error {
	return r.conn(tx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&ledgerdomain.Movement{}).Error
}

func (r *repository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

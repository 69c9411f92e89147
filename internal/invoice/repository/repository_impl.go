package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/socimed/fiscal/internal/invoice/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) invoicedomain.Repository {
	return &repository{db: db}
}

func (r *repository) ListByEmission(ctx context.Context, companyID snowflake.ID, start, end time.Time) ([]invoicedomain.Invoice, error) {
	var invoices []invoicedomain.Invoice
	err := r.db.WithContext(ctx).
		Preload("PartnerShares").
		Where("company_id = ? AND status <> ?", companyID, invoicedomain.StatusCancelled).
		Where("emission_date >= ? AND emission_date < ?", start, end).
		Order("emission_date ASC, id ASC").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repository) ListByReceipt(ctx context.Context, companyID snowflake.ID, start, end time.Time) ([]invoicedomain.Invoice, error) {
	var invoices []invoicedomain.Invoice
	err := r.db.WithContext(ctx).
		Preload("PartnerShares").
		Where("company_id = ? AND status <> ?", companyID, invoicedomain.StatusCancelled).
		Where("receipt_date IS NOT NULL AND receipt_date >= ? AND receipt_date < ?", start, end).
		Order("receipt_date ASC, id ASC").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

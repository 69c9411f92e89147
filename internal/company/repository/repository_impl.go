package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	companydomain "github.com/socimed/fiscal/internal/company/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) companydomain.Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*companydomain.Company, error) {
	var company companydomain.Company
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

func (r *repository) ListActive(ctx context.Context) ([]companydomain.Company, error) {
	var companies []companydomain.Company
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&companies).Error
	if err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *repository) ListActivePartners(ctx context.Context, companyID snowflake.ID) ([]companydomain.Partner, error) {
	var partners []companydomain.Partner
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND active = ?", companyID, true).
		Order("name ASC").
		Find(&partners).Error
	if err != nil {
		return nil, err
	}
	return partners, nil
}

func (r *repository) FindEntryCovering(ctx context.Context, companyID snowflake.ID, date time.Time) (*companydomain.RegimeHistoryEntry, error) {
	var entry companydomain.RegimeHistoryEntry
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND start_date <= ?", companyID, date).
		Where("end_date IS NULL OR end_date >= ?", date).
		Order("start_date DESC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *repository) FindOpenEntry(ctx context.Context, tx *gorm.DB, companyID snowflake.ID) (*companydomain.RegimeHistoryEntry, error) {
	conn := r.conn(tx)
	var entry companydomain.RegimeHistoryEntry
	err := conn.WithContext(ctx).
		Where("company_id = ? AND end_date IS NULL", companyID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *repository) CountEntriesStartingInYear(ctx context.Context, tx *gorm.DB, companyID snowflake.ID, year int) (int64, error) {
	conn := r.conn(tx)
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)

	var count int64
	err := conn.WithContext(ctx).
		Model(&companydomain.RegimeHistoryEntry{}).
		Where("company_id = ? AND start_date >= ? AND start_date < ?", companyID, start, end).
		Count(&count).Error
	return count, err
}

func (r *repository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

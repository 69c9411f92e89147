package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	ratesdomain "github.com/socimed/fiscal/internal/rates/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ratesdomain.Repository {
	return &repository{db: db}
}

func (r *repository) FindEffective(ctx context.Context, companyID snowflake.ID, refDate time.Time) (*ratesdomain.RateSchedule, error) {
	var schedule ratesdomain.RateSchedule
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND effective_from <= ?", companyID, refDate).
		Order("effective_from DESC").
		First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}

func (r *repository) Create(ctx context.Context, schedule *ratesdomain.RateSchedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

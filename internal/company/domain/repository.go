package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindByID(ctx context.Context, id snowflake.ID) (*Company, error)
	ListActive(ctx context.Context) ([]Company, error)
	ListActivePartners(ctx context.Context, companyID snowflake.ID) ([]Partner, error)

	FindEntryCovering(ctx context.Context, companyID snowflake.ID, date time.Time) (*RegimeHistoryEntry, error)
	FindOpenEntry(ctx context.Context, tx *gorm.DB, companyID snowflake.ID) (*RegimeHistoryEntry, error)
	CountEntriesStartingInYear(ctx context.Context, tx *gorm.DB, companyID snowflake.ID, year int) (int64, error)
}

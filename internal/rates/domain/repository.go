package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	// FindEffective returns the schedule with the latest effective_from
	// not after refDate, or nil when none exists.
	FindEffective(ctx context.Context, companyID snowflake.ID, refDate time.Time) (*RateSchedule, error)
	Create(ctx context.Context, schedule *RateSchedule) error
}

// Resolver resolves the rates applicable to a company on a date.
type Resolver interface {
	Resolve(ctx context.Context, companyID snowflake.ID, refDate time.Time) (Resolution, error)
}

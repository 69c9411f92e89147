package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Get(ctx context.Context, id snowflake.ID) (*Company, error)
	ListActive(ctx context.Context) ([]Company, error)
	ListActivePartners(ctx context.Context, companyID snowflake.ID) ([]Partner, error)

	// ResolveRegime returns the regime in force on the reference date,
	// consulting the history table first and falling back to the
	// company's current regime with an advisory note.
	ResolveRegime(ctx context.Context, companyID snowflake.ID, refDate time.Time) (RegimeResolution, error)

	// ChangeRegime records a regime election taking effect on startDate.
	// startDate must be January 1st of a future year, and at most one
	// change may exist per fiscal year; violations fail with
	// ErrInvalidTransition and leave no partial mutation.
	ChangeRegime(ctx context.Context, companyID snowflake.ID, newRegime Regime, startDate time.Time) error
}

package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	ratesdomain "github.com/socimed/fiscal/internal/rates/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ResolverParam struct {
	fx.In

	Log        *zap.Logger
	Repository ratesdomain.Repository
}

type resolver struct {
	log  *zap.Logger
	repo ratesdomain.Repository
}

func NewResolver(p ResolverParam) ratesdomain.Resolver {
	return &resolver{
		log:  p.Log.Named("rates.resolver"),
		repo: p.Repository,
	}
}

func (r *resolver) Resolve(ctx context.Context, companyID snowflake.ID, refDate time.Time) (ratesdomain.Resolution, error) {
	schedule, err := r.repo.FindEffective(ctx, companyID, refDate)
	if err != nil {
		return ratesdomain.Resolution{}, err
	}
	if schedule == nil {
		// Fail-soft: zero rates with a visible marker, never a hard failure.
		r.log.Warn("no rate schedule effective for company, resolving zero rates",
			zap.String("company_id", companyID.String()),
			zap.Time("ref_date", refDate),
		)
		return ratesdomain.Resolution{
			Schedule:     ratesdomain.RateSchedule{CompanyID: companyID},
			Unconfigured: true,
		}, nil
	}
	return ratesdomain.Resolution{Schedule: *schedule}, nil
}

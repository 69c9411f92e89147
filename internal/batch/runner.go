// Package batch drives the periodic assessment over every active
// (company, partner) pair for one competence.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
	assessmentdomain "github.com/socimed/fiscal/internal/assessment/domain"
	"github.com/socimed/fiscal/internal/clock"
	companydomain "github.com/socimed/fiscal/internal/company/domain"
	"github.com/socimed/fiscal/internal/config"
	"github.com/socimed/fiscal/internal/observability/metrics"
	postingdomain "github.com/socimed/fiscal/internal/posting/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type RunnerParam struct {
	fx.In

	Log     *zap.Logger
	Config  config.Config
	Clock   clock.Clock
	Metrics *metrics.Metrics

	Company    companydomain.Service
	Assessment assessmentdomain.Service
	Posting    postingdomain.Service
}

type Runner struct {
	log     *zap.Logger
	cfg     config.Config
	clock   clock.Clock
	metrics *metrics.Metrics

	company    companydomain.Service
	assessment assessmentdomain.Service
	posting    postingdomain.Service
}

func NewRunner(p RunnerParam) *Runner {
	return &Runner{
		log:        p.Log.Named("batch.runner"),
		cfg:        p.Config,
		clock:      p.Clock,
		metrics:    p.Metrics,
		company:    p.Company,
		assessment: p.Assessment,
		posting:    p.Posting,
	}
}

// Competence resolves the period to assess: the configured one, or the
// month preceding the current one when unset.
func (r *Runner) Competence() (assessmentdomain.Period, error) {
	if r.cfg.Engine.Competence != "" {
		return assessmentdomain.ParsePeriod(r.cfg.Engine.Competence)
	}
	return assessmentdomain.PeriodOf(r.clock.Now()).Previous(), nil
}

// RunAll assesses every active company for the period.
func (r *Runner) RunAll(ctx context.Context, period assessmentdomain.Period) error {
	companies, err := r.company.ListActive(ctx)
	if err != nil {
		return err
	}

	var errs []error
	for _, company := range companies {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := r.RunCompany(ctx, company.ID, period); err != nil {
			errs = append(errs, fmt.Errorf("company %s: %w", company.ID, err))
		}
	}
	return errors.Join(errs...)
}

// RunCompany assesses every active partner of the company, bounded by the
// configured concurrency. Partner failures are collected, never fatal to
// the rest of the run.
func (r *Runner) RunCompany(ctx context.Context, companyID snowflake.ID, period assessmentdomain.Period) error {
	partners, err := r.company.ListActivePartners(ctx, companyID)
	if err != nil {
		return err
	}

	concurrency := r.cfg.Engine.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
		sem  = make(chan struct{}, concurrency)
	)

	for _, partner := range partners {
		if err := ctx.Err(); err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(partnerID snowflake.ID) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := r.runPartner(ctx, companyID, partnerID, period); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("partner %s: %w", partnerID, err))
				mu.Unlock()
			}
		}(partner.ID)
	}
	wg.Wait()

	return errors.Join(errs...)
}

func (r *Runner) runPartner(ctx context.Context, companyID, partnerID snowflake.ID, period assessmentdomain.Period) error {
	started := r.clock.Now()

	result, err := r.assessment.Run(ctx, companyID, partnerID, period)
	r.metrics.AssessmentDuration.Observe(r.clock.Now().Sub(started).Seconds())
	if err != nil {
		r.metrics.AssessmentRuns.WithLabelValues("failure").Inc()
		r.metrics.AssessmentFailures.WithLabelValues("assessment").Inc()
		r.log.Warn("partner assessment failed",
			zap.String("company_id", companyID.String()),
			zap.String("partner_id", partnerID.String()),
			zap.String("period", period.String()),
			zap.Error(err),
		)
		return err
	}

	if r.cfg.Engine.AutoPostTaxes {
		if err := r.posting.PostTaxes(ctx, companyID, partnerID, period, result.PayableByTax); err != nil {
			r.metrics.AssessmentRuns.WithLabelValues("failure").Inc()
			r.metrics.AssessmentFailures.WithLabelValues("posting").Inc()
			r.log.Warn("tax posting failed",
				zap.String("company_id", companyID.String()),
				zap.String("partner_id", partnerID.String()),
				zap.String("period", period.String()),
				zap.Error(err),
			)
			return err
		}
	}

	r.metrics.AssessmentRuns.WithLabelValues("success").Inc()
	return nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/socimed/fiscal/internal/clock"
	companydomain "github.com/socimed/fiscal/internal/company/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repository companydomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  companydomain.Repository
}

func NewService(p ServiceParam) companydomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("company.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repository,
	}
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*companydomain.Company, error) {
	company, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, companydomain.ErrNotFound
	}
	return company, nil
}

func (s *Service) ListActive(ctx context.Context) ([]companydomain.Company, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) ListActivePartners(ctx context.Context, companyID snowflake.ID) ([]companydomain.Partner, error) {
	return s.repo.ListActivePartners(ctx, companyID)
}

func (s *Service) ResolveRegime(ctx context.Context, companyID snowflake.ID, refDate time.Time) (companydomain.RegimeResolution, error) {
	entry, err := s.repo.FindEntryCovering(ctx, companyID, refDate)
	if err != nil {
		return companydomain.RegimeResolution{}, err
	}
	if entry != nil {
		return companydomain.RegimeResolution{
			Regime: entry.Regime,
			Source: companydomain.RegimeSourceHistorical,
		}, nil
	}

	company, err := s.Get(ctx, companyID)
	if err != nil {
		return companydomain.RegimeResolution{}, err
	}

	s.log.Warn("no regime history covering reference date, using current regime",
		zap.String("company_id", companyID.String()),
		zap.Time("ref_date", refDate),
	)
	return companydomain.RegimeResolution{
		Regime: company.Regime,
		Source: companydomain.RegimeSourceCurrentFallback,
		Note:   "regime resolved from the company's current election; configure the regime history for reliable past-period assessments",
	}, nil
}

func (s *Service) ChangeRegime(ctx context.Context, companyID snowflake.ID, newRegime companydomain.Regime, startDate time.Time) error {
	if !newRegime.Valid() {
		return companydomain.ErrInvalidRegime
	}

	today := s.clock.Now().Truncate(24 * time.Hour)
	if startDate.Month() != time.January || startDate.Day() != 1 {
		return fmt.Errorf("%w: regime changes take effect on January 1st only", companydomain.ErrInvalidTransition)
	}
	if startDate.Year() <= today.Year() {
		return fmt.Errorf("%w: start date must be January 1st of a future year", companydomain.ErrInvalidTransition)
	}

	company, err := s.Get(ctx, companyID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		changes, err := s.repo.CountEntriesStartingInYear(ctx, tx, companyID, startDate.Year())
		if err != nil {
			return err
		}
		if changes > 0 {
			return fmt.Errorf("%w: a regime change is already recorded for fiscal year %d", companydomain.ErrInvalidTransition, startDate.Year())
		}

		open, err := s.repo.FindOpenEntry(ctx, tx, companyID)
		if err != nil {
			return err
		}
		if open != nil {
			closedAt := startDate.AddDate(0, 0, -1)
			if err := tx.Model(&companydomain.RegimeHistoryEntry{}).
				Where("id = ?", open.ID).
				Update("end_date", closedAt).Error; err != nil {
				return err
			}
		}

		entry := &companydomain.RegimeHistoryEntry{
			ID:        s.genID.Generate(),
			CompanyID: companyID,
			Regime:    newRegime,
			StartDate: startDate,
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		if err := tx.Model(&companydomain.Company{}).
			Where("id = ?", company.ID).
			Updates(map[string]any{
				"regime":     newRegime,
				"updated_at": s.clock.Now(),
			}).Error; err != nil {
			return err
		}

		s.log.Info("regime change recorded",
			zap.String("company_id", companyID.String()),
			zap.String("regime", string(newRegime)),
			zap.Time("start_date", startDate),
		)
		return nil
	})
}

package assessment

import (
	"github.com/socimed/fiscal/internal/assessment/repository"
	"github.com/socimed/fiscal/internal/assessment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("assessment.service",
	fx.Provide(
		repository.NewSnapshotRepository,
		repository.NewFinancialIncomeRepository,
		service.NewService,
	),
)

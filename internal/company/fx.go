package company

import (
	"github.com/socimed/fiscal/internal/company/repository"
	"github.com/socimed/fiscal/internal/company/service"
	"go.uber.org/fx"
)

var Module = fx.Module("company.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)

package rates

import (
	"github.com/socimed/fiscal/internal/rates/repository"
	"github.com/socimed/fiscal/internal/rates/service"
	"go.uber.org/fx"
)

var Module = fx.Module("rates.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewResolver),
)

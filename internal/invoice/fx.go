package invoice

import (
	"github.com/socimed/fiscal/internal/invoice/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.store",
	fx.Provide(repository.NewRepository),
)

package posting

import (
	"github.com/socimed/fiscal/internal/posting/service"
	"go.uber.org/fx"
)

var Module = fx.Module("posting.service",
	fx.Provide(service.NewService),
)

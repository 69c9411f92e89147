package ledger

import (
	"github.com/socimed/fiscal/internal/ledger/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("ledger.store",
	fx.Provide(repository.NewRepository),
)

package expense

import (
	"github.com/socimed/fiscal/internal/expense/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("expense.store",
	fx.Provide(repository.NewRepository),
)

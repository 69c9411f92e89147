package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/socimed/fiscal/internal/assessment"
	"github.com/socimed/fiscal/internal/batch"
	"github.com/socimed/fiscal/internal/clock"
	"github.com/socimed/fiscal/internal/company"
	"github.com/socimed/fiscal/internal/config"
	"github.com/socimed/fiscal/internal/expense"
	"github.com/socimed/fiscal/internal/invoice"
	"github.com/socimed/fiscal/internal/ledger"
	"github.com/socimed/fiscal/internal/logger"
	"github.com/socimed/fiscal/internal/migration"
	"github.com/socimed/fiscal/internal/observability/metrics"
	"github.com/socimed/fiscal/internal/posting"
	"github.com/socimed/fiscal/internal/rates"
	"github.com/socimed/fiscal/pkg/db"
	"go.uber.org/fx"
)

func newSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}

func main() {
	fx.New(
		config.Module,
		logger.Module,
		clock.Module,
		fx.Provide(newSnowflakeNode),
		db.Module,
		migration.Module,
		metrics.Module,

		company.Module,
		rates.Module,
		invoice.Module,
		expense.Module,
		ledger.Module,
		assessment.Module,
		posting.Module,

		batch.Module,
		fx.Invoke(batch.Invoke),
	).Run()
}

package main

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/granite-api/internal/application/inventory"
	infrapdf "github.com/jhoicas/granite-api/internal/infrastructure/pdf"
	"github.com/jhoicas/granite-api/internal/infrastructure/postgres"
	"github.com/jhoicas/granite-api/pkg/config"
	"github.com/jhoicas/granite-api/pkg/logger"
)

// commandContext carga configuración y pool una sola vez por ejecución.
type commandContext struct {
	configOnce sync.Once
	config     *config.Config
	configErr  error

	pool *pgxpool.Pool
	log  *logger.Logger
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	})
	return c.config, c.configErr
}

func (c *commandContext) ensurePool(ctx context.Context) (*pgxpool.Pool, error) {
	if c.pool != nil {
		return c.pool, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	c.pool = pool
	return pool, nil
}

// inventoryUseCase arma el caso de uso de inventario sobre PostgreSQL.
func (c *commandContext) inventoryUseCase(ctx context.Context) (*inventory.InventoryUseCase, error) {
	pool, err := c.ensurePool(ctx)
	if err != nil {
		return nil, err
	}
	cfg := c.config
	return inventory.NewInventoryUseCase(
		postgres.NewTxRunner(pool),
		postgres.NewBlockRepository(pool),
		postgres.NewStandRepository(pool),
		postgres.NewFinishedGoodRepository(pool),
		postgres.NewShipmentRepository(pool),
		infrapdf.NewMarotoStandReport(cfg.Report.Company, c.reportLanguage()),
		c.log,
	), nil
}

// reportLanguage idioma del reporte; español si REPORT_LANGUAGE no es una etiqueta válida.
func (c *commandContext) reportLanguage() language.Tag {
	if c.config == nil {
		return language.Spanish
	}
	lang, err := language.Parse(c.config.Report.Language)
	if err != nil {
		return language.Spanish
	}
	return lang
}

func (c *commandContext) printer() *message.Printer {
	return message.NewPrinter(c.reportLanguage())
}

func (c *commandContext) close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

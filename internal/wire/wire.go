// Package wire provides dependency injection for the brewctl application.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	cliadapter "github.com/example/brewctl/internal/adapters/cli"
	"github.com/example/brewctl/internal/adapters/filesystem"
	"github.com/example/brewctl/internal/adapters/inventory"
	"github.com/example/brewctl/internal/adapters/sqlite"
	"github.com/example/brewctl/internal/adapters/xlsx"
	"github.com/example/brewctl/internal/app"
	"github.com/example/brewctl/internal/config"
	"github.com/example/brewctl/internal/core/gravity"
	coreqc "github.com/example/brewctl/internal/core/qc"
	"github.com/example/brewctl/internal/db"
	"github.com/example/brewctl/internal/ports/primary"
)

var (
	batchService        primary.BatchService
	fermentationService primary.FermentationService
	qcService           primary.QCService
	gravityService      primary.GravityService
	once                sync.Once

	cfg    = config.Default()
	logger = logrus.StandardLogger()
)

// Configure sets the configuration and logger used to build services.
// Must be called before the first service or adapter accessor.
func Configure(c *config.Config, l *logrus.Logger) {
	if c != nil {
		cfg = c
	}
	if l != nil {
		logger = l
	}
}

// Logger returns the configured application logger.
func Logger() *logrus.Logger {
	return logger
}

// BatchService returns the singleton BatchService instance.
func BatchService() primary.BatchService {
	once.Do(initServices)
	return batchService
}

// FermentationService returns the singleton FermentationService instance.
func FermentationService() primary.FermentationService {
	once.Do(initServices)
	return fermentationService
}

// QCService returns the singleton QCService instance.
func QCService() primary.QCService {
	once.Do(initServices)
	return qcService
}

// GravityService returns the singleton GravityService instance.
func GravityService() primary.GravityService {
	once.Do(initServices)
	return gravityService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	if cfg.DBPath != "" {
		db.SetPath(cfg.DBPath)
	}
	db.Logger = logger.WithField("module", "db")

	// Get database connection
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	batchRepo := sqlite.NewBatchRepository(database)
	logRepo := sqlite.NewFermentationLogRepository(database)
	qcRepo := sqlite.NewQCRepository(database)

	// Create the remaining secondary adapters
	exporter := xlsx.NewSeriesExporter()
	catalog := filesystem.NewTestTypeCatalog()
	trigger := inventory.NewLogTrigger(logger)

	opts := app.BatchOptions{
		Policy: coreqc.Policy{
			BlockPackagingOnFail:    cfg.QCPolicy.BlockPackagingOnFail,
			RequirePassBeforeFinish: cfg.QCPolicy.RequirePassBeforeFinish,
		},
		FermentationDays: cfg.FermentationDays,
	}

	// Create services (primary ports implementation)
	batchService = app.NewBatchService(batchRepo, qcRepo, trigger, opts, logger)
	fermentationService = app.NewFermentationService(batchRepo, logRepo, exporter, logger)
	qcService = app.NewQCService(qcRepo, batchRepo, catalog, logger)
	gravityService = app.NewGravityService()
}

// displayUnit resolves the configured gravity display unit, falling back to SG.
func displayUnit() gravity.Unit {
	unit, err := gravity.ParseUnit(cfg.GravityUnit)
	if err != nil {
		logger.WithField("gravity_unit", cfg.GravityUnit).Warn("unknown gravity unit, using SG")
		return gravity.UnitSG
	}
	return unit
}

// BatchAdapter returns a new BatchAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func BatchAdapter() *cliadapter.BatchAdapter {
	return BatchAdapterWithOutput(os.Stdout)
}

// BatchAdapterWithOutput returns a new BatchAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func BatchAdapterWithOutput(out io.Writer) *cliadapter.BatchAdapter {
	once.Do(initServices)
	return cliadapter.NewBatchAdapter(batchService, out, displayUnit())
}

// FermentationAdapter returns a new FermentationAdapter writing to stdout.
func FermentationAdapter() *cliadapter.FermentationAdapter {
	return FermentationAdapterWithOutput(os.Stdout)
}

// FermentationAdapterWithOutput returns a new FermentationAdapter writing to the given output.
func FermentationAdapterWithOutput(out io.Writer) *cliadapter.FermentationAdapter {
	once.Do(initServices)
	return cliadapter.NewFermentationAdapter(fermentationService, out)
}

// QCAdapter returns a new QCAdapter writing to stdout.
func QCAdapter() *cliadapter.QCAdapter {
	return QCAdapterWithOutput(os.Stdout)
}

// QCAdapterWithOutput returns a new QCAdapter writing to the given output.
func QCAdapterWithOutput(out io.Writer) *cliadapter.QCAdapter {
	once.Do(initServices)
	return cliadapter.NewQCAdapter(qcService, out)
}

// GravityAdapter returns a new GravityAdapter writing to stdout.
// Gravity calculations need no database, so this skips service initialization.
func GravityAdapter() *cliadapter.GravityAdapter {
	return GravityAdapterWithOutput(os.Stdout)
}

// GravityAdapterWithOutput returns a new GravityAdapter writing to the given output.
func GravityAdapterWithOutput(out io.Writer) *cliadapter.GravityAdapter {
	return cliadapter.NewGravityAdapter(app.NewGravityService(), out)
}

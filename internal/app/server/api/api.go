//GET  /api/v1/health                   # Liveness probe (connectivity checks)
//GET  /api/v1/templates                # List inspection templates
//GET  /api/v1/templates/{id}           # Get template with sections and items
//POST /api/v1/reports                  # Create a draft report
//GET  /api/v1/reports/{id}             # Get a report
//POST /api/v1/reports/{id}/submit      # Submit a report
//GET  /api/v1/reports/{id}/responses   # List responses
//PUT  /api/v1/reports/{id}/responses   # Upsert one response snapshot

package api

import (
	healthAPI "sitecheck/internal/app/server/api/http/health"
	"sitecheck/internal/app/server/api/http/middleware"
	"sitecheck/internal/app/server/api/http/middleware/logger"
	reportAPI "sitecheck/internal/app/server/api/http/report"
	templateAPI "sitecheck/internal/app/server/api/http/template"
	"sitecheck/internal/domain/report"
	"sitecheck/internal/domain/template"
	"sitecheck/internal/infrastructure/storage/postgres"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

type Handlers struct {
	Health   *healthAPI.Handler
	Template *templateAPI.Handler
	Report   *reportAPI.Handler
}

// New builds a *chi.Mux with every operation registered through huma.
func New(storage *postgres.Storage, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("SiteCheck API", "1.0.0")
	API := humachi.New(mux, config)

	h := handlers(storage, log)
	h.Health.SetupRoutes(API)
	h.Template.SetupRoutes(API)
	h.Report.SetupRoutes(API)

	return mux
}

func handlers(storage *postgres.Storage, log *slog.Logger) *Handlers {
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	templateRepo := postgres.NewTemplateRepository(storage.Pool(), log)
	templateService := template.NewService(templateRepo, log)
	middlewares.Add(loggerMW.Middleware())
	templateHandler := templateAPI.NewHandler(templateService, log, middlewares.GetAllAndClear())

	reportRepo := postgres.NewReportRepository(storage.Pool(), log)
	reportService := report.NewService(reportRepo, log)
	middlewares.Add(loggerMW.Middleware())
	reportHandler := reportAPI.NewHandler(reportService, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:   healthHandler,
		Template: templateHandler,
		Report:   reportHandler,
	}
}

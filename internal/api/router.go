package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/quantjournal/Polymarket-Journal-Backend/internal/api/handlers"
	custommiddleware "github.com/quantjournal/Polymarket-Journal-Backend/internal/api/middleware"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/config"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/service"
)

// Services bundles the service layer dependencies the router wires into
// handlers.
type Services struct {
	System     *service.SystemService
	Import     *service.ImportService
	Journal    *service.JournalService
	Resolution *service.ResolutionService
	Note       *service.NoteService
	Settings   *service.SettingsService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	writeLimiter := custommiddleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace, unauthenticated
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		// Everything else requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(custommiddleware.Auth(cfg.Auth.JWTSecret))

			importHandler := handlers.NewImportHandler(svc.Import)
			syncHandler := handlers.NewSyncHandler(svc.Import, svc.Settings)
			journalHandler := handlers.NewJournalHandler(svc.Journal, svc.Resolution)
			noteHandler := handlers.NewNoteHandler(svc.Note)
			settingsHandler := handlers.NewSettingsHandler(svc.Settings)

			r.Route("/journal", func(r chi.Router) {
				r.Get("/day-stats", journalHandler.DayStats)
				r.Get("/day-detail", journalHandler.DayDetail)
				r.Get("/kpis", journalHandler.KPIs)
				r.Get("/trade-notes", noteHandler.GetNote)
				r.Post("/trade-notes", noteHandler.UpsertNote)
				r.Post("/update-resolutions", journalHandler.UpdateResolutions)
				r.Post("/resolutions", journalHandler.StampResolution)

				r.Group(func(r chi.Router) {
					r.Use(writeLimiter.Handler)
					r.Post("/import/polymarket", importHandler.ImportFills)
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(writeLimiter.Handler)
				r.Post("/import/csv", importHandler.ImportTrades)
				r.Post("/sync/polymarket", syncHandler.Sync)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/wallet", settingsHandler.GetSettings)
				r.Put("/wallet", settingsHandler.LinkWallet)
			})
		})
	})

	return r
}

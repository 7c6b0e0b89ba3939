package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/snapsbooking/bookngon-api/internal/http/handlers"
	httpmiddleware "github.com/snapsbooking/bookngon-api/internal/http/middleware"
	"github.com/snapsbooking/bookngon-api/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	SessionHandler     *handlers.SessionHandler
	CatalogHandler     *handlers.CatalogHandler
	ArchiveHandler     *handlers.ArchiveHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (health checks, metrics)
	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Tenant-scoped booking API
	r.Route("/api", func(api chi.Router) {
		api.Use(requireBusinessID)

		if cfg.CatalogHandler != nil {
			api.Get("/business", cfg.CatalogHandler.GetBusiness)
			api.Get("/catalog", cfg.CatalogHandler.GetCatalog)
			api.Get("/technicians", cfg.CatalogHandler.GetTechnicians)
			api.Get("/clients/lookup", cfg.CatalogHandler.LookupClient)
			api.Post("/appointments/cancel", cfg.CatalogHandler.CancelAppointment)
		}

		// Archive-enabled deployments only.
		if cfg.ArchiveHandler != nil {
			api.Get("/appointments/recent", cfg.ArchiveHandler.ListRecent)
		}

		if cfg.SessionHandler != nil {
			api.Post("/sessions", cfg.SessionHandler.CreateSession)
			api.Route("/sessions/{sessionID}", func(sess chi.Router) {
				sess.Get("/", cfg.SessionHandler.GetSession)
				sess.Delete("/", cfg.SessionHandler.DeleteSession)

				sess.Post("/services", cfg.SessionHandler.AddService)
				sess.Delete("/services/{serviceID}", cfg.SessionHandler.RemoveService)
				sess.Put("/staff", cfg.SessionHandler.SetStaff)
				sess.Put("/date", cfg.SessionHandler.SetDate)

				sess.Get("/slots", cfg.SessionHandler.QuerySlots)
				sess.Post("/slot", cfg.SessionHandler.ChooseSlot)

				sess.Put("/client", cfg.SessionHandler.SetClient)
				sess.Put("/notes", cfg.SessionHandler.SetNotes)

				sess.Post("/next", cfg.SessionHandler.Next)
				sess.Post("/previous", cfg.SessionHandler.Previous)
				sess.Post("/confirm", cfg.SessionHandler.Confirm)
				sess.Post("/reset", cfg.SessionHandler.Reset)
			})
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Package rest wires the command/query buses to an HTTP surface on
// go-chi/chi.
package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"mnemosyne/application/commands/bus"
	"mnemosyne/application/ports"
	querybus "mnemosyne/application/queries/bus"
	"mnemosyne/application/services/ingest"
	"mnemosyne/application/services/temporal"
	infraconfig "mnemosyne/infrastructure/config"
	"mnemosyne/interfaces/http/rest/handlers"
	"mnemosyne/interfaces/http/rest/middleware"
	pkgerrors "mnemosyne/pkg/errors"
)

// RouterDeps is the subset of di.Container the router reads from.
type RouterDeps struct {
	Config          *infraconfig.Config
	Logger          *zap.Logger
	Store           ports.Store
	IngestService   *ingest.Service
	TemporalService *temporal.Service
	CommandBus      *bus.CommandBus
	QueryBus        *querybus.QueryBus
}

// NewRouter builds the chi handler tree for the whole API.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	errorHandler := pkgerrors.NewErrorHandler(logger, deps.Config.IsDevelopment())

	engramHandler := handlers.NewEngramHandler(deps.IngestService, deps.CommandBus, deps.QueryBus, errorHandler, logger)
	chronicleHandler := handlers.NewChronicleHandler(deps.TemporalService, deps.CommandBus, deps.QueryBus, errorHandler, logger)
	nexusHandler := handlers.NewNexusHandler(deps.TemporalService, errorHandler, logger)
	searchHandler := handlers.NewSearchHandler(deps.QueryBus, errorHandler, logger)
	systemHandler := handlers.NewSystemHandler(deps.Store, deps.CommandBus, deps.QueryBus, errorHandler, logger)

	authenticate := middleware.Authenticate(deps.Config, logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Timeout(60 * time.Second))

	if deps.Config.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Unauthenticated: a load balancer's health probe never carries a
	// bearer token.
	r.Get("/health", systemHandler.Health)

	r.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/status", systemHandler.Status)
		r.Post("/decay/run", systemHandler.RunDecay)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authenticate)

		r.Route("/engrams", func(r chi.Router) {
			r.Post("/", engramHandler.CreateEngram)
			r.Get("/", engramHandler.ListEngrams)
			r.Post("/search", searchHandler.Search)
			r.Post("/bulk-delete", engramHandler.BulkDeleteEngrams)
			r.Get("/{engramID}", engramHandler.GetEngram)
			r.Patch("/{engramID}", engramHandler.UpdateEngram)
			r.Delete("/{engramID}", engramHandler.DeleteEngram)
			r.Post("/{engramID}/reinforce", engramHandler.ReinforceEngram)
		})

		r.Route("/chronicles", func(r chi.Router) {
			r.Post("/", chronicleHandler.CreateChronicle)
			r.Get("/", chronicleHandler.ListChronicles)
			r.Get("/current", chronicleHandler.GetCurrentChronicle)
			r.Get("/timeline", chronicleHandler.GetTimeline)
			r.Patch("/{chronicleID}", chronicleHandler.UpdateChronicle)
			r.Delete("/{chronicleID}", chronicleHandler.DeleteChronicle)
			r.Get("/{chronicleID}/related", chronicleHandler.GetRelatedChronicles)
		})

		r.Route("/nexuses", func(r chi.Router) {
			r.Post("/", nexusHandler.CreateNexus)
		})
	})

	return r
}

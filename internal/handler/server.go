// Package handler implements the HTTP API of the Pocket Guide service.
// Handlers decode and validate requests, call a service through the small
// interfaces declared here, and map domain errors onto the JSON error
// envelope. Methods are split into resource files (trip.go, asset.go, ...)
// but all hang off the same Server.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/pocket-guide/backend/internal/domain"
	"github.com/pkordes/pocket-guide/backend/internal/service"
)

// TripServicer defines the trip planner operations the handlers depend on.
// Declaring it in the consumer package lets tests inject a mock without
// touching the store or service layer.
type TripServicer interface {
	Create(ctx context.Context, name, startText, endText string) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ToggleCompleted(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	AddActivity(ctx context.Context, id uuid.UUID, date string, a domain.TripActivity) (domain.Trip, error)
	RemoveActivity(ctx context.Context, id uuid.UUID, date string, index int) (domain.Trip, error)
	MoveActivity(ctx context.Context, id uuid.UUID, date string, index int, direction string) (domain.Trip, error)
	RenameActivity(ctx context.Context, id uuid.UUID, date string, index int, name string) (domain.Trip, error)
}

// CollectionServicer defines the favorites/visited operations.
type CollectionServicer interface {
	Toggle(ctx context.Context, kind service.CollectionKind, name string) (bool, error)
	Contains(ctx context.Context, kind service.CollectionKind, name string) (bool, error)
	List(ctx context.Context, kind service.CollectionKind) ([]string, error)
	Activities(ctx context.Context, kind service.CollectionKind) ([]domain.CatalogEntry, error)
}

// AssetServicer resolves asset candidates and probes them.
type AssetServicer interface {
	Resolve(ctx context.Context, req service.AssetRequest) (service.AssetResult, error)
}

// CatalogProvider exposes the content document and its reload.
// *catalog.Holder satisfies it.
type CatalogProvider interface {
	Current() (*domain.Catalog, error)
	Reload(ctx context.Context) error
}

// ExportServicer produces the flat itinerary export.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// Deps are the collaborators of a Server. Any service may be nil when a test
// only exercises part of the API; its routes then must not be called.
type Deps struct {
	Trips       TripServicer
	Collections CollectionServicer
	Assets      AssetServicer
	Catalog     CatalogProvider
	Export      ExportServicer

	// OpenAPI is served verbatim at /openapi.yaml.
	OpenAPI []byte

	// AssetDir, when set, is served under /public, /Images and /Audio.
	AssetDir string

	Log *slog.Logger
}

// Server holds the dependencies of every handler.
type Server struct {
	trips       TripServicer
	collections CollectionServicer
	assets      AssetServicer
	catalog     CatalogProvider
	export      ExportServicer
	openAPI     []byte
	assetDir    string
	log         *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(d Deps) *Server {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		trips:       d.Trips,
		collections: d.Collections,
		assets:      d.Assets,
		catalog:     d.Catalog,
		export:      d.Export,
		openAPI:     d.OpenAPI,
		assetDir:    d.AssetDir,
		log:         log,
	}
}

// Routes returns a chi router with every endpoint registered. Cross-cutting
// middleware (request id, logging, CORS) is added by the caller around the
// whole router; apiMiddleware wraps only the API endpoints, so static asset
// files are never rate limited.
func (s *Server) Routes(apiMiddleware ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Group(func(r chi.Router) {
		r.Use(apiMiddleware...)

		r.Get("/healthz", s.GetHealth)
		r.Get("/openapi.yaml", s.GetOpenAPI)

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", s.GetCatalog)
			r.Post("/reload", s.ReloadCatalog)
			r.Get("/activities", s.SearchActivities)
		})

		r.Route("/trips", func(r chi.Router) {
			r.Get("/", s.ListTrips)
			r.Post("/", s.CreateTrip)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.GetTrip)
				r.Delete("/", s.DeleteTrip)
				r.Post("/completed", s.ToggleTripCompleted)
				r.Route("/days/{date}/activities", func(r chi.Router) {
					r.Post("/", s.AddActivity)
					r.Put("/{index}", s.RenameActivity)
					r.Delete("/{index}", s.RemoveActivity)
					r.Post("/{index}/move", s.MoveActivity)
				})
			})
		})

		r.Route("/collections/{kind}", func(r chi.Router) {
			r.Get("/", s.GetCollection)
			r.Get("/activities", s.GetCollectionActivities)
			r.Post("/toggle", s.ToggleCollection)
		})

		r.Get("/assets/{kind}", s.ResolveAsset)
		r.Get("/maps", s.GetMapLink)
		r.Get("/export", s.GetExport)
	})

	if s.assetDir != "" {
		files := http.FileServer(http.Dir(s.assetDir))
		for _, prefix := range []string{"/public/*", "/Images/*", "/Audio/*"} {
			r.Handle(prefix, files)
		}
	}
	return r
}

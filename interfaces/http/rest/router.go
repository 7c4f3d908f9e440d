package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/fredgeoO/novel-learning-tools/domain/render"
	"github.com/fredgeoO/novel-learning-tools/infrastructure/filestore"
	"github.com/fredgeoO/novel-learning-tools/interfaces/http/rest/handlers"
	"github.com/fredgeoO/novel-learning-tools/interfaces/http/rest/middleware"
)

// Router creates and configures the HTTP router
type Router struct {
	store      *filestore.Store
	converter  *render.Converter
	logger     *zap.Logger
	enableCORS bool
	maxBytes   int64
}

// NewRouter creates a new router instance
func NewRouter(
	store *filestore.Store,
	converter *render.Converter,
	logger *zap.Logger,
	enableCORS bool,
	maxBytes int64,
) *Router {
	return &Router{
		store:      store,
		converter:  converter,
		logger:     logger,
		enableCORS: enableCORS,
		maxBytes:   maxBytes,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	// The editor page is served from a file or dev server on another
	// origin; CORS stays on unless explicitly disabled.
	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)

	graphHandler := handlers.NewGraphHandler(rt.store, rt.converter, rt.logger, rt.maxBytes)
	router.Route("/api", func(r chi.Router) {
		r.Get("/graph-data", graphHandler.GetGraphData)
		r.Get("/graphs", graphHandler.ListGraphs)
		r.Get("/novel-chapter-structure", graphHandler.GetNovelChapterStructure)
		r.Get("/filtered-graphs", graphHandler.GetFilteredGraphs)

		r.Route("/graph/{key}", func(r chi.Router) {
			r.Put("/", graphHandler.ReplaceGraph)
			r.Delete("/", graphHandler.DeleteGraph)
			r.Get("/metadata", graphHandler.GetMetadata)
			r.Get("/text", graphHandler.GetText)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

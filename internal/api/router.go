package api

import (
	"net/http"
	"time"

	"github.com/Project-Sylos/Cabinet/internal/api/handlers"
	apimiddleware "github.com/Project-Sylos/Cabinet/internal/api/middleware"
	"github.com/Project-Sylos/Cabinet/sdk"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router represents the HTTP API router
type Router struct {
	cabinet *sdk.Cabinet
}

// NewRouter creates a new API router
func NewRouter(cabinet *sdk.Cabinet) *Router {
	return &Router{cabinet: cabinet}
}

// SetupRoutes configures all API routes using modular handlers
func (r *Router) SetupRoutes() *chi.Mux {
	cfg := r.cabinet.GetConfig().API
	router := chi.NewRouter()

	// Standard middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(apimiddleware.RequestLogger)
	router.Use(middleware.Recoverer)
	if cfg.TimeoutSeconds > 0 {
		router.Use(middleware.Timeout(time.Duration(cfg.TimeoutSeconds) * time.Second))
	}

	// Custom middleware
	router.Use(apimiddleware.CORS(cfg.AllowedOrigins))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	fileHandler := handlers.NewFileHandler(r.cabinet)
	folderHandler := handlers.NewFolderHandler(r.cabinet)
	systemHandler := handlers.NewSystemHandler(r.cabinet)

	// System endpoints
	router.Get("/health", healthHandler.HealthCheck)
	router.Get("/stats", systemHandler.GetStats)
	router.Get("/config", systemHandler.GetConfig)
	router.Post("/reset", systemHandler.Reset)
	router.Handle("/metrics", promhttp.Handler())

	// File operations
	router.Route("/files", func(files chi.Router) {
		files.Get("/", fileHandler.ListFiles)
		files.Post("/upload", fileHandler.UploadFile)
		files.Get("/{id}", fileHandler.GetFile)
		files.Get("/{id}/download", fileHandler.DownloadFile)
		files.Delete("/{id}", fileHandler.DeleteFile)
	})

	// Folder operations; /folders lists every folder, /folders/ is the root view
	router.Get("/folders", folderHandler.ListFolders)
	router.Post("/folders", folderHandler.CreateFolder)
	router.Get("/folders/", folderHandler.GetRootFolder)
	router.Get("/folders/{id}", folderHandler.GetFolder)
	router.Delete("/folders/{id}", folderHandler.DeleteFolder)

	// Read-only path view over the tree
	router.Get("/browse", http.RedirectHandler("/browse/", http.StatusMovedPermanently).ServeHTTP)
	router.Get("/browse/*", r.browse)

	return router
}

// browse serves the tree by names, e.g. /browse/docs/readme.md
func (r *Router) browse(w http.ResponseWriter, req *http.Request) {
	fileServer := http.FileServer(http.FS(r.cabinet.AsFS(req.Context())))
	http.StripPrefix("/browse", fileServer).ServeHTTP(w, req)
}

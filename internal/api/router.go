package api

import (
	"encoding/json"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/hugh/leadtrack/internal/api/handlers"
	"github.com/hugh/leadtrack/internal/api/middleware"
	"github.com/hugh/leadtrack/internal/auth"
	"github.com/hugh/leadtrack/internal/leads"
	"github.com/hugh/leadtrack/internal/storage"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Logger         *slog.Logger
	JWTService     *auth.JWTService
	AuthService    *auth.Service
	LeadService    *leads.Service
	Store          *storage.Store
	Templates      *template.Template
	StaticFS       fs.FS
	CompanyName    string
	UploadMaxBytes int64
	AllowedOrigins []string // CORS allowed origins
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	// CORS - restrict to configured origins, or allow all in development
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		// Default to localhost for development - configure in production
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(cfg.AuthService)
	leadHandler := handlers.NewLeadHandler(cfg.DB, cfg.LeadService, cfg.Store, cfg.UploadMaxBytes)
	dashboardHandler := handlers.NewDashboardHandler(cfg.DB, cfg.AuthService, cfg.Templates, cfg.CompanyName)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)

		// User endpoint
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTService, cfg.AuthService))

			r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
				userID := middleware.GetUserID(r.Context())
				user, err := cfg.AuthService.GetUserByID(r.Context(), userID)
				if err != nil {
					http.Error(w, "User not found", http.StatusNotFound)
					return
				}
				writeJSON(w, http.StatusOK, user)
			})
		})

		// Leads endpoints. Submission is public; review requires auth.
		r.Route("/leads", func(r chi.Router) {
			r.Post("/", leadHandler.Create)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWTService, cfg.AuthService))
				r.Get("/", leadHandler.List)
				r.Get("/{id}", leadHandler.Get)
				r.Patch("/{id}", leadHandler.Update)
				r.Get("/{id}/resume", leadHandler.Resume)
			})
		})
	})

	// Web pages
	r.Get("/", dashboardHandler.SubmitForm)
	r.Get("/login", dashboardHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTService, cfg.AuthService))
		r.Get("/dashboard", dashboardHandler.Index)
		r.Get("/dashboard/leads/{id}", dashboardHandler.LeadDetail)
	})

	// Static files
	if cfg.StaticFS != nil {
		fileServer := http.FileServer(http.FS(cfg.StaticFS))
		r.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	}

	return &Router{r}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

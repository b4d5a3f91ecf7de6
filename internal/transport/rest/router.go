package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"aireadiness/internal/repository"
	"aireadiness/internal/service"
	"aireadiness/internal/transport/rest/handler"
	"aireadiness/internal/transport/rest/middleware"
	"aireadiness/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService      *service.AuthService
	AttemptService   *service.AttemptService
	MergeService     *service.MergeService
	BenchmarkService *service.BenchmarkService
	CatalogRepo      repository.CatalogRepo
	WSHub            *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	catalogHandler := handler.NewCatalogHandler(c.CatalogRepo)
	attemptHandler := handler.NewAttemptHandler(c.AttemptService, c.MergeService, c.AuthService)
	benchmarkHandler := handler.NewBenchmarkHandler(c.BenchmarkService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.AttemptService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/guest", authHandler.Guest).Methods("POST", "OPTIONS")
	v1.HandleFunc("/surveys/{surveyId}/questions", catalogHandler.Questions).Methods("GET", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/attempts/{id}", wsHandler.AttemptWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Attempt routes (account or guest auth)
	ownerRoutes := v1.NewRoute().Subrouter()
	ownerRoutes.Use(authMW.RequireOwner)

	ownerRoutes.HandleFunc("/attempts", attemptHandler.Start).Methods("POST", "OPTIONS")
	ownerRoutes.HandleFunc("/attempts/{id}", attemptHandler.Get).Methods("GET", "OPTIONS")
	ownerRoutes.HandleFunc("/attempts/{id}/answers", attemptHandler.SetAnswer).Methods("PUT", "OPTIONS")
	ownerRoutes.HandleFunc("/attempts/{id}/complete", attemptHandler.Complete).Methods("POST", "OPTIONS")
	ownerRoutes.HandleFunc("/attempts/{id}/recommendations", attemptHandler.Recommendations).Methods("GET", "OPTIONS")
	ownerRoutes.HandleFunc("/attempts/{id}/recommendations", attemptHandler.RequestRecommendations).Methods("POST", "OPTIONS")
	ownerRoutes.HandleFunc("/attempts/{id}/benchmark", benchmarkHandler.Compare).Methods("GET", "OPTIONS")

	// Merge requires an account identity
	accountRoutes := v1.NewRoute().Subrouter()
	accountRoutes.Use(authMW.RequireAccount)

	accountRoutes.HandleFunc("/attempts/merge", attemptHandler.Merge).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

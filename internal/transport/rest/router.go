package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"moodscale/internal/metrics"
	"moodscale/internal/service"
	"moodscale/internal/transport/rest/handler"
	"moodscale/internal/transport/rest/middleware"
	"moodscale/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	JournalService *service.JournalService
	AuthService    *service.AuthService
	WSHub          *ws.Hub
	Logger         logrus.FieldLogger
	AllowedOrigins []string
	Version        string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}

	r := mux.NewRouter()

	// Initialize handlers
	journalHandler := handler.NewJournalHandler(c.JournalService, c.Logger)
	authHandler := handler.NewAuthHandler(c.AuthService)
	healthHandler := handler.NewHealthHandler(c.Version)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.Logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)
	corsMW := middleware.NewCORSMiddleware(c.AllowedOrigins)

	r.Use(middleware.LoggingMiddleware(c.Logger))
	r.Use(metrics.InstrumentHandler)

	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	// Health check
	r.HandleFunc("/health", healthHandler.Health).Methods("GET", "OPTIONS")
	r.HandleFunc("/ping", healthHandler.Ping).Methods("GET", "OPTIONS")
	r.Handle("/metrics", metrics.Handler()).Methods("GET", "OPTIONS")

	// Public routes
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	r.HandleFunc("/questions/{emotion}", journalHandler.GetQuestions).Methods("GET", "OPTIONS")
	r.HandleFunc("/stats/", journalHandler.GetStats).Methods("GET", "OPTIONS")

	// WebSocket route (token in query param when auth is enabled)
	r.HandleFunc("/ws/dashboard", wsHandler.DashboardWS).Methods("GET")

	// Owner routes (require a token when auth is enabled)
	ownerRoutes := r.NewRoute().Subrouter()
	ownerRoutes.Use(authMW.RequireOwner)

	ownerRoutes.HandleFunc("/log_emotion/", journalHandler.LogEmotion).Methods("POST", "OPTIONS")
	ownerRoutes.HandleFunc("/entries/", journalHandler.GetEntries).Methods("GET", "OPTIONS")

	// CORS wraps the whole router so preflights and 404/405 answers carry
	// the headers; mux matches methods before r.Use middleware runs.
	return corsMW.Handler(r)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"detail":"Not Found"}`))
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	w.Write([]byte(`{"detail":"Method Not Allowed"}`))
}

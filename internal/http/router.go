package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"timebook-backend/internal/handlers"
	"timebook-backend/internal/middleware"
)

// NewRouter wires every endpoint. /auth/login, /health and /metrics are
// public; everything under /timebook and the session-bound auth routes
// sit behind the auth middleware.
func NewRouter(
	authHandler *handlers.AuthHandler,
	clientHandler *handlers.ClientHandler,
	categoryHandler *handlers.CategoryHandler,
	timeEntryHandler *handlers.TimeEntryHandler,
	invoiceHandler *handlers.InvoiceHandler,
	statsHandler *handlers.StatsHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.PanicRecovery)
	r.Use(middleware.RequestLogging)
	r.Use(middleware.Metrics)

	// Public routes
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/health", healthHandler.Get).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Session management
	authAPI := r.PathPrefix("/auth").Subrouter()
	authAPI.Use(authMiddleware.Authenticate)
	authAPI.HandleFunc("/logout", authHandler.Logout).Methods("POST")
	authAPI.HandleFunc("/session", authHandler.Session).Methods("GET")
	authAPI.HandleFunc("/token", authHandler.Token).Methods("POST")
	authAPI.HandleFunc("/totp/setup", authHandler.SetupTOTP).Methods("POST")
	authAPI.HandleFunc("/totp/enable", authHandler.ConfirmTOTP).Methods("POST")

	// Clients
	kundenAPI := r.PathPrefix("/timebook/kunden").Subrouter()
	kundenAPI.Use(authMiddleware.Authenticate)
	kundenAPI.HandleFunc("", clientHandler.List).Methods("GET")
	kundenAPI.HandleFunc("", clientHandler.Create).Methods("POST")
	kundenAPI.HandleFunc("/{id}", clientHandler.Get).Methods("GET")
	kundenAPI.HandleFunc("/{id}", clientHandler.Update).Methods("PUT")

	// Service categories
	kategorienAPI := r.PathPrefix("/timebook/kategorien").Subrouter()
	kategorienAPI.Use(authMiddleware.Authenticate)
	kategorienAPI.HandleFunc("", categoryHandler.List).Methods("GET")
	kategorienAPI.HandleFunc("", categoryHandler.Create).Methods("POST")
	kategorienAPI.HandleFunc("/{id}", categoryHandler.Update).Methods("PUT")
	kategorienAPI.HandleFunc("/{id}", categoryHandler.Delete).Methods("DELETE")

	// Time entries
	zeitAPI := r.PathPrefix("/timebook/zeiterfassung").Subrouter()
	zeitAPI.Use(authMiddleware.Authenticate)
	zeitAPI.HandleFunc("", timeEntryHandler.List).Methods("GET")
	zeitAPI.HandleFunc("", timeEntryHandler.Create).Methods("POST")
	zeitAPI.HandleFunc("/{id}", timeEntryHandler.Get).Methods("GET")
	zeitAPI.HandleFunc("/{id}", timeEntryHandler.Update).Methods("PUT")
	zeitAPI.HandleFunc("/{id}", timeEntryHandler.Delete).Methods("DELETE")

	// Invoices. DELETE cancels, it never removes the row.
	notenAPI := r.PathPrefix("/timebook/honorarnoten").Subrouter()
	notenAPI.Use(authMiddleware.Authenticate)
	notenAPI.HandleFunc("", invoiceHandler.List).Methods("GET")
	notenAPI.HandleFunc("", invoiceHandler.Create).Methods("POST")
	notenAPI.HandleFunc("/{id}", invoiceHandler.Get).Methods("GET")
	notenAPI.HandleFunc("/{id}", invoiceHandler.Update).Methods("PUT")
	notenAPI.HandleFunc("/{id}", invoiceHandler.Cancel).Methods("DELETE")
	notenAPI.HandleFunc("/{id}/pdf", invoiceHandler.PDF).Methods("GET")

	// Statistics
	statsAPI := r.PathPrefix("/timebook/statistiken").Subrouter()
	statsAPI.Use(authMiddleware.Authenticate)
	statsAPI.HandleFunc("", statsHandler.Get).Methods("GET")

	return r
}

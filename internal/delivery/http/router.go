package http

import (
	"net/http"

	"go-clinic-booking/internal/delivery/http/handler"
	"go-clinic-booking/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router            *mux.Router
	authHandler       *handler.AuthHandler
	bookingHandler    *handler.BookingHandler
	patientHandler    *handler.PatientHandler
	summaryHandler    *handler.SummaryHandler
	doctorHandler     *handler.DoctorHandler
	auditLogHandler   *handler.AuditLogHandler
	authMiddleware    *middleware.AuthMiddleware
	corsMiddleware    *middleware.CORSMiddleware
	metricsMiddleware *middleware.MetricsMiddleware
	metricsHandler    http.Handler
}

func NewRouter(
	authHandler *handler.AuthHandler,
	bookingHandler *handler.BookingHandler,
	patientHandler *handler.PatientHandler,
	summaryHandler *handler.SummaryHandler,
	doctorHandler *handler.DoctorHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	metricsMiddleware *middleware.MetricsMiddleware,
	metricsHandler http.Handler,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		authHandler:       authHandler,
		bookingHandler:    bookingHandler,
		patientHandler:    patientHandler,
		summaryHandler:    summaryHandler,
		doctorHandler:     doctorHandler,
		auditLogHandler:   auditLogHandler,
		authMiddleware:    authMiddleware,
		corsMiddleware:    corsMiddleware,
		metricsMiddleware: metricsMiddleware,
		metricsHandler:    metricsHandler,
	}
}

func (r *Router) Setup() *mux.Router {
	if r.metricsHandler != nil {
		r.router.Handle("/metrics", r.metricsHandler).Methods(http.MethodGet)
	}

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Front desk (admin, receptionist)
	bookings := api.PathPrefix("/bookings").Subrouter()
	bookings.Use(r.authMiddleware.Authenticate)
	bookings.Use(middleware.RequireFrontDesk)
	bookings.HandleFunc("", r.bookingHandler.CreateBooking).Methods(http.MethodPost)
	bookings.HandleFunc("/{type:oncall|scheduled}/{id:[0-9]+}", r.bookingHandler.UpdateBooking).Methods(http.MethodPut)

	// Lookups (any staff)
	patients := api.PathPrefix("/patients").Subrouter()
	patients.Use(r.authMiddleware.Authenticate)
	patients.Use(middleware.RequireStaff)
	patients.HandleFunc("/search", r.patientHandler.Search).Methods(http.MethodGet)
	patients.HandleFunc("/uhid/{uhid}", r.patientHandler.GetByUHID).Methods(http.MethodGet)

	summaries := api.PathPrefix("/summaries").Subrouter()
	summaries.Use(r.authMiddleware.Authenticate)
	summaries.Use(middleware.RequireFrontDesk)
	summaries.HandleFunc("/daily", r.summaryHandler.ListDailySummaries).Methods(http.MethodGet)
	summaries.HandleFunc("/daily/{date}", r.summaryHandler.GetDailySummary).Methods(http.MethodGet)
	summaries.HandleFunc("/daily/{date}/report", r.summaryHandler.GetDailyReport).Methods(http.MethodGet)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	admin.HandleFunc("/staff", r.authHandler.RegisterStaff).Methods(http.MethodPost)

	// Doctor directory (admin)
	admin.HandleFunc("/doctors", r.doctorHandler.CreateDoctor).Methods(http.MethodPost)
	admin.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)

	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id:[0-9]+}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// Preflights match no API route by method; this route lets the CORS middleware see them
	r.router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.router.Use(r.corsMiddleware.Handle)
	if r.metricsMiddleware != nil {
		r.router.Use(r.metricsMiddleware.Handle)
	}

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

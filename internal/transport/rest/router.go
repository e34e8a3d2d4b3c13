package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pontocerto/timeclock/internal/accountant"
	"github.com/pontocerto/timeclock/internal/client"
	"github.com/pontocerto/timeclock/internal/dashboard"
	"github.com/pontocerto/timeclock/internal/employee"
	"github.com/pontocerto/timeclock/internal/realtime"
	"github.com/pontocerto/timeclock/internal/session"
	"github.com/pontocerto/timeclock/internal/timerecord"
	"github.com/pontocerto/timeclock/internal/transport/middleware"
	"github.com/pontocerto/timeclock/internal/transport/swagger"
)

// Handlers collects every handler the router mounts.
type Handlers struct {
	Accountant *accountant.Handler
	Client     *client.Handler
	Employee   *employee.Handler
	TimeRecord *timerecord.Handler
	Dashboard  *dashboard.Handler
	Stream     *realtime.StreamHandler
}

// RegisterAllRoutes wires middleware and the API surface onto the router.
func RegisterAllRoutes(router *chi.Mux, db *gorm.DB, rdb *redis.Client, h Handlers, sessionSecret []byte, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db, rdb)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// OpenAPI spec and swagger UI live outside the API prefix
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Everything below requires a valid session token.
		r.Group(func(pr chi.Router) {
			pr.Use(session.Middleware(sessionSecret, logger))

			// Accountant administration is reserved for the provider.
			pr.Route("/accountants", func(ar chi.Router) {
				ar.Use(session.RequireRole(logger, session.RoleProvider))
				ar.Post("/", h.Accountant.CreateAccountant)
				ar.Get("/", h.Accountant.ListAccountants)
				ar.Get("/{id}", h.Accountant.GetAccountant)
				ar.Patch("/{id}", h.Accountant.UpdateAccountant)
				ar.Patch("/{id}/status", h.Accountant.UpdateStatus)
				ar.Delete("/{id}", h.Accountant.DeleteAccountant)
				ar.Post("/{id}/resend-credentials", h.Accountant.ResendCredentials)
			})

			managers := session.RequireRole(logger, session.RoleProvider, session.RoleAdmin, session.RoleAccountant)

			pr.Route("/clients", func(cr chi.Router) {
				cr.Use(managers)
				cr.Post("/", h.Client.CreateClient)
				cr.Get("/", h.Client.ListClients)
				cr.Get("/{id}", h.Client.GetClient)
				cr.Patch("/{id}", h.Client.UpdateClient)
				cr.Patch("/{id}/status", h.Client.UpdateStatus)
				cr.Delete("/{id}", h.Client.DeleteClient)
				cr.Post("/{id}/resend-credentials", h.Client.ResendCredentials)
			})

			pr.Route("/employees", func(er chi.Router) {
				er.Use(managers)
				er.Post("/", h.Employee.CreateEmployee)
				er.Get("/", h.Employee.ListEmployees)
				er.Get("/{id}", h.Employee.GetEmployee)
				er.Patch("/{id}", h.Employee.UpdateEmployee)
				er.Patch("/{id}/status", h.Employee.UpdateStatus)
				er.Delete("/{id}", h.Employee.DeleteEmployee)
				er.Post("/{id}/resend-credentials", h.Employee.ResendCredentials)
			})

			pr.Route("/time-records", func(tr chi.Router) {
				tr.Use(session.RequireRole(logger, session.RoleProvider, session.RoleAdmin, session.RoleAccountant, session.RoleEmployee))
				tr.Post("/", h.TimeRecord.CreateTimeRecord)
				tr.Get("/", h.TimeRecord.ListTimeRecords)
				tr.Get("/{id}", h.TimeRecord.GetTimeRecord)
				tr.Delete("/{id}", h.TimeRecord.DeleteTimeRecord)
			})

			pr.Route("/dashboards", func(dr chi.Router) {
				dr.Group(func(pd chi.Router) {
					pd.Use(session.RequireRole(logger, session.RoleProvider))
					pd.Get("/provider", h.Dashboard.ProviderOverview)
				})
				dr.Group(func(ad chi.Router) {
					ad.Use(managers)
					ad.Get("/accountants/{id}", h.Dashboard.AccountantMetrics)
				})
			})

			pr.Get("/stream/{collection}", h.Stream.Stream)
		})
	})
}

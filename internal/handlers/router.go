package handlers

import (
	"net/http"
	"time"

	"rental/internal/config"
	"rental/internal/db"
	"rental/internal/metrics"
	"rental/internal/middleware"
	"rental/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	gorillaws "github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Handler struct {
	cfg      config.Config
	logger   *zap.Logger
	txRunner db.TxRunner
	users    UserStore
	audit    AuditLog
	svc      Services
	hub      *websocket.Hub
	metrics  *metrics.Metrics
	limiter  *middleware.RateLimiter
	upgrader gorillaws.Upgrader
	now      func() time.Time
}

// New wires the HTTP API. m may be nil, which disables request metrics and
// the /metrics endpoint.
func New(cfg config.Config, logger *zap.Logger, txRunner db.TxRunner, users UserStore, audit AuditLog, svc Services, hub *websocket.Hub, m *metrics.Metrics) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		cfg:      cfg,
		logger:   logger,
		txRunner: txRunner,
		users:    users,
		audit:    audit,
		svc:      svc,
		hub:      hub,
		metrics:  m,
		limiter:  middleware.NewRateLimiter(cfg.LoginRatePerSec, cfg.LoginRateBurst, logger),
		upgrader: websocket.NewUpgrader(cfg.Origins()),
		now:      time.Now,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.Logging(h.logger))
	if h.metrics != nil {
		router.Use(middleware.Metrics(h.metrics))
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.Origins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if h.metrics != nil {
		router.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}

	router.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(r chi.Router) {
			r.With(h.limiter.Limit).Post("/register", h.Register)
			r.With(h.limiter.Limit).Post("/login", h.Login)
			r.With(middleware.Auth(h.cfg.JWTSecret)).Get("/me", h.Me)
		})
		api.Get("/currencies", h.ListCurrencies)
		api.Get("/ws/events", h.WSEvents)

		api.Group(func(r chi.Router) {
			r.Use(middleware.Auth(h.cfg.JWTSecret))

			r.Get("/properties", h.ListProperties)
			r.Post("/properties", h.CreateProperty)
			r.Get("/properties/{id}", h.GetProperty)
			r.Put("/properties/{id}", h.UpdateProperty)
			r.Delete("/properties/{id}", h.DeleteProperty)

			r.Get("/units", h.ListUnits)
			r.Post("/units", h.CreateUnit)
			r.Get("/units/{id}", h.GetUnit)
			r.Put("/units/{id}", h.UpdateUnit)
			r.Delete("/units/{id}", h.DeleteUnit)

			r.Get("/tenants", h.ListTenants)
			r.Post("/tenants", h.CreateTenant)
			r.Get("/tenants/{id}", h.GetTenant)
			r.Put("/tenants/{id}", h.UpdateTenant)
			r.Delete("/tenants/{id}", h.DeleteTenant)

			r.Get("/leases", h.ListLeases)
			r.Post("/leases", h.CreateLease)
			r.Get("/leases/{id}", h.GetLease)
			r.Put("/leases/{id}", h.AmendLease)
			r.Delete("/leases/{id}", h.DeleteLease)

			r.Get("/payments", h.ListPayments)
			r.Post("/payments", h.RecordPayment)
			r.Get("/payments/{id}", h.GetPayment)
			r.Put("/payments/{id}", h.UpdatePayment)
			r.Delete("/payments/{id}", h.DeletePayment)
			r.Put("/payments/{id}/mark-paid", h.MarkPaid)

			r.Get("/receipts", h.ListReceipts)
			r.Post("/receipts", h.IssueReceipt)
			r.Get("/receipts/{id}", h.GetReceipt)

			r.Get("/dashboard", h.Dashboard)
			r.Get("/settings", h.GetSettings)
			r.Put("/settings", h.UpdateSettings)
			r.Get("/search/occupancy", h.SearchOccupancy)
			r.Get("/search/unit-history/{unit_id}", h.UnitHistory)

			r.Get("/backup", h.Backup)
			r.Post("/restore", h.Restore)
			r.Get("/audit", h.ListAuditLogs)
		})
	})
	return router
}

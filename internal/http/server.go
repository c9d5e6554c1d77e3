// Package http exposes the budget service as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"bachat/internal/auth"
	"bachat/internal/cache"
	"bachat/internal/core"
	"bachat/internal/middleware/ratelimit"
	"bachat/internal/middleware/security"
	"bachat/internal/middleware/trace"
)

// BudgetService is the application port the handlers call into.
type BudgetService interface {
	SetBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	GetBudget(ctx context.Context, userID string) (core.Budget, error)
	CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	DeleteExpense(ctx context.Context, id int64, userID string) error
	ListExpenses(ctx context.Context, userID string) ([]core.Expense, error)
	MonthlyExpenses(ctx context.Context, userID string) ([]core.Expense, error)
	Dashboard(ctx context.Context, userID string) (core.DashboardStats, error)
	Savings(ctx context.Context, userID string) (core.SavingsOverview, error)
}

// StatementWriter renders a monthly PDF statement from a budget and its
// month's expenses.
type StatementWriter interface {
	MonthlyStatement(b core.Budget, expenses []core.Expense, month time.Time) ([]byte, error)
}

type Server struct {
	http.Server

	service    BudgetService
	statements StatementWriter

	tracer      *trace.Middleware
	rateLimiter *ratelimit.Limiter

	// Derived views are cached per user and dropped on any write for that
	// user, so reads after a write always recompute.
	dashboardCache *cache.LRUCache[core.DashboardStats]
	savingsCache   *cache.LRUCache[core.SavingsOverview]
	cacheManager   *cache.Manager

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
// statements may be nil; the report endpoint then answers 503.
func NewServer(addr string, service BudgetService, verifier *auth.Verifier, statements StatementWriter) *Server {
	mux := http.NewServeMux()

	s := &Server{
		service:        service,
		statements:     statements,
		tracer:         trace.NewMiddleware(extractClientIP),
		rateLimiter:    ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		dashboardCache: cache.NewLRUCache[core.DashboardStats](500, time.Minute),
		savingsCache:   cache.NewLRUCache[core.SavingsOverview](500, time.Minute),
		cacheManager:   cache.NewManager(),
	}
	s.cacheManager.Register(s.dashboardCache)
	s.cacheManager.Register(s.savingsCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	api := http.NewServeMux()
	api.HandleFunc("/api/budget", s.handleBudget)
	api.HandleFunc("/api/expenses", s.handleExpenses)
	api.HandleFunc("/api/expenses/", s.handleExpenseByID)
	api.HandleFunc("/api/dashboard", s.handleDashboard)
	api.HandleFunc("/api/savings", s.handleSavings)
	api.HandleFunc("/api/reports/monthly", s.handleMonthlyReport)
	mux.Handle("/api/", verifier.Middleware(s.rateLimiter.Middleware(extractClientIP)(api)))

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.tracer.Middleware(headers.Middleware(mux)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// invalidateUser drops a user's cached derived views after a write.
func (s *Server) invalidateUser(userID string) {
	s.dashboardCache.Delete(userID)
	s.savingsCache.Delete(userID)
}

// Shutdown stops background cleanup goroutines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// extractClientIP resolves the client address, preferring proxy headers.
func extractClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

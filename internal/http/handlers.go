package http

import (
	"fmt"
	"net/http"
	"time"

	"bachat/internal/auth"
)

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if s.service == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleMetrics reports process counters in the Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n", s.tracer.TotalRequests())
	fmt.Fprintf(w, "# TYPE ratelimit_active_clients gauge\n")
	fmt.Fprintf(w, "ratelimit_active_clients %d\n", s.rateLimiter.ActiveClients())
	fmt.Fprintf(w, "# TYPE cache_dashboard_entries gauge\n")
	fmt.Fprintf(w, "cache_dashboard_entries %d\n", s.dashboardCache.Size())
	fmt.Fprintf(w, "# TYPE cache_savings_entries gauge\n")
	fmt.Fprintf(w, "cache_savings_entries %d\n", s.savingsCache.Size())
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	userID, ok := auth.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}
	if s.statements == nil {
		writeError(w, http.StatusServiceUnavailable, "reports not available")
		return
	}

	budget, err := s.service.GetBudget(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	expenses, err := s.service.MonthlyExpenses(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	month := time.Now()
	pdf, err := s.statements.MonthlyStatement(budget, expenses, month)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=statement-%s.pdf", month.Format("2006-01")))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

package http

import (
	"net/http"

	"bachat/internal/auth"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	userID, ok := auth.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	if stats, hit := s.dashboardCache.Get(userID); hit {
		writeJSON(w, http.StatusOK, toDashboardResponse(stats))
		return
	}

	stats, err := s.service.Dashboard(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.dashboardCache.Set(userID, stats)
	writeJSON(w, http.StatusOK, toDashboardResponse(stats))
}

func (s *Server) handleSavings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	userID, ok := auth.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	if overview, hit := s.savingsCache.Get(userID); hit {
		writeJSON(w, http.StatusOK, toSavingsResponse(overview))
		return
	}

	overview, err := s.service.Savings(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.savingsCache.Set(userID, overview)
	writeJSON(w, http.StatusOK, toSavingsResponse(overview))
}

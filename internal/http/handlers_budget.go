package http

import (
	"net/http"

	"bachat/internal/auth"
	"bachat/internal/core"
)

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getBudget(w, r, userID)
	case http.MethodPost:
		s.setBudget(w, r, userID)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) getBudget(w http.ResponseWriter, r *http.Request, userID string) {
	budget, err := s.service.GetBudget(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetResponse(budget))
}

func (s *Server) setBudget(w http.ResponseWriter, r *http.Request, userID string) {
	var req budgetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	budget, err := s.service.SetBudget(r.Context(), core.Budget{
		UserID:            userID,
		MonthlyIncome:     core.Money{Paise: req.MonthlyIncome},
		MandatoryExpenses: core.Money{Paise: req.MandatoryExpenses},
		SavingsGoal:       core.Money{Paise: req.SavingsGoal},
		DaysInMonth:       req.DaysInMonth,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.invalidateUser(userID)
	writeJSON(w, http.StatusOK, toBudgetResponse(budget))
}

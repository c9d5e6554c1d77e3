package http

import (
	"net/http"
	"strconv"
	"strings"

	"bachat/internal/auth"
	"bachat/internal/core"
)

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.listExpenses(w, r, userID)
	case http.MethodPost:
		s.createExpense(w, r, userID)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	id, err := expenseID(r.URL.Path)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.updateExpense(w, r, userID, id)
	case http.MethodDelete:
		s.deleteExpense(w, r, userID, id)
	default:
		methodNotAllowed(w, "PUT, DELETE")
	}
}

// expenseID parses the trailing id segment of /api/expenses/{id}.
func expenseID(path string) (int64, error) {
	raw := strings.TrimPrefix(path, "/api/expenses/")
	if raw == "" || strings.Contains(raw, "/") {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request, userID string) {
	expenses, err := s.service.ListExpenses(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseResponses(expenses))
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request, userID string) {
	var req expenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := s.service.CreateExpense(r.Context(), core.Expense{
		UserID:      userID,
		Amount:      core.Money{Paise: req.Amount},
		Category:    req.Category,
		Description: req.Description,
		Tags:        req.Tags,
		Date:        req.Date,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.invalidateUser(userID)
	writeJSON(w, http.StatusCreated, toExpenseResponse(created))
}

func (s *Server) updateExpense(w http.ResponseWriter, r *http.Request, userID string, id int64) {
	var req expenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := s.service.UpdateExpense(r.Context(), core.Expense{
		ID:          id,
		UserID:      userID,
		Amount:      core.Money{Paise: req.Amount},
		Category:    req.Category,
		Description: req.Description,
		Tags:        req.Tags,
		Date:        req.Date,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.invalidateUser(userID)
	writeJSON(w, http.StatusOK, toExpenseResponse(updated))
}

func (s *Server) deleteExpense(w http.ResponseWriter, r *http.Request, userID string, id int64) {
	if err := s.service.DeleteExpense(r.Context(), id, userID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.invalidateUser(userID)
	w.WriteHeader(http.StatusNoContent)
}

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bachat/internal/auth"
	"bachat/internal/core"
)

const testSecret = "test-secret"

// stubService implements BudgetService with canned data.
type stubService struct {
	budgets  map[string]core.Budget
	expenses map[string][]core.Expense
	nextID   int64

	dashboardCalls int
}

func newStubService() *stubService {
	return &stubService{
		budgets:  make(map[string]core.Budget),
		expenses: make(map[string][]core.Expense),
		nextID:   1,
	}
}

func (s *stubService) SetBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	s.budgets[b.UserID] = b
	return b, nil
}

func (s *stubService) GetBudget(_ context.Context, userID string) (core.Budget, error) {
	b, ok := s.budgets[userID]
	if !ok {
		return core.Budget{}, core.ErrBudgetNotFound
	}
	return b, nil
}

func (s *stubService) CreateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	e.ID = s.nextID
	s.nextID++
	s.expenses[e.UserID] = append(s.expenses[e.UserID], e)
	return e, nil
}

func (s *stubService) UpdateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	for i, cur := range s.expenses[e.UserID] {
		if cur.ID == e.ID {
			s.expenses[e.UserID][i] = e
			return e, nil
		}
	}
	return core.Expense{}, core.ErrExpenseNotFound
}

func (s *stubService) DeleteExpense(_ context.Context, id int64, userID string) error {
	for i, cur := range s.expenses[userID] {
		if cur.ID == id {
			s.expenses[userID] = append(s.expenses[userID][:i], s.expenses[userID][i+1:]...)
			return nil
		}
	}
	return core.ErrExpenseNotFound
}

func (s *stubService) ListExpenses(_ context.Context, userID string) ([]core.Expense, error) {
	return s.expenses[userID], nil
}

func (s *stubService) MonthlyExpenses(_ context.Context, userID string) ([]core.Expense, error) {
	return s.expenses[userID], nil
}

func (s *stubService) Dashboard(_ context.Context, userID string) (core.DashboardStats, error) {
	s.dashboardCalls++
	b, ok := s.budgets[userID]
	if !ok {
		return core.DashboardStats{}, core.ErrBudgetNotFound
	}
	return core.ComputeDashboard(b, core.Aggregate(s.expenses[userID]), 10)
}

func (s *stubService) Savings(_ context.Context, userID string) (core.SavingsOverview, error) {
	b, ok := s.budgets[userID]
	if !ok {
		return core.SavingsOverview{}, core.ErrBudgetNotFound
	}
	return core.ComputeSavings(b, core.Aggregate(s.expenses[userID]).Total), nil
}

func newTestServer(t *testing.T) (*Server, *stubService) {
	t.Helper()
	stub := newStubService()
	srv := NewServer(":0", stub, auth.NewVerifier(testSecret), nil)
	t.Cleanup(func() {
		_ = srv.Shutdown(context.Background())
	})
	return srv, stub
}

func signToken(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return signed
}

func doRequest(t *testing.T, srv *Server, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+signToken(t, userID))
	}
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestServer_RequiresAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/budget", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", rec.Code)
	}
}

func TestServer_BudgetRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/budget", "user-1", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 before budget exists, got %d", rec.Code)
	}

	body := `{"monthlyIncome":5000000,"mandatoryExpenses":1000000,"savingsGoal":500000,"daysInMonth":30}`
	rec = doRequest(t, srv, http.MethodPost, "/api/budget", "user-1", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 on budget post, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/budget", "user-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 after post, got %d", rec.Code)
	}
	var resp budgetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.MonthlyIncome != 5000000 {
		t.Errorf("Expected income 5000000, got %d", resp.MonthlyIncome)
	}
	if resp.UserID != "user-1" {
		t.Errorf("Expected userId from token, got %q", resp.UserID)
	}
}

func TestServer_BudgetValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/budget", "user-1",
		`{"monthlyIncome":-1,"daysInMonth":30}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for negative income, got %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/budget", "user-1", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestServer_ExpenseLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/expenses", "user-1",
		`{"amount":25000,"category":"groceries","description":"weekly shop","tags":["food"]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created expenseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("Expected assigned id")
	}

	rec = doRequest(t, srv, http.MethodPut, "/api/expenses/1", "user-1",
		`{"amount":30000,"category":"groceries"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 on update, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/expenses", "user-1", "")
	var listed []expenseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("Failed to decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].Amount != 30000 {
		t.Errorf("Expected one expense with updated amount, got %+v", listed)
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/expenses/1", "user-1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected 204 on delete, got %d", rec.Code)
	}
}

func TestServer_ExpenseOwnership(t *testing.T) {
	srv, _ := newTestServer(t)

	doRequest(t, srv, http.MethodPost, "/api/expenses", "owner",
		`{"amount":10000,"category":"misc"}`)

	rec := doRequest(t, srv, http.MethodDelete, "/api/expenses/1", "intruder", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for another user's expense, got %d", rec.Code)
	}
}

func TestServer_ExpenseBadID(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodDelete, "/api/expenses/abc", "user-1", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for non-numeric id, got %d", rec.Code)
	}
}

func TestServer_Dashboard(t *testing.T) {
	srv, _ := newTestServer(t)

	doRequest(t, srv, http.MethodPost, "/api/budget", "user-1",
		`{"monthlyIncome":5000000,"savingsGoal":500000,"daysInMonth":30}`)
	doRequest(t, srv, http.MethodPost, "/api/expenses", "user-1",
		`{"amount":1000000,"category":"rent"}`)

	rec := doRequest(t, srv, http.MethodGet, "/api/dashboard", "user-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp dashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode dashboard: %v", err)
	}
	if resp.TotalExpenses != 1000000 {
		t.Errorf("Expected total expenses 1000000, got %d", resp.TotalExpenses)
	}
	// 5000000 - 1000000 - 500000
	if resp.RemainingBudget != 3500000 {
		t.Errorf("Expected remaining 3500000, got %d", resp.RemainingBudget)
	}
	if len(resp.ExpensesByCategory) != 1 || resp.ExpensesByCategory[0].Category != "rent" {
		t.Errorf("Expected rent category, got %+v", resp.ExpensesByCategory)
	}
}

func TestServer_DashboardCacheInvalidatedOnWrite(t *testing.T) {
	srv, stub := newTestServer(t)

	doRequest(t, srv, http.MethodPost, "/api/budget", "user-1",
		`{"monthlyIncome":5000000,"savingsGoal":500000,"daysInMonth":30}`)

	doRequest(t, srv, http.MethodGet, "/api/dashboard", "user-1", "")
	doRequest(t, srv, http.MethodGet, "/api/dashboard", "user-1", "")
	if stub.dashboardCalls != 1 {
		t.Fatalf("Expected second read served from cache, service called %d times", stub.dashboardCalls)
	}

	doRequest(t, srv, http.MethodPost, "/api/expenses", "user-1",
		`{"amount":10000,"category":"misc"}`)

	rec := doRequest(t, srv, http.MethodGet, "/api/dashboard", "user-1", "")
	if stub.dashboardCalls != 2 {
		t.Errorf("Expected recompute after write, service called %d times", stub.dashboardCalls)
	}
	var resp dashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode dashboard: %v", err)
	}
	if resp.TotalExpenses != 10000 {
		t.Errorf("Expected fresh total 10000, got %d", resp.TotalExpenses)
	}
}

func TestServer_Savings(t *testing.T) {
	srv, _ := newTestServer(t)

	// Income 50000.00, expenses 45000.00: savings ratio 10%, expenses 90%
	// of income, and 5000.00 saved falls 5000.00 short of the 10000.00 goal.
	doRequest(t, srv, http.MethodPost, "/api/budget", "user-1",
		`{"monthlyIncome":5000000,"savingsGoal":1000000,"daysInMonth":30}`)
	doRequest(t, srv, http.MethodPost, "/api/expenses", "user-1",
		`{"amount":4500000,"category":"rent"}`)

	rec := doRequest(t, srv, http.MethodGet, "/api/savings", "user-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp savingsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode savings: %v", err)
	}
	if resp.MonthlySavings != 500000 {
		t.Errorf("Expected monthly savings 500000, got %d", resp.MonthlySavings)
	}
	if len(resp.Recommendations) != 3 {
		t.Errorf("Expected 3 recommendations, got %v", resp.Recommendations)
	}
	found := false
	for _, msg := range resp.Recommendations {
		if strings.Contains(msg, "₹5000.00") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected deficit formatted as ₹5000.00 in %v", resp.Recommendations)
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodDelete, "/api/budget", "user-1", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "GET, POST" {
		t.Errorf("Expected Allow header, got %q", allow)
	}
}

func TestServer_OperationalEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		rec := doRequest(t, srv, http.MethodGet, path, "", "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200 without auth, got %d", path, rec.Code)
		}
	}

	rec := doRequest(t, srv, http.MethodGet, "/metrics", "", "")
	if !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Errorf("Expected request counter in metrics, got %q", rec.Body.String())
	}
}

func TestServer_SecurityHeaders(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/healthz", "", "")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("Expected nosniff header, got %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("Expected DENY frame options, got %q", got)
	}
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"
	"finance-tracker/internal/storage/memory"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(store storage.Storage) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", Health)
	RegisterRoutes(r, store)
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, w)["message"]
}

func TestHealth(t *testing.T) {
	w := do(t, newTestRouter(memory.NewStorage()), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCreateExpensePreservesAmount(t *testing.T) {
	r := newTestRouter(memory.NewStorage())

	w := do(t, r, http.MethodPost, "/api/expenses", `{"category":"Food","amount":"42.50","date":"2024-03-01"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[map[string]any](t, w)
	assert.Equal(t, "42.50", created["amount"])
	assert.Equal(t, "Food", created["category"])
	assert.Nil(t, created["description"])
	assert.Equal(t, "2024-03-01T00:00:00Z", created["date"])
	assert.NotEmpty(t, created["createdAt"])

	id := int64(created["id"].(float64))
	assert.Positive(t, id)

	w = do(t, r, http.MethodGet, "/api/expenses", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]domain.Expense](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "42.50", list[0].Amount.String())
	assert.Equal(t, id, list[0].ID)
}

func TestListEmptyIsArray(t *testing.T) {
	r := newTestRouter(memory.NewStorage())

	for _, path := range []string{"/api/expenses", "/api/indian-expenses", "/api/salaries"} {
		w := do(t, r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, `[]`, w.Body.String(), path)
	}
}

func TestGetUnknownExpense(t *testing.T) {
	r := newTestRouter(memory.NewStorage())

	w := do(t, r, http.MethodGet, "/api/expenses/999999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Expense not found", message(t, w))

	w = do(t, r, http.MethodGet, "/api/indian-expenses/999999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Indian expense not found", message(t, w))
}

func TestMalformedID(t *testing.T) {
	r := newTestRouter(memory.NewStorage())

	for _, tc := range []struct{ method, path, want string }{
		{http.MethodGet, "/api/expenses/abc", "Invalid expense ID"},
		{http.MethodDelete, "/api/indian-expenses/1.5", "Invalid Indian expense ID"},
		{http.MethodGet, "/api/salaries/+7", "Invalid salary ID"},
		{http.MethodPatch, "/api/salaries/x", "Invalid salary ID"},
	} {
		w := do(t, r, tc.method, tc.path, `{"amount":1}`)
		assert.Equal(t, http.StatusBadRequest, w.Code, tc.path)
		assert.Equal(t, tc.want, message(t, w), tc.path)
	}
}

func TestDeleteTwice(t *testing.T) {
	r := newTestRouter(memory.NewStorage())

	w := do(t, r, http.MethodPost, "/api/indian-expenses", `{"category":"Chai","amount":20}`)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[domain.Expense](t, w).ID

	path := "/api/indian-expenses/" + jsonNumber(id)
	w = do(t, r, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(t, r, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCollectionsDoNotLeak(t *testing.T) {
	r := newTestRouter(memory.NewStorage())

	w := do(t, r, http.MethodPost, "/api/expenses", `{"category":"Food","amount":"1"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[domain.Expense](t, w).ID

	w = do(t, r, http.MethodGet, "/api/indian-expenses/"+jsonNumber(id), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateExpenseAmountRules(t *testing.T) {
	r := newTestRouter(memory.NewStorage())

	tests := []struct {
		body     string
		wantCode int
		wantMsg  string
	}{
		{`{"category":"Food","amount":-5}`, http.StatusBadRequest, "amount must be greater than 0"},
		{`{"category":"Food","amount":0}`, http.StatusBadRequest, "amount must be greater than 0"},
		{`{"category":"Food","amount":"abc"}`, http.StatusBadRequest, "amount must be a decimal number"},
		{`{"category":"Food","amount":"1.005"}`, http.StatusBadRequest, "at most 2 fraction digits"},
		{`{"category":"Food","amount":"-5"}`, http.StatusBadRequest, "amount must be greater than 0"},
		{`{"category":"Food","amount":"0"}`, http.StatusBadRequest, "amount must be greater than 0"},
		{`{"category":"Food","amount":"1e50000000"}`, http.StatusBadRequest, "amount must be less than 100000000"},
		{`{"category":"Food","amount":0.01}`, http.StatusCreated, ""},
		{`{"category":"Food","amount":"0.01"}`, http.StatusCreated, ""},
	}

	for _, tt := range tests {
		w := do(t, r, http.MethodPost, "/api/expenses", tt.body)
		assert.Equal(t, tt.wantCode, w.Code, tt.body)
		if tt.wantMsg != "" {
			msg := message(t, w)
			assert.True(t, strings.HasPrefix(msg, "Validation error: "), msg)
			assert.Contains(t, msg, tt.wantMsg)
		}
	}

	w := do(t, r, http.MethodGet, "/api/expenses", "")
	list := decode[[]domain.Expense](t, w)
	require.Len(t, list, 2)
	assert.Equal(t, "0.01", list[0].Amount.String())
	assert.Equal(t, "0.01", list[1].Amount.String())
}

func TestCreateRejectsUnencodableDates(t *testing.T) {
	r := newTestRouter(memory.NewStorage())

	for _, date := range []string{`"9999-12-31T23:00:00-05:00"`, `1e300`} {
		w := do(t, r, http.MethodPost, "/api/expenses", `{"category":"Food","amount":"1","date":`+date+`}`)
		assert.Equal(t, http.StatusBadRequest, w.Code, date)
		assert.Contains(t, message(t, w), "date must be between years 1900 and 9999")
	}

	w := do(t, r, http.MethodPost, "/api/salaries", `{"amount":1,"month":"May","year":2024,"date":-1e300}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/api/expenses", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListFiltersAndSorts(t *testing.T) {
	r := newTestRouter(memory.NewStorage())

	for _, body := range []string{
		`{"category":"Food","amount":"9.50","date":"2024-03-01"}`,
		`{"category":"Rent","amount":"1200","date":"2024-03-02"}`,
		`{"category":"Food","amount":"100","date":"2024-03-10"}`,
		`{"category":"Food","amount":"25","date":"2024-04-01"}`,
	} {
		require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/expenses", body).Code, body)
	}

	amounts := func(path string) []string {
		w := do(t, r, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var out []string
		for _, e := range decode[[]domain.Expense](t, w) {
			out = append(out, e.Amount.String())
		}
		return out
	}

	assert.Equal(t, []string{"9.50", "1200.00", "100.00", "25.00"}, amounts("/api/expenses"))
	assert.Equal(t, []string{"9.50", "100.00", "25.00"}, amounts("/api/expenses?category=Food"))
	assert.Len(t, amounts("/api/expenses?category=all"), 4)
	assert.Equal(t, []string{"1200.00", "100.00"}, amounts("/api/expenses?from=2024-03-02&to=2024-03-31"))
	assert.Equal(t, []string{"1200.00", "100.00", "25.00", "9.50"}, amounts("/api/expenses?sort=amount-desc"))
	assert.Equal(t, []string{"25.00", "100.00", "9.50"}, amounts("/api/expenses?category=Food&sort=date-desc"))
	assert.Empty(t, amounts("/api/indian-expenses?category=Food"))

	for _, path := range []string{
		"/api/expenses?sort=price",
		"/api/expenses?from=March",
		"/api/expenses?from=2024-04-01&to=2024-03-01",
	} {
		w := do(t, r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.True(t, strings.HasPrefix(message(t, w), "Validation error: "), path)
	}
}

func TestCreateExpenseAggregatesErrors(t *testing.T) {
	r := newTestRouter(memory.NewStorage())

	w := do(t, r, http.MethodPost, "/api/expenses", `{"category":"  ","amount":-1,"date":"yesterday"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	msg := message(t, w)
	assert.Contains(t, msg, "category")
	assert.Contains(t, msg, "amount")
	assert.Contains(t, msg, "date")
}

func TestCreateRejectsNonObjectBody(t *testing.T) {
	r := newTestRouter(memory.NewStorage())

	for _, body := range []string{`[1,2]`, `not json`, `"x"`} {
		w := do(t, r, http.MethodPost, "/api/salaries", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestSalaryLifecycle(t *testing.T) {
	r := newTestRouter(memory.NewStorage())

	w := do(t, r, http.MethodPost, "/api/salaries", `{"amount":2500,"year":2024}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, message(t, w), "month is required")

	w = do(t, r, http.MethodPost, "/api/salaries", `{"amount":3000,"month":"march","year":2024,"notes":"base"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[domain.Salary](t, w)
	assert.Equal(t, "March", created.Month)

	path := "/api/salaries/" + jsonNumber(created.ID)

	w = do(t, r, http.MethodPatch, path, `{"amount":5000}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[domain.Salary](t, w)
	assert.Equal(t, "5000.00", updated.Amount.String())
	assert.Equal(t, "March", updated.Month)
	assert.Equal(t, 2024, updated.Year)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "base", *updated.Notes)

	w = do(t, r, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5000.00", decode[domain.Salary](t, w).Amount.String())

	w = do(t, r, http.MethodPatch, path, `{"amount":-1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPatch, "/api/salaries/999999", `{"amount":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Salary not found", message(t, w))

	w = do(t, r, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, r, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSummary(t *testing.T) {
	r := newTestRouter(memory.NewStorage())

	for _, body := range []string{
		`{"category":"Food","amount":"10.10","date":"2024-03-01"}`,
		`{"category":"Food","amount":"5.05","date":"2024-03-20"}`,
		`{"category":"Rent","amount":"900","date":"2024-04-01"}`,
	} {
		require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/expenses", body).Code)
	}
	require.Equal(t, http.StatusCreated,
		do(t, r, http.MethodPost, "/api/salaries", `{"amount":"3000","month":"March","year":2024}`).Code)

	w := do(t, r, http.MethodGet, "/api/summary?month=March&year=2024", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{
		"collection": "expenses", "month": "March", "year": "2024",
		"totalIncome": "3000.00", "totalExpenses": "15.15", "savings": "2984.85",
		"expenseCount": 2, "salaryCount": 1,
		"byCategory": [{"category": "Food", "amount": "15.15"}]
	}`, w.Body.String())

	w = do(t, r, http.MethodGet, "/api/summary?collection=indian-expenses", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"expenseCount":0`)

	w = do(t, r, http.MethodGet, "/api/summary?collection=cashback", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/api/summary?month=Smarch", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// failingStore fails every call to check the 500 path.
type failingStore struct {
	storage.Storage
}

var errDown = &storage.Error{Op: "query", Err: errors.New("connection refused")}

func (failingStore) ListExpenses(context.Context, domain.ExpenseCollection) ([]domain.Expense, error) {
	return nil, errDown
}

func (failingStore) CreateExpense(context.Context, domain.ExpenseCollection, domain.NewExpense) (*domain.Expense, error) {
	return nil, errDown
}

func (failingStore) ListSalaries(context.Context) ([]domain.Salary, error) {
	return nil, errDown
}

func (failingStore) UpdateSalary(context.Context, int64, domain.SalaryPatch) (*domain.Salary, error) {
	return nil, errDown
}

func TestStoreFailureIsGeneric500(t *testing.T) {
	r := newTestRouter(failingStore{Storage: memory.NewStorage()})

	tests := []struct{ method, path, body, want string }{
		{http.MethodGet, "/api/expenses", "", "Failed to retrieve expenses"},
		{http.MethodPost, "/api/indian-expenses", `{"category":"Chai","amount":1}`, "Failed to create Indian expense"},
		{http.MethodGet, "/api/salaries", "", "Failed to retrieve salaries"},
		{http.MethodPatch, "/api/salaries/1", `{"amount":1}`, "Failed to update salary"},
		{http.MethodGet, "/api/summary", "", "Failed to build summary"},
	}
	for _, tt := range tests {
		w := do(t, r, tt.method, tt.path, tt.body)
		assert.Equal(t, http.StatusInternalServerError, w.Code, tt.path)
		assert.Equal(t, tt.want, message(t, w), tt.path)
		assert.NotContains(t, w.Body.String(), "connection refused")
	}
}

func TestValidationBeforeStore(t *testing.T) {
	r := newTestRouter(failingStore{Storage: memory.NewStorage()})

	w := do(t, r, http.MethodPost, "/api/expenses", `{"amount":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func jsonNumber(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

// internal/handler/expense.go
package handler

import (
	"errors"
	"net/http"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/listing"
	"finance-tracker/internal/metrics"
	"finance-tracker/internal/storage"
	val "finance-tracker/internal/validator"

	"github.com/gin-gonic/gin"
)

// ExpenseHandler serves one expense collection; both collections share it.
type ExpenseHandler struct {
	store storage.ExpenseStorage
	coll  domain.ExpenseCollection
	res   resource
}

func NewExpenseHandler(store storage.ExpenseStorage, coll domain.ExpenseCollection) *ExpenseHandler {
	res := resource{singular: "expense", plural: "expenses"}
	if coll == domain.IndianExpenses {
		res = resource{singular: "Indian expense", plural: "Indian expenses"}
	}
	return &ExpenseHandler{store: store, coll: coll, res: res}
}

// List godoc
// @Summary List expenses ordered by date
// @Tags expenses
// @Produce json
// @Param category query string false "Exact category, or all"
// @Param from query string false "First day, YYYY-MM-DD"
// @Param to query string false "Last day, YYYY-MM-DD"
// @Param sort query string false "date-desc, date-asc, amount-desc or amount-asc"
// @Success 200 {array} domain.Expense
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/expenses [get]
// @Router /api/indian-expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	q, err := listing.Parse(c.Query("category"), c.Query("from"), c.Query("to"), c.Query("sort"))
	if err != nil {
		var fe *listing.FieldError
		if errors.As(err, &fe) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Validation error: " + fe.Message})
			return
		}
		respondError(c, h.res, "Failed to retrieve "+h.res.plural, err)
		return
	}

	expenses, err := h.store.ListExpenses(c.Request.Context(), h.coll)
	if err != nil {
		respondError(c, h.res, "Failed to retrieve "+h.res.plural, err)
		return
	}
	c.JSON(http.StatusOK, q.Apply(expenses))
}

// Get godoc
// @Summary Get one expense
// @Tags expenses
// @Param id path int true "Expense ID"
// @Success 200 {object} domain.Expense
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	failure := "Failed to retrieve " + h.res.singular

	id, err := parseID(c)
	if err != nil {
		respondError(c, h.res, failure, err)
		return
	}

	e, err := h.store.GetExpense(c.Request.Context(), h.coll, id)
	if err != nil {
		respondError(c, h.res, failure, err)
		return
	}
	if e == nil {
		respondError(c, h.res, failure, domain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, e)
}

// Create godoc
// @Summary Record an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Param request body object true "category, amount, description?, date?"
// @Success 201 {object} domain.Expense
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	failure := "Failed to create " + h.res.singular

	p, err := readPayload(c)
	if err != nil {
		respondError(c, h.res, failure, err)
		return
	}
	in, err := val.Expense(p)
	if err != nil {
		respondError(c, h.res, failure, err)
		return
	}

	e, err := h.store.CreateExpense(c.Request.Context(), h.coll, in)
	if err != nil {
		respondError(c, h.res, failure, err)
		return
	}

	metrics.RecordCreated(string(h.coll))
	c.JSON(http.StatusCreated, e)
}

// Delete godoc
// @Summary Delete an expense
// @Tags expenses
// @Param id path int true "Expense ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	failure := "Failed to delete " + h.res.singular

	id, err := parseID(c)
	if err != nil {
		respondError(c, h.res, failure, err)
		return
	}

	ok, err := h.store.DeleteExpense(c.Request.Context(), h.coll, id)
	if err != nil {
		respondError(c, h.res, failure, err)
		return
	}
	if !ok {
		respondError(c, h.res, failure, domain.ErrNotFound)
		return
	}

	metrics.RecordDeleted(string(h.coll))
	c.Status(http.StatusNoContent)
}

// internal/handler/summary.go
package handler

import (
	"net/http"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"
	"finance-tracker/internal/summary"
	val "finance-tracker/internal/validator"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type SummaryHandler struct {
	store storage.Storage
	res   resource
}

func NewSummaryHandler(store storage.Storage) *SummaryHandler {
	return &SummaryHandler{store: store, res: resource{singular: "summary", plural: "summaries"}}
}

// Get godoc
// @Summary Dashboard totals for a period
// @Tags summary
// @Param collection query string false "expenses (default) or indian-expenses"
// @Param month query string false "Month name or all"
// @Param year query int false "Year or all"
// @Success 200 {object} summary.Summary
// @Failure 400 {object} map[string]string
// @Router /api/summary [get]
func (h *SummaryHandler) Get(c *gin.Context) {
	const failure = "Failed to build summary"

	coll := domain.ExpenseCollection(c.DefaultQuery("collection", string(domain.Expenses)))
	if !coll.IsValid() {
		respondError(c, h.res, failure, &val.ValidationError{Fields: []val.FieldError{
			{Field: "collection", Message: "collection must be expenses or indian-expenses"},
		}})
		return
	}

	period, err := summary.ParsePeriod(c.Query("month"), c.Query("year"))
	if err != nil {
		respondError(c, h.res, failure, &val.ValidationError{Fields: []val.FieldError{
			{Field: "period", Message: err.Error()},
		}})
		return
	}

	var (
		expenses []domain.Expense
		salaries []domain.Salary
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		expenses, err = h.store.ListExpenses(ctx, coll)
		return err
	})
	g.Go(func() error {
		var err error
		salaries, err = h.store.ListSalaries(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		respondError(c, h.res, failure, err)
		return
	}

	c.JSON(http.StatusOK, summary.Compute(coll, period, expenses, salaries))
}

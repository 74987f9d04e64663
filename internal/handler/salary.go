// internal/handler/salary.go
package handler

import (
	"log/slog"
	"net/http"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/metrics"
	"finance-tracker/internal/storage"
	val "finance-tracker/internal/validator"

	"github.com/gin-gonic/gin"
)

const salariesCollection = "salaries"

type SalaryHandler struct {
	store storage.SalaryStorage
	res   resource
}

func NewSalaryHandler(store storage.SalaryStorage) *SalaryHandler {
	return &SalaryHandler{store: store, res: resource{singular: "salary", plural: "salaries"}}
}

// List godoc
// @Summary List salary entries ordered by date
// @Tags salaries
// @Success 200 {array} domain.Salary
// @Router /api/salaries [get]
func (h *SalaryHandler) List(c *gin.Context) {
	salaries, err := h.store.ListSalaries(c.Request.Context())
	if err != nil {
		respondError(c, h.res, "Failed to retrieve salaries", err)
		return
	}
	if salaries == nil {
		salaries = []domain.Salary{}
	}
	c.JSON(http.StatusOK, salaries)
}

// Get godoc
// @Summary Get one salary entry
// @Tags salaries
// @Param id path int true "Salary ID"
// @Success 200 {object} domain.Salary
// @Failure 404 {object} map[string]string
// @Router /api/salaries/{id} [get]
func (h *SalaryHandler) Get(c *gin.Context) {
	const failure = "Failed to retrieve salary"

	id, err := parseID(c)
	if err != nil {
		respondError(c, h.res, failure, err)
		return
	}

	s, err := h.store.GetSalary(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.res, failure, err)
		return
	}
	if s == nil {
		respondError(c, h.res, failure, domain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Create godoc
// @Summary Record a salary entry
// @Tags salaries
// @Accept json
// @Param request body object true "month, year, amount, notes?, date?"
// @Success 201 {object} domain.Salary
// @Failure 400 {object} map[string]string
// @Router /api/salaries [post]
func (h *SalaryHandler) Create(c *gin.Context) {
	const failure = "Failed to create salary"

	p, err := readPayload(c)
	if err != nil {
		respondError(c, h.res, failure, err)
		return
	}
	in, err := val.Salary(p)
	if err != nil {
		respondError(c, h.res, failure, err)
		return
	}

	s, err := h.store.CreateSalary(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.res, failure, err)
		return
	}

	metrics.RecordCreated(salariesCollection)
	c.JSON(http.StatusCreated, s)
}

// Update godoc
// @Summary Partially update a salary entry
// @Description Only the fields present in the body change.
// @Tags salaries
// @Accept json
// @Param id path int true "Salary ID"
// @Param request body object true "any of amount, month, year, notes, date"
// @Success 200 {object} domain.Salary
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/salaries/{id} [patch]
func (h *SalaryHandler) Update(c *gin.Context) {
	const failure = "Failed to update salary"

	id, err := parseID(c)
	if err != nil {
		respondError(c, h.res, failure, err)
		return
	}
	p, err := readPayload(c)
	if err != nil {
		respondError(c, h.res, failure, err)
		return
	}
	patch, err := val.SalaryPatch(p)
	if err != nil {
		respondError(c, h.res, failure, err)
		return
	}

	s, err := h.store.UpdateSalary(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, h.res, failure, err)
		return
	}
	if s == nil {
		respondError(c, h.res, failure, domain.ErrNotFound)
		return
	}

	slog.Debug("Salary updated", "id", id)
	c.JSON(http.StatusOK, s)
}

// Delete godoc
// @Summary Delete a salary entry
// @Tags salaries
// @Param id path int true "Salary ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/salaries/{id} [delete]
func (h *SalaryHandler) Delete(c *gin.Context) {
	const failure = "Failed to delete salary"

	id, err := parseID(c)
	if err != nil {
		respondError(c, h.res, failure, err)
		return
	}

	ok, err := h.store.DeleteSalary(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.res, failure, err)
		return
	}
	if !ok {
		respondError(c, h.res, failure, domain.ErrNotFound)
		return
	}

	metrics.RecordDeleted(salariesCollection)
	c.Status(http.StatusNoContent)
}

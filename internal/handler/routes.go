// internal/handler/routes.go
package handler

import (
	"net/http"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the record API under /api.
func RegisterRoutes(router gin.IRouter, store storage.Storage) {
	api := router.Group("/api")

	for _, coll := range []domain.ExpenseCollection{domain.Expenses, domain.IndianExpenses} {
		h := NewExpenseHandler(store, coll)
		g := api.Group("/" + string(coll))
		{
			g.GET("", h.List)
			g.GET("/:id", h.Get)
			g.POST("", h.Create)
			g.DELETE("/:id", h.Delete)
		}
	}

	salaries := NewSalaryHandler(store)
	s := api.Group("/salaries")
	{
		s.GET("", salaries.List)
		s.GET("/:id", salaries.Get)
		s.POST("", salaries.Create)
		s.PATCH("/:id", salaries.Update)
		s.DELETE("/:id", salaries.Delete)
	}

	api.GET("/summary", NewSummaryHandler(store).Get)
}

// Health godoc
// @Summary Liveness check
// @Router /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

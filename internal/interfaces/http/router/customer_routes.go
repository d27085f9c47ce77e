package router

import (
	"github.com/erp/customer-service/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// CustomerRoutes registers the customer endpoint group
type CustomerRoutes struct {
	handler *handler.CustomerHandler
}

// NewCustomerRoutes creates a CustomerRoutes registrar
func NewCustomerRoutes(h *handler.CustomerHandler) *CustomerRoutes {
	return &CustomerRoutes{handler: h}
}

// RegisterRoutes registers all customer routes.
// Fixed segments are registered before the :id wildcard so that
// /customers/summary and /customers/code/... resolve unambiguously.
func (r *CustomerRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	{
		customers.POST("", r.handler.Create)
		customers.GET("", r.handler.List)
		customers.GET("/summary", r.handler.ListSummaries)
		customers.POST("/summary/batch", r.handler.BatchSummaries)
		customers.GET("/code/:code", r.handler.GetByCode)
		customers.GET("/:id", r.handler.Get)
		customers.GET("/:id/summary", r.handler.GetSummary)
		customers.PATCH("/:id", r.handler.Update)
		customers.DELETE("/:id", r.handler.Delete)
		customers.POST("/:id/restore", r.handler.Restore)
	}
}

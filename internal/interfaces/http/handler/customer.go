package handler

import (
	"strconv"

	appcustomer "github.com/erp/customer-service/internal/application/customer"
	"github.com/erp/customer-service/internal/domain/shared"
	"github.com/erp/customer-service/internal/interfaces/http/dto"
	"github.com/erp/customer-service/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CustomerHandler handles customer API endpoints
type CustomerHandler struct {
	BaseHandler
	service *appcustomer.Service
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(service *appcustomer.Service) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// caller builds the authenticated caller from the JWT context
func (h *CustomerHandler) caller(c *gin.Context) (appcustomer.Caller, bool) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return appcustomer.Caller{}, false
	}
	return appcustomer.Caller{
		ID:    userID,
		Roles: middleware.GetJWTRoles(c),
	}, true
}

// pathID parses the :id path parameter
func (h *CustomerHandler) pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return uuid.Nil, false
	}
	return id, true
}

// Create handles POST /customers
func (h *CustomerHandler) Create(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req appcustomer.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

// List handles GET /customers
func (h *CustomerHandler) List(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req dto.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	page, err := h.service.FindAll(c.Request.Context(), caller, shared.PageQuery{Page: req.Page, Limit: req.Limit})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, page)
}

// ListSummaries handles GET /customers/summary
func (h *CustomerHandler) ListSummaries(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req dto.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	page, err := h.service.FindAllSummary(c.Request.Context(), caller, shared.PageQuery{Page: req.Page, Limit: req.Limit})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, page)
}

// Get handles GET /customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := h.service.FindOne(c.Request.Context(), caller, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByCode handles GET /customers/code/:code
func (h *CustomerHandler) GetByCode(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	code, err := strconv.ParseInt(c.Param("code"), 10, 64)
	if err != nil {
		h.BadRequest(c, "Invalid customer code format")
		return
	}

	resp, err := h.service.FindOneByCode(c.Request.Context(), caller, code)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetSummary handles GET /customers/:id/summary
func (h *CustomerHandler) GetSummary(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := h.service.FindOneSummary(c.Request.Context(), caller, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// BatchSummaries handles POST /customers/summary/batch
func (h *CustomerHandler) BatchSummaries(c *gin.Context) {
	if _, ok := h.caller(c); !ok {
		return
	}

	var req dto.BatchSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ids := make([]uuid.UUID, len(req.IDs))
	for i, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid customer ID format: "+raw)
			return
		}
		ids[i] = id
	}

	summaries, err := h.service.FindManySummary(c.Request.Context(), ids)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, summaries)
}

// Update handles PATCH /customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req appcustomer.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.Update(c.Request.Context(), caller, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := h.service.Remove(c.Request.Context(), caller, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Restore handles POST /customers/:id/restore
func (h *CustomerHandler) Restore(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := h.service.Restore(c.Request.Context(), caller, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

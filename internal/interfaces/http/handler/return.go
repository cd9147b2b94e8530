package handler

import (
	"github.com/gin-gonic/gin"

	salesapp "github.com/storeledger/backend/internal/application/sales"
)

// ReturnHandler handles return API endpoints
type ReturnHandler struct {
	BaseHandler
	returns *salesapp.ReturnService
}

// NewReturnHandler creates a new ReturnHandler
func NewReturnHandler(returns *salesapp.ReturnService) *ReturnHandler {
	return &ReturnHandler{returns: returns}
}

// RegisterRoutes registers return routes on the API group
func (h *ReturnHandler) RegisterRoutes(rg *gin.RouterGroup) {
	returns := rg.Group("/returns")
	{
		returns.POST("", h.Create)
		returns.GET("/:id", h.Get)
		returns.POST("/:id/approve", h.Approve)
		returns.POST("/:id/reject", h.Reject)
		returns.DELETE("/:id", h.Delete)
	}
	rg.GET("/customers/:id/returns", h.ListByCustomer)
}

// Create opens a return against an invoice
func (h *ReturnHandler) Create(c *gin.Context) {
	var req salesapp.CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.returns.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns one return
func (h *ReturnHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	resp, err := h.returns.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListByCustomer returns the customer's return history
func (h *ReturnHandler) ListByCustomer(c *gin.Context) {
	customerID, ok := parseIDParam(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	returns, err := h.returns.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, returns)
}

// Approve approves a pending return
func (h *ReturnHandler) Approve(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	resp, err := h.returns.Approve(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Reject rejects a pending return
func (h *ReturnHandler) Reject(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	var req salesapp.RejectReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.returns.Reject(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a return
func (h *ReturnHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	if err := h.returns.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

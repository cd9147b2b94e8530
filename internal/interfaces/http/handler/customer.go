package handler

import (
	"github.com/gin-gonic/gin"

	customerapp "github.com/storeledger/backend/internal/application/customer"
)

// CustomerHandler handles customer API endpoints
type CustomerHandler struct {
	BaseHandler
	customers *customerapp.Service
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customers *customerapp.Service) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// RegisterRoutes registers customer routes on the API group
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	{
		customers.POST("", h.Create)
		customers.GET("", h.List)
		customers.GET("/:id", h.Get)
		customers.GET("/code/:code", h.GetByCode)
		customers.PUT("/:id", h.Update)
		customers.DELETE("/:id", h.Delete)
		customers.POST("/:id/reconcile", h.Reconcile)
	}
}

// Create creates a new customer with a zero-valued ledger
func (h *CustomerHandler) Create(c *gin.Context) {
	var req customerapp.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.customers.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns a page of customers
func (h *CustomerHandler) List(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}

	customers, total, err := h.customers.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, customers, total, filter.Page, filter.PageSize)
}

// Get returns one customer with its reconciled ledger
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	resp, err := h.customers.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByCode returns one customer looked up by its unique code
func (h *CustomerHandler) GetByCode(c *gin.Context) {
	resp, err := h.customers.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update updates a customer's basic information
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	var req customerapp.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.customers.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a customer
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	if err := h.customers.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Reconcile forces a full recomputation of the customer's ledger
func (h *CustomerHandler) Reconcile(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	if err := h.customers.Reconcile(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	resp, err := h.customers.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

package handler

import (
	"github.com/gin-gonic/gin"

	salesapp "github.com/storeledger/backend/internal/application/sales"
)

// InvoiceHandler handles invoice API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoices *salesapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoices *salesapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// RegisterRoutes registers invoice routes on the API group
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.Create)
		invoices.GET("/:id", h.Get)
		invoices.PUT("/:id", h.Update)
		invoices.DELETE("/:id", h.Delete)
	}
	rg.GET("/customers/:id/invoices", h.ListByCustomer)
}

// Create records an invoice and reconciles its customer's ledger
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req salesapp.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.invoices.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns one invoice
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	resp, err := h.invoices.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListByCustomer returns the customer's full invoice history, or only
// the invoices with an unpaid balance when ?outstanding=true
func (h *InvoiceHandler) ListByCustomer(c *gin.Context) {
	customerID, ok := parseIDParam(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	var (
		invoices []salesapp.InvoiceResponse
		err      error
	)
	if c.Query("outstanding") == "true" {
		invoices, err = h.invoices.ListOutstandingByCustomer(c.Request.Context(), customerID)
	} else {
		invoices, err = h.invoices.ListByCustomer(c.Request.Context(), customerID)
	}
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, invoices)
}

// Update replaces an invoice's line items
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	var req salesapp.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.invoices.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes an invoice and reconciles its customer's ledger
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	if err := h.invoices.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

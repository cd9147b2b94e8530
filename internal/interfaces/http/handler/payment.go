package handler

import (
	"github.com/gin-gonic/gin"

	salesapp "github.com/storeledger/backend/internal/application/sales"
)

// PaymentHandler handles payment API endpoints
type PaymentHandler struct {
	BaseHandler
	payments *salesapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(payments *salesapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// RegisterRoutes registers payment routes on the API group
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("", h.Record)
		payments.GET("/:id", h.Get)
		payments.PUT("/:id", h.Update)
		payments.DELETE("/:id", h.Delete)
	}
	rg.GET("/customers/:id/payments", h.ListByCustomer)
}

// Record records a payment or refund against a customer
func (h *PaymentHandler) Record(c *gin.Context) {
	var req salesapp.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.payments.Record(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns one payment
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	resp, err := h.payments.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListByCustomer returns the customer's full payment history, or only
// payments not tied to an invoice when ?standalone=true
func (h *PaymentHandler) ListByCustomer(c *gin.Context) {
	customerID, ok := parseIDParam(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	var (
		payments []salesapp.PaymentResponse
		err      error
	)
	if c.Query("standalone") == "true" {
		payments, err = h.payments.ListStandaloneByCustomer(c.Request.Context(), customerID)
	} else {
		payments, err = h.payments.ListByCustomer(c.Request.Context(), customerID)
	}
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, payments)
}

// Update corrects a payment's amount
func (h *PaymentHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	var req salesapp.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.payments.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a payment and reconciles its customer's ledger
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	if err := h.payments.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

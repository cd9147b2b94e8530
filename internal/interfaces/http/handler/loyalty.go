package handler

import (
	"github.com/gin-gonic/gin"

	loyaltyapp "github.com/storeledger/backend/internal/application/loyalty"
)

// LoyaltyHandler handles redemption and manual points API endpoints
type LoyaltyHandler struct {
	BaseHandler
	redemptions *loyaltyapp.RedemptionService
	points      *loyaltyapp.PointsService
}

// NewLoyaltyHandler creates a new LoyaltyHandler
func NewLoyaltyHandler(redemptions *loyaltyapp.RedemptionService, points *loyaltyapp.PointsService) *LoyaltyHandler {
	return &LoyaltyHandler{redemptions: redemptions, points: points}
}

// RegisterRoutes registers loyalty routes on the API group
func (h *LoyaltyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	redemptions := rg.Group("/redemptions")
	{
		redemptions.POST("", h.CreateRedemption)
		redemptions.GET("/:id", h.GetRedemption)
		redemptions.POST("/:id/complete", h.CompleteRedemption)
		redemptions.POST("/:id/cancel", h.CancelRedemption)
		redemptions.DELETE("/:id", h.DeleteRedemption)
	}
	points := rg.Group("/points")
	{
		points.POST("", h.AdjustPoints)
		points.DELETE("/:id", h.DeletePointsEntry)
	}
	rg.GET("/customers/:id/redemptions", h.ListRedemptionsByCustomer)
	rg.GET("/customers/:id/points", h.ListPointsByCustomer)
}

// CreateRedemption opens a redemption against the customer's point balance
func (h *LoyaltyHandler) CreateRedemption(c *gin.Context) {
	var req loyaltyapp.CreateRedemptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.redemptions.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetRedemption returns one redemption
func (h *LoyaltyHandler) GetRedemption(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	resp, err := h.redemptions.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListRedemptionsByCustomer returns the customer's redemption history
func (h *LoyaltyHandler) ListRedemptionsByCustomer(c *gin.Context) {
	customerID, ok := parseIDParam(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	redemptions, err := h.redemptions.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, redemptions)
}

// CompleteRedemption marks a pending redemption as fulfilled
func (h *LoyaltyHandler) CompleteRedemption(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	resp, err := h.redemptions.Complete(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// CancelRedemption cancels a redemption and returns its points
func (h *LoyaltyHandler) CancelRedemption(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	resp, err := h.redemptions.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteRedemption removes a redemption record
func (h *LoyaltyHandler) DeleteRedemption(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	if err := h.redemptions.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// AdjustPoints records a manual point adjustment
func (h *LoyaltyHandler) AdjustPoints(c *gin.Context) {
	var req loyaltyapp.AdjustPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.points.Adjust(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListPointsByCustomer returns the customer's manual adjustment history
func (h *LoyaltyHandler) ListPointsByCustomer(c *gin.Context) {
	customerID, ok := parseIDParam(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	entries, err := h.points.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, entries)
}

// DeletePointsEntry removes a manual adjustment
func (h *LoyaltyHandler) DeletePointsEntry(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	if err := h.points.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

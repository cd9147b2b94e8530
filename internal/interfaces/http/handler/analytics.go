package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeledger/backend/internal/application/analytics"
	"github.com/storeledger/backend/internal/infrastructure/cache"
	"github.com/storeledger/backend/internal/infrastructure/notify"
)

// AnalyticsHandler handles loyalty and RFM analytics endpoints.
// Analytics reads never fail: missing or unreachable data degrades to
// neutral values inside the service.
type AnalyticsHandler struct {
	BaseHandler
	analytics *analytics.Service
	cache     *cache.QueryCache
}

// AnalyticsOption is a functional option for AnalyticsHandler
type AnalyticsOption func(*AnalyticsHandler)

// WithSummaryCache caches per-customer summaries until a change on one
// of their source tables invalidates them
func WithSummaryCache(c *cache.QueryCache) AnalyticsOption {
	return func(h *AnalyticsHandler) {
		h.cache = c
	}
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(svc *analytics.Service, opts ...AnalyticsOption) *AnalyticsHandler {
	h := &AnalyticsHandler{analytics: svc}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes registers analytics routes on the API group
func (h *AnalyticsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	perCustomer := rg.Group("/customers/:id/analytics")
	{
		perCustomer.GET("", h.Summary)
		perCustomer.GET("/rfm", h.RFM)
		perCustomer.GET("/loyalty-score", h.LoyaltyScore)
		perCustomer.GET("/churn-risk", h.ChurnRisk)
		perCustomer.GET("/lifetime-value", h.LifetimeValue)
	}
	rg.POST("/analytics/cohort", h.Cohort)
}

// loyaltyWeightsQuery carries optional loyalty score weights.
// All three must be supplied together; they should sum to 1.
type loyaltyWeightsQuery struct {
	Amount *float64 `form:"amount" binding:"omitempty,min=0"`
	Repeat *float64 `form:"repeat" binding:"omitempty,min=0"`
	OnTime *float64 `form:"on_time" binding:"omitempty,min=0"`
}

// cohortRequest lists the customers to compare
type cohortRequest struct {
	CustomerIDs []uuid.UUID `json:"customer_ids" binding:"required,min=1,max=100"`
}

// analyticsSummary is the combined per-customer analytics view
type analyticsSummary struct {
	CustomerID    uuid.UUID       `json:"customer_id"`
	RFM           analytics.RFM   `json:"rfm"`
	LoyaltyScore  float64         `json:"loyalty_score"`
	ChurnRisk     float64         `json:"churn_risk"`
	LifetimeValue decimal.Decimal `json:"lifetime_value"`
}

// Summary returns the full analytics view for one customer
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	customerID, ok := parseIDParam(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	cacheKey := "analytics:summary:" + customerID.String()
	if h.cache != nil {
		if cached, ok := h.cache.Get(cacheKey); ok {
			h.Success(c, cached)
			return
		}
	}

	ctx := c.Request.Context()
	summary := analyticsSummary{
		CustomerID:    customerID,
		RFM:           h.analytics.RFM(ctx, customerID),
		LoyaltyScore:  h.analytics.LoyaltyScore(ctx, customerID),
		ChurnRisk:     h.analytics.ChurnRisk(ctx, customerID),
		LifetimeValue: h.analytics.LifetimeValue(ctx, customerID),
	}
	if h.cache != nil {
		h.cache.Set(cacheKey, summary,
			notify.InvalidationKey{notify.TableCustomers, customerID.String()},
		)
	}
	h.Success(c, summary)
}

// RFM returns the recency/frequency/monetary triple for one customer
func (h *AnalyticsHandler) RFM(c *gin.Context) {
	customerID, ok := parseIDParam(c)
	if !ok {
		h.InvalidID(c)
		return
	}
	h.Success(c, h.analytics.RFM(c.Request.Context(), customerID))
}

// LoyaltyScore returns the composite loyalty score, optionally reweighted
// via amount/repeat/on_time query parameters
func (h *AnalyticsHandler) LoyaltyScore(c *gin.Context) {
	customerID, ok := parseIDParam(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	var q loyaltyWeightsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindingError(c, err)
		return
	}

	ctx := c.Request.Context()
	var score float64
	if q.Amount != nil && q.Repeat != nil && q.OnTime != nil {
		score = h.analytics.LoyaltyScoreWeighted(ctx, customerID, analytics.LoyaltyWeights{
			Amount: *q.Amount,
			Repeat: *q.Repeat,
			OnTime: *q.OnTime,
		})
	} else {
		score = h.analytics.LoyaltyScore(ctx, customerID)
	}

	h.Success(c, gin.H{"customer_id": customerID, "loyalty_score": score})
}

// ChurnRisk returns the churn risk score for one customer
func (h *AnalyticsHandler) ChurnRisk(c *gin.Context) {
	customerID, ok := parseIDParam(c)
	if !ok {
		h.InvalidID(c)
		return
	}
	risk := h.analytics.ChurnRisk(c.Request.Context(), customerID)
	h.Success(c, gin.H{"customer_id": customerID, "churn_risk": risk})
}

// LifetimeValue returns the lifetime value estimate for one customer
func (h *AnalyticsHandler) LifetimeValue(c *gin.Context) {
	customerID, ok := parseIDParam(c)
	if !ok {
		h.InvalidID(c)
		return
	}
	value := h.analytics.LifetimeValue(c.Request.Context(), customerID)
	h.Success(c, gin.H{"customer_id": customerID, "lifetime_value": value})
}

// Cohort compares analytics across a set of customers
func (h *AnalyticsHandler) Cohort(c *gin.Context) {
	var req cohortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	h.Success(c, h.analytics.CompareCohort(c.Request.Context(), req.CustomerIDs))
}

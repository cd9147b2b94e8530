package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeledger/backend/internal/domain/sales"
)

// InvoiceItemRequest is one invoice line in a create or update request
type InvoiceItemRequest struct {
	ProductID    uuid.UUID       `json:"product_id" binding:"required"`
	ProductName  string          `json:"product_name" binding:"max=200"`
	Category     string          `json:"category" binding:"max=100"`
	Quantity     int             `json:"quantity" binding:"required,min=1"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineTotal    decimal.Decimal `json:"line_total"`
	PointsEarned int64           `json:"points_earned" binding:"min=0"`
}

// CreateInvoiceRequest represents a request to create an invoice
type CreateInvoiceRequest struct {
	CustomerID     uuid.UUID            `json:"customer_id" binding:"required"`
	InvoiceNumber  string               `json:"invoice_number" binding:"required,min=1,max=50"`
	InvoiceDate    time.Time            `json:"invoice_date" binding:"required"`
	DueDate        *time.Time           `json:"due_date"`
	Items          []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
	PointsRedeemed int64                `json:"points_redeemed" binding:"min=0"`
}

// UpdateInvoiceRequest replaces an invoice's line items
type UpdateInvoiceRequest struct {
	Items          []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
	PointsRedeemed *int64               `json:"points_redeemed" binding:"omitempty,min=0"`
}

// InvoiceResponse is the invoice view returned to callers
type InvoiceResponse struct {
	ID                    uuid.UUID          `json:"id"`
	InvoiceNumber         string             `json:"invoice_number"`
	CustomerID            uuid.UUID          `json:"customer_id"`
	InvoiceDate           time.Time          `json:"invoice_date"`
	DueDate               *time.Time         `json:"due_date,omitempty"`
	TotalAmount           decimal.Decimal    `json:"total_amount"`
	Status                sales.InvoiceStatus `json:"status"`
	Items                 sales.InvoiceItems `json:"items"`
	PointsEarned          int64              `json:"points_earned"`
	PointsRedeemed        int64              `json:"points_redeemed"`
	DistinctCategoryCount int                `json:"distinct_category_count"`
	PaidAt                *time.Time         `json:"paid_at,omitempty"`
	CreatedAt             time.Time          `json:"created_at"`
}

// ToInvoiceResponse converts a domain invoice to its response form
func ToInvoiceResponse(inv *sales.Invoice) *InvoiceResponse {
	return &InvoiceResponse{
		ID:                    inv.ID,
		InvoiceNumber:         inv.InvoiceNumber,
		CustomerID:            inv.CustomerID,
		InvoiceDate:           inv.InvoiceDate,
		DueDate:               inv.DueDate,
		TotalAmount:           inv.TotalAmount,
		Status:                inv.Status,
		Items:                 inv.Items,
		PointsEarned:          inv.PointsEarned,
		PointsRedeemed:        inv.PointsRedeemed,
		DistinctCategoryCount: inv.DistinctCategoryCount,
		PaidAt:                inv.PaidAt,
		CreatedAt:             inv.CreatedAt,
	}
}

// RecordPaymentRequest represents a request to record a payment or refund
type RecordPaymentRequest struct {
	CustomerID  uuid.UUID       `json:"customer_id" binding:"required"`
	InvoiceID   *uuid.UUID      `json:"invoice_id"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate time.Time       `json:"payment_date" binding:"required"`
	Kind        string          `json:"kind" binding:"required,oneof=PAYMENT REFUND"`
	Method      string          `json:"method" binding:"max=50"`
	Remark      string          `json:"remark"`
}

// UpdatePaymentRequest corrects a payment's amount
type UpdatePaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// PaymentResponse is the payment view returned to callers
type PaymentResponse struct {
	ID          uuid.UUID       `json:"id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	InvoiceID   *uuid.UUID      `json:"invoice_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
	Kind        sales.PaymentKind `json:"kind"`
	Method      string          `json:"method,omitempty"`
	Remark      string          `json:"remark,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToPaymentResponse converts a domain payment to its response form
func ToPaymentResponse(p *sales.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:          p.ID,
		CustomerID:  p.CustomerID,
		InvoiceID:   p.InvoiceID,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate,
		Kind:        p.Kind,
		Method:      p.Method,
		Remark:      p.Remark,
		CreatedAt:   p.CreatedAt,
	}
}

// ReturnItemRequest is one returned line in a create request
type ReturnItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
	Amount    decimal.Decimal `json:"amount"`
}

// CreateReturnRequest represents a request to open a return
type CreateReturnRequest struct {
	InvoiceID  uuid.UUID           `json:"invoice_id" binding:"required"`
	ReturnDate time.Time           `json:"return_date" binding:"required"`
	Reason     string              `json:"reason"`
	Items      []ReturnItemRequest `json:"items" binding:"required,min=1,dive"`
}

// RejectReturnRequest carries the rejection reason
type RejectReturnRequest struct {
	Reason string `json:"reason"`
}

// ReturnResponse is the return view returned to callers
type ReturnResponse struct {
	ID          uuid.UUID          `json:"id"`
	InvoiceID   uuid.UUID          `json:"invoice_id"`
	CustomerID  uuid.UUID          `json:"customer_id"`
	Items       sales.ReturnItems  `json:"items"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Status      sales.ReturnStatus `json:"status"`
	ReturnDate  time.Time          `json:"return_date"`
	Reason      string             `json:"reason,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// ToReturnResponse converts a domain return to its response form
func ToReturnResponse(r *sales.Return) *ReturnResponse {
	return &ReturnResponse{
		ID:          r.ID,
		InvoiceID:   r.InvoiceID,
		CustomerID:  r.CustomerID,
		Items:       r.Items,
		TotalAmount: r.TotalAmount,
		Status:      r.Status,
		ReturnDate:  r.ReturnDate,
		Reason:      r.Reason,
		CreatedAt:   r.CreatedAt,
	}
}

func toInvoiceItems(items []InvoiceItemRequest) []sales.InvoiceItem {
	out := make([]sales.InvoiceItem, 0, len(items))
	for _, item := range items {
		lineTotal := item.LineTotal
		if lineTotal.IsZero() && !item.UnitPrice.IsZero() {
			lineTotal = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		}
		out = append(out, sales.InvoiceItem{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			Category:     item.Category,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			LineTotal:    lineTotal,
			PointsEarned: item.PointsEarned,
		})
	}
	return out
}

func toReturnItems(items []ReturnItemRequest) []sales.ReturnItem {
	out := make([]sales.ReturnItem, 0, len(items))
	for _, item := range items {
		out = append(out, sales.ReturnItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Amount:    item.Amount,
		})
	}
	return out
}

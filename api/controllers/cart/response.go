package cart

import (
	"github.com/shopspring/decimal"

	cartsvc "github.com/gaonbazar/gaonbazar-backend/internal/cart"
	"github.com/gaonbazar/gaonbazar-backend/internal/quantity"
)

// CartResponse is the public view of a session cart.
type CartResponse struct {
	SessionID string             `json:"session_id"`
	Items     []cartsvc.LineItem `json:"items"`
	Total     decimal.Decimal    `json:"total"`
	ItemCount int                `json:"item_count"`
}

// AddItemResponse pairs the updated cart with the reconciliation outcome.
type AddItemResponse struct {
	CartResponse
	Reconciliation quantity.Result `json:"reconciliation"`
}

// ReconcileResponse is the preview outcome for one listing.
type ReconcileResponse struct {
	quantity.Result
	Policy string `json:"policy"`
	OK     bool   `json:"ok"`
}

func newCartResponse(sessionID string, snapshot cartsvc.Snapshot) CartResponse {
	items := snapshot.Items
	if items == nil {
		items = []cartsvc.LineItem{}
	}
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return CartResponse{
		SessionID: sessionID,
		Items:     items,
		Total:     snapshot.Total,
		ItemCount: count,
	}
}

package cart

// AddItemRequest adds stock from a listing. Quantity is kept raw so the
// reconciliation policy decides what a malformed value means.
type AddItemRequest struct {
	ListingID string            `json:"listing_id" validate:"required,uuid"`
	Quantity  any               `json:"quantity"`
	Metadata  map[string]string `json:"metadata,omitempty" validate:"omitempty,max=8,dive,keys,max=32,endkeys,max=256"`
}

// ReconcileRequest previews what a quantity would admit without touching the cart.
type ReconcileRequest struct {
	ListingID string `json:"listing_id" validate:"required,uuid"`
	Quantity  any    `json:"quantity"`
	Policy    string `json:"policy" validate:"omitempty,oneof=strict convenience"`
}

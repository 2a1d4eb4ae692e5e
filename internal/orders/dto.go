package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gaonbazar/gaonbazar-backend/pkg/db/models"
	"github.com/gaonbazar/gaonbazar-backend/pkg/enums"
)

const ConfirmationMessage = "Order confirmed successfully"

// Confirmation is returned to the buyer once an order is stored.
type Confirmation struct {
	OrderID   uuid.UUID         `json:"order_id"`
	Message   string            `json:"message"`
	Source    enums.OrderSource `json:"source"`
	Total     decimal.Decimal   `json:"total"`
	ItemCount int               `json:"item_count"`
	Crop      string            `json:"crop,omitempty"`
	Quantity  int               `json:"quantity,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// DirectOrderInput is a single-crop order placed from the marketplace.
type DirectOrderInput struct {
	Crop     string `json:"crop" validate:"required,max=64"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

// OrderLineDTO is one stored order line.
type OrderLineDTO struct {
	ItemID    string          `json:"item_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderDTO is the read view of a stored order.
type OrderDTO struct {
	ID        uuid.UUID         `json:"id"`
	Source    enums.OrderSource `json:"source"`
	Status    enums.OrderStatus `json:"status"`
	Total     decimal.Decimal   `json:"total"`
	Items     []OrderLineDTO    `json:"items"`
	CreatedAt time.Time         `json:"created_at"`
}

func orderToDTO(o models.Order) OrderDTO {
	items := make([]OrderLineDTO, 0, len(o.Items))
	for _, li := range o.Items {
		items = append(items, OrderLineDTO{
			ItemID:    li.ItemID,
			Name:      li.Name,
			UnitPrice: li.UnitPrice,
			Quantity:  li.Quantity,
			Subtotal:  li.Subtotal,
		})
	}
	return OrderDTO{
		ID:        o.ID,
		Source:    o.Source,
		Status:    o.Status,
		Total:     o.Total,
		Items:     items,
		CreatedAt: o.CreatedAt,
	}
}

// Package orders turns carts and direct requests into confirmed orders.
package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gaonbazar/gaonbazar-backend/internal/cart"
	"github.com/gaonbazar/gaonbazar-backend/internal/pricing"
	"github.com/gaonbazar/gaonbazar-backend/pkg/db/models"
	"github.com/gaonbazar/gaonbazar-backend/pkg/enums"
	pkgerrors "github.com/gaonbazar/gaonbazar-backend/pkg/errors"
)

// Service defines order placement and lookup.
type Service interface {
	Checkout(ctx context.Context, sessionID string, snapshot cart.Snapshot) (Confirmation, error)
	PlaceDirect(ctx context.Context, input DirectOrderInput) (Confirmation, error)
	Get(ctx context.Context, id uuid.UUID) (OrderDTO, error)
}

// ServiceParams groups dependencies for the orders service.
type ServiceParams struct {
	Repo Repository
	Tx   txRunner
	Now  func() time.Time
}

type service struct {
	repo Repository
	tx   txRunner
	now  func() time.Time
}

// NewService builds an orders service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repo is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, tx: params.Tx, now: now}, nil
}

// Checkout stores the cart snapshot as one order. The caller clears the cart only
// after this returns without error.
func (s *service) Checkout(ctx context.Context, sessionID string, snapshot cart.Snapshot) (Confirmation, error) {
	if len(snapshot.Items) == 0 {
		return Confirmation{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	lines := make([]models.OrderLineItem, 0, len(snapshot.Items))
	total := decimal.Zero
	for _, item := range snapshot.Items {
		if item.Quantity < 1 {
			return Confirmation{}, pkgerrors.New(pkgerrors.CodeValidation, "cart line has no quantity").
				WithDetails(map[string]any{"item_id": item.ID})
		}
		subtotal := item.Subtotal()
		total = total.Add(subtotal)
		lines = append(lines, models.OrderLineItem{
			ItemID:    item.ID,
			Name:      lineName(item.Name, item.ID),
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Subtotal:  subtotal,
		})
	}

	order := &models.Order{
		Source: enums.OrderSourceCart,
		Status: enums.OrderStatusConfirmed,
		Total:  total,
	}
	if sessionID != "" {
		order.SessionID = &sessionID
	}
	if err := s.persist(ctx, order, lines); err != nil {
		return Confirmation{}, err
	}

	return Confirmation{
		OrderID:   order.ID,
		Message:   ConfirmationMessage,
		Source:    order.Source,
		Total:     order.Total,
		ItemCount: len(lines),
		CreatedAt: order.CreatedAt,
	}, nil
}

// PlaceDirect confirms a single-crop order priced at the suggested rate.
func (s *service) PlaceDirect(ctx context.Context, input DirectOrderInput) (Confirmation, error) {
	crop := strings.TrimSpace(input.Crop)
	if crop == "" || input.Quantity < 1 {
		return Confirmation{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid crop or quantity")
	}

	unitPrice := pricing.Range(crop).Predicted
	subtotal := unitPrice.Mul(decimal.NewFromInt(int64(input.Quantity)))
	order := &models.Order{
		Source: enums.OrderSourceDirect,
		Status: enums.OrderStatusConfirmed,
		Total:  subtotal,
	}
	lines := []models.OrderLineItem{{
		ItemID:    cart.DeriveID(crop),
		Name:      crop,
		UnitPrice: unitPrice,
		Quantity:  input.Quantity,
		Subtotal:  subtotal,
	}}
	if err := s.persist(ctx, order, lines); err != nil {
		return Confirmation{}, err
	}

	return Confirmation{
		OrderID:   order.ID,
		Message:   ConfirmationMessage,
		Source:    order.Source,
		Total:     order.Total,
		ItemCount: 1,
		Crop:      crop,
		Quantity:  input.Quantity,
		CreatedAt: order.CreatedAt,
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (OrderDTO, error) {
	if id == uuid.Nil {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return orderToDTO(*order), nil
}

func (s *service) persist(ctx context.Context, order *models.Order, lines []models.OrderLineItem) error {
	now := s.now().UTC()
	order.ID = uuid.New()
	order.CreatedAt = now

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.CreateOrder(ctx, order); err != nil {
			return err
		}
		for i := range lines {
			lines[i].OrderID = order.ID
			lines[i].CreatedAt = now
		}
		return repo.CreateOrderLineItems(ctx, lines)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	order.Items = lines
	return nil
}

func lineName(name, id string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return id
}

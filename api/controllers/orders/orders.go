package orders

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gaonbazar/gaonbazar-backend/api/middleware"
	"github.com/gaonbazar/gaonbazar-backend/api/responses"
	"github.com/gaonbazar/gaonbazar-backend/api/validators"
	cartsvc "github.com/gaonbazar/gaonbazar-backend/internal/cart"
	internalorders "github.com/gaonbazar/gaonbazar-backend/internal/orders"
	pkgerrors "github.com/gaonbazar/gaonbazar-backend/pkg/errors"
	"github.com/gaonbazar/gaonbazar-backend/pkg/logger"
)

// Checkout turns the session cart into an order. Once the order is stored the ordered
// quantities are taken out of the cart, so items added meanwhile stay. On any failure
// the cart is left as it was.
func Checkout(sessions *cartsvc.Sessions, svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session id is required"))
			return
		}

		var snapshot cartsvc.Snapshot
		store, ok := sessions.Get(sessionID)
		if ok {
			snapshot = store.Snapshot()
		}

		confirmation, err := svc.Checkout(r.Context(), sessionID, snapshot)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if store != nil {
			store.RemoveSnapshot(snapshot)
		}

		if logg != nil {
			ctx := logg.WithFields(r.Context(), map[string]any{
				"order_id": confirmation.OrderID.String(),
				"items":    confirmation.ItemCount,
				"total":    confirmation.Total.String(),
			})
			logg.Info(ctx, "checkout.confirmed")
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, confirmation)
	}
}

// PlaceDirect confirms a single-crop order straight from a listing card.
func PlaceDirect(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload internalorders.DirectOrderInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		confirmation, err := svc.PlaceDirect(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, confirmation)
	}
}

// Detail returns a stored order with its lines.
func Detail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		rawOrderID := strings.TrimSpace(chi.URLParam(r, "orderId"))
		if rawOrderID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id is required"))
			return
		}
		orderID, err := uuid.Parse(rawOrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

package cart

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gaonbazar/gaonbazar-backend/api/middleware"
	"github.com/gaonbazar/gaonbazar-backend/api/responses"
	"github.com/gaonbazar/gaonbazar-backend/api/validators"
	cartsvc "github.com/gaonbazar/gaonbazar-backend/internal/cart"
	"github.com/gaonbazar/gaonbazar-backend/internal/listings"
	"github.com/gaonbazar/gaonbazar-backend/internal/pricing"
	"github.com/gaonbazar/gaonbazar-backend/internal/quantity"
	"github.com/gaonbazar/gaonbazar-backend/pkg/enums"
	pkgerrors "github.com/gaonbazar/gaonbazar-backend/pkg/errors"
	"github.com/gaonbazar/gaonbazar-backend/pkg/logger"
)

// ReconcileObserver counts reconciliation outcomes, typically pkg/metrics.HTTPMetrics.
type ReconcileObserver interface {
	ObserveReconcile(policy string, reason enums.QuantityReason)
}

type policy struct {
	name      string
	reconcile func(raw any, available int) quantity.Result
}

var (
	strictPolicy      = policy{name: "strict", reconcile: quantity.Reconcile}
	conveniencePolicy = policy{name: "convenience", reconcile: quantity.ReconcileConvenience}
)

func policyByName(name string) policy {
	if name == conveniencePolicy.name {
		return conveniencePolicy
	}
	return strictPolicy
}

// CartFetch returns the session's cart with its total.
func CartFetch(sessions *cartsvc.Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(sessionID, existingSnapshot(sessions, sessionID)))
	}
}

// existingSnapshot reads the session's cart without creating one.
func existingSnapshot(sessions *cartsvc.Sessions, sessionID string) cartsvc.Snapshot {
	if store, ok := sessions.Get(sessionID); ok {
		return store.Snapshot()
	}
	return cartsvc.Snapshot{Total: decimal.Zero}
}

// CartAddItem admits an explicit quantity from a listing. Anything below one unit or
// beyond the remaining stock is rejected.
func CartAddItem(sessions *cartsvc.Sessions, provider listings.Provider, observer ReconcileObserver, logg *logger.Logger) http.HandlerFunc {
	return addHandler(strictPolicy, sessions, provider, observer, logg)
}

// CartQuickAdd backs the one-tap add buttons: bad quantities default to one unit and
// oversized ones are clamped to the remaining stock.
func CartQuickAdd(sessions *cartsvc.Sessions, provider listings.Provider, observer ReconcileObserver, logg *logger.Logger) http.HandlerFunc {
	return addHandler(conveniencePolicy, sessions, provider, observer, logg)
}

func addHandler(p policy, sessions *cartsvc.Sessions, provider listings.Provider, observer ReconcileObserver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if provider == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing provider unavailable"))
			return
		}

		sessionID, err := sessionIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store := sessions.Open(sessionID)
		snapshot, result, err := reconcile(r.Context(), p, provider, store, payload.ListingID, payload.Quantity, observer)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := result.Err(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		accepted := result.Accepted
		price := snapshot.SuggestedPrice
		candidate := cartsvc.Candidate{
			ID:        snapshot.ID.String(),
			Name:      snapshot.CropName,
			UnitPrice: &price,
			Quantity:  &accepted,
			Metadata:  itemMetadata(snapshot, payload.Metadata),
		}
		if err := store.AddItem(candidate); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, AddItemResponse{
			CartResponse:   newCartResponse(sessionID, store.Snapshot()),
			Reconciliation: result,
		})
	}
}

// CartRemoveItem deletes one line item. Unknown ids succeed without change.
func CartRemoveItem(sessions *cartsvc.Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID := strings.TrimSpace(chi.URLParam(r, "itemId"))
		if itemID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item id is required"))
			return
		}

		if store, ok := sessions.Get(sessionID); ok {
			store.RemoveItem(itemID)
		}
		responses.WriteSuccess(w, newCartResponse(sessionID, existingSnapshot(sessions, sessionID)))
	}
}

func CartClear(sessions *cartsvc.Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if store, ok := sessions.Get(sessionID); ok {
			store.Clear()
		}
		responses.WriteSuccess(w, newCartResponse(sessionID, existingSnapshot(sessions, sessionID)))
	}
}

// QuantityReconcile previews a reconciliation against the listing's remaining stock
// for this session. Rejections are part of the payload, not an error response.
func QuantityReconcile(sessions *cartsvc.Sessions, provider listings.Provider, observer ReconcileObserver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if provider == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing provider unavailable"))
			return
		}

		var payload ReconcileRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var store *cartsvc.Store
		if sessionID := middleware.SessionIDFromContext(r.Context()); sessionID != "" {
			store, _ = sessions.Get(sessionID)
		}

		p := policyByName(payload.Policy)
		_, result, err := reconcile(r.Context(), p, provider, store, payload.ListingID, payload.Quantity, observer)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, ReconcileResponse{Result: result, Policy: p.name, OK: result.OK()})
	}
}

// reconcile loads the listing and applies the policy to what is left after the
// quantity already in the cart. store may be nil.
func reconcile(ctx context.Context, p policy, provider listings.Provider, store *cartsvc.Store, rawID string, raw any, observer ReconcileObserver) (listings.Snapshot, quantity.Result, error) {
	listingID, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return listings.Snapshot{}, quantity.Result{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid listing id")
	}

	snapshot, err := provider.Snapshot(ctx, listingID)
	if err != nil {
		return listings.Snapshot{}, quantity.Result{}, err
	}

	remaining := snapshot.AvailableQuantity
	if store != nil {
		if item, ok := store.Item(listingID.String()); ok {
			remaining -= item.Quantity
		}
	}

	result := p.reconcile(raw, remaining)
	if observer != nil {
		observer.ObserveReconcile(p.name, result.Reason)
	}
	return snapshot, result, nil
}

func itemMetadata(snapshot listings.Snapshot, extra map[string]string) map[string]string {
	meta := make(map[string]string, len(extra)+3)
	for k, v := range extra {
		meta[k] = v
	}
	meta["listing_id"] = snapshot.ID.String()
	meta["unit"] = pricing.Unit
	if snapshot.Location != "" {
		meta["location"] = snapshot.Location
	}
	return meta
}

func sessionIDFromContext(r *http.Request) (string, error) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return sessionID, nil
}

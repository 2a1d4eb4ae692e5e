// Package quantity decides how much of a listing may enter a cart.
//
// Two policies share one parsing primitive. Reconcile is strict and rejects with a
// reason; it backs the explicit quantity field. ReconcileConvenience backs quick-add
// buttons: it defaults malformed input to one unit and clamps to the stock on offer.
package quantity

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gaonbazar/gaonbazar-backend/pkg/enums"
	pkgerrors "github.com/gaonbazar/gaonbazar-backend/pkg/errors"
)

const minimum = 1

// Result is the outcome of a reconciliation. Reason is empty when the quantity was accepted.
type Result struct {
	Accepted  int                  `json:"accepted_quantity,omitempty"`
	Reason    enums.QuantityReason `json:"reason,omitempty"`
	Available int                  `json:"available_quantity"`
	Adjusted  bool                 `json:"adjusted,omitempty"`
}

func (r Result) OK() bool {
	return r.Reason == ""
}

// Err converts a rejection into a typed error, or nil when accepted.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	details := map[string]any{
		"reason":             r.Reason,
		"available_quantity": r.Available,
	}
	switch r.Reason {
	case enums.QuantityReasonExceedsAvailable:
		return pkgerrors.New(pkgerrors.CodeQuantityRejected, fmt.Sprintf("only %d available", r.Available)).WithDetails(details)
	default:
		return pkgerrors.New(pkgerrors.CodeQuantityRejected, fmt.Sprintf("quantity must be at least %d", minimum)).WithDetails(details)
	}
}

// Parse reads a requested quantity. Integers, integral floats and base-10 strings are
// accepted and values outside the int range saturate; everything else reports ok=false.
func Parse(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return fromInt64(v)
	case uint:
		return fromUint64(uint64(v))
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return fromUint64(uint64(v))
	case uint64:
		return fromUint64(v)
	case float32:
		return fromFloat(float64(v))
	case float64:
		return fromFloat(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return fromInt64(n)
		}
		if f, err := v.Float64(); err == nil {
			return fromFloat(f)
		}
		return 0, false
	case string:
		return parseString(v)
	}
	return 0, false
}

// Reconcile applies the strict policy: anything below one unit or above the
// available stock is rejected with a reason.
func Reconcile(raw any, available int) Result {
	available = clampAvailable(available)
	requested, ok := Parse(raw)
	if !ok || requested < minimum {
		return Result{Reason: enums.QuantityReasonBelowMinimum, Available: available}
	}
	if requested > available {
		return Result{Reason: enums.QuantityReasonExceedsAvailable, Available: available}
	}
	return Result{Accepted: requested, Available: available}
}

// ReconcileConvenience applies the quick-add policy: malformed or too-small requests
// become one unit and oversized requests are clamped to the stock. Only an empty
// listing is rejected.
func ReconcileConvenience(raw any, available int) Result {
	available = clampAvailable(available)
	requested, ok := Parse(raw)
	adjusted := false
	if !ok || requested < minimum {
		requested = minimum
		adjusted = true
	}

	result := Reconcile(requested, available)
	if result.Reason != enums.QuantityReasonExceedsAvailable {
		result.Adjusted = adjusted
		return result
	}
	if available < minimum {
		return result
	}
	return Result{Accepted: available, Available: available, Adjusted: true}
}

func clampAvailable(available int) int {
	if available < 0 {
		return 0
	}
	return available
}

// parseString saturates out-of-range integers so a huge request still reads as
// too many units rather than as malformed input.
func parseString(s string) (int, bool) {
	trimmed := strings.TrimSpace(s)
	n, err := strconv.Atoi(trimmed)
	if err == nil {
		return n, true
	}
	if errors.Is(err, strconv.ErrRange) {
		if strings.HasPrefix(trimmed, "-") {
			return math.MinInt, true
		}
		return math.MaxInt, true
	}
	return 0, false
}

func fromInt64(v int64) (int, bool) {
	if v > math.MaxInt {
		return math.MaxInt, true
	}
	if v < math.MinInt {
		return math.MinInt, true
	}
	return int(v), true
}

func fromUint64(v uint64) (int, bool) {
	if v > math.MaxInt {
		return math.MaxInt, true
	}
	return int(v), true
}

func fromFloat(v float64) (int, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, false
	}
	if v >= float64(math.MaxInt) {
		return math.MaxInt, true
	}
	if v <= float64(math.MinInt) {
		return math.MinInt, true
	}
	return int(v), true
}

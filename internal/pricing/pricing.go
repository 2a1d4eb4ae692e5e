// Package pricing suggests fair per-kilogram prices for crops.
package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/gaonbazar/gaonbazar-backend/pkg/errors"
)

const Unit = "₹/kg"

// Band is a price range with the most likely price inside it.
type Band struct {
	Min       decimal.Decimal `json:"min_price"`
	Max       decimal.Decimal `json:"max_price"`
	Predicted decimal.Decimal `json:"predicted_price"`
}

// Prediction is the answer to a price suggestion request.
type Prediction struct {
	Crop  string `json:"crop"`
	Month int    `json:"month"`
	Band
	Unit string `json:"unit"`
}

var defaultBand = band(20, 30, 25)

var bands = map[string]Band{
	"wheat":       band(20, 25, 22),
	"rice":        band(35, 45, 40),
	"tomato":      band(10, 20, 15),
	"onion":       band(15, 25, 20),
	"potato":      band(12, 18, 15),
	"carrot":      band(15, 25, 20),
	"cauliflower": band(20, 35, 27),
	"cabbage":     band(10, 18, 14),
	"brinjal":     band(15, 25, 20),
	"garlic":      band(80, 120, 100),
	"apple":       band(50, 80, 65),
	"banana":      band(20, 35, 27),
	"mango":       band(40, 70, 55),
}

func band(min, max, predicted int64) Band {
	return Band{
		Min:       decimal.NewFromInt(min),
		Max:       decimal.NewFromInt(max),
		Predicted: decimal.NewFromInt(predicted),
	}
}

// Range returns the price band for crop. Unknown crops get the default band.
func Range(crop string) Band {
	if b, ok := bands[normalizeCrop(crop)]; ok {
		return b
	}
	return defaultBand
}

// Known reports whether crop has its own entry in the table.
func Known(crop string) bool {
	_, ok := bands[normalizeCrop(crop)]
	return ok
}

// Predict suggests a price for crop in the given calendar month.
func Predict(crop string, month int) (Prediction, error) {
	name := strings.TrimSpace(crop)
	if name == "" {
		return Prediction{}, pkgerrors.New(pkgerrors.CodeValidation, "crop is required")
	}
	if month < 1 || month > 12 {
		return Prediction{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid month %d, must be between 1 and 12", month)).
			WithDetails(map[string]any{"month": month})
	}
	return Prediction{
		Crop:  name,
		Month: month,
		Band:  Range(name),
		Unit:  Unit,
	}, nil
}

func normalizeCrop(crop string) string {
	return strings.ToLower(strings.TrimSpace(crop))
}

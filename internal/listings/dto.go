package listings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/gaonbazar/gaonbazar-backend/internal/pricing"
	"github.com/gaonbazar/gaonbazar-backend/internal/quality"
	"github.com/gaonbazar/gaonbazar-backend/pkg/db/models"
	"github.com/gaonbazar/gaonbazar-backend/pkg/enums"
	pkgerrors "github.com/gaonbazar/gaonbazar-backend/pkg/errors"
)

const (
	DefaultLocation = "Village X"
	DefaultLanguage = "Hindi"
)

// AddListingInput is what a farmer submits. A nil Reading means no sensor data
// came with the listing and a simulated one is used.
type AddListingInput struct {
	Crop     string           `json:"crop" validate:"required,max=64"`
	Quantity int              `json:"quantity" validate:"required,min=1"`
	Location string           `json:"location" validate:"omitempty,max=128"`
	Language string           `json:"language" validate:"omitempty,max=32"`
	Reading  *quality.Reading `json:"reading,omitempty"`
}

// Snapshot is the buyer's read-only view of a listing.
type Snapshot struct {
	ID                uuid.UUID           `json:"id"`
	CropName          string              `json:"crop"`
	AvailableQuantity int                 `json:"available_quantity"`
	MinPrice          decimal.Decimal     `json:"min_price"`
	MaxPrice          decimal.Decimal     `json:"max_price"`
	SuggestedPrice    decimal.Decimal     `json:"suggested_price"`
	QualityVerified   bool                `json:"quality_verified"`
	Freshness         *int                `json:"freshness,omitempty"`
	Badge             enums.QualityBadge  `json:"badge,omitempty"`
	Location          string              `json:"location"`
	Status            enums.ListingStatus `json:"status"`
	CreatedAt         time.Time           `json:"created_at"`
}

// Validate checks the snapshot invariants and reports every violation at once.
func (s Snapshot) Validate() error {
	var errs error
	if s.CropName == "" {
		errs = multierr.Append(errs, pkgerrors.New(pkgerrors.CodeValidation, "crop name is empty"))
	}
	if s.AvailableQuantity < 0 {
		errs = multierr.Append(errs, pkgerrors.New(pkgerrors.CodeValidation, "available quantity is negative"))
	}
	if s.MinPrice.IsNegative() {
		errs = multierr.Append(errs, pkgerrors.New(pkgerrors.CodeValidation, "min price is negative"))
	}
	if s.MinPrice.GreaterThan(s.MaxPrice) {
		errs = multierr.Append(errs, pkgerrors.New(pkgerrors.CodeValidation, "min price exceeds max price"))
	}
	if errs == nil {
		return nil
	}

	problems := multierr.Errors(errs)
	messages := make([]string, 0, len(problems))
	for _, p := range problems {
		messages = append(messages, pkgerrors.As(p).Message())
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, errs, "invalid listing snapshot").
		WithDetails(map[string]any{"problems": messages})
}

// Stats summarizes every listing on the marketplace.
type Stats struct {
	TotalListings int64    `json:"total_listings"`
	TotalQuantity int64    `json:"total_quantity"`
	UniqueCrops   int      `json:"unique_crops"`
	Crops         []string `json:"crops"`
}

func snapshotFromModel(l models.Listing) Snapshot {
	band := pricing.Range(l.Crop)
	snap := Snapshot{
		ID:                l.ID,
		CropName:          l.Crop,
		AvailableQuantity: l.Quantity,
		MinPrice:          band.Min,
		MaxPrice:          band.Max,
		SuggestedPrice:    band.Predicted,
		QualityVerified:   l.QualityVerified,
		Freshness:         l.Freshness,
		Location:          l.Location,
		Status:            l.Status,
		CreatedAt:         l.CreatedAt,
	}
	if l.Freshness != nil {
		snap.Badge = quality.Badge(*l.Freshness)
	}
	if l.Status != enums.ListingStatusAvailable {
		snap.AvailableQuantity = 0
	}
	return snap
}

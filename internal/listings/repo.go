package listings

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gaonbazar/gaonbazar-backend/pkg/db/models"
	pkgerrors "github.com/gaonbazar/gaonbazar-backend/pkg/errors"
	"github.com/gaonbazar/gaonbazar-backend/pkg/pagination"
)

// Repository encapsulates listing persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a listing repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, listing *models.Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

// FindByID returns gorm.ErrRecordNotFound when the listing does not exist.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// List returns listings newest first, one page at a time.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.Listing, string, error) {
	cursor, err := pagination.ParseCursor(strings.TrimSpace(params.Cursor))
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	query := r.db.WithContext(ctx).Model(&models.Listing{})
	if cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Listing
	if err := query.Order("created_at DESC").Order("id DESC").Limit(pagination.LimitWithBuffer(params.Limit)).Find(&rows).Error; err != nil {
		return nil, "", err
	}

	rows, next := pagination.Trim(rows, params.Limit, func(l models.Listing) pagination.Cursor {
		return pagination.Cursor{CreatedAt: l.CreatedAt, ID: l.ID}
	})
	return rows, next, nil
}

// ByCrop matches the crop name case-insensitively.
func (r *Repository) ByCrop(ctx context.Context, crop string) ([]models.Listing, error) {
	var rows []models.Listing
	err := r.db.WithContext(ctx).
		Where("LOWER(crop) = ?", strings.ToLower(strings.TrimSpace(crop))).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// Delete removes the listing and reports whether a row existed.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Listing{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	var agg struct {
		Count int64
		Total int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Select("COUNT(*) AS count, COALESCE(SUM(quantity), 0) AS total").
		Scan(&agg).Error; err != nil {
		return Stats{}, err
	}

	crops := []string{}
	if err := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Distinct("crop").
		Order("crop").
		Pluck("crop", &crops).Error; err != nil {
		return Stats{}, err
	}
	if crops == nil {
		crops = []string{}
	}

	return Stats{
		TotalListings: agg.Count,
		TotalQuantity: agg.Total,
		UniqueCrops:   len(crops),
		Crops:         crops,
	}, nil
}

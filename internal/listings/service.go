// Package listings manages farmer produce listings and the buyer view of them.
package listings

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gaonbazar/gaonbazar-backend/internal/quality"
	"github.com/gaonbazar/gaonbazar-backend/pkg/db/models"
	"github.com/gaonbazar/gaonbazar-backend/pkg/enums"
	pkgerrors "github.com/gaonbazar/gaonbazar-backend/pkg/errors"
	"github.com/gaonbazar/gaonbazar-backend/pkg/pagination"
)

// Provider is the read-only surface the cart and checkout consult for stock.
type Provider interface {
	Snapshot(ctx context.Context, id uuid.UUID) (Snapshot, error)
}

// Service exposes listing management.
type Service interface {
	Provider
	AddListing(ctx context.Context, input AddListingInput) (Snapshot, error)
	Snapshots(ctx context.Context, params pagination.Params) (pagination.Page[Snapshot], error)
	ByCrop(ctx context.Context, crop string) ([]Snapshot, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (Stats, error)
}

// ServiceParams groups dependencies for the listing service.
type ServiceParams struct {
	Repo   *Repository
	Scorer *quality.Scorer
	Now    func() time.Time
}

type service struct {
	repo   *Repository
	scorer *quality.Scorer
	now    func() time.Time
}

// NewService builds a listing service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "listing repo is required")
	}
	if params.Scorer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quality scorer is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, scorer: params.Scorer, now: now}, nil
}

// AddListing stores a new listing, scoring its storage conditions on the way in.
func (s *service) AddListing(ctx context.Context, input AddListingInput) (Snapshot, error) {
	crop := strings.TrimSpace(input.Crop)
	if crop == "" {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "crop is required")
	}
	if input.Quantity < 1 {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	var assessment quality.Assessment
	if input.Reading != nil {
		assessment = s.scorer.Assess(*input.Reading)
	} else {
		assessment = s.scorer.Simulate()
	}

	listing := &models.Listing{
		Crop:            crop,
		Quantity:        input.Quantity,
		Location:        orDefault(input.Location, DefaultLocation),
		Language:        orDefault(input.Language, DefaultLanguage),
		Status:          enums.ListingStatusAvailable,
		Temperature:     &assessment.Temperature,
		Humidity:        &assessment.Humidity,
		Freshness:       &assessment.Freshness,
		QualityVerified: assessment.QualityVerified,
		CreatedAt:       s.now().UTC(),
	}

	snap := snapshotFromModel(*listing)
	if err := snap.Validate(); err != nil {
		return Snapshot{}, err
	}
	if err := s.repo.Create(ctx, listing); err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create listing")
	}
	return snapshotFromModel(*listing), nil
}

func (s *service) Snapshot(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	if id == uuid.Nil {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "listing id is required")
	}
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "listing not found")
		}
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
	}
	return snapshotFromModel(*listing), nil
}

// Snapshots returns the buyer view of all listings, newest first.
func (s *service) Snapshots(ctx context.Context, params pagination.Params) (pagination.Page[Snapshot], error) {
	rows, next, err := s.repo.List(ctx, params)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return pagination.Page[Snapshot]{}, err
		}
		return pagination.Page[Snapshot]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list listings")
	}
	return pagination.Page[Snapshot]{Items: toSnapshots(rows), NextCursor: next}, nil
}

func (s *service) ByCrop(ctx context.Context, crop string) ([]Snapshot, error) {
	if strings.TrimSpace(crop) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "crop is required")
	}
	rows, err := s.repo.ByCrop(ctx, crop)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list listings by crop")
	}
	return toSnapshots(rows), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete listing")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
	}
	return nil
}

func (s *service) Stats(ctx context.Context) (Stats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return Stats{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing stats")
	}
	return stats, nil
}

func toSnapshots(rows []models.Listing) []Snapshot {
	out := make([]Snapshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, snapshotFromModel(row))
	}
	return out
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

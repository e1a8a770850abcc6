package repository

import (
	"context"

	"github.com/mr1hm/go-disaster-hub/internal/catalog"
	"github.com/mr1hm/go-disaster-hub/internal/models"
)

type Filter struct {
	Limit    int
	Offset   int
	Category *models.Category
}

// ReferenceRepository persists the reference tables of a catalog. Saving
// replaces whatever a previous save wrote.
type ReferenceRepository interface {
	SaveCatalog(ctx context.Context, cat *catalog.Catalog) error
	ListProfiles(ctx context.Context) ([]models.CategoryProfile, error)
	ListTimeSeries(ctx context.Context) ([]models.TimeSeriesPoint, error)
	ListEconomicImpact(ctx context.Context) ([]models.EconomicImpactEntry, error)
	ListMarkers(ctx context.Context, opts Filter) ([]models.EventMarker, error)
}

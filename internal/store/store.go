package store

import (
	"context"

	"github.com/elgrid-dk/calc-cli/internal/model"
)

// EstimateFilter specifies criteria for listing saved estimates.
type EstimateFilter struct {
	ProjectName string `json:"project_name,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	Offset      int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for the calculation catalog and
// saved estimates.
type Store interface {
	// Catalog
	ComponentTimes(ctx context.Context) ([]model.ComponentTimeProfile, error)
	InstallationTypes(ctx context.Context) ([]model.InstallationType, error)
	RoomTemplates(ctx context.Context) ([]model.RoomTemplate, error)
	ReplaceCatalog(ctx context.Context, catalog model.CatalogData) error

	// Saved estimates
	SaveEstimate(ctx context.Context, projectName string, input model.ProjectInput, estimate model.ProjectEstimate) (*model.SavedEstimate, error)
	GetEstimate(ctx context.Context, id string) (*model.SavedEstimate, error)
	ListEstimates(ctx context.Context, filter EstimateFilter) ([]model.SavedEstimate, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// LoadCatalog reads the three catalogs in one call, for constructing the
// calculation engine.
func LoadCatalog(ctx context.Context, s Store) (model.CatalogData, error) {
	var catalog model.CatalogData
	var err error

	if catalog.ComponentTimes, err = s.ComponentTimes(ctx); err != nil {
		return model.CatalogData{}, err
	}
	if catalog.InstallationTypes, err = s.InstallationTypes(ctx); err != nil {
		return model.CatalogData{}, err
	}
	if catalog.RoomTemplates, err = s.RoomTemplates(ctx); err != nil {
		return model.CatalogData{}, err
	}
	return catalog, nil
}

package storage

import (
	"context"

	"airbnb-dashboard/models"
)

// Source loads the full listings dataset
type Source interface {
	Load(ctx context.Context) ([]*models.Listing, error)
	Name() string
}

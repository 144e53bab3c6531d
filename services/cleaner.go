package services

import (
	"strings"

	"airbnb-dashboard/models"
	"airbnb-dashboard/utils"
)

// DataCleaner normalizes loaded listings before they are served
type DataCleaner struct {
	logger *utils.Logger
}

// NewDataCleaner creates a new DataCleaner
func NewDataCleaner(logger *utils.Logger) *DataCleaner {
	return &DataCleaner{logger: logger}
}

// Clean trims text fields and drops listings whose id was already seen (first one wins).
// Order is preserved. The input slice is not modified.
func (c *DataCleaner) Clean(raw []*models.Listing) []*models.Listing {
	tracker := utils.NewIDTracker()
	cleaned := make([]*models.Listing, 0, len(raw))

	for _, r := range raw {
		if !tracker.Add(r.ID) {
			c.logger.Debug("Skipping duplicate listing %d: %s", r.ID, r.Name)
			continue
		}

		l := *r
		l.Name = strings.TrimSpace(l.Name)
		l.HostName = strings.TrimSpace(l.HostName)
		l.NeighbourhoodGroup = strings.TrimSpace(l.NeighbourhoodGroup)
		l.Neighbourhood = strings.TrimSpace(l.Neighbourhood)
		l.RoomType = strings.TrimSpace(l.RoomType)
		cleaned = append(cleaned, &l)
	}

	if dropped := len(raw) - len(cleaned); dropped > 0 {
		c.logger.Warn("Dropped %d duplicate listings", dropped)
	}
	c.logger.Info("Cleaned %d unique listings from %d loaded records", tracker.Count(), len(raw))
	return cleaned
}

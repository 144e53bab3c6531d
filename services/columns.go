package services

import (
	"database/sql"
	"strconv"

	"airbnb-dashboard/models"
)

var columnValues = map[string]func(l *models.Listing) string{
	models.ColID:                 func(l *models.Listing) string { return strconv.FormatInt(l.ID, 10) },
	models.ColName:               func(l *models.Listing) string { return l.Name },
	models.ColHostID:             func(l *models.Listing) string { return strconv.FormatInt(l.HostID, 10) },
	models.ColHostName:           func(l *models.Listing) string { return l.HostName },
	models.ColNeighbourhoodGroup: func(l *models.Listing) string { return l.NeighbourhoodGroup },
	models.ColNeighbourhood:      func(l *models.Listing) string { return l.Neighbourhood },
	models.ColLatitude:           func(l *models.Listing) string { return formatNullFloat(l.Latitude) },
	models.ColLongitude:          func(l *models.Listing) string { return formatNullFloat(l.Longitude) },
	models.ColRoomType:           func(l *models.Listing) string { return l.RoomType },
	models.ColPrice:              func(l *models.Listing) string { return formatFloat(l.Price) },
	models.ColMinimumNights:      func(l *models.Listing) string { return strconv.Itoa(l.MinimumNights) },
	models.ColNumberOfReviews:    func(l *models.Listing) string { return strconv.Itoa(l.NumberOfReviews) },
	models.ColLastReview: func(l *models.Listing) string {
		if !l.LastReview.Valid {
			return ""
		}
		return l.LastReview.Time.Format(models.DateLayout)
	},
	models.ColReviewsPerMonth:   func(l *models.Listing) string { return formatNullFloat(l.ReviewsPerMonth) },
	models.ColHostListingsCount: func(l *models.Listing) string { return strconv.Itoa(l.HostListingsCount) },
	models.ColAvailability365:   func(l *models.Listing) string { return strconv.Itoa(l.Availability365) },
}

// IsColumn reports whether name is a dataset column
func IsColumn(name string) bool {
	_, ok := columnValues[name]
	return ok
}

// CellValue formats one field of a listing for display. Missing values are empty.
func CellValue(l *models.Listing, column string) string {
	if fn, ok := columnValues[column]; ok {
		return fn(l)
	}
	return ""
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatNullFloat(f sql.NullFloat64) string {
	if !f.Valid {
		return ""
	}
	return formatFloat(f.Float64)
}

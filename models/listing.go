package models

import "database/sql"

// Listing is one rental unit from the Inside Airbnb listings file
type Listing struct {
	ID                 int64
	Name               string
	HostID             int64
	HostName           string
	NeighbourhoodGroup string
	Neighbourhood      string
	Latitude           sql.NullFloat64
	Longitude          sql.NullFloat64
	RoomType           string
	Price              float64
	MinimumNights      int
	NumberOfReviews    int
	LastReview         sql.NullTime
	ReviewsPerMonth    sql.NullFloat64
	HostListingsCount  int
	Availability365    int
}

// HasCoordinates reports whether both latitude and longitude are present
func (l *Listing) HasCoordinates() bool {
	return l.Latitude.Valid && l.Longitude.Valid
}

// Column names of the listings file, in file order
const (
	ColID                 = "id"
	ColName               = "name"
	ColHostID             = "host_id"
	ColHostName           = "host_name"
	ColNeighbourhoodGroup = "neighbourhood_group"
	ColNeighbourhood      = "neighbourhood"
	ColLatitude           = "latitude"
	ColLongitude          = "longitude"
	ColRoomType           = "room_type"
	ColPrice              = "price"
	ColMinimumNights      = "minimum_nights"
	ColNumberOfReviews    = "number_of_reviews"
	ColLastReview         = "last_review"
	ColReviewsPerMonth    = "reviews_per_month"
	ColHostListingsCount  = "calculated_host_listings_count"
	ColAvailability365    = "availability_365"
)

// Columns lists every column of the dataset in file order
var Columns = []string{
	ColID, ColName, ColHostID, ColHostName, ColNeighbourhoodGroup, ColNeighbourhood,
	ColLatitude, ColLongitude, ColRoomType, ColPrice, ColMinimumNights, ColNumberOfReviews,
	ColLastReview, ColReviewsPerMonth, ColHostListingsCount, ColAvailability365,
}

// DateLayout is the layout of last_review
const DateLayout = "2006-01-02"

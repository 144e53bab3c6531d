package services

import (
	"errors"

	"airbnb-dashboard/models"
)

// Inputs are the user selections that drive the dashboard views
type Inputs struct {
	Columns    []string
	PriceMin   float64
	PriceMax   float64
	ReviewsMin float64
	ReviewsMax float64
}

// DefaultInputs returns the selections shown on first load
func DefaultInputs() Inputs {
	return Inputs{
		Columns:    append([]string{}, DefaultColumns...),
		PriceMin:   DefaultPriceMin,
		PriceMax:   DefaultPriceMax,
		ReviewsMin: DefaultReviewsMin,
		ReviewsMax: DefaultReviewsMax,
	}
}

// Generate computes every view for the given inputs.
// Validation failures are reported per view; other views are still computed.
func (d *Dashboard) Generate(in Inputs) *models.InsightReport {
	report := &models.InsightReport{
		TotalListings: d.Len(),
		MinPrice:      ExpensivePrice,
	}

	if d.Len() == 0 {
		d.logger.Warn("No listings to generate insights from")
	}

	table, err := d.ProjectColumns(in.Columns, DefaultTableRows)
	report.Columns, report.ColumnsError = table, validationMessage(err)

	report.Expensive = d.ExpensiveListings(ExpensivePrice)
	report.RoomTypes = d.AveragePriceByRoomType()
	report.Hosts = d.TopHosts(TopHostCount)
	report.Bounds = d.PriceBounds()

	hist, err := d.PriceHistogram(in.PriceMin, in.PriceMax, DefaultHistogramBins)
	report.Histogram, report.HistogramError = hist, validationMessage(err)

	reviews, err := d.ListingsByReviews(in.ReviewsMin, in.ReviewsMax)
	report.Reviews, report.ReviewsError = reviews, validationMessage(err)

	return report
}

func validationMessage(err error) string {
	if err == nil {
		return ""
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return err.Error()
}

package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"airbnb-dashboard/models"
	"airbnb-dashboard/utils"

	"github.com/shopspring/decimal"
)

// Dashboard defaults
const (
	DefaultTableRows     = 20
	ExpensivePrice       = 800.0
	PriceClip            = 1000.0
	DefaultPriceMin      = 50.0
	DefaultPriceMax      = 300.0
	DefaultHistogramBins = 15
	DefaultReviewsMin    = 0.0
	DefaultReviewsMax    = 5.0
	ReviewTableRows      = 50
	TopHostCount         = 2
)

// DefaultColumns is the initial column selection of the overview table
var DefaultColumns = []string{
	models.ColName, models.ColHostName, models.ColNeighbourhood, models.ColRoomType, models.ColPrice,
}

// ReviewColumns are the columns of the review range table
var ReviewColumns = []string{
	models.ColName, models.ColNumberOfReviews, models.ColNeighbourhood,
	models.ColHostName, models.ColRoomType, models.ColPrice,
}

// ValidationError is a user input problem. It is shown next to the widget instead of a result.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrInvalidRange is the message shown when a minimum exceeds its maximum
const ErrInvalidRange = "Please enter a valid range"

// Dashboard runs the read-only views over a loaded dataset
type Dashboard struct {
	listings []*models.Listing
	logger   *utils.Logger
}

// NewDashboard creates a Dashboard. listings must not be modified afterwards.
func NewDashboard(listings []*models.Listing, logger *utils.Logger) *Dashboard {
	return &Dashboard{listings: listings, logger: logger}
}

// Len returns the number of listings
func (d *Dashboard) Len() int {
	return len(d.listings)
}

// Columns returns every column name in file order
func (d *Dashboard) Columns() []string {
	cols := make([]string, len(models.Columns))
	copy(cols, models.Columns)
	return cols
}

// ProjectColumns returns the first limit rows restricted to cols, in the order given
func (d *Dashboard) ProjectColumns(cols []string, limit int) (*models.Table, error) {
	for _, c := range cols {
		if !IsColumn(c) {
			return nil, &ValidationError{Field: "cols", Message: fmt.Sprintf("Unknown column %q", c)}
		}
	}
	if limit <= 0 {
		limit = DefaultTableRows
	}
	n := min(limit, len(d.listings))

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return d.table("Table overview available AirBnBs in Vienna", cols, indices), nil
}

// ExpensiveListings returns map points of listings priced at minPrice or more that have coordinates
func (d *Dashboard) ExpensiveListings(minPrice float64) []models.MapPoint {
	points := make([]models.MapPoint, 0)
	for _, l := range d.listings {
		if l.Price < minPrice || !l.HasCoordinates() {
			continue
		}
		points = append(points, models.MapPoint{
			Latitude:  l.Latitude.Float64,
			Longitude: l.Longitude.Float64,
			Name:      l.Name,
			Price:     l.Price,
		})
	}
	d.logger.Debug("%d listings priced at %.0f and above", len(points), minPrice)
	return points
}

// AveragePriceByRoomType returns one row per room type, most expensive first
func (d *Dashboard) AveragePriceByRoomType() []models.RoomTypePrice {
	type acc struct {
		sum   decimal.Decimal
		count int
	}
	byType := make(map[string]*acc)
	for _, l := range d.listings {
		a, ok := byType[l.RoomType]
		if !ok {
			a = &acc{}
			byType[l.RoomType] = a
		}
		a.sum = a.sum.Add(decimal.NewFromFloat(l.Price))
		a.count++
	}

	rows := make([]models.RoomTypePrice, 0, len(byType))
	for roomType, a := range byType {
		avg := a.sum.Div(decimal.NewFromInt(int64(a.count))).Round(2)
		rows = append(rows, models.RoomTypePrice{
			RoomType: roomType,
			AvgPrice: avg,
			Display:  avg.StringFixed(2),
			Listings: a.count,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].AvgPrice.Cmp(rows[j].AvgPrice); c != 0 {
			return c > 0
		}
		return rows[i].RoomType < rows[j].RoomType
	})
	return rows
}

// TopHosts ranks hosts by number of listings. Ties keep the order in which hosts first appear.
func (d *Dashboard) TopHosts(n int) *models.HostSummary {
	counts := make(map[int64]*models.HostRank)
	var order []*models.HostRank
	for _, l := range d.listings {
		r, ok := counts[l.HostID]
		if !ok {
			r = &models.HostRank{HostID: l.HostID, HostName: l.HostName}
			counts[l.HostID] = r
			order = append(order, r)
		}
		r.Listings++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Listings > order[j].Listings
	})

	if n > 0 && len(order) > n {
		order = order[:n]
	}
	ranks := make([]models.HostRank, len(order))
	for i, r := range order {
		ranks[i] = *r
	}

	sentences := hostSentences(ranks)
	return &models.HostSummary{Ranks: ranks, Sentences: sentences, Text: markdownText(sentences)}
}

func hostSentences(ranks []models.HostRank) []models.HostSentence {
	if len(ranks) == 0 {
		return []models.HostSentence{{Rest: "No hosts in the dataset."}}
	}
	sentences := []models.HostSentence{
		{HostName: ranks[0].HostName, Rest: fmt.Sprintf(" is at the top with %d property listings.", ranks[0].Listings)},
	}
	if len(ranks) > 1 {
		sentences = append(sentences, models.HostSentence{
			HostName: ranks[1].HostName,
			Rest:     fmt.Sprintf(" is second with %d listings.", ranks[1].Listings),
		})
	}
	return sentences
}

func markdownText(sentences []models.HostSentence) string {
	lines := make([]string, len(sentences))
	for i, s := range sentences {
		if s.HostName != "" {
			lines[i] = "**" + s.HostName + "**" + s.Rest
		} else {
			lines[i] = s.Rest
		}
	}
	return strings.Join(lines, "\n")
}

// PriceBounds returns the range offered by the price selector: the cheapest price and
// the highest price after clipping at PriceClip
func (d *Dashboard) PriceBounds() models.PriceBounds {
	if len(d.listings) == 0 {
		return models.PriceBounds{}
	}
	b := models.PriceBounds{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, l := range d.listings {
		b.Min = math.Min(b.Min, l.Price)
		b.Max = math.Max(b.Max, math.Min(l.Price, PriceClip))
	}
	return b
}

// PriceHistogram counts listings with lo <= price <= hi into equal-width bins spanning [lo, hi]
func (d *Dashboard) PriceHistogram(lo, hi float64, bins int) (*models.Histogram, error) {
	if lo > hi {
		return nil, &ValidationError{Field: "price", Message: ErrInvalidRange}
	}
	if bins <= 0 {
		bins = DefaultHistogramBins
	}
	if lo == hi {
		bins = 1
	}

	width := (hi - lo) / float64(bins)
	h := &models.Histogram{Min: lo, Max: hi, Bins: make([]models.HistogramBin, bins)}
	for i := range h.Bins {
		h.Bins[i].Lower = lo + float64(i)*width
		h.Bins[i].Upper = lo + float64(i+1)*width
	}
	h.Bins[bins-1].Upper = hi

	for _, l := range d.listings {
		if l.Price < lo || l.Price > hi {
			continue
		}
		idx := bins - 1
		if width > 0 {
			idx = min(int((l.Price-lo)/width), bins-1)
		}
		h.Bins[idx].Count++
		h.Total++
	}
	return h, nil
}

// ListingsByReviews returns up to ReviewTableRows listings whose review count lies in
// [minimum, maximum], most reviewed first
func (d *Dashboard) ListingsByReviews(minimum, maximum float64) (*models.Table, error) {
	if minimum < 0 || maximum < 0 {
		return nil, &ValidationError{Field: "reviews", Message: "Minimum and maximum must not be negative"}
	}
	if minimum > maximum {
		return nil, &ValidationError{Field: "reviews", Message: ErrInvalidRange}
	}

	var indices []int
	for i, l := range d.listings {
		reviews := float64(l.NumberOfReviews)
		if reviews >= minimum && reviews <= maximum {
			indices = append(indices, i)
		}
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return d.listings[indices[a]].NumberOfReviews > d.listings[indices[b]].NumberOfReviews
	})
	if len(indices) > ReviewTableRows {
		indices = indices[:ReviewTableRows]
	}

	return d.table("Properties by number of reviews", ReviewColumns, indices), nil
}

func (d *Dashboard) table(title string, cols []string, indices []int) *models.Table {
	t := &models.Table{
		Title:   title,
		Columns: append([]string{}, cols...),
		Index:   indices,
		Rows:    make([][]string, 0, len(indices)),
	}
	if t.Index == nil {
		t.Index = []int{}
	}
	for _, i := range indices {
		row := make([]string, len(cols))
		for j, c := range cols {
			row[j] = CellValue(d.listings[i], c)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

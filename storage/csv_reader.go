package storage

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"airbnb-dashboard/models"
)

// ErrEmptyDataset is returned when a source yields no listings
var ErrEmptyDataset = errors.New("dataset contains no listings")

// ErrNotFinite marks a NaN or infinite numeric value
var ErrNotFinite = errors.New("value is not a finite number")

func parseFinite(val string) (float64, error) {
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrNotFinite
	}
	return f, nil
}

// checkFinite rejects listings whose price or coordinates are NaN or infinite
func checkFinite(l *models.Listing) error {
	fields := []struct {
		col   string
		value float64
	}{
		{models.ColPrice, l.Price},
		{models.ColLatitude, l.Latitude.Float64},
		{models.ColLongitude, l.Longitude.Float64},
		{models.ColReviewsPerMonth, l.ReviewsPerMonth.Float64},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("listing %d: column %s: %w", l.ID, f.col, ErrNotFinite)
		}
	}
	return nil
}

// ParseListingsCSV reads a listings file with a header row.
// Columns are matched by name; unknown columns are ignored and every documented column must be present.
func ParseListingsCSV(r io.Reader) ([]*models.Listing, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	var missing []string
	for _, col := range models.Columns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("CSV header is missing columns: %s", strings.Join(missing, ", "))
	}

	var listings []*models.Listing
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", line, err)
		}

		p := rowParser{row: row, index: index}
		l := &models.Listing{
			ID:                 p.asInt64(models.ColID),
			Name:               p.str(models.ColName),
			HostID:             p.asInt64(models.ColHostID),
			HostName:           p.str(models.ColHostName),
			NeighbourhoodGroup: p.str(models.ColNeighbourhoodGroup),
			Neighbourhood:      p.str(models.ColNeighbourhood),
			Latitude:           p.nullFloat(models.ColLatitude),
			Longitude:          p.nullFloat(models.ColLongitude),
			RoomType:           p.str(models.ColRoomType),
			Price:              p.asFloat(models.ColPrice),
			MinimumNights:      p.asInt(models.ColMinimumNights),
			NumberOfReviews:    p.asInt(models.ColNumberOfReviews),
			LastReview:         p.nullDate(models.ColLastReview),
			ReviewsPerMonth:    p.nullFloat(models.ColReviewsPerMonth),
			HostListingsCount:  p.asInt(models.ColHostListingsCount),
			Availability365:    p.asInt(models.ColAvailability365),
		}
		if p.err != nil {
			return nil, fmt.Errorf("CSV row %d: %w", line, p.err)
		}
		listings = append(listings, l)
	}

	if len(listings) == 0 {
		return nil, ErrEmptyDataset
	}
	return listings, nil
}

// rowParser converts the cells of one row, keeping the first conversion error
type rowParser struct {
	row   []string
	index map[string]int
	err   error
}

func (p *rowParser) cell(col string) string {
	i := p.index[col]
	if i >= len(p.row) {
		return ""
	}
	return strings.TrimSpace(p.row[i])
}

func (p *rowParser) str(col string) string {
	return p.cell(col)
}

func (p *rowParser) fail(col, val string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("column %s: invalid value %q: %w", col, val, err)
	}
}

func (p *rowParser) asInt64(col string) int64 {
	val := p.cell(col)
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		// ids occasionally come out of spreadsheets as "123.0"
		if f, ferr := parseFinite(val); ferr == nil && f == math.Trunc(f) && math.Abs(f) < math.MaxInt64 {
			return int64(f)
		}
		p.fail(col, val, err)
	}
	return n
}

func (p *rowParser) asInt(col string) int {
	return int(p.asInt64(col))
}

func (p *rowParser) asFloat(col string) float64 {
	val := p.cell(col)
	f, err := parseFinite(val)
	if err != nil {
		p.fail(col, val, err)
	}
	return f
}

func (p *rowParser) nullFloat(col string) sql.NullFloat64 {
	val := p.cell(col)
	if val == "" {
		return sql.NullFloat64{}
	}
	f, err := parseFinite(val)
	if err != nil {
		p.fail(col, val, err)
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func (p *rowParser) nullDate(col string) sql.NullTime {
	val := p.cell(col)
	if val == "" {
		return sql.NullTime{}
	}
	t, err := time.Parse(models.DateLayout, val)
	if err != nil {
		p.fail(col, val, err)
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

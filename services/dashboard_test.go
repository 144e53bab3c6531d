package services

import (
	"bytes"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"airbnb-dashboard/models"
	"airbnb-dashboard/utils"
)

func coord(f float64) sql.NullFloat64 { return sql.NullFloat64{Float64: f, Valid: true} }

// sample returns a small dataset: host 10 has three listings, host 20 two, host 30 one
func sample() []*models.Listing {
	return []*models.Listing{
		{ID: 1, Name: "Loft", HostID: 10, HostName: "Hannes", Neighbourhood: "Leopoldstadt", RoomType: "Entire home/apt", Price: 65, NumberOfReviews: 274, Latitude: coord(48.21), Longitude: coord(16.37)},
		{ID: 2, Name: "Room by the Danube", HostID: 20, HostName: "Eva", Neighbourhood: "Donaustadt", RoomType: "Private room", Price: 81, NumberOfReviews: 13, Latitude: coord(48.24), Longitude: coord(16.42)},
		{ID: 3, Name: "Penthouse", HostID: 10, HostName: "Hannes", Neighbourhood: "Innere Stadt", RoomType: "Entire home/apt", Price: 900, NumberOfReviews: 2, Latitude: coord(48.20), Longitude: coord(16.36)},
		{ID: 4, Name: "Palace suite", HostID: 30, HostName: "Ingela", Neighbourhood: "Hietzing", RoomType: "Entire home/apt", Price: 800, NumberOfReviews: 5},
		{ID: 5, Name: "Shared bunk", HostID: 20, HostName: "Eva", Neighbourhood: "Donaustadt", RoomType: "Shared room", Price: 20, NumberOfReviews: 0, Latitude: coord(48.23), Longitude: coord(16.41)},
		{ID: 6, Name: "Studio", HostID: 10, HostName: "Hannes", Neighbourhood: "Leopoldstadt", RoomType: "Private room", Price: 1200, NumberOfReviews: 5, Latitude: coord(48.22), Longitude: coord(16.38)},
	}
}

func newDashboard() *Dashboard {
	return NewDashboard(sample(), utils.Nop())
}

func TestProjectColumns(t *testing.T) {
	d := newDashboard()
	table, err := d.ProjectColumns([]string{"price", "name"}, 4)
	if err != nil {
		t.Fatalf("ProjectColumns failed: %v", err)
	}
	if len(table.Rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(table.Rows))
	}
	if table.Columns[0] != "price" || table.Columns[1] != "name" {
		t.Errorf("column order not kept: %v", table.Columns)
	}
	if table.Rows[0][0] != "65" || table.Rows[0][1] != "Loft" {
		t.Errorf("unexpected first row %v", table.Rows[0])
	}
	if table.Index[3] != 3 {
		t.Errorf("unexpected index %v", table.Index)
	}
}

func TestProjectColumnsDefaultLimit(t *testing.T) {
	listings := make([]*models.Listing, 30)
	for i := range listings {
		listings[i] = &models.Listing{ID: int64(i)}
	}
	d := NewDashboard(listings, utils.Nop())
	table, err := d.ProjectColumns(DefaultColumns, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Rows) != DefaultTableRows {
		t.Errorf("expected %d rows, got %d", DefaultTableRows, len(table.Rows))
	}
}

func TestProjectColumnsUnknownColumn(t *testing.T) {
	_, err := newDashboard().ProjectColumns([]string{"name", "bedrooms"}, 20)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(verr.Message, "bedrooms") {
		t.Errorf("message should name the column: %q", verr.Message)
	}
}

func TestExpensiveListings(t *testing.T) {
	points := newDashboard().ExpensiveListings(ExpensivePrice)
	// Palace suite is 800 but has no coordinates
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d: %+v", len(points), points)
	}
	for _, p := range points {
		if p.Price < ExpensivePrice {
			t.Errorf("point below threshold: %+v", p)
		}
	}
}

func TestExpensiveListingsIncludesThreshold(t *testing.T) {
	listings := []*models.Listing{
		{ID: 1, Price: 800, Latitude: coord(48.2), Longitude: coord(16.3)},
		{ID: 2, Price: 799.99, Latitude: coord(48.2), Longitude: coord(16.3)},
	}
	points := NewDashboard(listings, utils.Nop()).ExpensiveListings(800)
	if len(points) != 1 || points[0].Price != 800 {
		t.Errorf("expected only the 800 listing, got %+v", points)
	}
}

func TestAveragePriceByRoomType(t *testing.T) {
	rows := newDashboard().AveragePriceByRoomType()
	want := []struct {
		roomType string
		display  string
	}{
		{"Private room", "640.50"},
		{"Entire home/apt", "588.33"},
		{"Shared room", "20.00"},
	}
	if len(rows) != len(want) {
		t.Fatalf("expected %d room types, got %d", len(want), len(rows))
	}
	for i, w := range want {
		if rows[i].RoomType != w.roomType || rows[i].Display != w.display {
			t.Errorf("row %d = %s %s, want %s %s", i, rows[i].RoomType, rows[i].Display, w.roomType, w.display)
		}
	}
	if rows[1].Listings != 3 {
		t.Errorf("expected 3 entire homes, got %d", rows[1].Listings)
	}
}

func TestTopHosts(t *testing.T) {
	summary := newDashboard().TopHosts(TopHostCount)
	if len(summary.Ranks) != 2 {
		t.Fatalf("expected 2 ranks, got %d", len(summary.Ranks))
	}
	if summary.Ranks[0].HostName != "Hannes" || summary.Ranks[0].Listings != 3 {
		t.Errorf("unexpected leader %+v", summary.Ranks[0])
	}
	if summary.Ranks[1].HostName != "Eva" || summary.Ranks[1].Listings != 2 {
		t.Errorf("unexpected runner-up %+v", summary.Ranks[1])
	}
	want := "**Hannes** is at the top with 3 property listings.\n**Eva** is second with 2 listings."
	if summary.Text != want {
		t.Errorf("unexpected text:\n%s\nwant:\n%s", summary.Text, want)
	}
}

func TestTopHostsSentencesKeepNamesVerbatim(t *testing.T) {
	listings := []*models.Listing{
		{ID: 1, HostID: 1, HostName: "**Star** Apartments"},
		{ID: 2, HostID: 1, HostName: "**Star** Apartments"},
		{ID: 3, HostID: 2, HostName: "Eva"},
	}
	summary := NewDashboard(listings, utils.Nop()).TopHosts(TopHostCount)
	want := []models.HostSentence{
		{HostName: "**Star** Apartments", Rest: " is at the top with 2 property listings."},
		{HostName: "Eva", Rest: " is second with 1 listings."},
	}
	if len(summary.Sentences) != len(want) {
		t.Fatalf("expected %d sentences, got %+v", len(want), summary.Sentences)
	}
	for i := range want {
		if summary.Sentences[i] != want[i] {
			t.Errorf("sentence %d: got %+v, want %+v", i, summary.Sentences[i], want[i])
		}
	}

	var buf bytes.Buffer
	PrintInsightReport(&buf, &models.InsightReport{Hosts: summary})
	if !strings.Contains(buf.String(), "**Star** Apartments is at the top with 2 property listings.") {
		t.Errorf("report should print the host name verbatim:\n%s", buf.String())
	}
}

func TestTopHostsTiesKeepFirstAppearance(t *testing.T) {
	listings := []*models.Listing{
		{ID: 1, HostID: 7, HostName: "B"},
		{ID: 2, HostID: 3, HostName: "A"},
		{ID: 3, HostID: 3, HostName: "A"},
		{ID: 4, HostID: 7, HostName: "B"},
	}
	summary := NewDashboard(listings, utils.Nop()).TopHosts(0)
	if summary.Ranks[0].HostID != 7 || summary.Ranks[1].HostID != 3 {
		t.Errorf("ties should keep first appearance: %+v", summary.Ranks)
	}
}

func TestTopHostsSingleHost(t *testing.T) {
	summary := NewDashboard([]*models.Listing{{ID: 1, HostID: 1, HostName: "Solo"}}, utils.Nop()).TopHosts(2)
	if summary.Text != "**Solo** is at the top with 1 property listings." {
		t.Errorf("unexpected text %q", summary.Text)
	}
	empty := NewDashboard(nil, utils.Nop()).TopHosts(2)
	if len(empty.Ranks) != 0 || empty.Text == "" {
		t.Errorf("unexpected empty summary %+v", empty)
	}
}

func TestPriceBounds(t *testing.T) {
	b := newDashboard().PriceBounds()
	if b.Min != 20 || b.Max != PriceClip {
		t.Errorf("unexpected bounds %+v", b)
	}
}

func TestPriceHistogram(t *testing.T) {
	h, err := newDashboard().PriceHistogram(50, 300, DefaultHistogramBins)
	if err != nil {
		t.Fatalf("PriceHistogram failed: %v", err)
	}
	if len(h.Bins) != DefaultHistogramBins {
		t.Fatalf("expected %d bins, got %d", DefaultHistogramBins, len(h.Bins))
	}
	if h.Total != 2 {
		t.Errorf("expected 65 and 81 in range, got total %d", h.Total)
	}
	sum := 0
	for _, b := range h.Bins {
		sum += b.Count
	}
	if sum != h.Total {
		t.Errorf("bin counts %d do not add up to total %d", sum, h.Total)
	}
	if h.Bins[0].Lower != 50 || h.Bins[len(h.Bins)-1].Upper != 300 {
		t.Errorf("bins should span the range: %+v", h.Bins)
	}
}

func TestPriceHistogramInclusiveBounds(t *testing.T) {
	h, err := newDashboard().PriceHistogram(65, 900, 5)
	if err != nil {
		t.Fatal(err)
	}
	// 65, 81, 800, 900
	if h.Total != 4 {
		t.Errorf("expected 4 listings, got %d", h.Total)
	}
	if h.Bins[4].Count != 2 {
		t.Errorf("upper bound should land in the last bin: %+v", h.Bins)
	}
}

func TestPriceHistogramSinglePoint(t *testing.T) {
	h, err := newDashboard().PriceHistogram(800, 800, 15)
	if err != nil {
		t.Fatal(err)
	}
	if len(h.Bins) != 1 || h.Bins[0].Count != 1 {
		t.Errorf("expected one bin with one listing, got %+v", h.Bins)
	}
}

func TestPriceHistogramInvertedRange(t *testing.T) {
	_, err := newDashboard().PriceHistogram(300, 50, 15)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestListingsByReviews(t *testing.T) {
	table, err := newDashboard().ListingsByReviews(2, 13)
	if err != nil {
		t.Fatalf("ListingsByReviews failed: %v", err)
	}
	if strings.Join(table.Columns, ",") != "name,number_of_reviews,neighbourhood,host_name,room_type,price" {
		t.Errorf("unexpected columns %v", table.Columns)
	}
	var names []string
	for _, row := range table.Rows {
		names = append(names, row[0])
	}
	// 13, then the two 5s in dataset order, then 2
	want := "Room by the Danube,Palace suite,Studio,Penthouse"
	if strings.Join(names, ",") != want {
		t.Errorf("got %v, want %s", names, want)
	}
}

func TestListingsByReviewsLimit(t *testing.T) {
	listings := make([]*models.Listing, 80)
	for i := range listings {
		listings[i] = &models.Listing{ID: int64(i), NumberOfReviews: i % 4}
	}
	table, err := NewDashboard(listings, utils.Nop()).ListingsByReviews(0, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Rows) != ReviewTableRows {
		t.Errorf("expected %d rows, got %d", ReviewTableRows, len(table.Rows))
	}
	if table.Rows[0][1] != "3" {
		t.Errorf("most reviewed first, got %v", table.Rows[0])
	}
}

func TestListingsByReviewsValidation(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		message  string
	}{
		{"min above max", 10, 5, ErrInvalidRange},
		{"negative", -1, 5, "Minimum and maximum must not be negative"},
	}
	for _, tt := range tests {
		table, err := newDashboard().ListingsByReviews(tt.min, tt.max)
		if table != nil {
			t.Errorf("%s: expected no table", tt.name)
		}
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Message != tt.message {
			t.Errorf("%s: got %v, want %q", tt.name, err, tt.message)
		}
	}
}

func TestGenerateReportsValidationPerView(t *testing.T) {
	in := DefaultInputs()
	in.ReviewsMin, in.ReviewsMax = 9, 1
	report := newDashboard().Generate(in)

	if report.Reviews != nil || report.ReviewsError != ErrInvalidRange {
		t.Errorf("expected review validation message, got %+v %q", report.Reviews, report.ReviewsError)
	}
	if report.Columns == nil || report.Histogram == nil || report.Hosts == nil {
		t.Error("other views should still be computed")
	}
	if report.TotalListings != 6 {
		t.Errorf("expected 6 listings, got %d", report.TotalListings)
	}
}

func TestPrintInsightReport(t *testing.T) {
	var buf bytes.Buffer
	PrintInsightReport(&buf, newDashboard().Generate(DefaultInputs()))
	out := buf.String()

	for _, want := range []string{"VIENNA AIRBNB ANALYSIS", "Hannes is at the top with 3 property listings.", "Private room:", "640.50"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestCleanerDropsDuplicatesAndTrims(t *testing.T) {
	raw := []*models.Listing{
		{ID: 1, Name: "  Loft ", RoomType: "Private room "},
		{ID: 2, Name: "Room"},
		{ID: 1, Name: "Loft copy"},
	}
	cleaned := NewDataCleaner(utils.Nop()).Clean(raw)
	if len(cleaned) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(cleaned))
	}
	if cleaned[0].Name != "Loft" || cleaned[0].RoomType != "Private room" {
		t.Errorf("fields not trimmed: %+v", cleaned[0])
	}
	if raw[0].Name != "  Loft " {
		t.Error("input should not be modified")
	}
}

func TestCellValue(t *testing.T) {
	l := sample()[3]
	tests := []struct {
		col  string
		want string
	}{
		{models.ColID, "4"},
		{models.ColPrice, "800"},
		{models.ColLatitude, ""},
		{models.ColLastReview, ""},
		{models.ColHostName, "Ingela"},
		{"unknown", ""},
	}
	for _, tt := range tests {
		if got := CellValue(l, tt.col); got != tt.want {
			t.Errorf("CellValue(%s) = %q, want %q", tt.col, got, tt.want)
		}
	}
	for _, c := range models.Columns {
		if !IsColumn(c) {
			t.Errorf("column %s has no formatter", c)
		}
	}
}

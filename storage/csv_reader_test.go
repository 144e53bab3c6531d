package storage

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"airbnb-dashboard/models"
)

const header = "id,name,host_id,host_name,neighbourhood_group,neighbourhood,latitude,longitude,room_type,price,minimum_nights,number_of_reviews,last_review,reviews_per_month,calculated_host_listings_count,availability_365\n"

func TestParseListingsCSV(t *testing.T) {
	f, err := os.Open("testdata/listings.csv")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	listings, err := ParseListingsCSV(f)
	if err != nil {
		t.Fatalf("ParseListingsCSV failed: %v", err)
	}
	if len(listings) != 5 {
		t.Fatalf("expected 5 listings, got %d", len(listings))
	}

	first := listings[0]
	if first.ID != 15883 || first.HostID != 62142 || first.HostName != "Eva" {
		t.Errorf("unexpected first listing: %+v", first)
	}
	if first.RoomType != "Private room" || first.Price != 81 {
		t.Errorf("unexpected room type/price: %q %v", first.RoomType, first.Price)
	}
	if !first.HasCoordinates() || first.Latitude.Float64 != 48.24262 {
		t.Errorf("expected coordinates, got %+v %+v", first.Latitude, first.Longitude)
	}
	wantDate := time.Date(2019, 8, 8, 0, 0, 0, 0, time.UTC)
	if !first.LastReview.Valid || !first.LastReview.Time.Equal(wantDate) {
		t.Errorf("unexpected last review %+v", first.LastReview)
	}

	if listings[2].Name != "Near Palace Schönbrunn, Apt. 1" {
		t.Errorf("quoted name not preserved: %q", listings[2].Name)
	}

	last := listings[4]
	if last.NumberOfReviews != 0 || last.LastReview.Valid || last.ReviewsPerMonth.Valid {
		t.Errorf("expected empty review fields to be null: %+v", last)
	}
}

func TestParseListingsCSVColumnOrderAndExtras(t *testing.T) {
	data := "extra,price,id,name,host_id,host_name,neighbourhood_group,neighbourhood,latitude,longitude,room_type,minimum_nights,number_of_reviews,last_review,reviews_per_month,calculated_host_listings_count,availability_365\n" +
		"x,99.5,1,Flat,2,Ann,,Wieden,,,Shared room,1,4,2020-01-01,0.5,1,10\n"

	listings, err := ParseListingsCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseListingsCSV failed: %v", err)
	}
	if listings[0].Price != 99.5 || listings[0].ID != 1 {
		t.Errorf("columns not mapped by name: %+v", listings[0])
	}
	if listings[0].HasCoordinates() {
		t.Error("empty coordinates should be null")
	}
}

func TestParseListingsCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"empty input", "", "header"},
		{"missing column", "id,name\n1,a\n", "missing columns"},
		{"bad price", header + "1,a,2,b,,c,48.1,16.3,Private room,abc,1,0,,,1,0\n", "price"},
		{"NaN price", header + "1,a,2,b,,c,48.1,16.3,Private room,NaN,1,0,,,1,0\n", "price"},
		{"infinite price", header + "1,a,2,b,,c,48.1,16.3,Private room,+Inf,1,0,,,1,0\n", "price"},
		{"infinite latitude", header + "1,a,2,b,,c,Inf,16.3,Private room,10,1,0,,,1,0\n", "latitude"},
		{"NaN reviews per month", header + "1,a,2,b,,c,48.1,16.3,Private room,10,1,0,,nan,1,0\n", "reviews_per_month"},
		{"NaN id", header + "NaN,a,2,b,,c,48.1,16.3,Private room,10,1,0,,,1,0\n", "column id"},
		{"bad date", header + "1,a,2,b,,c,48.1,16.3,Private room,10,1,0,15/03/2020,,1,0\n", "last_review"},
	}

	for _, tt := range tests {
		_, err := ParseListingsCSV(strings.NewReader(tt.data))
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: error %q should mention %q", tt.name, err, tt.want)
		}
	}
}

func TestParseListingsCSVHeaderOnly(t *testing.T) {
	_, err := ParseListingsCSV(strings.NewReader(header))
	if !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("expected ErrEmptyDataset, got %v", err)
	}
}

func TestParseListingsCSVFloatIDs(t *testing.T) {
	data := header + "1.0,a,2.0,b,,c,48.1,16.3,Private room,10,1,0,,,1,0\n"
	listings, err := ParseListingsCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseListingsCSV failed: %v", err)
	}
	if listings[0].ID != 1 || listings[0].HostID != 2 {
		t.Errorf("unexpected ids %d %d", listings[0].ID, listings[0].HostID)
	}
}

func TestColumnsMatchFixtureHeader(t *testing.T) {
	got := strings.Join(models.Columns, ",") + "\n"
	if got != header {
		t.Errorf("models.Columns out of sync with file header:\n%s\n%s", got, header)
	}
}

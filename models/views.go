package models

import "github.com/shopspring/decimal"

// Table is a render-ready table. Index holds the dataset row number of each row.
type Table struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Index   []int      `json:"index"`
	Rows    [][]string `json:"rows"`
}

// MapPoint is one marker on the price map
type MapPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
}

// RoomTypePrice is the average nightly price of one room type
type RoomTypePrice struct {
	RoomType string          `json:"room_type"`
	AvgPrice decimal.Decimal `json:"-"`
	Display  string          `json:"avg_price"`
	Listings int             `json:"listings"`
}

// HostRank is a host and the number of listings they operate
type HostRank struct {
	HostID   int64  `json:"host_id"`
	HostName string `json:"host_name"`
	Listings int    `json:"listings"`
}

// HostSentence is one line of the host summary: the bold host name followed by Rest.
// An empty HostName means the line has no emphasis.
type HostSentence struct {
	HostName string `json:"host_name"`
	Rest     string `json:"rest"`
}

// HostSummary holds the ranked hosts and the sentences describing the leaders.
// Text joins the sentences with newlines and marks host names with **double asterisks**.
type HostSummary struct {
	Ranks     []HostRank     `json:"ranks"`
	Sentences []HostSentence `json:"sentences"`
	Text      string         `json:"text"`
}

// HistogramBin counts listings with Lower <= price < Upper (the last bin includes Upper)
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram is the price distribution over a selected range
type Histogram struct {
	Min   float64        `json:"min"`
	Max   float64        `json:"max"`
	Total int            `json:"total"`
	Bins  []HistogramBin `json:"bins"`
}

// PriceBounds are the limits offered by the price range selector
type PriceBounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// InsightReport bundles every dashboard view for one set of inputs.
// A view whose inputs were rejected is nil and carries the message in its *Error field.
type InsightReport struct {
	TotalListings  int
	Columns        *Table
	ColumnsError   string
	MinPrice       float64
	Expensive      []MapPoint
	RoomTypes      []RoomTypePrice
	Hosts          *HostSummary
	Bounds         PriceBounds
	Histogram      *Histogram
	HistogramError string
	Reviews        *Table
	ReviewsError   string
}

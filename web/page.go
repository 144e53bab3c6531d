package web

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strconv"

	"airbnb-dashboard/models"
	"airbnb-dashboard/services"
)

const (
	chartWidth  = 640.0
	chartHeight = 240.0
)

var templateFuncs = template.FuncMap{
	"number": formatNumber,
	"points": mapPoints,
}

// formatNumber drops trailing zeros, so 120 renders as "120" and 62.5 as "62.5"
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatRange(lo, hi float64) string {
	return fmt.Sprintf("%s - %s", formatNumber(math.Round(lo*100)/100), formatNumber(math.Round(hi*100)/100))
}

// mapPoints keeps an empty marker list as [] in the map script, where
// html/template encodes values as JSON.
func mapPoints(points []models.MapPoint) []models.MapPoint {
	if points == nil {
		return []models.MapPoint{}
	}
	return points
}

// bar is one histogram column in SVG coordinates
type bar struct {
	X, Y, Width, Height float64
	Label               string
	Count               int
}

// pageData feeds templates/dashboard.html
type pageData struct {
	Title      string
	Sights     []Sight
	Sight      Sight
	AllColumns []string
	Selected   map[string]bool
	Inputs     services.Inputs
	Report     *models.InsightReport
	Bars       []bar
	ChartW     float64
	ChartH     float64
}

// pageInputs reads the widget selections. Unparsable numbers fall back to the
// defaults and are reported through errs keyed by widget.
func pageInputs(r *http.Request) (services.Inputs, map[string]string) {
	q := r.URL.Query()
	in := services.DefaultInputs()
	errs := make(map[string]string)

	if cols, ok := queryColumns(q); ok {
		in.Columns = cols
	}

	var err error
	if in.PriceMin, err = queryFloat(q, "price_min", services.DefaultPriceMin); err != nil {
		errs["price"] = err.Error()
	}
	if in.PriceMax, err = queryFloat(q, "price_max", services.DefaultPriceMax); err != nil {
		errs["price"] = err.Error()
	}
	if in.ReviewsMin, err = queryFloat(q, "reviews_min", services.DefaultReviewsMin); err != nil {
		errs["reviews"] = err.Error()
	}
	if in.ReviewsMax, err = queryFloat(q, "reviews_max", services.DefaultReviewsMax); err != nil {
		errs["reviews"] = err.Error()
	}
	return in, errs
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	in, inputErrs := pageInputs(r)
	report := s.dashboard.Generate(in)
	if msg, ok := inputErrs["price"]; ok {
		report.Histogram, report.HistogramError = nil, msg
	}
	if msg, ok := inputErrs["reviews"]; ok {
		report.Reviews, report.ReviewsError = nil, msg
	}

	selected := make(map[string]bool, len(in.Columns))
	for _, c := range in.Columns {
		selected[c] = true
	}

	data := pageData{
		Title:      "Vienna AirBnB Analysis",
		Sights:     Sights,
		Sight:      findSight(r.URL.Query().Get("sight")),
		AllColumns: s.dashboard.Columns(),
		Selected:   selected,
		Inputs:     in,
		Report:     report,
		ChartW:     chartWidth,
		ChartH:     chartHeight,
	}
	if report.Histogram != nil {
		data.Bars = histogramBars(report.Histogram)
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		s.logger.Error("Failed to render dashboard: %v", err)
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func histogramBars(h *models.Histogram) []bar {
	peak := 0
	for _, b := range h.Bins {
		peak = max(peak, b.Count)
	}
	width := chartWidth / float64(len(h.Bins))
	bars := make([]bar, len(h.Bins))
	for i, b := range h.Bins {
		height := 0.0
		if peak > 0 {
			height = float64(b.Count) / float64(peak) * (chartHeight - 20)
		}
		bars[i] = bar{
			X:      float64(i) * width,
			Y:      chartHeight - height,
			Width:  width - 2,
			Height: height,
			Label:  formatRange(b.Lower, b.Upper),
			Count:  b.Count,
		}
	}
	return bars
}

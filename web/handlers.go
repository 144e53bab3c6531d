package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"airbnb-dashboard/services"
)

const maxHistogramBins = 200

// queryFloat parses key from q, returning def when the key is absent or blank
func queryFloat(q url.Values, key string, def float64) (float64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def, fmt.Errorf("%s must be a number, got %q", key, raw)
	}
	return f, nil
}

func queryInt(q url.Values, key string, def int) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	return n, nil
}

// queryColumns reads repeated or comma separated cols parameters.
// ok is false when no selection was submitted at all.
func queryColumns(q url.Values) (cols []string, ok bool) {
	values, present := q["cols"]
	if !present && q.Get("cols_set") == "" {
		return nil, false
	}
	cols = []string{}
	for _, v := range values {
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" {
				cols = append(cols, c)
			}
		}
	}
	return cols, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func badRequest(msg string) error {
	return &services.ValidationError{Message: msg}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "healthy",
		"listings":    s.dashboard.Len(),
		"snapshot_id": s.snapshotID.String(),
		"uptime":      time.Since(s.startedAt).Round(time.Second).String(),
	})
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"columns":  s.dashboard.Columns(),
		"defaults": services.DefaultColumns,
	})
}

// GET /api/v1/listings?cols=name&cols=price&limit=20
func (s *Server) handleListings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cols, ok := queryColumns(q)
	if !ok {
		cols = services.DefaultColumns
	}
	limit, err := queryInt(q, "limit", services.DefaultTableRows)
	if err != nil {
		writeError(w, badRequest(err.Error()))
		return
	}
	table, err := s.dashboard.ProjectColumns(cols, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

// GET /api/v1/map?min_price=800
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	minPrice, err := queryFloat(r.URL.Query(), "min_price", services.ExpensivePrice)
	if err != nil {
		writeError(w, badRequest(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"min_price": minPrice,
		"points":    s.dashboard.ExpensiveListings(minPrice),
	})
}

func (s *Server) handleRoomTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"room_types": s.dashboard.AveragePriceByRoomType(),
	})
}

// GET /api/v1/hosts?n=2
func (s *Server) handleHosts(w http.ResponseWriter, r *http.Request) {
	n, err := queryInt(r.URL.Query(), "n", services.TopHostCount)
	if err != nil {
		writeError(w, badRequest(err.Error()))
		return
	}
	if n < 1 {
		writeError(w, badRequest("n must be at least 1"))
		return
	}
	writeJSON(w, http.StatusOK, s.dashboard.TopHosts(n))
}

func (s *Server) handlePriceBounds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dashboard.PriceBounds())
}

// GET /api/v1/histogram?min=50&max=300&bins=15
func (s *Server) handleHistogram(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lo, err := queryFloat(q, "min", services.DefaultPriceMin)
	if err != nil {
		writeError(w, badRequest(err.Error()))
		return
	}
	hi, err := queryFloat(q, "max", services.DefaultPriceMax)
	if err != nil {
		writeError(w, badRequest(err.Error()))
		return
	}
	bins, err := queryInt(q, "bins", services.DefaultHistogramBins)
	if err != nil {
		writeError(w, badRequest(err.Error()))
		return
	}
	if bins < 1 || bins > maxHistogramBins {
		writeError(w, badRequest(fmt.Sprintf("bins must be between 1 and %d", maxHistogramBins)))
		return
	}
	hist, err := s.dashboard.PriceHistogram(lo, hi, bins)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hist)
}

// GET /api/v1/reviews?min=0&max=5
func (s *Server) handleReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	minimum, err := queryFloat(q, "min", services.DefaultReviewsMin)
	if err != nil {
		writeError(w, badRequest(err.Error()))
		return
	}
	maximum, err := queryFloat(q, "max", services.DefaultReviewsMax)
	if err != nil {
		writeError(w, badRequest(err.Error()))
		return
	}
	table, err := s.dashboard.ListingsByReviews(minimum, maximum)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

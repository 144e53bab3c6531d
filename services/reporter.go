package services

import (
	"fmt"
	"io"
	"strings"

	"airbnb-dashboard/models"
)

const reportWidth = 72

// PrintInsightReport formats the dashboard views for a terminal
func PrintInsightReport(w io.Writer, report *models.InsightReport) {
	border := strings.Repeat("═", reportWidth)
	thin := strings.Repeat("─", reportWidth)

	fmt.Fprintf(w, "\n╔%s╗\n", border)
	fmt.Fprintf(w, "║%s║\n", center("VIENNA AIRBNB ANALYSIS", reportWidth))
	fmt.Fprintf(w, "╚%s╝\n", border)

	fmt.Fprintf(w, "\n OVERVIEW\n%s\n", thin)
	fmt.Fprintf(w, "  Listings loaded         : %d\n", report.TotalListings)
	fmt.Fprintf(w, "  Price range             : $%.2f - $%.2f (clipped at $%.0f)\n",
		report.Bounds.Min, report.Bounds.Max, PriceClip)

	fmt.Fprintf(w, "\n FIRST LISTINGS\n%s\n", thin)
	if report.ColumnsError != "" {
		fmt.Fprintf(w, "  ! %s\n", report.ColumnsError)
	} else {
		printTable(w, report.Columns)
	}

	fmt.Fprintf(w, "\n PROPERTIES PRICED AT $%.0f AND ABOVE\n%s\n", report.MinPrice, thin)
	fmt.Fprintf(w, "  %d listings with coordinates\n", len(report.Expensive))
	for _, p := range report.Expensive {
		fmt.Fprintf(w, "  %-40s $%8.2f  (%.5f, %.5f)\n", truncate(p.Name, 40), p.Price, p.Latitude, p.Longitude)
	}

	fmt.Fprintf(w, "\n AVERAGE PRICE BY ROOM TYPE\n%s\n", thin)
	for _, rt := range report.RoomTypes {
		fmt.Fprintf(w, "  %-25s %10s\n", rt.RoomType+":", rt.Display)
	}

	fmt.Fprintf(w, "\n HOSTS WITH THE MOST PROPERTIES\n%s\n", thin)
	if report.Hosts != nil {
		for _, s := range report.Hosts.Sentences {
			fmt.Fprintf(w, "  %s%s\n", s.HostName, s.Rest)
		}
	}

	fmt.Fprintf(w, "\n PRICE DISTRIBUTION\n%s\n", thin)
	if report.HistogramError != "" {
		fmt.Fprintf(w, "  ! %s\n", report.HistogramError)
	} else if report.Histogram != nil {
		printHistogram(w, report.Histogram)
	}

	fmt.Fprintf(w, "\n PROPERTIES BY NUMBER OF REVIEWS\n%s\n", thin)
	if report.ReviewsError != "" {
		fmt.Fprintf(w, "  ! %s\n", report.ReviewsError)
	} else {
		printTable(w, report.Reviews)
	}

	fmt.Fprintf(w, "\n%s\n\n", border)
}

func printTable(w io.Writer, t *models.Table) {
	if t == nil || len(t.Rows) == 0 {
		fmt.Fprintln(w, "  (no rows)")
		return
	}
	const cell = 22
	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = fmt.Sprintf("%-*s", cell, truncate(c, cell))
	}
	fmt.Fprintf(w, "  %5s  %s\n", "#", strings.Join(header, " "))
	for r, row := range t.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprintf("%-*s", cell, truncate(v, cell))
		}
		fmt.Fprintf(w, "  %5d  %s\n", t.Index[r], strings.Join(cells, " "))
	}
}

func printHistogram(w io.Writer, h *models.Histogram) {
	peak := 0
	for _, b := range h.Bins {
		peak = max(peak, b.Count)
	}
	for _, b := range h.Bins {
		bar := 0
		if peak > 0 {
			bar = b.Count * 40 / peak
		}
		fmt.Fprintf(w, "  %7.2f - %7.2f %5d  %s\n", b.Lower, b.Upper, b.Count, strings.Repeat("▓", bar))
	}
	fmt.Fprintf(w, "  %d listings between $%.2f and $%.2f\n", h.Total, h.Min, h.Max)
}

func center(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return s
	}
	pad := (width - len(runes)) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-len(runes)-pad)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

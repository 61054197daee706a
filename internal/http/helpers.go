package http

import (
	"html/template"
	"math"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"xlsdash/internal/services"
)

var numberPrinter = message.NewPrinter(language.English)

// formatNumber renders a measure with thousands separators and at most two decimals.
func formatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	if v == math.Trunc(v) {
		if math.Abs(v) > math.MaxInt64 {
			return numberPrinter.Sprintf("%.0f", v)
		}
		return numberPrinter.Sprintf("%d", int64(v))
	}
	return numberPrinter.Sprintf("%.2f", v)
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	return strings.TrimSpace(stripControl(s))
}

// stripControl removes control characters but keeps spaces, so values
// compared against cell contents still match exactly.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// isHTMX reports whether the request was issued by htmx.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// encodeQuery renders q back into URL parameters, omitting empty values.
func encodeQuery(q services.Query) string {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("sheet", q.Sheet)
	set("city", q.City)
	set("city_type", q.CityType)
	set("month", q.Month)
	set("mode", string(q.Mode))
	return v.Encode()
}

// barWidth scales value against max into a 0..100 percentage, keeping tiny bars visible.
func barWidth(value, max float64) int {
	if max <= 0 || value <= 0 {
		return 0
	}
	width := int(math.Round(value * 100 / max))
	if width < 2 {
		width = 2
	}
	if width > 100 {
		width = 100
	}
	return width
}

// chartURL and exportURL return trusted URLs: every value passes through url.Values.Encode.
func chartURL(q services.Query) template.URL {
	return template.URL("/chart.png?" + encodeQuery(q))
}

func exportURL(q services.Query, format string) template.URL {
	q.Month, q.Mode = "", ""
	v := encodeQuery(q)
	if v != "" {
		v = "&" + v
	}
	return template.URL("/export?format=" + url.QueryEscape(format) + v)
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatNumber": formatNumber,
		"chartURL":     chartURL,
		"exportURL":    exportURL,
	}
}

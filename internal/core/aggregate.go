package core

import "sort"

// Mode selects the aggregation grouping.
type Mode string

const (
	ByMonth Mode = "month"
	ByCity  Mode = "city"
)

// ParseMode maps user input to a Mode, defaulting to ByMonth.
func ParseMode(s string) Mode {
	if Mode(s) == ByCity {
		return ByCity
	}
	return ByMonth
}

// SumByMonth groups rows by Month and sums Projected_Enrollments.
// Rows without a Month form the "" group. Keys are sorted ascending.
func SumByMonth(rows []Row) []GroupTotal {
	return sumBy(rows, func(r Row) string { return r.Get(ColMonth) })
}

// SumByCity groups the rows of one month by City. Rows without a City are keyed UnknownCity.
func SumByCity(rows []Row, month string) []GroupTotal {
	return sumBy(FilterMonth(rows, month), cityKey)
}

func cityKey(r Row) string {
	if c := r.Get(ColCity); c != "" {
		return c
	}
	return UnknownCity
}

func sumBy(rows []Row, key func(Row) string) []GroupTotal {
	sums := make(map[string]float64)
	for _, r := range rows {
		sums[key(r)] += ParseMeasure(r.Get(ColEnrollments))
	}
	out := make([]GroupTotal, 0, len(sums))
	for k, v := range sums {
		out = append(out, GroupTotal{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// ResolveMonth returns selected, or the first key of byMonth when nothing is selected.
// ok is false when no month can be resolved.
func ResolveMonth(selected string, byMonth []GroupTotal) (month string, ok bool) {
	if selected != "" {
		return selected, true
	}
	if len(byMonth) == 0 {
		return "", false
	}
	return byMonth[0].Key, true
}

// Extremes holds the largest and smallest city totals of a month.
type Extremes struct {
	Month string     `json:"month" yaml:"month"`
	Max   GroupTotal `json:"max" yaml:"max"`
	Min   GroupTotal `json:"min" yaml:"min"`
}

// MaxMin orders groups by value descending and returns the first and last entries.
// Ties keep their key order. It returns ErrNoData for an empty grouping.
func MaxMin(groups []GroupTotal) (hi, lo GroupTotal, err error) {
	if len(groups) == 0 {
		return GroupTotal{}, GroupTotal{}, ErrNoData
	}
	sorted := append([]GroupTotal(nil), groups...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Value > sorted[j].Value })
	return sorted[0], sorted[len(sorted)-1], nil
}

// MonthExtremes computes the city max/min for month, falling back to the first month in
// rows when month is empty. It returns ErrNoData when no row matches.
func MonthExtremes(rows []Row, month string) (Extremes, error) {
	m, ok := ResolveMonth(month, SumByMonth(rows))
	if !ok {
		return Extremes{}, ErrNoData
	}
	hi, lo, err := MaxMin(SumByCity(rows, m))
	if err != nil {
		return Extremes{Month: m}, err
	}
	return Extremes{Month: m, Max: hi, Min: lo}, nil
}

// Total sums the values of groups.
func Total(groups []GroupTotal) float64 {
	var sum float64
	for _, g := range groups {
		sum += g.Value
	}
	return sum
}

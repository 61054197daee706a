package core

// All is the sentinel filter value meaning "no constraint".
const All = "all"

// Criteria are optional exact-match constraints. Empty or All means unconstrained.
type Criteria struct {
	City     string `json:"city,omitempty" yaml:"city,omitempty"`
	CityType string `json:"city_type,omitempty" yaml:"city_type,omitempty"`
}

// IsZero reports whether the criteria leave every row in place.
func (c Criteria) IsZero() bool {
	return !active(c.City) && !active(c.CityType)
}

func active(v string) bool {
	return v != "" && v != All
}

// Filter returns the ordered subsequence of rows matching c. Missing fields compare as "".
func Filter(rows []Row, c Criteria) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if active(c.City) && r.Get(ColCity) != c.City {
			continue
		}
		if active(c.CityType) && r.Get(ColCityType) != c.CityType {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterMonth returns the rows whose Month equals month exactly.
func FilterMonth(rows []Row, month string) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.Get(ColMonth) == month {
			out = append(out, r)
		}
	}
	return out
}

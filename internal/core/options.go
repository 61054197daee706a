package core

import "sort"

// Options lists the distinct non-empty values offered as filter choices, each sorted.
type Options struct {
	Cities    []string `json:"cities" yaml:"cities"`
	CityTypes []string `json:"city_types" yaml:"city_types"`
	Months    []string `json:"months" yaml:"months"`
}

// DistinctOptions collects filter choices from rows.
func DistinctOptions(rows []Row) Options {
	return Options{
		Cities:    distinct(rows, ColCity),
		CityTypes: distinct(rows, ColCityType),
		Months:    distinct(rows, ColMonth),
	}
}

func distinct(rows []Row, col string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range rows {
		v := r.Get(col)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

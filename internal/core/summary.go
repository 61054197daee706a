package core

import "github.com/montanaflynn/stats"

// Stats describes the distribution of group totals in one aggregation.
type Stats struct {
	Groups int     `json:"groups" yaml:"groups"`
	Sum    float64 `json:"sum" yaml:"sum"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
}

// Describe summarizes groups. An empty grouping yields the zero Stats.
func Describe(groups []GroupTotal) Stats {
	if len(groups) == 0 {
		return Stats{}
	}
	data := make(stats.Float64Data, len(groups))
	for i, g := range groups {
		data[i] = g.Value
	}
	sum, _ := data.Sum()
	mean, _ := data.Mean()
	median, _ := data.Median()
	return Stats{Groups: len(groups), Sum: sum, Mean: mean, Median: median}
}

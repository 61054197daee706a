// Package normalize turns raw sheet cells into canonical rows.
//
// Header spellings are matched against a fixed, ordered rule table so that
// "city type", "CITY_TYPE" and "City Type" all land on the same column.
package normalize

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"xlsdash/internal/core"
)

// Rule maps headers whose comparison key satisfies Match to Canonical.
type Rule struct {
	Name      string
	Canonical string
	Match     func(key string) bool
}

// rules are evaluated in order; the enroll substring rule must stay last.
var rules = []Rule{
	{Name: "month", Canonical: core.ColMonth, Match: equals("month")},
	{Name: "city", Canonical: core.ColCity, Match: equals("city")},
	{Name: "city_type", Canonical: core.ColCityType, Match: equals("city_type")},
	{Name: "enrollments", Canonical: core.ColEnrollments, Match: func(key string) bool {
		return key == "projected_enrollments" || strings.Contains(key, "enroll")
	}},
}

func equals(want string) func(string) bool {
	return func(key string) bool { return key == want }
}

// Rules returns a copy of the rule table in evaluation order.
func Rules() []Rule {
	return append([]Rule(nil), rules...)
}

// Key returns the comparison form of a header: NFKC, trimmed, case-folded,
// with whitespace runs collapsed to a single underscore.
func Key(raw string) string {
	s := norm.NFKC.String(strings.TrimSpace(raw))
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), "_")
}

// Header returns the canonical name for raw, or raw trimmed when no rule applies.
func Header(raw string) string {
	key := Key(raw)
	for _, r := range rules {
		if r.Match(key) {
			return r.Canonical
		}
	}
	return strings.TrimSpace(raw)
}

// Synthetic returns the fallback column name for a 1-indexed position.
func Synthetic(position int) string {
	return "Col" + strconv.Itoa(position)
}

// Columns normalizes a header row.
//
// keys[i] is the row key for cell i: the normalized header, or Col<i+1> when the
// header is empty. columns[i] is the same name unless it repeats an earlier column,
// in which case it becomes Col<i+1> so the column list stays unique.
func Columns(headers []string) (columns, keys []string) {
	columns = make([]string, len(headers))
	keys = make([]string, len(headers))
	seen := make(map[string]struct{}, len(headers))
	for i, h := range headers {
		name := Header(h)
		if name == "" {
			name = Synthetic(i + 1)
		}
		keys[i] = name
		if _, dup := seen[name]; dup {
			name = unusedSynthetic(i+1, seen)
		}
		seen[name] = struct{}{}
		columns[i] = name
	}
	return columns, keys
}

// unusedSynthetic returns Col<position>, suffixed when a literal header already took it.
func unusedSynthetic(position int, seen map[string]struct{}) string {
	name := Synthetic(position)
	for n := 2; ; n++ {
		if _, taken := seen[name]; !taken {
			return name
		}
		name = Synthetic(position) + "_" + strconv.Itoa(n)
	}
}

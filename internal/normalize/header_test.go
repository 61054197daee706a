package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"xlsdash/internal/core"
)

func TestHeader(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"month", core.ColMonth},
		{"  MONTH ", core.ColMonth},
		{"City", core.ColCity},
		{"city type", core.ColCityType},
		{"City_Type", core.ColCityType},
		{"CITY   TYPE", core.ColCityType},
		{"projected enrollments", core.ColEnrollments},
		{"Enrollment Count", core.ColEnrollments},
		{"ENROLLED", core.ColEnrollments},
		{"Ｃｉｔｙ", core.ColCity},
		{"  Region ", "Region"},
		{"Month Name", "Month Name"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Header(tc.in), "Header(%q)", tc.in)
	}
}

func TestHeaderIsIdempotent(t *testing.T) {
	for _, in := range []string{core.ColMonth, core.ColCity, core.ColCityType, core.ColEnrollments, "Region", "Month Name", "Col7"} {
		once := Header(in)
		assert.Equal(t, once, Header(once), "Header(Header(%q))", in)
		assert.Equal(t, once, Header(in))
	}
	assert.Equal(t, core.ColMonth, Header(core.ColMonth))
}

func TestRulesOrder(t *testing.T) {
	rs := Rules()
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"month", "city", "city_type", "enrollments"}, names)

	// Every rule accepts its own canonical name.
	for _, r := range rs {
		assert.True(t, r.Match(Key(r.Canonical)), r.Name)
	}
	// The substring rule comes after exact matches: "month" never reaches it.
	assert.False(t, rs[3].Match(Key("Month")))
}

func TestColumns(t *testing.T) {
	columns, keys := Columns([]string{"Month", "", "City", "enrollment a", "Enrollment B", " Notes "})
	assert.Equal(t, []string{core.ColMonth, "Col2", core.ColCity, core.ColEnrollments, "Col5", "Notes"}, columns)
	assert.Equal(t, []string{core.ColMonth, "Col2", core.ColCity, core.ColEnrollments, core.ColEnrollments, "Notes"}, keys)
}

func TestColumnsStayUnique(t *testing.T) {
	columns, _ := Columns([]string{"Col3", "x", "Col3"})
	assert.Equal(t, []string{"Col3", "x", "Col3_2"}, columns)

	seen := map[string]bool{}
	for _, c := range columns {
		assert.False(t, seen[c], "duplicate column %q", c)
		seen[c] = true
	}
}

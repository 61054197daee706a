package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []Row {
	return []Row{
		NewRow(map[string]string{ColMonth: "Jan", ColCity: "A", ColCityType: "Metro", ColEnrollments: "10"}),
		NewRow(map[string]string{ColMonth: "Jan", ColCity: "B", ColCityType: "Town", ColEnrollments: "5"}),
		NewRow(map[string]string{ColMonth: "Feb", ColCity: "A", ColCityType: "Metro", ColEnrollments: "7"}),
	}
}

func TestSumByMonth_Example(t *testing.T) {
	got := SumByMonth(sampleRows())
	assert.Equal(t, []GroupTotal{{Key: "Feb", Value: 7}, {Key: "Jan", Value: 15}}, got)
}

func TestSumByCity_Example(t *testing.T) {
	got := SumByCity(sampleRows(), "Jan")
	assert.Equal(t, []GroupTotal{{Key: "A", Value: 10}, {Key: "B", Value: 5}}, got)

	ex, err := MonthExtremes(sampleRows(), "Jan")
	require.NoError(t, err)
	assert.Equal(t, "Jan", ex.Month)
	assert.Equal(t, GroupTotal{Key: "A", Value: 10}, ex.Max)
	assert.Equal(t, GroupTotal{Key: "B", Value: 5}, ex.Min)
}

func TestSumByMonth_MissingAndNonNumeric(t *testing.T) {
	rows := []Row{
		NewRow(map[string]string{ColEnrollments: "3"}),
		NewRow(map[string]string{ColMonth: "Mar", ColEnrollments: "n/a"}),
		NewRow(map[string]string{ColMonth: "Mar"}),
		NewRow(map[string]string{ColMonth: "Mar", ColEnrollments: "2.5"}),
	}
	got := SumByMonth(rows)
	assert.Equal(t, []GroupTotal{{Key: "", Value: 3}, {Key: "Mar", Value: 2.5}}, got)
}

func TestSumByMonth_TotalsMatchRows(t *testing.T) {
	rows := sampleRows()
	var want float64
	for _, r := range rows {
		want += ParseMeasure(r.Get(ColEnrollments))
	}
	assert.InDelta(t, want, Total(SumByMonth(rows)), 1e-9)
}

func TestSumByCity_UnknownCity(t *testing.T) {
	rows := []Row{
		NewRow(map[string]string{ColMonth: "Jan", ColEnrollments: "4"}),
		NewRow(map[string]string{ColMonth: "Jan", ColCity: "", ColEnrollments: "1"}),
		NewRow(map[string]string{ColMonth: "Jan", ColCity: "Z", ColEnrollments: "2"}),
		NewRow(map[string]string{ColMonth: "Feb", ColCity: "Z", ColEnrollments: "9"}),
	}
	got := SumByCity(rows, "Jan")
	assert.Equal(t, []GroupTotal{{Key: UnknownCity, Value: 5}, {Key: "Z", Value: 2}}, got)
}

func TestResolveMonth(t *testing.T) {
	byMonth := []GroupTotal{{Key: "Feb"}, {Key: "Jan"}}

	m, ok := ResolveMonth("Jan", byMonth)
	assert.True(t, ok)
	assert.Equal(t, "Jan", m)

	m, ok = ResolveMonth("", byMonth)
	assert.True(t, ok)
	assert.Equal(t, "Feb", m)

	_, ok = ResolveMonth("", nil)
	assert.False(t, ok)
}

func TestMonthExtremes_DefaultMonth(t *testing.T) {
	ex, err := MonthExtremes(sampleRows(), "")
	require.NoError(t, err)
	assert.Equal(t, "Feb", ex.Month)
	assert.Equal(t, ex.Max, ex.Min)
	assert.Equal(t, GroupTotal{Key: "A", Value: 7}, ex.Max)
}

func TestMonthExtremes_NoData(t *testing.T) {
	_, err := MonthExtremes(sampleRows(), "Dec")
	assert.ErrorIs(t, err, ErrNoData)

	_, err = MonthExtremes(nil, "")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestMaxMin_Bounds(t *testing.T) {
	groups := []GroupTotal{{"a", 3}, {"b", -1}, {"c", 12}, {"d", 12}, {"e", 0}}
	hi, lo, err := MaxMin(groups)
	require.NoError(t, err)
	for _, g := range groups {
		assert.GreaterOrEqual(t, hi.Value, g.Value)
		assert.LessOrEqual(t, lo.Value, g.Value)
	}
	assert.Equal(t, "c", hi.Key, "ties keep key order")
	assert.Equal(t, "b", lo.Key)
	assert.Equal(t, "a", groups[0].Key, "input is not reordered")
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ByCity, ParseMode("city"))
	assert.Equal(t, ByMonth, ParseMode("month"))
	assert.Equal(t, ByMonth, ParseMode(""))
	assert.Equal(t, ByMonth, ParseMode("bogus"))
}

func TestDescribe(t *testing.T) {
	s := Describe([]GroupTotal{{"a", 1}, {"b", 3}, {"c", 8}})
	assert.Equal(t, 3, s.Groups)
	assert.InDelta(t, 12, s.Sum, 1e-9)
	assert.InDelta(t, 4, s.Mean, 1e-9)
	assert.InDelta(t, 3, s.Median, 1e-9)

	assert.Equal(t, Stats{}, Describe(nil))
}

package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowIsImmutable(t *testing.T) {
	src := map[string]string{ColCity: "A"}
	r := NewRow(src)
	src[ColCity] = "B"
	assert.Equal(t, "A", r.Get(ColCity))

	_, ok := r.Lookup(ColMonth)
	assert.False(t, ok)
	assert.Equal(t, "", r.Get(ColMonth))
}

func TestRowMarshalJSON(t *testing.T) {
	b, err := json.Marshal(NewRow(map[string]string{ColCity: "A", ColMonth: "Jan"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"City":"A","Month":"Jan"}`, string(b))

	b, err = json.Marshal(Row{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(b))
}

func TestWorkbookOrderAndLookup(t *testing.T) {
	wb := NewWorkbook("id", "book.xlsx", []*Sheet{
		NewSheet("Zeta", nil, nil),
		NewSheet("Alpha", []string{ColMonth}, []Row{NewRow(nil)}),
	})
	assert.Equal(t, []string{"Zeta", "Alpha"}, wb.SheetNames())

	s, ok := wb.Sheet("Alpha")
	require.True(t, ok)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, []string{ColMonth}, s.Columns())

	first, err := wb.SheetOrFirst("")
	require.NoError(t, err)
	assert.Equal(t, "Zeta", first.Name())
	assert.Empty(t, first.Columns())

	_, err = wb.SheetOrFirst("missing")
	assert.ErrorIs(t, err, ErrSheetNotFound)

	_, err = NewWorkbook("id", "", nil).SheetOrFirst("")
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestSheetAccessorsReturnCopies(t *testing.T) {
	s := NewSheet("S", []string{"A"}, []Row{NewRow(map[string]string{"A": "1"})})
	cols := s.Columns()
	cols[0] = "changed"
	assert.Equal(t, []string{"A"}, s.Columns())
}

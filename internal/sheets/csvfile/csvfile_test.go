package csvfile

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xlsdash/internal/core"
)

func TestSheetName(t *testing.T) {
	assert.Equal(t, "enrollments", SheetName("enrollments.csv"))
	assert.Equal(t, "data.v2", SheetName("/tmp/data.v2.csv"))
	assert.Equal(t, DefaultSheetName, SheetName(""))
	assert.True(t, IsCSV("A.CSV"))
	assert.False(t, IsCSV("a.xlsx"))
}

func TestDecode(t *testing.T) {
	in := "\ufeffMonth,City,Projected Enrollments\n2024-01,Rome,10\n2024-02,\"Milan, North\"\n"
	sheets, err := New("plan.csv").Decode(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, sheets, 1)

	s := sheets[0]
	assert.Equal(t, "plan", s.Name)
	require.Len(t, s.Cells, 3)
	assert.Equal(t, "Month", s.Cells[0][0])
	assert.Equal(t, []string{"2024-02", "Milan, North"}, s.Cells[2])
}

func TestDecode_Empty(t *testing.T) {
	sheets, err := New("empty.csv").Decode(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	assert.Empty(t, sheets[0].Cells)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := New("x.csv").Decode(context.Background(), strings.NewReader("a,b\n\"never closed,1\n"))
	assert.ErrorIs(t, err, core.ErrDecode)
}

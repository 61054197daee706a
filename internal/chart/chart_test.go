package chart

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xlsdash/internal/core"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestRenderBar(t *testing.T) {
	var buf bytes.Buffer
	err := RenderBar(&buf, "Enrollments by month", []core.GroupTotal{
		{Key: "2024-01", Value: 15},
		{Key: "2024-02", Value: 30},
		{Key: "2024-03", Value: 0},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))
}

func TestRenderBar_FlatAndNegative(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderBar(&buf, "", []core.GroupTotal{{Key: "A", Value: 0}}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))

	buf.Reset()
	require.NoError(t, RenderBar(&buf, "", []core.GroupTotal{{Key: "A", Value: -4}, {Key: "B", Value: 6}}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))
}

func TestRenderBar_Empty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, RenderBar(&buf, "x", nil), core.ErrNoData)
	assert.Zero(t, buf.Len())
}

func TestWidthBounds(t *testing.T) {
	assert.Equal(t, minWidth, Width(1))
	assert.Equal(t, maxWidth, Width(500))
	assert.Greater(t, Width(12), Width(8))
}

func TestYRange(t *testing.T) {
	r := yRange([]core.GroupTotal{{Value: 5}, {Value: 10}})
	assert.Equal(t, 0.0, r.Min)
	assert.InDelta(t, 11.0, r.Max, 1e-9)

	r = yRange([]core.GroupTotal{{Value: -3}})
	assert.Equal(t, -3.0, r.Min)
	assert.Greater(t, r.Max, r.Min)
}

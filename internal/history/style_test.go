package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/folio/internal/ir"
	"github.com/roach88/folio/internal/testutil"
)

func sized(n float64) ir.Style {
	return ir.Style{FontSize: n, FontFamily: "Inter", Color: "#111111"}
}

func TestStyleHistory_AddAndLast(t *testing.T) {
	h := NewStyleHistory(10)

	_, ok := h.Last()
	assert.False(t, ok)

	assert.True(t, h.Add(sized(12)))
	assert.True(t, h.Add(sized(14)))

	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, sized(14), last)
	assert.Equal(t, 2, h.Len())
}

func TestStyleHistory_SkipsRepeatOfLast(t *testing.T) {
	h := NewStyleHistory(10)

	h.Add(sized(12))
	assert.False(t, h.Add(sized(12)))
	assert.Equal(t, 1, h.Len())

	// Only the latest entry is compared.
	h.Add(sized(14))
	assert.True(t, h.Add(sized(12)))
	assert.Equal(t, 3, h.Len())
}

func TestStyleHistory_EvictsOldest(t *testing.T) {
	h := NewStyleHistory(3)
	for i := 1; i <= 5; i++ {
		h.Add(sized(float64(i)))
	}

	assert.Equal(t, []ir.Style{sized(3), sized(4), sized(5)}, h.All())
}

func TestStyleHistory_Recent(t *testing.T) {
	h := NewStyleHistory(10)
	for i := 1; i <= 4; i++ {
		h.Add(sized(float64(i)))
	}

	assert.Equal(t, []ir.Style{sized(3), sized(4)}, h.Recent(2))
	assert.Len(t, h.Recent(10), 4)
	assert.Empty(t, h.Recent(0))
}

func TestStyleHistory_Clear(t *testing.T) {
	h := NewStyleHistory(10)
	h.Add(sized(12))

	h.Clear()

	assert.Equal(t, 0, h.Len())
	assert.Empty(t, h.All())
	assert.True(t, h.Add(sized(12)))
}

func TestStyleHistory_DefaultLimit(t *testing.T) {
	h := NewStyleHistory(0)
	for i := 0; i < DefaultStyleHistorySize+5; i++ {
		h.Add(sized(float64(i)))
	}
	assert.Equal(t, DefaultStyleHistorySize, h.Len())
}

func TestStyleHistory_EntriesCarryTimestamps(t *testing.T) {
	clock := testutil.NewManualClock()
	h := NewStyleHistory(10)
	h.SetClock(clock)

	h.Add(sized(12))
	clock.Advance(time.Minute)
	h.Add(sized(14))

	entries := h.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, testutil.Epoch, entries[0].Timestamp)
	assert.Equal(t, testutil.Epoch.Add(time.Minute), entries[1].Timestamp)

	// The returned slice is a copy.
	entries[0].Style.FontSize = 99
	assert.Equal(t, sized(12), h.All()[0])
}

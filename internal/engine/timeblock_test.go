package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTimeBlock(t *testing.T) {
	cases := []struct {
		raw   string
		start float64
		end   float64
	}{
		{"8-9AM", 480, 540},
		{"11-12NN", 660, 720},
		{"1-3PM", 780, 900},
		{"4-5PM", 960, 1020},
		{"16:00-17:00", 960, 1020},
		{"8:30-9:45AM", 510, 585},
		{"7-8:30AM", 420, 510},
		{"10AM-1PM", 600, 780},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got := ParseTimeBlock(tc.raw)
			assert.Equal(t, tc.start, got.Start)
			assert.Equal(t, tc.end, got.End)
			assert.True(t, got.Valid())
		})
	}
}

func TestParseTimeBlockUnparseable(t *testing.T) {
	for _, raw := range []string{"", "TBA", "tba", "whenever", "25-26PM", "9AM"} {
		t.Run("raw="+raw, func(t *testing.T) {
			got := ParseTimeBlock(raw)
			assert.True(t, math.IsNaN(got.Start))
			assert.True(t, math.IsNaN(got.End))
			assert.False(t, got.Valid())
		})
	}
}

func TestParseTimeBlockInvertedRange(t *testing.T) {
	// Trailing PM applies to both halves, which inverts the range.
	got := ParseTimeBlock("11-1PM")
	assert.False(t, got.Valid())
}

func TestTimeIntervalOverlaps(t *testing.T) {
	a := TimeInterval{Start: 480, End: 540}
	b := TimeInterval{Start: 530, End: 600}
	c := TimeInterval{Start: 540, End: 600}

	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))
	// Touching endpoints do not overlap under max(s) < min(e).
	assert.False(t, a.Overlaps(c))
	assert.False(t, a.Overlaps(invalidInterval))
}

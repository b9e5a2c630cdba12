package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDays(t *testing.T) {
	cases := []struct {
		raw  string
		want []Weekday
	}{
		{"MON-FRI", []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}},
		{"Fri,Mon", []Weekday{Monday, Friday}},
		{"Mon Wed Fri", []Weekday{Monday, Wednesday, Friday}},
		{"TUE/THU", []Weekday{Tuesday, Thursday}},
		{"sat;sun", []Weekday{Saturday, Sunday}},
		{"M & W", []Weekday{Monday, Wednesday}},
		{"WED-MON", nil},
		{"sometime", nil},
		{"", nil},
	}
	for _, tc := range cases {
		t.Run("raw="+tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseDays(tc.raw))
		})
	}
}

func TestParseDaysDropsUnknownTokens(t *testing.T) {
	assert.Equal(t, []Weekday{Monday, Friday}, ParseDays("MON, HOLIDAY, FRI"))
}

func TestDayStrings(t *testing.T) {
	assert.Equal(t, []string{"Mon", "Thu"}, DayStrings([]Weekday{Monday, Thursday}))
}

package timeslot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"12:00 AM", 0},
		{"1:00 AM", 60},
		{"10:30 AM", 630},
		{"12:00 PM", 720},
		{"7:45 PM", 1185},
		{"11:59 PM", 1439},
		{"00:00", 0},
		{"15:04", 904},
		{" 9:15 am ", 555},
		{"garbage", 0},
		{"", 0},
		{"25:00", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ToMinutes(tt.in), "input %q", tt.in)
	}
}

func TestParseSlot(t *testing.T) {
	iv, err := ParseSlot("10:00 AM - 11:30 AM")
	require.NoError(t, err)
	assert.Equal(t, Interval{Start: 600, End: 690}, iv)
	assert.Equal(t, 90, iv.Duration())

	_, err = ParseSlot("10:00 AM")
	assert.Error(t, err)

	_, err = ParseSlot("banana - 11:00 AM")
	assert.Error(t, err)
}

func TestParseSlotMidnightCrossing(t *testing.T) {
	iv, err := ParseSlot("11:00 PM - 12:30 AM")
	require.NoError(t, err)
	assert.Equal(t, 1380, iv.Start)
	assert.Equal(t, 1470, iv.End)
	assert.Equal(t, 90, iv.Duration())
}

func TestOverlaps(t *testing.T) {
	tenToEleven := Normalize(600, 660)
	halfPastTen := Normalize(630, 690)
	elevenToNoon := Normalize(660, 720)

	assert.True(t, Overlaps(tenToEleven, halfPastTen))
	// Touching endpoints do not overlap.
	assert.False(t, Overlaps(tenToEleven, elevenToNoon))
	assert.True(t, Overlaps(tenToEleven, tenToEleven))
}

func TestOverlapsSymmetry(t *testing.T) {
	pairs := [][2]Interval{
		{Normalize(600, 660), Normalize(630, 690)},
		{Normalize(600, 660), Normalize(660, 720)},
		{Normalize(1380, 30), Normalize(15, 60)},
		{Normalize(1380, 30), Normalize(60, 120)},
		{Normalize(0, 1439), Normalize(720, 780)},
	}

	for _, p := range pairs {
		assert.Equal(t, Overlaps(p[0], p[1]), Overlaps(p[1], p[0]), "pair %+v", p)
	}
}

func TestOverlapsMidnightCrossing(t *testing.T) {
	lateNight, err := ParseSlot("11:00 PM - 12:30 AM")
	require.NoError(t, err)

	earlyMorning, err := ParseSlot("12:15 AM - 1:00 AM")
	require.NoError(t, err)

	later, err := ParseSlot("1:00 AM - 2:00 AM")
	require.NoError(t, err)

	assert.True(t, Overlaps(lateNight, earlyMorning))
	assert.True(t, Overlaps(earlyMorning, lateNight))
	assert.False(t, Overlaps(lateNight, later))
	assert.False(t, Overlaps(later, lateNight))
}

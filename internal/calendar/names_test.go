package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthName(t *testing.T) {
	c := NewConverter(DefaultNames)

	name, err := c.MonthName(1)
	require.NoError(t, err)
	assert.Equal(t, "فروردین", name)

	name, err = c.MonthName(12)
	require.NoError(t, err)
	assert.Equal(t, "اسفند", name)

	for _, month := range []int{0, 13} {
		_, err := c.MonthName(month)
		assert.ErrorIs(t, err, ErrInvalidMonth)
	}
}

func TestDayNameRotation(t *testing.T) {
	c := NewConverter(DefaultNames)

	for w := Monday; w <= Sunday; w++ {
		want := DefaultNames.Days[(int(w)+1)%7]
		assert.Equal(t, want, c.DayName(w))
		assert.Equal(t, c.DayName(w), c.DayName(w))
	}

	assert.Equal(t, "شنبه", c.DayName(Sunday))
	assert.Equal(t, "یکشنبه", c.DayName(Monday))
}

func TestConverterUsesInjectedNames(t *testing.T) {
	names := Names{
		Months: [12]string{"m1", "m2", "m3", "m4", "m5", "m6", "m7", "m8", "m9", "m10", "m11", "m12"},
		Days:   [7]string{"d0", "d1", "d2", "d3", "d4", "d5", "d6"},
	}
	c := NewConverter(names)

	name, err := c.MonthName(7)
	require.NoError(t, err)
	assert.Equal(t, "m7", name)
	assert.Equal(t, "d3", c.DayName(Wednesday))
}

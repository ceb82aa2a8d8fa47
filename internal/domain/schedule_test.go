package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodKeyString(t *testing.T) {
	assert.Equal(t, "1402-1", PeriodKey{Year: 1402, Month: 1}.String())
	assert.Equal(t, "1403-12", PeriodKey{Year: 1403, Month: 12}.String())
}

func TestParsePeriodKey(t *testing.T) {
	key, err := ParsePeriodKey("1402-7")
	require.NoError(t, err)
	assert.Equal(t, PeriodKey{Year: 1402, Month: 7}, key)

	for _, bad := range []string{"", "1402", "1402-", "-7", "abc-1", "1402-x"} {
		_, err := ParsePeriodKey(bad)
		assert.Error(t, err, bad)
	}
}

func TestDayScheduleAssignment(t *testing.T) {
	days := DaySchedule{"1": {"shift1": "Ali"}}

	name, ok := days.Assignment(1, "shift1")
	assert.True(t, ok)
	assert.Equal(t, "Ali", name)

	_, ok = days.Assignment(1, "shift2")
	assert.False(t, ok)

	_, ok = days.Assignment(2, "shift1")
	assert.False(t, ok)
}

func TestWorkplaceScheduleCloneIsDeep(t *testing.T) {
	ws := WorkplaceSchedule{"Nodal": {"1": {"shift1": "Ali"}}}
	clone := ws.Clone()
	clone["Nodal"]["1"]["shift1"] = "Reza"

	assert.Equal(t, "Ali", ws["Nodal"]["1"]["shift1"])
}

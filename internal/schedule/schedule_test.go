package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeToMinutes(t *testing.T) {
	cases := map[string]int{
		"00:00":    0,
		"08:00":    480,
		"11:30":    690,
		"23:59":    1439,
		"24:00":    1440,
		"18:00:00": 1080,
	}
	for in, want := range cases {
		got, err := TimeToMinutes(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "8:00", "08", "25:00", "10:60", "24:30", "aa:bb", "10:00:xx", "10:00:5", "10:00:60", "+8:00", "10:00:00:00"} {
		_, err := TimeToMinutes(bad)
		assert.Error(t, err, bad)
	}
}

func TestMinutesToTimeRoundTrip(t *testing.T) {
	for m := 0; m <= MinutesPerDay; m += 17 {
		back, err := TimeToMinutes(MinutesToTime(m))
		require.NoError(t, err)
		assert.Equal(t, m, back)
	}
	assert.Equal(t, "07:05", MinutesToTime(425))
}

func TestBuildHourlySlots(t *testing.T) {
	slots, err := BuildHourlySlots("08:00", "12:00")
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "09:00", "10:00", "11:00"}, slots)

	slots, err = BuildHourlySlots("08:00", "11:30")
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "09:00", "10:00"}, slots)

	slots, err = BuildHourlySlots("10:00", "10:30")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestBuildHourlySlotsCount(t *testing.T) {
	for start := 0; start < MinutesPerDay; start += 30 {
		for end := start; end <= MinutesPerDay; end += 45 {
			slots := BuildHourlySlotsMinutes(start, end)
			assert.Len(t, slots, (end-start)/SlotMinutes)
		}
	}
}

func TestFitsWindow(t *testing.T) {
	assert.True(t, FitsWindow(480, 480, 720))
	assert.True(t, FitsWindow(660, 480, 720))
	assert.False(t, FitsWindow(690, 480, 720))
	assert.False(t, FitsWindow(420, 480, 720))
}

func TestFilterByPeriod(t *testing.T) {
	slots := []string{"05:00", "06:00", "11:00", "12:00", "17:00", "18:00", "23:00"}

	assert.Equal(t, []string{"06:00", "11:00"}, FilterByPeriod(slots, []string{"manha"}))
	assert.Equal(t, []string{"12:00", "17:00", "18:00", "23:00"}, FilterByPeriod(slots, []string{"tarde", "noite"}))
	assert.Equal(t, []string{"05:00"}, FilterByPeriod(slots, []string{"madrugada", "desconhecido"}))
	assert.Equal(t, slots, FilterByPeriod(slots, []string{"desconhecido"}))
	assert.Equal(t, slots, FilterByPeriod(slots, nil))
}

func TestParsePeriods(t *testing.T) {
	assert.Nil(t, ParsePeriods(""))
	assert.Equal(t, []string{"manha", "noite"}, ParsePeriods(" Manha, ,noite "))
}

func TestWeekdayOf(t *testing.T) {
	wd, err := WeekdayOf("2024-06-03")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, wd)

	wd, err = WeekdayOf("2024-06-09")
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, wd)

	_, err = WeekdayOf("03/06/2024")
	assert.Error(t, err)
}

func TestHasStarted(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	now := time.Date(2024, 6, 3, 10, 0, 0, 0, loc)

	started, err := HasStarted("2024-06-03", "10:00", now)
	require.NoError(t, err)
	assert.True(t, started)

	started, err = HasStarted("2024-06-03", "11:00", now)
	require.NoError(t, err)
	assert.False(t, started)

	started, err = HasStarted("2024-06-02", "23:00", now)
	require.NoError(t, err)
	assert.True(t, started)
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2024, 6, 3, 9, 15, 0, 0, time.UTC)
	c := FixedClock{T: at}
	assert.Equal(t, at, c.Now())
	assert.Equal(t, "2024-06-03", Today(c.Now()))
	assert.Equal(t, 555, MinuteOfDay(c.Now()))
}

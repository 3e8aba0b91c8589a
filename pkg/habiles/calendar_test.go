package habiles

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddHabilesSkipsWeekend(t *testing.T) {
	cal := New(nil)

	// 2024-03-01 is a Friday; one business day later is Monday.
	friday := date(2024, time.March, 1)
	assert.Equal(t, date(2024, time.March, 4), cal.AddHabiles(friday, 1))
}

func TestAddHabilesSkipsHolidays(t *testing.T) {
	newYear := date(2024, time.January, 1) // Monday, feriado
	cal := New([]time.Time{newYear})

	// Starting the Friday before, one business day lands on Tuesday Jan 2.
	assert.Equal(t, date(2024, time.January, 2), cal.AddHabiles(date(2023, time.December, 29), 1))
}

func TestAddHabilesContestacionPlazo(t *testing.T) {
	cal := New(nil)

	// 30 business days from Friday 2024-03-01, no holidays: six full weeks.
	due := cal.AddHabiles(date(2024, time.March, 1), 30)
	assert.Equal(t, date(2024, time.April, 12), due)
	assert.Equal(t, 30, cal.HabilesHasta(date(2024, time.March, 1), due))
}

func TestHabilesHastaSignedCount(t *testing.T) {
	cal := New(nil)

	monday := date(2024, time.March, 4)
	assert.Equal(t, 4, cal.HabilesHasta(monday, date(2024, time.March, 8)))
	assert.Equal(t, -4, cal.HabilesHasta(date(2024, time.March, 8), monday))
	assert.Equal(t, 0, cal.HabilesHasta(monday, monday))

	// Weekend days between do not count.
	assert.Equal(t, 1, cal.HabilesHasta(date(2024, time.March, 8), date(2024, time.March, 11)))
}

func TestIsHabilAndSiguienteHabil(t *testing.T) {
	carnaval := date(2024, time.February, 12)
	cal := New([]time.Time{carnaval})

	require.False(t, cal.IsHabil(carnaval))
	require.False(t, cal.IsHabil(date(2024, time.February, 10))) // Saturday
	require.True(t, cal.IsHabil(date(2024, time.February, 13)))

	assert.Equal(t, date(2024, time.February, 13), cal.SiguienteHabil(carnaval))
	assert.Equal(t, date(2024, time.February, 13), cal.SiguienteHabil(date(2024, time.February, 10).AddDate(0, 0, 2)))
}

func TestCustomWeekend(t *testing.T) {
	cal := New(nil, WithWeekend(time.Friday, time.Saturday))

	require.True(t, cal.IsHabil(date(2024, time.March, 3)))  // Sunday
	require.False(t, cal.IsHabil(date(2024, time.March, 1))) // Friday

	assert.Equal(t, date(2024, time.March, 3), cal.AddHabiles(date(2024, time.February, 29), 1))
}

package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalendarGrid_AlwaysFortyTwoCells(t *testing.T) {
	for year := 2023; year <= 2028; year++ {
		for month := time.January; month <= time.December; month++ {
			for offset := 0; offset < 7; offset++ {
				grid := CalendarGrid(year, month, offset)
				assert.Len(t, grid, 42)

				nonBlank := 0
				for _, v := range grid {
					if v != 0 {
						nonBlank++
					}
				}
				assert.Equal(t, DaysIn(year, month), nonBlank, "%d-%02d offset %d", year, month, offset)
				assert.Equal(t, 1, grid[offset])
			}
		}
	}
}

func TestMonthGrid_October2026(t *testing.T) {
	// 1 October 2026 is a Thursday.
	grid := MonthGrid(2026, time.October)
	rows := Rows(grid)

	assert.Equal(t, [7]int{0, 0, 0, 0, 1, 2, 3}, rows[0])
	assert.Equal(t, [7]int{4, 5, 6, 7, 8, 9, 10}, rows[1])
	assert.Equal(t, [7]int{25, 26, 27, 28, 29, 30, 31}, rows[4])
	assert.Equal(t, [7]int{}, rows[5])
}

func TestCalendarGrid_WrapsOffset(t *testing.T) {
	assert.Equal(t, CalendarGrid(2026, time.February, 0), CalendarGrid(2026, time.February, 7))
	assert.Equal(t, CalendarGrid(2026, time.February, 6), CalendarGrid(2026, time.February, -1))
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 29, DaysIn(2028, time.February))
	assert.Equal(t, 28, DaysIn(2026, time.February))
	assert.Equal(t, 31, DaysIn(2026, time.December))
}

package stats

import (
	"time"
)

const (
	CalendarRows  = 6
	CalendarCols  = 7
	CalendarCells = CalendarRows * CalendarCols
)

// CalendarGrid lays out a month as 6 weeks of 7 days, Sunday first. Cells
// hold the day number or 0 for a blank. firstWeekday is the column of day 1
// (0 = Sunday) and is taken modulo 7.
func CalendarGrid(year int, month time.Month, firstWeekday int) [CalendarCells]int {
	var grid [CalendarCells]int
	offset := ((firstWeekday % 7) + 7) % 7
	days := DaysIn(year, month)
	for day := 1; day <= days; day++ {
		grid[offset+day-1] = day
	}
	return grid
}

// MonthGrid is CalendarGrid with the offset read off the calendar.
func MonthGrid(year int, month time.Month) [CalendarCells]int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return CalendarGrid(year, month, int(first.Weekday()))
}

func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Rows splits a grid into its weeks.
func Rows(grid [CalendarCells]int) [CalendarRows][CalendarCols]int {
	var rows [CalendarRows][CalendarCols]int
	for i, v := range grid {
		rows[i/CalendarCols][i%CalendarCols] = v
	}
	return rows
}

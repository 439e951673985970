// Package stats turns already fetched consumption data into view shapes.
// Nothing here does I/O.
package stats

import (
	"Snack-Tracker/domain"
	"time"
)

// CategoryStatistics counts entries per category. Categories outside the
// fixed enumeration are dropped and zero counts never appear.
func CategoryStatistics(entries []domain.ConsumptionEntry) map[domain.Category]int {
	counts := make(map[domain.Category]int)
	for _, e := range entries {
		if e.Category.Valid() {
			counts[e.Category]++
		}
	}
	return counts
}

// FilterByUser keeps the entries logged by userID.
func FilterByUser(entries []domain.ConsumptionEntry, userID string) []domain.ConsumptionEntry {
	out := make([]domain.ConsumptionEntry, 0, len(entries))
	for _, e := range entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

// FilterByUserAndDate keeps the entries logged by userID on date.
func FilterByUserAndDate(entries []domain.ConsumptionEntry, userID, date string) []domain.ConsumptionEntry {
	out := make([]domain.ConsumptionEntry, 0, len(entries))
	for _, e := range entries {
		if e.UserID == userID && e.Date == date {
			out = append(out, e)
		}
	}
	return out
}

// PieSlices lays counts out as pie wedges in enumeration order. Sweeps add
// up to 360 unless counts is empty.
func PieSlices(counts map[domain.Category]int) []domain.PieSlice {
	total := 0
	for _, c := range domain.Categories {
		total += counts[c]
	}
	if total == 0 {
		return []domain.PieSlice{}
	}

	slices := make([]domain.PieSlice, 0, len(domain.Categories))
	start := 0.0
	for _, c := range domain.Categories {
		n := counts[c]
		if n <= 0 {
			continue
		}
		sweep := float64(n) / float64(total) * 360
		slices = append(slices, domain.PieSlice{
			Category:   c,
			Count:      n,
			StartAngle: start,
			SweepAngle: sweep,
		})
		start += sweep
	}
	return slices
}

// TotalsByDate maps date to kcal for userID's daily totals. Unparseable
// kcal values count as zero.
func TotalsByDate(totals []domain.DailyTotal, userID string) map[string]int {
	out := make(map[string]int)
	for _, t := range totals {
		if t.UserID != userID {
			continue
		}
		kcal, err := domain.ParseKcal(t.Kcal)
		if err != nil {
			kcal = 0
		}
		out[t.Date] += kcal
	}
	return out
}

// Today formats t as a store date key.
func Today(t time.Time) string {
	return t.Format(domain.DateLayout)
}

package payable

import (
	"fmt"
	"time"
)

// MonthGrid is one displayed calendar month. Leading covers the blank cells
// before day 1 (weeks start on Sunday); Days
// holds one bucket per day of the month, index 0 = day 1.
type MonthGrid struct {
	Year    int
	Month   time.Month
	Leading int
	Days    [][]Payable
}

// BuildMonth buckets records into the grid for year/month. A record lands in
// a cell only on exact due-date string equality; anything outside the month
// is absent.
func BuildMonth(records []Payable, year int, month time.Month) MonthGrid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()

	g := MonthGrid{
		Year:    year,
		Month:   month,
		Leading: int(first.Weekday()),
		Days:    make([][]Payable, days),
	}
	for day := 1; day <= days; day++ {
		want := fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
		for _, p := range records {
			if p.DueDate == want {
				g.Days[day-1] = append(g.Days[day-1], p)
			}
		}
	}
	return g
}

// On returns the bucket for a 1-based day, nil when out of range.
func (g MonthGrid) On(day int) []Payable {
	if day < 1 || day > len(g.Days) {
		return nil
	}
	return g.Days[day-1]
}

// Title renders the grid heading, e.g. "February 2025".
func (g MonthGrid) Title() string {
	return fmt.Sprintf("%s %d", g.Month.String(), g.Year)
}

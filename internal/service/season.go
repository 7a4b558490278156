package service

import (
	"fmt"
	"time"
)

// SeasonKey returns the season identifier covering the given date, in the
// "2025-26" format used by standings snapshots. European seasons roll over
// in July: a June date belongs to the season that started the previous
// year.
func SeasonKey(t time.Time) string {
	year := t.Year()
	if t.Month() < time.July {
		year--
	}
	return fmt.Sprintf("%d-%02d", year, (year+1)%100)
}

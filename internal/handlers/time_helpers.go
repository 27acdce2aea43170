package handlers

import (
	"strconv"
	"time"

	domain "github.com/BruksfildServices01/salon-calendar/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-calendar/internal/timezone"
)

// datas de query string são sempre do fuso do salão
func parseDate(dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		domain.DateLayout,
		dateStr,
		timezone.Local(),
	)
}

func dayRange(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, timezone.Local())
	return start, start.AddDate(0, 0, 1)
}

func parseYearMonth(yearStr, monthStr string) (int, int, bool) {
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 1970 || year > 9999 {
		return 0, 0, false
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}

func parseUintParam(s string) uint {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}

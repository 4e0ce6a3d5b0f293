package util

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate parses a strict YYYY-MM-DD date as midnight UTC.
func ParseDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	t, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %w", err)
	}
	return t, nil
}

// FormatDate renders a date column value as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ValidateYearMonth 验证年月
func ValidateYearMonth(year, month int) error {
	if year < 1 || year > 9999 {
		return fmt.Errorf("year out of range, got %d", year)
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("month must be between 1 and 12, got %d", month)
	}
	return nil
}

// MonthRange returns [first day of month, first day of next month).
func MonthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// Truncate 截断到 n 个字符（按 rune 计），超长时追加 "..."
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

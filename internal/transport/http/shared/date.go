package shared

import "time"

// ParseDate accepts RFC3339 or YYYY-MM-DD. Leave ranges and holiday
// dates arrive in either form depending on the client.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

// FormatDate renders a calendar date without time-of-day.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

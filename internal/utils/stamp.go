package utils

import "time"

const stampLayout = "2006-01-02"

// TodayStampUTC возвращает текущую календарную дату UTC в формате YYYY-MM-DD.
func TodayStampUTC() string {
	return StampUTC(time.Now())
}

// StampUTC форматирует момент времени как календарную дату UTC.
func StampUTC(t time.Time) string {
	return t.UTC().Format(stampLayout)
}

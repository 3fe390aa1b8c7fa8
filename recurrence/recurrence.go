// Package recurrence раскрывает определение привычки в конкретные даты
// календаря. Одна привычка "по понедельникам 8 недель" превращается в
// список дат, каждая из которых станет отдельной строкой в events.
package recurrence

import (
	"errors"
	"strings"
	"time"
)

type Frequency string

const (
	Daily  Frequency = "daily"
	Weekly Frequency = "weekly"
)

var (
	ErrMissingEndDate   = errors.New("recurrence: end date is required")
	ErrInvalidRange     = errors.New("recurrence: start date is after end date")
	ErrUnknownFrequency = errors.New("recurrence: unknown frequency")
)

// ParseFrequency принимает значения формы ("Daily"/"Weekly") без учёта регистра.
func ParseFrequency(s string) (Frequency, error) {
	switch {
	case strings.EqualFold(s, string(Daily)):
		return Daily, nil
	case strings.EqualFold(s, string(Weekly)):
		return Weekly, nil
	default:
		return "", ErrUnknownFrequency
	}
}

// Weekdays формы "Monday".."Sunday".
var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

var ErrUnknownWeekday = errors.New("recurrence: unknown weekday")

func ParseWeekday(s string) (time.Weekday, error) {
	if d, ok := weekdayNames[strings.ToLower(s)]; ok {
		return d, nil
	}
	return 0, ErrUnknownWeekday
}

// Expand возвращает даты, на которые выпадает привычка.
//
// Daily даёт полуинтервал [start, end): ровно end-start дат, по одной в день.
// Weekly идёт по дням от start и при попадании на target прыгает на 7 дней
// вперёд, границы включительно [start, end]. Асимметрия границ унаследована
// от наблюдаемого поведения приложения и закреплена тестами; не "чинить"
// без продуктового решения.
func Expand(start, end time.Time, freq Frequency, weekday time.Weekday) ([]time.Time, error) {
	if end.IsZero() {
		return nil, ErrMissingEndDate
	}

	start = Midnight(start)
	end = Midnight(end)

	if start.After(end) {
		return nil, ErrInvalidRange
	}

	switch freq {
	case Daily:
		days := int(end.Sub(start).Hours() / 24)
		dates := make([]time.Time, 0, days)
		for i := 0; i < days; i++ {
			dates = append(dates, start.AddDate(0, 0, i))
		}
		return dates, nil

	case Weekly:
		var dates []time.Time
		current := start
		for !current.After(end) {
			if current.Weekday() != weekday {
				current = current.AddDate(0, 0, 1)
			} else {
				dates = append(dates, current)
				current = current.AddDate(0, 0, 7)
			}
		}
		return dates, nil

	default:
		return nil, ErrUnknownFrequency
	}
}

// Midnight обрезает время до начала дня в UTC, чтобы даты сравнивались как
// даты. Календарный день берётся по UTC независимо от пояса входной метки.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

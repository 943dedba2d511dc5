package parking

import (
	"time"
)

const DateLayout = "2006-01-02"

// TimeRange представляет временной интервал [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Contains сообщает, попадает ли t в интервал.
func (tr TimeRange) Contains(t time.Time) bool {
	return !t.Before(tr.Start) && t.Before(tr.End)
}

// ParseDate разбирает дату вида 2006-01-02 в полночь указанного пояса.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, Validationf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

// DayRange строит интервал от полуночи from до полуночи дня после to.
// День to входит целиком. Перепутанные границы считаются ошибкой валидации.
func DayRange(from, to time.Time, loc *time.Location) (TimeRange, error) {
	if from.IsZero() || to.IsZero() {
		return TimeRange{}, Validationf("report range bounds are required")
	}
	if loc == nil {
		loc = time.UTC
	}

	from = from.In(loc)
	to = to.In(loc)

	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	last := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc)
	if last.Before(start) {
		return TimeRange{}, Validationf("report range: to is before from")
	}

	return TimeRange{Start: start, End: last.AddDate(0, 0, 1)}, nil
}

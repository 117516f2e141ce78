package transform

import "fmt"

// TimeUnit is a calendar component a DatetimeToValue can extract.
type TimeUnit int

const (
	Second TimeUnit = iota
	Minute
	Hour
	Day
	Month
	Year
)

// DefaultUnit is used when no unit is given.
const DefaultUnit = Day

var unitNames = map[string]TimeUnit{
	"s": Second, "second": Second, "seconds": Second,
	"m": Minute, "minute": Minute, "minutes": Minute,
	"h": Hour, "hour": Hour, "hours": Hour,
	"d": Day, "day": Day, "days": Day,
	"M": Month, "month": Month, "months": Month,
	"y": Year, "year": Year, "years": Year,
}

// ParseUnit resolves a unit name or synonym. Matching is case-sensitive
// because "m" is minutes and "M" is months. An empty name selects
// DefaultUnit.
func ParseUnit(name string) (TimeUnit, error) {
	if name == "" {
		return DefaultUnit, nil
	}
	u, ok := unitNames[name]
	if !ok {
		return 0, fmt.Errorf("%w: unit must be one of seconds, minutes, hours, days, months, years (not %q)", ErrConfiguration, name)
	}
	return u, nil
}

func (u TimeUnit) String() string {
	switch u {
	case Second:
		return "seconds"
	case Minute:
		return "minutes"
	case Hour:
		return "hours"
	case Day:
		return "days"
	case Month:
		return "months"
	case Year:
		return "years"
	}
	return fmt.Sprintf("unit(%d)", int(u))
}

package expiry

import (
	"time"
)

// Class is the urgency of an item given how many days it has left.
type Class string

const (
	OK      Class = "ok"
	Warning Class = "warning"
	Danger  Class = "danger"
)

const (
	// WarningDays is the last day count still rendered as a warning rather than ok.
	WarningDays = 7
	// DangerDays is the last day count rendered as danger. Expired items fall here too.
	DangerDays = 3
)

// DaysRemaining returns the number of days from now until expiry, rounded up.
// A negative value means the item is already expired. Whole days are counted
// on the calendar so far-away dates do not saturate time.Duration.
func DaysRemaining(expiry, now time.Time) int {
	expiry, now = expiry.UTC(), now.UTC()
	days := civilDays(expiry) - civilDays(now)
	rem := sinceMidnight(expiry) - sinceMidnight(now)
	if rem > 0 {
		days++
	}
	return int(days)
}

// civilDays counts days since 1970-01-01 for t's date.
func civilDays(t time.Time) int64 {
	y, m, d := t.Date()
	yy := int64(y)
	if m <= 2 {
		yy--
	}
	era := yy / 400
	if yy < 0 && yy%400 != 0 {
		era--
	}
	yoe := yy - era*400
	mp := (int64(m) + 9) % 12
	doy := (153*mp+2)/5 + int64(d) - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

func sinceMidnight(t time.Time) time.Duration {
	y, m, d := t.Date()
	return t.Sub(time.Date(y, m, d, 0, 0, 0, 0, t.Location()))
}

// Classify maps a days-remaining count to its urgency class.
func Classify(days int) Class {
	switch {
	case days > WarningDays:
		return OK
	case days > DangerDays:
		return Warning
	default:
		return Danger
	}
}

// CSS returns the class attribute used by the web UI for c.
func (c Class) CSS() string {
	return "expiry-" + string(c)
}

package value

import (
	"fmt"
	"time"
)

// Date and time values have no canonical variant. They are rendered into a
// fixed text form and carried as Text; the conversion is one-way.

// FormatDate renders a calendar timestamp as "Y-M-D H:Min:Sec:Frac" with
// unpadded fields and Frac in microseconds.
func FormatDate(year, month, day, hour, minute, second, micro int) string {
	return fmt.Sprintf("%d-%d-%d %d:%d:%d:%d", year, month, day, hour, minute, second, micro)
}

// FormatDuration renders a signed duration as "{+|-}D:H:Min:Sec:Frac".
func FormatDuration(negative bool, days, hours, minutes, seconds, micro int) string {
	sign := "+"
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%s%d:%d:%d:%d:%d", sign, days, hours, minutes, seconds, micro)
}

// FromTime renders t with FormatDate.
func FromTime(t time.Time) Value {
	return Text(FormatDate(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/1000))
}

// FromDuration renders d with FormatDuration.
func FromDuration(d time.Duration) Value {
	negative := d < 0
	if negative {
		d = -d
	}
	micro := int(d % time.Second / time.Microsecond)
	secs := int64(d / time.Second)
	return Text(FormatDuration(negative,
		int(secs/86400), int(secs%86400/3600), int(secs%3600/60), int(secs%60), micro))
}

// paramTimeLayout is the layout used when a time.Time is bound as a parameter.
const paramTimeLayout = "2006-01-02 15:04:05.999999"

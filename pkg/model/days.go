package model

// EventDays selects the days an event repeats on.
type EventDays int

const (
	Monday EventDays = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
	AllDays
	Weekdays
	Weekends
)

// EventRepeat flags each weekday, Monday first.
type EventRepeat [7]bool

// RepeatOn builds an EventRepeat covering every listed selector.
func RepeatOn(days ...EventDays) EventRepeat {
	var r EventRepeat
	for _, d := range days {
		switch {
		case d >= Monday && d <= Sunday:
			r[d] = true
		case d == AllDays:
			for i := range r {
				r[i] = true
			}
		case d == Weekdays:
			for i := Monday; i <= Friday; i++ {
				r[i] = true
			}
		case d == Weekends:
			r[Saturday] = true
			r[Sunday] = true
		}
	}
	return r
}

// Days returns the individual weekdays set in r.
func (r EventRepeat) Days() []EventDays {
	var out []EventDays
	for i, on := range r {
		if on {
			out = append(out, EventDays(i))
		}
	}
	return out
}

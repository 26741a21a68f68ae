package domain

import "time"

// leapYear is a fixed leap reference year used to project month/day pairs
// onto a single yearless calendar, so Feb 29 birthdays keep a stable slot.
const leapYear = 2000

// yearDay returns the day-of-year of t's month/day in the leap reference year.
func yearDay(t time.Time) int {
	return time.Date(leapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).YearDay()
}

// BirthdayWithin reports whether the contact's birthday, treated as an
// annually recurring month/day (birth year ignored), falls within
// [today, today+horizonDays]. The distance is computed on the yearless
// calendar modulo 366, so a horizon spanning Dec 28 → Jan 4 matches
// January birthdays.
func BirthdayWithin(birthday, today time.Time, horizonDays int) bool {
	if horizonDays < 0 {
		return false
	}
	dist := (yearDay(birthday) - yearDay(today) + 366) % 366
	return dist <= horizonDays
}

// Package calendar holds the proleptic Gregorian date arithmetic every
// ledger component depends on. Pure functions, no state; nothing else in
// the codebase duplicates this logic.
package calendar

var daysPerMonth = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in the given month (1-12).
// Returns 0 for an out-of-range month.
func DaysInMonth(month, year int) int {
	if month < 1 || month > 12 {
		return 0
	}
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return daysPerMonth[month]
}

// NextMonth returns the month following (month, year), rolling over the
// year boundary.
func NextMonth(month, year int) (int, int) {
	if month == 12 {
		return 1, year + 1
	}
	return month + 1, year
}

// AddDays advances (day, month, year) by n days, n >= 0, rolling month and
// year boundaries as needed.
func AddDays(day, month, year, n int) (int, int, int) {
	day += n
	for day > DaysInMonth(month, year) {
		day -= DaysInMonth(month, year)
		month, year = NextMonth(month, year)
	}
	return day, month, year
}

// ValidDate reports whether (day, month, year) names a real calendar date.
func ValidDate(day, month, year int) bool {
	return month >= 1 && month <= 12 && day >= 1 && day <= DaysInMonth(month, year)
}

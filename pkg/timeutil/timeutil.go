// Package timeutil provides timezone utilities for India Standard Time (IST).
// The credit cycle follows the calendar month in the program timezone, so
// cycle boundaries and voucher timestamps must be computed in IST rather
// than the server's local zone.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// KolkataTZ is the India Standard Time timezone (UTC+5:30, no DST).
var KolkataTZ = time.FixedZone("Asia/Kolkata", 5*60*60+30*60)

// Now returns the current time in IST.
func Now() time.Time {
	return time.Now().In(KolkataTZ)
}

// ToKolkata converts a time to IST.
func ToKolkata(t time.Time) time.Time {
	return t.In(KolkataTZ)
}

// ToUTC converts a time to UTC.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// Date creates a time in IST with the given date.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, KolkataTZ)
}

// DateTime creates a time in IST with the given date and time.
func DateTime(year, month, day, hour, min, sec int) time.Time {
	return time.Date(year, time.Month(month), day, hour, min, sec, 0, KolkataTZ)
}

// StartOfDay returns the start of the day (00:00:00) in IST.
func StartOfDay(t time.Time) time.Time {
	ist := ToKolkata(t)
	return time.Date(ist.Year(), ist.Month(), ist.Day(), 0, 0, 0, 0, KolkataTZ)
}

// EndOfDay returns the end of the day (23:59:59.999999999) in IST.
func EndOfDay(t time.Time) time.Time {
	ist := ToKolkata(t)
	return time.Date(ist.Year(), ist.Month(), ist.Day(), 23, 59, 59, 999999999, KolkataTZ)
}

// ══════════════════════════════════════════════════════════════════════════════
// CREDIT CYCLE
// Цикл кредитов совпадает с календарным месяцем в IST.
// ══════════════════════════════════════════════════════════════════════════════

// StartOfCycle returns the start of the credit cycle containing t, which is
// the start of the calendar month in IST.
func StartOfCycle(t time.Time) time.Time {
	ist := ToKolkata(t)
	return time.Date(ist.Year(), ist.Month(), 1, 0, 0, 0, 0, KolkataTZ)
}

// EndOfCycle returns the end of the credit cycle containing t.
func EndOfCycle(t time.Time) time.Time {
	return EndOfDay(StartOfCycle(t).AddDate(0, 1, -1))
}

// NextCycleStart returns the start of the cycle after the one containing t.
// This is when the next monthly reset becomes due.
func NextCycleStart(t time.Time) time.Time {
	return StartOfCycle(t).AddDate(0, 1, 0)
}

// SameCycle reports whether two times fall in the same credit cycle.
func SameCycle(a, b time.Time) bool {
	ia, ib := ToKolkata(a), ToKolkata(b)
	return ia.Year() == ib.Year() && ia.Month() == ib.Month()
}

// CycleKey returns a stable identifier for the cycle containing t ("2026-08").
// Used for idempotency checks in reset audit records.
func CycleKey(t time.Time) string {
	ist := ToKolkata(t)
	return fmt.Sprintf("%04d-%02d", ist.Year(), ist.Month())
}

// DaysLeftInCycle returns the number of whole days until the cycle ends.
func DaysLeftInCycle(t time.Time) int {
	remaining := NextCycleStart(t).Sub(ToKolkata(t))
	return int(remaining.Hours() / 24)
}

// IsToday checks if the given time is today in IST.
func IsToday(t time.Time) bool {
	now := Now()
	ist := ToKolkata(t)
	return ist.Year() == now.Year() &&
		ist.Month() == now.Month() &&
		ist.Day() == now.Day()
}

// DaysSince calculates the number of days since the given time.
func DaysSince(t time.Time) int {
	now := StartOfDay(Now())
	then := StartOfDay(t)
	duration := now.Sub(then)
	return int(duration.Hours() / 24)
}

// Common date/time formats.
const (
	// FormatDate is the standard date format (YYYY-MM-DD).
	FormatDate = "2006-01-02"
	// FormatTime is the standard time format (HH:MM).
	FormatTime = "15:04"
	// FormatDateTime is the standard datetime format.
	FormatDateTime = "2006-01-02 15:04"
	// FormatDateTimeSeconds includes seconds.
	FormatDateTimeSeconds = "2006-01-02 15:04:05"
	// FormatCycle is the credit cycle format (YYYY-MM).
	FormatCycle = "2006-01"
	// FormatHumanDate is a human-readable format.
	FormatHumanDate = "2 January 2006"
	// FormatShortDate is a short format (Jan 2).
	FormatShortDate = "Jan 2"
)

// FormatIST formats a time in IST with the given layout.
func FormatIST(t time.Time, layout string) string {
	return ToKolkata(t).Format(layout)
}

// FormatDateStr formats a time as a date string (YYYY-MM-DD) in IST.
func FormatDateStr(t time.Time) string {
	return FormatIST(t, FormatDate)
}

// FormatTimeStr formats a time as a time string (HH:MM) in IST.
func FormatTimeStr(t time.Time) string {
	return FormatIST(t, FormatTime)
}

// FormatDateTimeStr formats a time as datetime string in IST.
func FormatDateTimeStr(t time.Time) string {
	return FormatIST(t, FormatDateTime)
}

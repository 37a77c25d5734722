// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/boostly-hq/boostly/pkg/timeutil"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// StudentID represents a unique student identifier (UUID format).
type StudentID string

// UUID validation regex (simple version).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValid checks if the student ID is a valid UUID.
func (s StudentID) IsValid() bool {
	return uuidRegex.MatchString(string(s))
}

// String returns the string representation.
func (s StudentID) String() string {
	return string(s)
}

// IsEmpty checks if the ID is empty.
func (s StudentID) IsEmpty() bool {
	return s == ""
}

// NewStudentID creates a new StudentID with validation.
func NewStudentID(id string) (StudentID, error) {
	sid := StudentID(strings.ToLower(strings.TrimSpace(id)))
	if !sid.IsValid() {
		return "", NewDomainError("shared", "NewStudentID", ErrInvalidID, "invalid student ID format")
	}
	return sid, nil
}

// RecognitionID represents a unique recognition identifier (UUID format).
type RecognitionID string

// IsValid checks if the recognition ID is a valid UUID.
func (r RecognitionID) IsValid() bool {
	return uuidRegex.MatchString(string(r))
}

// String returns the string representation.
func (r RecognitionID) String() string {
	return string(r)
}

// NewRecognitionID creates a new RecognitionID with validation.
func NewRecognitionID(id string) (RecognitionID, error) {
	rid := RecognitionID(strings.ToLower(strings.TrimSpace(id)))
	if !rid.IsValid() {
		return "", NewDomainError("shared", "NewRecognitionID", ErrInvalidID, "invalid recognition ID format")
	}
	return rid, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Credits Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Credits represents an amount of recognition credits in a single operation
// (a transfer or a redemption). Always strictly positive; balances are
// modeled separately in the student package.
type Credits int

// IsValid checks if the credit amount is strictly positive.
func (c Credits) IsValid() bool {
	return c > 0
}

// Int returns the underlying int value.
func (c Credits) Int() int {
	return int(c)
}

// NewCredits creates a new Credits value with validation.
func NewCredits(amount int) (Credits, error) {
	if amount <= 0 {
		return 0, ErrInvalidCreditAmount
	}
	return Credits(amount), nil
}

// ═══════════════════════════════════════════════════════════════════════════
// INR Value Object (voucher money)
// ═══════════════════════════════════════════════════════════════════════════

// INR represents a whole-rupee amount. Voucher values are always whole
// rupees because the credit-to-INR rate is an integer.
type INR int

// IsValid checks if the amount is non-negative.
func (m INR) IsValid() bool {
	return m >= 0
}

// Int returns the underlying int value.
func (m INR) Int() int {
	return int(m)
}

// String returns a human-readable representation.
func (m INR) String() string {
	return fmt.Sprintf("%d INR", int(m))
}

// ═══════════════════════════════════════════════════════════════════════════
// YearMonth Value Object (reset cycles)
// ═══════════════════════════════════════════════════════════════════════════

// YearMonth identifies one monthly reset cycle. Cycle boundaries are
// calendar months in the program timezone (IST), not rolling 30-day windows.
type YearMonth struct {
	Year  int
	Month time.Month
}

// YearMonthOf returns the cycle that contains the given instant.
func YearMonthOf(t time.Time) YearMonth {
	t = timeutil.ToKolkata(t)
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// IsValid checks the month range.
func (ym YearMonth) IsValid() bool {
	return ym.Month >= time.January && ym.Month <= time.December && ym.Year > 0
}

// Before reports whether ym is an earlier cycle than other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// Next returns the following cycle.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == time.December {
		return YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// String returns the "YYYY-MM" representation.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// ═══════════════════════════════════════════════════════════════════════════
// TimeRange Value Object
// ═══════════════════════════════════════════════════════════════════════════

// TimeRange represents a time period.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// IsValid checks if the time range is valid.
func (t TimeRange) IsValid() bool {
	return !t.From.IsZero() && !t.To.IsZero() && !t.From.After(t.To)
}

// Duration returns the duration of the time range.
func (t TimeRange) Duration() time.Duration {
	return t.To.Sub(t.From)
}

// Contains checks if a time is within the range.
func (t TimeRange) Contains(tm time.Time) bool {
	return (tm.Equal(t.From) || tm.After(t.From)) && (tm.Equal(t.To) || tm.Before(t.To))
}

// NewTimeRange creates a new TimeRange with validation.
func NewTimeRange(from, to time.Time) (TimeRange, error) {
	tr := TimeRange{From: from, To: to}
	if !tr.IsValid() {
		return TimeRange{}, NewDomainError("shared", "NewTimeRange", ErrInvalidInput, "'from' must be before 'to'")
	}
	return tr, nil
}

// LastNDays returns a TimeRange for the last N days.
func LastNDays(n int) TimeRange {
	now := time.Now().UTC()
	return TimeRange{
		From: now.AddDate(0, 0, -n),
		To:   now,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Pagination Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Pagination represents pagination parameters.
type Pagination struct {
	Page     int
	PageSize int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Offset returns the offset for database queries.
func (p Pagination) Offset() int {
	if p.Page <= 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}

// Limit returns the limit for database queries.
func (p Pagination) Limit() int {
	if p.PageSize <= 0 {
		return DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		return MaxPageSize
	}
	return p.PageSize
}

// NewPagination creates a new Pagination with defaults.
func NewPagination(page, pageSize int) Pagination {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Pagination{Page: page, PageSize: pageSize}
}

// DefaultPagination returns default pagination.
func DefaultPagination() Pagination {
	return NewPagination(1, DefaultPageSize)
}

// Package logicalday implements the study calendar, where a day runs from
// 02:00 to 02:00 instead of midnight to midnight.
package logicalday

import (
	"fmt"
	"sync"
	"time"
)

// DayBoundaryHour is the wall-clock hour at which a new logical day begins.
const DayBoundaryHour = 2

const (
	keyLayout   = "2006-01-02"
	monthLayout = "2006-01"
	clockLayout = "15:04"
)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock is a settable clock for tests and replays.
type FixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// LogicalNow returns the current instant shifted back one calendar day when
// the wall-clock hour is before DayBoundaryHour, so late-night work is
// credited to the previous day.
func LogicalNow(clock Clock) time.Time {
	now := clock.Now()
	if now.Hour() < DayBoundaryHour {
		return now.AddDate(0, 0, -1)
	}
	return now
}

// DateKey formats t as YYYY-MM-DD in t's own location.
func DateKey(t time.Time) string {
	return t.Format(keyLayout)
}

// TodayKey is the date key of the logical day the clock is currently in.
func TodayKey(clock Clock) string {
	return DateKey(LogicalNow(clock))
}

// ParseKey parses a YYYY-MM-DD key as local midnight.
func ParseKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(keyLayout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return t, nil
}

// AddDays shifts a date key by n calendar days.
func AddDays(key string, n int) (string, error) {
	t, err := ParseKey(key)
	if err != nil {
		return "", err
	}
	y, m, d := t.Date()
	return DateKey(time.Date(y, m, d+n, 0, 0, 0, 0, t.Location())), nil
}

// YesterdayKey returns the key of the calendar day before key.
func YesterdayKey(key string) (string, error) {
	return AddDays(key, -1)
}

// DaysInMonth returns the number of days in the given month (1-12).
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local).Day()
}

// FirstWeekdayIndex returns the weekday of the month's first day with
// Monday=0 through Sunday=6.
func FirstWeekdayIndex(year int, month time.Month) int {
	wd := time.Date(year, month, 1, 0, 0, 0, 0, time.Local).Weekday()
	return (int(wd) + 6) % 7
}

// MonthPrefix returns the YYYY-MM prefix shared by every key of the month.
func MonthPrefix(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// PrevMonth returns the calendar month immediately before the given one.
func PrevMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// ParseMonth parses a YYYY-MM string.
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.ParseInLocation(monthLayout, s, time.Local)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return t.Year(), t.Month(), nil
}

// KeyMonth returns the year and month a date key belongs to.
func KeyMonth(key string) (int, time.Month, error) {
	t, err := ParseKey(key)
	if err != nil {
		return 0, 0, err
	}
	return t.Year(), t.Month(), nil
}

// FormatClock renders the display-only completion stamp (hour:minute).
func FormatClock(t time.Time) string {
	return t.Format(clockLayout)
}

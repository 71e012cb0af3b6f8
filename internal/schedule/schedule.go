// Package schedule turns the free-text day and time cells of a submission
// spreadsheet into orderable timestamps.
//
// The mapping from day code to calendar date belongs to one event instance,
// so it is carried in a DayTable value rather than package state. Build one
// with ParseDayTable from configuration, or use DefaultDayTable in tests.
package schedule

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Sentinel errors for time parsing.
var (
	ErrUnknownDay  = errors.New("unknown day code")
	ErrInvalidTime = errors.New("invalid time range")
	ErrDayTable    = errors.New("invalid day table")
)

// TBA is the placeholder used in day, time and poster number cells.
const TBA = "TBA"

// UnscheduledHour and UnscheduledMinute pin talks without an assigned time
// to the evening, so they sort last among the talks of the same day.
const (
	UnscheduledHour   = 19
	UnscheduledMinute = 0
)

// DayCodeLen is the number of leading characters of a day cell that
// identify the day ("Monday" -> "Mon").
const DayCodeLen = 3

// Date is a calendar date without a time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// At returns the instant at hour:minute on this date in loc.
func (d Date) At(hour, minute int, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, hour, minute, 0, 0, loc)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: bad date %q", ErrDayTable, s)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// Slot is the schedule position of a talk.
type Slot struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether the slot was never computed.
func (s Slot) IsZero() bool {
	return s.Start.IsZero()
}

// DayTable maps day codes to the dates of one event.
type DayTable struct {
	days     map[string]Date
	location *time.Location
}

// NewDayTable builds a table from an explicit mapping. A nil location means UTC.
// The sentinel codes "" and TBA must be present.
func NewDayTable(days map[string]Date, loc *time.Location) (DayTable, error) {
	if loc == nil {
		loc = time.UTC
	}
	for _, code := range []string{"", TBA} {
		if _, ok := days[code]; !ok {
			return DayTable{}, fmt.Errorf("%w: missing sentinel code %q", ErrDayTable, code)
		}
	}
	cp := make(map[string]Date, len(days))
	for k, v := range days {
		cp[k] = v
	}
	return DayTable{days: cp, location: loc}, nil
}

// ParseDayTable parses a comma-separated list of CODE=YYYY-MM-DD entries.
// The sentinel codes "" and TBA are mapped to the date of unassigned, which
// must be one of the listed codes.
//
//	ParseDayTable("Mon=2018-07-30,Tue=2018-07-31", "Mon", time.UTC)
func ParseDayTable(spec, unassigned string, loc *time.Location) (DayTable, error) {
	days := make(map[string]Date)
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		code, date, ok := strings.Cut(entry, "=")
		if !ok {
			return DayTable{}, fmt.Errorf("%w: entry %q is not CODE=YYYY-MM-DD", ErrDayTable, entry)
		}
		code = strings.TrimSpace(code)
		if code == "" || len([]rune(code)) > DayCodeLen {
			return DayTable{}, fmt.Errorf("%w: day code %q must be 1-%d characters", ErrDayTable, code, DayCodeLen)
		}
		d, err := ParseDate(date)
		if err != nil {
			return DayTable{}, err
		}
		days[code] = d
	}
	if len(days) == 0 {
		return DayTable{}, fmt.Errorf("%w: no days given", ErrDayTable)
	}

	d, ok := days[unassigned]
	if !ok {
		return DayTable{}, fmt.Errorf("%w: unassigned day %q is not in the table", ErrDayTable, unassigned)
	}
	days[""] = d
	if _, ok := days[TBA]; !ok {
		days[TBA] = d
	}
	return NewDayTable(days, loc)
}

// DefaultDayTable returns the table of the 2018 meeting. Unassigned talks go
// on the first talk day so they are not overlooked.
func DefaultDayTable() DayTable {
	t, err := ParseDayTable(
		"Sun=2018-07-29,Mon=2018-07-30,Tue=2018-07-31,Wed=2018-08-01,Thu=2018-08-02,Fri=2018-08-03,Sat=2018-08-04",
		"Mon", time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the date for a day code.
func (t DayTable) Lookup(code string) (Date, error) {
	d, ok := t.days[code]
	if !ok {
		return Date{}, fmt.Errorf("%w: %q", ErrUnknownDay, code)
	}
	return d, nil
}

// Location returns the time zone the table's timestamps are built in.
func (t DayTable) Location() *time.Location {
	if t.location == nil {
		return time.UTC
	}
	return t.location
}

// Codes returns the configured day codes, sentinels included, ordered by date
// then code.
func (t DayTable) Codes() []string {
	codes := make([]string, 0, len(t.days))
	for c := range t.days {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool {
		di, dj := t.days[codes[i]], t.days[codes[j]]
		if di != dj {
			return di.String() < dj.String()
		}
		return codes[i] < codes[j]
	})
	return codes
}

// Len returns the number of codes in the table.
func (t DayTable) Len() int {
	return len(t.days)
}

// Parse turns a day code and a "HH:MM - HH:MM" range into the start (or, with
// end set, the end) of the range on that day. An empty or TBA time yields
// 19:00 on that day whichever side is asked for.
func (t DayTable) Parse(day, timestr string, end bool) (time.Time, error) {
	d, err := t.Lookup(day)
	if err != nil {
		return time.Time{}, err
	}

	if timestr == "" || timestr == TBA {
		return d.At(UnscheduledHour, UnscheduledMinute, t.Location()), nil
	}

	halves := strings.Split(timestr, "-")
	if len(halves) != 2 {
		return time.Time{}, fmt.Errorf("%w: %q is not of the form HH:MM - HH:MM", ErrInvalidTime, timestr)
	}
	half := halves[0]
	if end {
		half = halves[1]
	}

	hour, minute, err := parseClock(half)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidTime, timestr, err)
	}
	return d.At(hour, minute, t.Location()), nil
}

// Slot parses both sides of a time range.
func (t DayTable) Slot(day, timestr string) (Slot, error) {
	start, err := t.Parse(day, timestr, false)
	if err != nil {
		return Slot{}, err
	}
	end, err := t.Parse(day, timestr, true)
	if err != nil {
		return Slot{}, err
	}
	return Slot{Start: start, End: end}, nil
}

// ParseDayTime is Parse as a free function.
func ParseDayTime(days DayTable, day, timestr string, end bool) (time.Time, error) {
	return days.Parse(day, timestr, end)
}

// DayCode returns the significant prefix of a day cell.
func DayCode(day string) string {
	r := []rune(day)
	if len(r) > DayCodeLen {
		r = r[:DayCodeLen]
	}
	return string(r)
}

func parseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("clock %q needs exactly one ':'", strings.TrimSpace(s))
	}
	hour, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("hour %q is not an integer", strings.TrimSpace(parts[0]))
	}
	minute, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("minute %q is not an integer", strings.TrimSpace(parts[1]))
	}
	if hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("hour %d out of range 0-23", hour)
	}
	if minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("minute %d out of range 0-59", minute)
	}
	return hour, minute, nil
}

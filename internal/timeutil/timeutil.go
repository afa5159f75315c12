// Package timeutil normalizes the time representations accepted at the
// planner's boundaries and rebases wall-clock times between IANA zones.
package timeutil

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTimeFormat reports an input that matches none of the
// accepted time shapes.
var ErrInvalidTimeFormat = errors.New("invalid time format")

// layouts tried in order for string inputs. Naive layouts are
// interpreted as UTC.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// Parse normalizes a time value to a time.Time in UTC. It accepts a
// time.Time, a unix timestamp (integer or fractional seconds), a
// calendar tuple [year, month, day, hour, min, sec] with 3 to 6
// elements, or a date string in one of the supported layouts.
func Parse(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v.UTC(), nil
	case *time.Time:
		if v == nil {
			return time.Time{}, fmt.Errorf("%w: nil time", ErrInvalidTimeFormat)
		}
		return v.UTC(), nil
	case int:
		return time.Unix(int64(v), 0).UTC(), nil
	case int64:
		return time.Unix(v, 0).UTC(), nil
	case float64:
		sec, frac := math.Modf(v)
		return time.Unix(int64(sec), int64(frac*1e9)).UTC(), nil
	case []int:
		return fromCalendar(v)
	case string:
		return parseString(v)
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidTimeFormat, value)
	}
}

func fromCalendar(fields []int) (time.Time, error) {
	if len(fields) < 3 || len(fields) > 6 {
		return time.Time{}, fmt.Errorf("%w: calendar tuple needs 3-6 fields, got %d", ErrInvalidTimeFormat, len(fields))
	}
	full := make([]int, 6)
	copy(full, fields)
	if full[1] < 1 || full[1] > 12 {
		return time.Time{}, fmt.Errorf("%w: month %d out of range", ErrInvalidTimeFormat, full[1])
	}
	return time.Date(full[0], time.Month(full[1]), full[2], full[3], full[4], full[5], 0, time.UTC), nil
}

func parseString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty string", ErrInvalidTimeFormat)
	}
	if ts, err := strconv.ParseFloat(s, 64); err == nil {
		return Parse(ts)
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
}

// LoadZone resolves an IANA zone name, with "" and "UTC" both mapping
// to UTC.
func LoadZone(name string) (*time.Location, error) {
	if name == "" || strings.EqualFold(name, "UTC") {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load zone %q: %w", name, err)
	}
	return loc, nil
}

// Convert rebases a wall-clock time between zones: the input's clock
// fields are reinterpreted in fromZone and the same instant is
// returned expressed in toZone. An empty fromZone means UTC.
func Convert(value any, toZone, fromZone string) (time.Time, error) {
	t, err := Parse(value)
	if err != nil {
		return time.Time{}, err
	}
	from, err := LoadZone(fromZone)
	if err != nil {
		return time.Time{}, err
	}
	to, err := LoadZone(toZone)
	if err != nil {
		return time.Time{}, err
	}
	rebased := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), from)
	return rebased.In(to), nil
}

// NightAnchor returns 23:59:59 local civil time on the given calendar
// day, the reference instant a night is keyed on.
func NightAnchor(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, 23, 59, 59, 0, loc)
}

// NoonBefore returns the most recent local noon at or before t.
func NoonBefore(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	noon := time.Date(lt.Year(), lt.Month(), lt.Day(), 12, 0, 0, 0, loc)
	if noon.After(t) {
		noon = noon.AddDate(0, 0, -1)
	}
	return noon
}

// NoonAfter returns the first local noon strictly after t.
func NoonAfter(t time.Time, loc *time.Location) time.Time {
	return NoonBefore(t, loc).AddDate(0, 0, 1)
}

// SameCalendarDay reports whether two instants fall on the same
// calendar day in the given zone.
func SameCalendarDay(a, b time.Time, loc *time.Location) bool {
	la, lb := a.In(loc), b.In(loc)
	return la.Year() == lb.Year() && la.Month() == lb.Month() && la.Day() == lb.Day()
}

package dashboard

import (
	"strings"
	"time"
)

// DateKey is a calendar date in local time, formatted "2006-01-02".
// It is the only representation of a day that crosses package-internal
// boundaries; raw time values never leak past ToDateKey.
type DateKey string

const dayLayout = "2006-01-02"

// Timestamp mirrors the document store's timestamp objects
// (seconds + nanoseconds since the Unix epoch).
type Timestamp struct {
	Seconds int64 `json:"seconds"`
	Nanos   int32 `json:"nanoseconds"`
}

func (t Timestamp) Time() time.Time {
	return time.Unix(t.Seconds, int64(t.Nanos))
}

// dateLayouts are tried in order for strings that are not already
// day-prefixed. Month-only values ("2025-10") match none of them and
// stay unparseable on purpose.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.000Z",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04Z07:00",
	time.RFC1123,
	"Jan 2, 2006",
	"January 2, 2006",
	"02 Jan 2006",
}

// ToDateKey coerces a heterogeneous date representation into a DateKey.
// Accepted inputs: strings (a "YYYY-MM-DD..." prefix is truncated without
// parsing, anything else goes through the layout list), string pointers,
// time.Time, Timestamp and *Timestamp. Everything else, including nil and
// unparseable strings, reports ok=false.
func ToDateKey(value any) (DateKey, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case DateKey:
		return v, v != ""
	case string:
		return stringToDateKey(v)
	case *string:
		if v == nil {
			return "", false
		}
		return stringToDateKey(*v)
	case time.Time:
		if v.IsZero() {
			return "", false
		}
		return DateKey(v.Local().Format(dayLayout)), true
	case Timestamp:
		return DateKey(v.Time().Local().Format(dayLayout)), true
	case *Timestamp:
		if v == nil {
			return "", false
		}
		return DateKey(v.Time().Local().Format(dayLayout)), true
	default:
		return "", false
	}
}

func stringToDateKey(s string) (DateKey, bool) {
	trimmed := strings.TrimSpace(s)
	if hasDayPrefix(trimmed) {
		return DateKey(trimmed[:len(dayLayout)]), true
	}
	if t, ok := parseFlexibleTime(trimmed); ok {
		return DateKey(t.Local().Format(dayLayout)), true
	}
	return "", false
}

// hasDayPrefix reports whether s starts with "YYYY-MM-DD".
func hasDayPrefix(s string) bool {
	if len(s) < len(dayLayout) {
		return false
	}
	for i := 0; i < len(dayLayout); i++ {
		if dayLayout[i] == '-' {
			if s[i] != '-' {
				return false
			}
			continue
		}
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func parseFlexibleTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		// ParseInLocation keeps zone-less layouts on local wall time;
		// layouts carrying an offset are unaffected.
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ToTime resolves a heterogeneous date representation to an instant, used
// for "most recent" ordering. Day-only strings resolve to local midnight.
func ToTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, false
	case string:
		if t, ok := parseFlexibleTime(strings.TrimSpace(v)); ok {
			return t, true
		}
		if key, ok := stringToDateKey(v); ok {
			if t, err := time.ParseInLocation(dayLayout, string(key), time.Local); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	case *string:
		if v == nil {
			return time.Time{}, false
		}
		return ToTime(*v)
	case time.Time:
		return v, !v.IsZero()
	case Timestamp:
		return v.Time(), true
	case *Timestamp:
		if v == nil {
			return time.Time{}, false
		}
		return v.Time(), true
	default:
		return time.Time{}, false
	}
}

// SameDate reports whether value falls on the given day. Unparseable
// values compare false, never panic.
func SameDate(value any, day DateKey) bool {
	if day == "" {
		return false
	}
	key, ok := ToDateKey(value)
	return ok && key == day
}

// DayKey returns the DateKey for the instant's local calendar day.
func DayKey(now time.Time) DateKey {
	return DateKey(now.Local().Format(dayLayout))
}

// prevDay steps a DateKey back one calendar day. Invalid keys return "".
func prevDay(day DateKey) DateKey {
	t, err := time.ParseInLocation(dayLayout, string(day), time.Local)
	if err != nil {
		return ""
	}
	return DateKey(t.AddDate(0, 0, -1).Format(dayLayout))
}

// monthPrefix is the "YYYY-MM" part of a DateKey.
func monthPrefix(day DateKey) string {
	if len(day) < 7 {
		return ""
	}
	return string(day[:7])
}

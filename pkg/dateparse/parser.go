package dateparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Resolver converts relative Japanese date and time expressions into
// absolute values, anchored to a caller-supplied reference time.
type Resolver struct {
	location *time.Location
}

// NewResolver creates a resolver for the given IANA timezone string,
// e.g. "Asia/Tokyo".
func NewResolver(timezone string) (*Resolver, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Resolver{location: loc}, nil
}

var (
	monthDayRe = regexp.MustCompile(`^(\d{1,2})[月/](\d{1,2})日?$`)
	timeRe     = regexp.MustCompile(`^(\d{1,2})(?:[時:](\d{0,2})分?)?$`)
)

// ResolveDate converts an expression like 今日, 明日, 明後日, "3/15" or
// "3月15日" into a YYYY-MM-DD string. A month/day date with no year is
// placed in the current year, rolled forward to next year when it falls
// strictly before now. Returns false when the expression matches no
// known pattern; callers must treat that as "no date".
func (r *Resolver) ResolveDate(expr string, now time.Time) (string, bool) {
	expr = strings.TrimSpace(expr)
	now = now.In(r.location)

	switch expr {
	case "今日":
		return formatDate(now), true
	case "明日":
		return formatDate(now.AddDate(0, 0, 1)), true
	case "明後日":
		return formatDate(now.AddDate(0, 0, 2)), true
	}

	m := monthDayRe.FindStringSubmatch(expr)
	if m == nil {
		return "", false
	}

	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}

	target := time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, r.location)
	if target.Before(r.startOfDay(now)) {
		target = target.AddDate(1, 0, 0)
	}
	return formatDate(target), true
}

// ResolveTime converts a bare time token like "14時", "14:30" or "9"
// into an HH:MM string. Returns false for anything else.
func (r *Resolver) ResolveTime(expr string) (string, bool) {
	expr = strings.TrimSpace(expr)

	m := timeRe.FindStringSubmatch(expr)
	if m == nil {
		return "", false
	}

	hour, _ := strconv.Atoi(m[1])
	if hour > 23 {
		return "", false
	}
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
		if minute > 59 {
			return "", false
		}
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

// Today returns today's date string in the resolver's timezone.
func (r *Resolver) Today(now time.Time) string {
	return formatDate(now.In(r.location))
}

// Location returns the resolver's timezone.
func (r *Resolver) Location() *time.Location {
	return r.location
}

func (r *Resolver) startOfDay(t time.Time) time.Time {
	t = t.In(r.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, r.location)
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

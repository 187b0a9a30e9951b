package drafts

import (
	"errors"
	"fmt"
	"net/netip"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/andyballingall/json-schema-validator/internal/schema"
	"github.com/andyballingall/json-schema-validator/internal/uri"
)

// format runs the checker registered for the named format. Values whose type
// contradicts a single declared type are left to the type keyword.
func format(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
	if t, ok := n.Get("type"); ok {
		if name, ok := t.(string); ok && !schema.MatchesType(data, name) {
			return nil
		}
	}
	v, _ := n.Get("format")
	name, ok := v.(string)
	if !ok {
		name = schema.Plain(v)
	}
	check, ok := n.Dialect.Format(name)
	if !ok {
		return nil
	}
	if err := check(data); err != nil {
		sc.Fail(n, path, "format", fmt.Sprintf("The property '%s' %s", path, err))
	}
	return nil
}

var (
	errDateTimeISO = errors.New(
		"must be a date/time in the ISO-8601 format of YYYY-MM-DDThh:mm:ssZ or YYYY-MM-DDThh:mm:ss.ssZ",
	)
	errDateTimeRFC = errors.New("must be a valid RFC3339 date/time string")
	errDate        = errors.New("must be a date in the format of YYYY-MM-DD")
	errTime        = errors.New("must be a time in the format of hh:mm:ss")
	errIPv4        = errors.New("must be a valid IPv4 address")
	errIPv6        = errors.New("must be a valid IPv6 address")
	errURI         = errors.New("must be a valid URI")

	dateTimeISO = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2})(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`)
	dateOnly    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeOnly    = regexp.MustCompile(`^(\d\d):(\d\d):(\d\d)$`)
)

// stringFormat adapts a string check into a FormatFunc that accepts every
// non-string value.
func stringFormat(check func(s string) error) schema.FormatFunc {
	return func(value any) error {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		return check(s)
	}
}

func validDate(s string) bool {
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

// dateTimeISO8601 is the draft 3 "date-time": a calendar-valid date and clock
// time with optional fraction and offset.
func dateTimeISO8601(s string) error {
	m := dateTimeISO.FindStringSubmatch(s)
	if m == nil || !validDate(m[1]+"-"+m[2]+"-"+m[3]) {
		return errDateTimeISO
	}
	if !validClock(m[4], m[5], m[6]) {
		return errDateTimeISO
	}
	return nil
}

func dateTimeRFC3339(s string) error {
	if _, err := time.Parse(time.RFC3339Nano, strings.ToUpper(s)); err != nil {
		return errDateTimeRFC
	}
	return nil
}

func date(s string) error {
	if !dateOnly.MatchString(s) || !validDate(s) {
		return errDate
	}
	return nil
}

func clock(s string) error {
	m := timeOnly.FindStringSubmatch(s)
	if m == nil || !validClock(m[1], m[2], m[3]) {
		return errTime
	}
	return nil
}

func validClock(h, m, s string) bool {
	hour, _ := strconv.Atoi(h)
	minute, _ := strconv.Atoi(m)
	second, _ := strconv.Atoi(s)
	return hour < 24 && minute < 60 && second < 60
}

func ipv4(s string) error {
	addr, err := netip.ParseAddr(s)
	if err != nil || !addr.Is4() {
		return errIPv4
	}
	return nil
}

func ipv6(s string) error {
	addr, err := netip.ParseAddr(s)
	if err != nil || !addr.Is6() || addr.Zone() != "" {
		return errIPv6
	}
	return nil
}

func validURI(s string) error {
	if _, err := uri.Parse(s); err != nil {
		return errURI
	}
	return nil
}

// draft3Formats are the checkers draft 3 ships with.
func draft3Formats() map[string]schema.FormatFunc {
	return map[string]schema.FormatFunc{
		"date-time":  stringFormat(dateTimeISO8601),
		"date":       stringFormat(date),
		"time":       stringFormat(clock),
		"ip-address": stringFormat(ipv4),
		"ipv6":       stringFormat(ipv6),
		"uri":        stringFormat(validURI),
	}
}

// draft4Formats are the checkers drafts 4 and 6 ship with.
func draft4Formats() map[string]schema.FormatFunc {
	return map[string]schema.FormatFunc{
		"date-time": stringFormat(dateTimeRFC3339),
		"ipv4":      stringFormat(ipv4),
		"ipv6":      stringFormat(ipv6),
		"uri":       stringFormat(validURI),
	}
}

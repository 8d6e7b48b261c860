package uhid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPrefix = "MED"
	DefaultWidth  = 5

	separator = "-"
)

var ErrMalformedUHID = errors.New("malformed UHID")

// MatchKind tells the patient repository how to compare a lookup value.
type MatchKind int

const (
	MatchExact MatchKind = iota
	MatchSuffix
)

func (k MatchKind) String() string {
	if k == MatchSuffix {
		return "suffix"
	}
	return "exact"
}

// Predicate is a UHID lookup condition. For MatchSuffix, Value is the
// trailing segment including its separator (e.g. "-00042").
type Predicate struct {
	Kind  MatchKind
	Value string
}

// Formatter renders sequence values as UHIDs: <PREFIX>-<YYYY>-<padded seq>.
type Formatter struct {
	prefix string
	width  int
}

func NewFormatter(prefix string, width int) *Formatter {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if width <= 0 {
		width = DefaultWidth
	}
	return &Formatter{prefix: prefix, width: width}
}

// Format embeds seq zero-padded to the configured width. Values wider than
// the width are rendered in full, never truncated.
func (f *Formatter) Format(seq int64, issuedAt time.Time) string {
	return fmt.Sprintf("%s%s%04d%s%s", f.prefix, separator, issuedAt.Year(), separator, f.pad(strconv.FormatInt(seq, 10)))
}

// MatchSuffix routes a search input: numeric input becomes a suffix match on
// the padded sequence, anything else an exact UHID match.
func (f *Formatter) MatchSuffix(partial string) Predicate {
	partial = strings.TrimSpace(partial)
	if IsNumeric(partial) {
		return Predicate{Kind: MatchSuffix, Value: separator + f.pad(partial)}
	}
	return Predicate{Kind: MatchExact, Value: partial}
}

// Parsed is a UHID split into its segments.
type Parsed struct {
	Prefix   string
	Year     int
	Sequence int64
}

// Parse splits a full UHID. The prefix itself may contain separators.
func (f *Formatter) Parse(value string) (*Parsed, error) {
	parts := strings.Split(strings.TrimSpace(value), separator)
	if len(parts) < 3 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedUHID, value)
	}

	seqPart := parts[len(parts)-1]
	yearPart := parts[len(parts)-2]
	prefix := strings.Join(parts[:len(parts)-2], separator)

	if prefix == "" || len(yearPart) != 4 || !IsNumeric(yearPart) || !IsNumeric(seqPart) {
		return nil, fmt.Errorf("%w: %q", ErrMalformedUHID, value)
	}

	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedUHID, value)
	}
	seq, err := strconv.ParseInt(seqPart, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedUHID, value)
	}

	return &Parsed{Prefix: prefix, Year: year, Sequence: seq}, nil
}

func (f *Formatter) pad(digits string) string {
	if len(digits) >= f.width {
		return digits
	}
	return strings.Repeat("0", f.width-len(digits)) + digits
}

// IsNumeric reports whether s is a non-empty run of ASCII digits.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

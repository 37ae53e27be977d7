package interval

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidRange is returned when begin is bigger than end.
	ErrInvalidRange = errors.New("invalid range")
	// ErrInvalidArgument is returned when a position is out of bounds or
	// cannot be parsed.
	ErrInvalidArgument = errors.New("invalid argument")
)

// MinPosition and MaxPosition bound every position, so Prev of the lowest
// and Next of the highest position still fit in an int64.
const (
	MinPosition int64 = math.MinInt64 + 1
	MaxPosition int64 = math.MaxInt64 - 1
)

// Interval is the closed range [begin, end].
type Interval struct {
	begin int64
	end   int64
}

// New returns the interval [begin, end] or an error when the bounds are
// not ordered or not within MinPosition and MaxPosition.
func New(begin, end int64) (Interval, error) {
	if err := ValidatePosition(begin); err != nil {
		return Interval{}, err
	}
	if err := ValidatePosition(end); err != nil {
		return Interval{}, err
	}
	if begin > end {
		return Interval{}, fmt.Errorf("%w: begin %d is bigger than end %d", ErrInvalidRange, begin, end)
	}
	return Interval{begin: begin, end: end}, nil
}

// Point returns the single position interval [pos, pos].
func Point(pos int64) (Interval, error) {
	return New(pos, pos)
}

// ValidatePosition checks pos is within MinPosition and MaxPosition.
func ValidatePosition(pos int64) error {
	if pos < MinPosition || pos > MaxPosition {
		return fmt.Errorf("%w: position %d, does not fit in the range from %d to %d", ErrInvalidArgument, pos, MinPosition, MaxPosition)
	}
	return nil
}

// Parse parses "begin-end" or a single position "pos". Negative positions
// are allowed, e.g. "-5--1".
func Parse(s string) (Interval, error) {
	s = strings.TrimSpace(s)
	h := strings.IndexByte(s[min(1, len(s)):], '-')
	if h == -1 {
		pos, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Interval{}, fmt.Errorf("%w: invalid position %q", ErrInvalidArgument, s)
		}
		return Point(pos)
	}
	h++
	from, to := s[:h], s[h+1:]
	begin, err := strconv.ParseInt(from, 10, 64)
	if err != nil {
		return Interval{}, fmt.Errorf("%w: invalid begin %q in range %q", ErrInvalidArgument, from, s)
	}
	end, err := strconv.ParseInt(to, 10, 64)
	if err != nil {
		return Interval{}, fmt.Errorf("%w: invalid end %q in range %q", ErrInvalidArgument, to, s)
	}
	return New(begin, end)
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Interval {
	iv, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return iv
}

// Begin returns the lower bound of r.
func (r Interval) Begin() int64 { return r.begin }

// End returns the upper bound of r.
func (r Interval) End() int64 { return r.end }

// String returns "begin-end", or "pos" for a single position.
func (r Interval) String() string {
	if r.begin == r.end {
		return strconv.FormatInt(r.begin, 10)
	}
	return fmt.Sprintf("%d-%d", r.begin, r.end)
}

// IsValid returns whether r is ordered and within MinPosition and
// MaxPosition.
func (r Interval) IsValid() bool {
	return r.begin <= r.end &&
		ValidatePosition(r.begin) == nil &&
		ValidatePosition(r.end) == nil
}

// IsPoint returns whether r holds a single position.
func (r Interval) IsPoint() bool { return r.begin == r.end }

// Count returns the number of positions in r, saturated at math.MaxInt64.
func (r Interval) Count() int64 {
	if r.end < r.begin {
		return 0
	}
	// the difference always fits in an uint64.
	d := uint64(r.end) - uint64(r.begin)
	if d >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(d) + 1
}

// Contains returns whether pos lies within r.
func (r Interval) Contains(pos int64) bool {
	return r.begin <= pos && pos <= r.end
}

// Less orders by begin, and for equal begins the longer interval first.
func (r Interval) Less(other Interval) bool {
	if r.begin != other.begin {
		return r.begin < other.begin
	}
	return other.end < r.end
}

// SetBegin returns a copy of r starting at begin.
func (r Interval) SetBegin(begin int64) Interval {
	r.begin = begin
	return r
}

// SetEnd returns a copy of r ending at end.
func (r Interval) SetEnd(end int64) Interval {
	r.end = end
	return r
}

// EntirelyBefore returns whether r lies entirely before other.
func (r Interval) EntirelyBefore(other Interval) bool {
	return r.end < other.begin
}

// Touches returns whether r and other overlap or are adjacent, so that
// their union is a single interval.
func (r Interval) Touches(other Interval) bool {
	return r.end+1 >= other.begin && other.end+1 >= r.begin
}

// Overlaps returns whether r and other share at least one position.
func (r Interval) Overlaps(other Interval) bool {
	return r.begin <= other.end && other.begin <= r.end
}

// CoveredBy returns whether r is entirely contained within other.
func (r Interval) CoveredBy(other Interval) bool {
	return other.begin <= r.begin && r.end <= other.end
}

// InMiddleOf returns whether r is inside other, but not touching the
// edges of other.
func (r Interval) InMiddleOf(other Interval) bool {
	return other.begin < r.begin && r.end < other.end
}

// OverlapsStartOf returns whether r overlaps the start of other, but not
// all of other.
func (r Interval) OverlapsStartOf(other Interval) bool {
	return r.begin <= other.begin && other.begin <= r.end && r.end < other.end
}

// OverlapsEndOf returns whether r overlaps the end of other, but not all
// of other.
func (r Interval) OverlapsEndOf(other Interval) bool {
	return other.begin < r.begin && r.begin <= other.end && other.end <= r.end
}

// Union returns the smallest interval covering r and other. Only meaningful
// when r.Touches(other).
func (r Interval) Union(other Interval) Interval {
	return Interval{begin: min(r.begin, other.begin), end: max(r.end, other.end)}
}

package intervalset

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/henderiw/selection/pkg/interval"
	"k8s.io/apimachinery/pkg/util/sets"
)

// Set is a selection of integer positions. The zero value is the empty
// set.
type Set struct {
	// rr is the set of intervals that belong to this Set. They are
	// normalized: sorted by begin, no overlapping intervals and no
	// adjacent intervals. Add and Remove rely on this property and never
	// modify rr in place.
	rr []interval.Interval
}

// New returns the normalized Set covering all positions of rr.
func New(rr ...interval.Interval) (Set, error) {
	var b Builder
	for _, r := range rr {
		b.AddRange(r)
	}
	return b.Set()
}

// MustNew is like New but panics on error.
func MustNew(rr ...interval.Interval) Set {
	s, err := New(rr...)
	if err != nil {
		panic(err)
	}
	return s
}

// Parse parses a comma separated list of intervals, e.g. "1-2,4,6-9".
func Parse(s string) (Set, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Set{}, nil
	}
	var errm error
	rr := make([]interval.Interval, 0, strings.Count(s, ",")+1)
	for _, part := range strings.Split(s, ",") {
		r, err := interval.Parse(part)
		if err != nil {
			errm = errors.Join(errm, err)
			continue
		}
		rr = append(rr, r)
	}
	if errm != nil {
		return Set{}, errm
	}
	return New(rr...)
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Set {
	set, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return set
}

// Ranges returns the minimum and sorted set of intervals that covers s.
func (s Set) Ranges() []interval.Interval {
	return append([]interval.Interval{}, s.rr...)
}

// Len returns the number of intervals in s.
func (s Set) Len() int { return len(s.rr) }

// IsEmpty returns whether no position is selected.
func (s Set) IsEmpty() bool { return len(s.rr) == 0 }

// Count returns the number of positions covered by s. A set covering more
// than math.MaxInt64 positions reports math.MaxInt64.
func (s Set) Count() int64 {
	var n int64
	for _, r := range s.rr {
		c := r.Count()
		if c > math.MaxInt64-n {
			return math.MaxInt64
		}
		n += c
	}
	return n
}

// Contains returns whether pos is selected.
func (s Set) Contains(pos int64) bool {
	i := s.search(pos)
	return i < len(s.rr) && s.rr[i].Contains(pos)
}

// Covers returns whether every position of [begin, end] is selected.
func (s Set) Covers(begin, end int64) bool {
	if begin > end {
		return false
	}
	i := s.search(begin)
	return i < len(s.rr) && s.rr[i].Begin() <= begin && end <= s.rr[i].End()
}

// search returns the index of the first interval whose end is not before
// pos.
func (s Set) search(pos int64) int {
	return sort.Search(len(s.rr), func(i int) bool { return s.rr[i].End() >= pos })
}

// Min returns the lowest selected position.
func (s Set) Min() (int64, bool) {
	if len(s.rr) == 0 {
		return 0, false
	}
	return s.rr[0].Begin(), true
}

// Max returns the highest selected position.
func (s Set) Max() (int64, bool) {
	if len(s.rr) == 0 {
		return 0, false
	}
	return s.rr[len(s.rr)-1].End(), true
}

// Equal returns whether s and other select the same positions.
func (s Set) Equal(other Set) bool {
	if len(s.rr) != len(other.rr) {
		return false
	}
	for i := range s.rr {
		if s.rr[i] != other.rr[i] {
			return false
		}
	}
	return true
}

// Positions returns every selected position. Only use it on small
// selections.
func (s Set) Positions() sets.Set[int64] {
	out := sets.New[int64]()
	for _, r := range s.rr {
		for pos := r.Begin(); pos <= r.End(); pos++ {
			out.Insert(pos)
		}
	}
	return out
}

// String returns the intervals of s separated by commas, e.g. "1-2,4".
func (s Set) String() string {
	parts := make([]string, 0, len(s.rr))
	for _, r := range s.rr {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, ",")
}

// Validate checks that s is sorted, non overlapping and non adjacent.
func (s Set) Validate() error {
	for i, r := range s.rr {
		if !r.IsValid() {
			return fmt.Errorf("interval %d (%s) is invalid", i, r)
		}
		if i == 0 {
			continue
		}
		prev := s.rr[i-1]
		switch {
		case prev.Begin() >= r.Begin():
			return fmt.Errorf("interval %d (%s) is not sorted after %s", i, r, prev)
		case prev.End() >= r.Begin():
			return fmt.Errorf("interval %d (%s) overlaps %s", i, r, prev)
		case prev.End()+1 == r.Begin():
			return fmt.Errorf("interval %d (%s) is adjacent to %s", i, r, prev)
		}
	}
	return nil
}

package intervalset

import (
	"fmt"
	"sort"

	"github.com/henderiw/selection/pkg/interval"
)

// Add returns the union of s and [begin, end]. On error s is returned
// unchanged.
func Add(s Set, begin, end int64) (Set, error) {
	r, err := interval.New(begin, end)
	if err != nil {
		return s, fmt.Errorf("add %d-%d: %w", begin, end, err)
	}
	return add(s, r), nil
}

// Remove returns s without the positions of [begin, end]. On error s is
// returned unchanged.
func Remove(s Set, begin, end int64) (Set, error) {
	r, err := interval.New(begin, end)
	if err != nil {
		return s, fmt.Errorf("remove %d-%d: %w", begin, end, err)
	}
	return remove(s, r), nil
}

// Complement returns the positions of [begin, end] that are not in s.
func Complement(s Set, begin, end int64) (Set, error) {
	bounds, err := interval.New(begin, end)
	if err != nil {
		return Set{}, fmt.Errorf("complement %d-%d: %w", begin, end, err)
	}
	out := make([]interval.Interval, 0, len(s.rr)+1)
	next := bounds.Begin()
	for _, r := range s.rr {
		if r.End() < next {
			continue
		}
		if r.Begin() > bounds.End() {
			break
		}
		if r.Begin() > next {
			out = append(out, bounds.SetBegin(next).SetEnd(r.Begin()-1))
		}
		next = r.End() + 1
	}
	if next <= bounds.End() {
		out = append(out, bounds.SetBegin(next))
	}
	return Set{rr: out}, nil
}

func add(s Set, r interval.Interval) Set {
	// intervals starting at or before r stay in front of it, the rest
	// follow it.
	i := sort.Search(len(s.rr), func(i int) bool { return s.rr[i].Begin() > r.Begin() })

	spliced := make([]interval.Interval, 0, len(s.rr)+1)
	spliced = append(spliced, s.rr[:i]...)
	spliced = append(spliced, r)
	spliced = append(spliced, s.rr[i:]...)

	return Set{rr: mergeSorted(spliced)}
}

// mergeSorted collapses touching intervals of rr, which must be sorted by
// begin. rr is merged in place and the merged prefix is returned.
func mergeSorted(rr []interval.Interval) []interval.Interval {
	if len(rr) < 2 {
		return rr
	}
	out := rr[:1]
	for _, r := range rr[1:] {
		prev := &out[len(out)-1]
		switch {
		case prev.End()+1 < r.Begin():
			// No overlap and not adjacent.
			//
			//   prev       r
			// b------e  b-----e
			out = append(out, r)
		case prev.End() < r.End():
			// Adjacent or partial overlap, extend prev.
			//
			//   prev
			// b------e
			//     b-----e
			//        r
			*prev = prev.SetEnd(r.End())
		default:
			// r entirely contained in prev, nothing to do.
			//
			//    prev
			// b--------e
			//  b-----e
			//     r
		}
	}
	return out
}

func remove(s Set, rm interval.Interval) Set {
	out := make([]interval.Interval, 0, len(s.rr)+1)
	for _, it := range s.rr {
		switch {
		case it.IsPoint() && it.Begin() == rm.Begin():
			// single point at the removal begin, dropped.
		case rm.EntirelyBefore(it) || it.EntirelyBefore(rm):
			out = append(out, it)
		case rm.CoveredBy(it):
			// "rm" is inside "it", keep what is left on both sides.
			//
			//       it
			// b-------------e
			//    b------e
			//       rm
			out = appendPiece(out, it.Begin(), rm.Begin()-1)
			out = appendPiece(out, rm.End()+1, it.End())
		case it.Contains(rm.Begin()):
			// "rm" overlaps the end of "it".
			//
			//           rm
			//        b------e
			//    b------e
			//       it
			out = appendPiece(out, it.Begin(), rm.Begin()-1)
		case it.Contains(rm.End()):
			// "rm" overlaps the start of "it".
			//
			//   rm
			// b------e
			//    b------e
			//       it
			out = appendPiece(out, rm.End()+1, it.End())
		default:
			// "rm" entirely covers "it".
		}
	}
	return Set{rr: out}
}

// appendPiece appends [begin, end] unless it is empty.
func appendPiece(rr []interval.Interval, begin, end int64) []interval.Interval {
	if begin > end {
		return rr
	}
	r, err := interval.New(begin, end)
	if err != nil {
		// the pieces of a valid interval are valid.
		panic(fmt.Sprintf("invalid piece %d-%d: %v", begin, end, err))
	}
	return append(rr, r)
}

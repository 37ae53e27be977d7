package intervalset

import (
	"errors"
	"fmt"
	"sort"

	"github.com/henderiw/selection/pkg/interval"
)

// Builder collects additions and removals and turns them into a Set in
// one pass. The zero value is ready to use.
type Builder struct {
	in   []interval.Interval
	out  []interval.Interval
	errs error
}

// AddRange adds all positions of r.
func (s *Builder) AddRange(r interval.Interval) {
	if err := validate(r); err != nil {
		s.errs = errors.Join(s.errs, fmt.Errorf("addRange(%d-%d): %w", r.Begin(), r.End(), err))
		return
	}
	// pending removals apply to what was added before them.
	if len(s.out) > 0 {
		s.normalize()
	}
	s.in = append(s.in, r)
}

// Add adds all positions of [begin, end].
func (s *Builder) Add(begin, end int64) {
	r, err := interval.New(begin, end)
	if err != nil {
		s.errs = errors.Join(s.errs, fmt.Errorf("add(%d-%d): %w", begin, end, err))
		return
	}
	s.AddRange(r)
}

// RemoveRange removes all positions of r.
func (s *Builder) RemoveRange(r interval.Interval) {
	if err := validate(r); err != nil {
		s.errs = errors.Join(s.errs, fmt.Errorf("removeRange(%d-%d): %w", r.Begin(), r.End(), err))
		return
	}
	s.out = append(s.out, r)
}

// Remove removes all positions of [begin, end].
func (s *Builder) Remove(begin, end int64) {
	r, err := interval.New(begin, end)
	if err != nil {
		s.errs = errors.Join(s.errs, fmt.Errorf("remove(%d-%d): %w", begin, end, err))
		return
	}
	s.RemoveRange(r)
}

// validate reports why r is invalid. Intervals reshaped with SetBegin or
// SetEnd can be out of order or out of bounds.
func validate(r interval.Interval) error {
	if r.IsValid() {
		return nil
	}
	_, err := interval.New(r.Begin(), r.End())
	return err
}

// AddSet adds all positions of b.
func (s *Builder) AddSet(b Set) {
	for _, r := range b.rr {
		s.AddRange(r)
	}
}

// RemoveSet removes all positions of b.
func (s *Builder) RemoveSet(b Set) {
	for _, r := range b.rr {
		s.RemoveRange(r)
	}
}

// normalize normalizes s: s.in becomes the minimal sorted list of
// intervals required to describe s, and s.out becomes empty.
func (s *Builder) normalize() {
	in := mergeRanges(s.in)
	out := mergeRanges(s.out)

	// in and out are sorted and have no overlaps within each other. We
	// can run a merge of the two lists in one pass.
	min := make([]interval.Interval, 0, len(in))
	for len(in) > 0 && len(out) > 0 {
		rin, rout := in[0], out[0]

		switch {
		case rout.EntirelyBefore(rin):
			// "out" is entirely before "in".
			//
			//    out         in
			// b-------e   b-------e
			out = out[1:]
		case rin.EntirelyBefore(rout):
			// "in" is entirely before "out".
			//
			//    in         out
			// b------e   b-------e
			min = append(min, rin)
			in = in[1:]
		case rin.CoveredBy(rout):
			// "out" entirely covers "in".
			//
			//       out
			// b-------------e
			//    b------e
			//       in
			in = in[1:]
		case rout.InMiddleOf(rin):
			// "in" entirely covers "out".
			//
			//       in
			// b-------------e
			//    b------e
			//       out
			min = append(min, rin.SetEnd(rout.Begin()-1))
			// Adjust in[0], not rin, because we want to consider the
			// trimmed interval on the next iteration.
			in[0] = in[0].SetBegin(rout.End() + 1)
			out = out[1:]
		case rout.OverlapsStartOf(rin):
			// "out" overlaps start of "in".
			//
			//   out
			// b------e
			//    b------e
			//       in
			in[0] = in[0].SetBegin(rout.End() + 1)
			// Can't move rin onto min yet, another later out might
			// trim it further.
			out = out[1:]
		case rout.OverlapsEndOf(rin):
			// "out" overlaps end of "in".
			//
			//           out
			//        b------e
			//    b------e
			//       in
			min = append(min, rin.SetEnd(rout.Begin()-1))
			in = in[1:]
		default:
			// The above accounts for all combinations of in and out
			// overlapping.
			panic(fmt.Sprintf("unexpected overlap of %s and %s", rin, rout))
		}
	}
	if len(in) > 0 {
		// Ran out of removals before the end of in.
		min = append(min, in...)
	}

	s.in = min
	s.out = nil
}

// Set returns the normalized Set and the errors of every rejected call
// since the last call to Set. The builder stays usable.
func (s *Builder) Set() (Set, error) {
	s.normalize()
	set := Set{
		rr: append([]interval.Interval{}, s.in...),
	}
	errs := s.errs
	s.errs = nil
	return set, errs
}

// mergeRanges returns the minimum and sorted set of intervals that cover
// rr. rr is sorted in place.
func mergeRanges(rr []interval.Interval) []interval.Interval {
	// Always return a copy, to avoid aliasing slice memory in the caller.
	switch len(rr) {
	case 0:
		return nil
	case 1:
		return []interval.Interval{rr[0]}
	}
	sort.Slice(rr, func(i, j int) bool { return rr[i].Less(rr[j]) })
	return mergeSorted(append([]interval.Interval{}, rr...))
}

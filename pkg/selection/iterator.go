package selection

import "github.com/henderiw/selection/pkg/interval"

// Iterator walks the selected positions in ascending order. It works on a
// snapshot taken by Iterate.
type Iterator struct {
	rr      []interval.Interval
	idx     int
	pos     int64
	prev    int64
	started bool
}

func newIterator(rr []interval.Interval) *Iterator {
	return &Iterator{rr: rr}
}

func (r *Iterator) Next() bool {
	if len(r.rr) == 0 {
		return false
	}
	if !r.started {
		r.started = true
		r.pos = r.rr[0].Begin()
		return true
	}
	if r.idx >= len(r.rr) {
		return false
	}
	r.prev = r.pos
	if r.pos < r.rr[r.idx].End() {
		r.pos++
		return true
	}
	r.idx++
	if r.idx >= len(r.rr) {
		return false
	}
	r.pos = r.rr[r.idx].Begin()
	return true
}

// Pos returns the current position.
func (r *Iterator) Pos() int64 {
	return r.pos
}

// Range returns the interval the current position belongs to, or the zero
// Interval when Next has not returned true.
func (r *Iterator) Range() interval.Interval {
	if !r.started || r.idx >= len(r.rr) {
		return interval.Interval{}
	}
	return r.rr[r.idx]
}

// IsConsecutive returns whether the current position directly follows the
// previous one.
func (r *Iterator) IsConsecutive() bool {
	if !r.started || (r.idx == 0 && r.pos == r.rr[0].Begin()) {
		return false
	}
	return r.prev == r.pos-1
}

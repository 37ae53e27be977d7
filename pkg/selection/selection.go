package selection

import (
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"github.com/henderiw/selection/pkg/interval"
	"github.com/henderiw/selection/pkg/intervalset"
)

// Selection owns one intervalset.Set and serializes changes to it. It is
// safe for concurrent use.
type Selection interface {
	// Select adds [begin, end] to the selection.
	Select(begin, end int64) error
	// Deselect removes [begin, end] from the selection.
	Deselect(begin, end int64) error
	// Replace swaps the whole selection for set.
	Replace(set intervalset.Set) error
	Clear()

	Has(pos int64) bool
	IsFree(pos int64) bool
	FindFree() (int64, error)
	// Count returns the number of selected positions, saturated at
	// math.MaxInt64.
	Count() int64

	Iterate() *Iterator
	Ranges() []interval.Interval
	Set() intervalset.Set
}

// Option configures a Selection created by New.
type Option func(*selection)

// WithBounds limits the positions that can be selected to [min, max].
func WithBounds(min, max int64) Option {
	return func(r *selection) {
		r.min, r.max = min, max
	}
}

// WithLogger sets the logger changes are reported to at V(1).
func WithLogger(l logr.Logger) Option {
	return func(r *selection) {
		r.log = l
	}
}

// New returns an empty Selection. Without WithBounds every position from
// interval.MinPosition to interval.MaxPosition can be selected.
func New(opts ...Option) (Selection, error) {
	r := &selection{
		m:   new(sync.RWMutex),
		min: interval.MinPosition,
		max: interval.MaxPosition,
		log: logr.Discard(),
	}
	for _, o := range opts {
		o(r)
	}
	if _, err := interval.New(r.min, r.max); err != nil {
		return nil, fmt.Errorf("bounds %d-%d: %w", r.min, r.max, err)
	}
	r.log = r.log.WithValues("bounds", fmt.Sprintf("%d-%d", r.min, r.max))
	return r, nil
}

type selection struct {
	m   *sync.RWMutex
	set intervalset.Set
	min int64
	max int64
	log logr.Logger
}

func (r *selection) validate(begin, end int64) error {
	if begin > end {
		return fmt.Errorf("%w: begin %d is bigger than end %d", interval.ErrInvalidRange, begin, end)
	}
	if begin < r.min || end > r.max {
		return fmt.Errorf("%w: range %d-%d, does not fit in the range from %d to %d", interval.ErrInvalidArgument, begin, end, r.min, r.max)
	}
	return nil
}

func (r *selection) Select(begin, end int64) error {
	r.m.Lock()
	defer r.m.Unlock()

	if err := r.validate(begin, end); err != nil {
		return err
	}
	set, err := intervalset.Add(r.set, begin, end)
	if err != nil {
		return err
	}
	r.log.V(1).Info("select", "begin", begin, "end", end, "ranges", set.Len())
	r.set = set
	return nil
}

func (r *selection) Deselect(begin, end int64) error {
	r.m.Lock()
	defer r.m.Unlock()

	if err := r.validate(begin, end); err != nil {
		return err
	}
	set, err := intervalset.Remove(r.set, begin, end)
	if err != nil {
		return err
	}
	r.log.V(1).Info("deselect", "begin", begin, "end", end, "ranges", set.Len())
	r.set = set
	return nil
}

func (r *selection) Replace(set intervalset.Set) error {
	if err := set.Validate(); err != nil {
		return err
	}
	if lo, ok := set.Min(); ok {
		hi, _ := set.Max()
		if err := r.validate(lo, hi); err != nil {
			return err
		}
	}

	r.m.Lock()
	defer r.m.Unlock()
	r.log.V(1).Info("replace", "ranges", set.Len())
	r.set = set
	return nil
}

func (r *selection) Clear() {
	r.m.Lock()
	defer r.m.Unlock()
	r.log.V(1).Info("clear")
	r.set = intervalset.Set{}
}

func (r *selection) Has(pos int64) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.set.Contains(pos)
}

func (r *selection) IsFree(pos int64) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	if pos < r.min || pos > r.max {
		return false
	}
	return !r.set.Contains(pos)
}

// FindFree returns the lowest position within the bounds that is not
// selected.
func (r *selection) FindFree() (int64, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	free, err := intervalset.Complement(r.set, r.min, r.max)
	if err != nil {
		return 0, err
	}
	pos, ok := free.Min()
	if !ok {
		return 0, fmt.Errorf("no free entry found")
	}
	return pos, nil
}

func (r *selection) Count() int64 {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.set.Count()
}

func (r *selection) Iterate() *Iterator {
	r.m.RLock()
	defer r.m.RUnlock()

	return newIterator(r.set.Ranges())
}

func (r *selection) Ranges() []interval.Interval {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.set.Ranges()
}

// Set returns the current value. Sets are never modified in place, so the
// caller can keep it while the selection changes.
func (r *selection) Set() intervalset.Set {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.set
}

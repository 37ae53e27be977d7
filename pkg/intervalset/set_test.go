package intervalset

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/henderiw/selection/pkg/interval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cmpSet = []cmp.Option{
	cmp.AllowUnexported(Set{}, interval.Interval{}),
	cmpopts.EquateEmpty(),
}

func TestAdd(t *testing.T) {
	cases := map[string]struct {
		set      string
		begin    int64
		end      int64
		expected string
	}{
		"Empty": {
			set:      "",
			begin:    1,
			end:      2,
			expected: "1-2",
		},
		"BridgeTwo": {
			set:      "1-2,4-5",
			begin:    3,
			end:      10,
			expected: "1-10",
		},
		"BridgeOverlapping": {
			set:      "3-6,8-10,12-14",
			begin:    5,
			end:      9,
			expected: "3-10,12-14",
		},
		"Contained": {
			set:      "1-10",
			begin:    3,
			end:      4,
			expected: "1-10",
		},
		"AdjacentLeft": {
			set:      "5-8",
			begin:    1,
			end:      4,
			expected: "1-8",
		},
		"AdjacentRight": {
			set:      "5-8",
			begin:    9,
			end:      9,
			expected: "5-9",
		},
		"Gap": {
			set:      "5-8",
			begin:    10,
			end:      12,
			expected: "5-8,10-12",
		},
		"Front": {
			set:      "5-8,20-30",
			begin:    1,
			end:      2,
			expected: "1-2,5-8,20-30",
		},
		"SameBegin": {
			set:      "5-8,20-30",
			begin:    5,
			end:      12,
			expected: "5-12,20-30",
		},
		"CoverAll": {
			set:      "2-3,5,7-8,20-30",
			begin:    0,
			end:      40,
			expected: "0-40",
		},
		"BridgeMany": {
			set:      "1,3,5,7,9",
			begin:    2,
			end:      8,
			expected: "1-9",
		},
		"Negative": {
			set:      "-10--5,0-3",
			begin:    -4,
			end:      -1,
			expected: "-10-3",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			set := MustParse(tc.set)
			got, err := Add(set, tc.begin, tc.end)
			require.NoError(t, err)
			if diff := cmp.Diff(MustParse(tc.expected), got, cmpSet...); diff != "" {
				t.Errorf("%s: -want, +got:\n%s", name, diff)
			}
			assert.NoError(t, got.Validate())
			// the input is never modified
			assert.Equal(t, MustParse(tc.set).String(), set.String())
		})
	}
}

func TestRemove(t *testing.T) {
	cases := map[string]struct {
		set      string
		begin    int64
		end      int64
		expected string
	}{
		"Empty": {
			set:      "",
			begin:    1,
			end:      4,
			expected: "",
		},
		"MiddleSlice": {
			set:      "1-4",
			begin:    2,
			end:      3,
			expected: "1,4",
		},
		"AcrossBoundaries": {
			set:      "1-4,6-9,12-15",
			begin:    4,
			end:      13,
			expected: "1-3,14-15",
		},
		"ExactMatch": {
			set:      "1-4,6-9",
			begin:    6,
			end:      9,
			expected: "1-4",
		},
		"SameBegin": {
			set:      "1-4",
			begin:    1,
			end:      2,
			expected: "3-4",
		},
		"SameEnd": {
			set:      "1-4",
			begin:    3,
			end:      4,
			expected: "1-2",
		},
		"SinglePointAtBegin": {
			set:      "1,3,5",
			begin:    3,
			end:      3,
			expected: "1,5",
		},
		"SinglePointAtBeginWiderRemoval": {
			set:      "1,3,5-9",
			begin:    3,
			end:      6,
			expected: "1,7-9",
		},
		"SinglePointInsideRemoval": {
			set:      "1,3,5",
			begin:    2,
			end:      4,
			expected: "1,5",
		},
		"NoIntersection": {
			set:      "1-4,10-12",
			begin:    6,
			end:      8,
			expected: "1-4,10-12",
		},
		"CoverAll": {
			set:      "1-4,10-12",
			begin:    0,
			end:      20,
			expected: "",
		},
		"OverlapStart": {
			set:      "5-10",
			begin:    2,
			end:      6,
			expected: "7-10",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			set := MustParse(tc.set)
			got, err := Remove(set, tc.begin, tc.end)
			require.NoError(t, err)
			if diff := cmp.Diff(MustParse(tc.expected), got, cmpSet...); diff != "" {
				t.Errorf("%s: -want, +got:\n%s", name, diff)
			}
			assert.NoError(t, got.Validate())
			assert.Equal(t, MustParse(tc.set).String(), set.String())
		})
	}
}

func TestInvalidInput(t *testing.T) {
	set := MustParse("1-4")

	cases := map[string]struct {
		fn          func(Set, int64, int64) (Set, error)
		begin       int64
		end         int64
		expectedErr error
	}{
		"AddReversed": {
			fn:          Add,
			begin:       5,
			end:         4,
			expectedErr: interval.ErrInvalidRange,
		},
		"RemoveReversed": {
			fn:          Remove,
			begin:       3,
			end:         2,
			expectedErr: interval.ErrInvalidRange,
		},
		"AddOutOfRange": {
			fn:          Add,
			begin:       0,
			end:         interval.MaxPosition + 1,
			expectedErr: interval.ErrInvalidArgument,
		},
		"RemoveOutOfRange": {
			fn:          Remove,
			begin:       interval.MinPosition - 1,
			end:         0,
			expectedErr: interval.ErrInvalidArgument,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := tc.fn(set, tc.begin, tc.end)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, tc.expectedErr), "got %v", err)
			assert.True(t, set.Equal(got))
		})
	}
}

func TestQueries(t *testing.T) {
	set := MustParse("1-4,8,10-12")

	assert.Equal(t, 3, set.Len())
	assert.Equal(t, int64(8), set.Count())
	assert.Equal(t, "1-4,8,10-12", set.String())

	for _, pos := range []int64{1, 4, 8, 10, 12} {
		assert.True(t, set.Contains(pos), "contains %d", pos)
	}
	for _, pos := range []int64{0, 5, 7, 9, 13} {
		assert.False(t, set.Contains(pos), "contains %d", pos)
	}
	assert.True(t, set.Covers(2, 4))
	assert.False(t, set.Covers(4, 8))
	assert.False(t, set.Covers(4, 3))

	lo, ok := set.Min()
	assert.True(t, ok)
	assert.Equal(t, int64(1), lo)
	hi, ok := set.Max()
	assert.True(t, ok)
	assert.Equal(t, int64(12), hi)

	_, ok = Set{}.Min()
	assert.False(t, ok)
	assert.True(t, Set{}.IsEmpty())

	// Ranges returns a copy
	rr := set.Ranges()
	rr[0] = interval.MustParse("100")
	assert.Equal(t, "1-4,8,10-12", set.String())
}

func TestCountSaturates(t *testing.T) {
	cases := map[string]struct {
		adds     [][2]int64
		removes  [][2]int64
		expected int64
	}{
		"FullRange": {
			adds:     [][2]int64{{interval.MinPosition, interval.MaxPosition}},
			expected: math.MaxInt64,
		},
		"FullRangeWithoutEnds": {
			adds: [][2]int64{{interval.MinPosition, interval.MaxPosition}},
			removes: [][2]int64{
				{interval.MinPosition, interval.MinPosition},
				{interval.MaxPosition, interval.MaxPosition},
			},
			expected: math.MaxInt64,
		},
		"TwoHalves": {
			adds: [][2]int64{
				{interval.MinPosition, -2},
				{0, interval.MaxPosition},
			},
			expected: math.MaxInt64,
		},
		"UpperHalf": {
			adds:     [][2]int64{{1, interval.MaxPosition}},
			expected: math.MaxInt64 - 1,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var set Set
			var err error
			for _, a := range tc.adds {
				set, err = Add(set, a[0], a[1])
				require.NoError(t, err)
			}
			for _, r := range tc.removes {
				set, err = Remove(set, r[0], r[1])
				require.NoError(t, err)
			}
			assert.Equal(t, tc.expected, set.Count())
			assert.Greater(t, set.Count(), int64(0))
		})
	}
}

func TestComplement(t *testing.T) {
	cases := map[string]struct {
		set      string
		begin    int64
		end      int64
		expected string
	}{
		"Empty": {
			set:      "",
			begin:    0,
			end:      9,
			expected: "0-9",
		},
		"Holes": {
			set:      "1-4,8,10-12",
			begin:    0,
			end:      15,
			expected: "0,5-7,9,13-15",
		},
		"Clipped": {
			set:      "1-4,8,10-12",
			begin:    3,
			end:      10,
			expected: "5-7,9",
		},
		"Full": {
			set:      "0-20",
			begin:    3,
			end:      10,
			expected: "",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			set := MustParse(tc.set)
			got, err := Complement(set, tc.begin, tc.end)
			require.NoError(t, err)
			if diff := cmp.Diff(MustParse(tc.expected), got, cmpSet...); diff != "" {
				t.Errorf("%s: -want, +got:\n%s", name, diff)
			}
			// set and complement together cover the bounds
			all, err := New(append(set.Ranges(), got.Ranges()...)...)
			require.NoError(t, err)
			assert.True(t, all.Covers(tc.begin, tc.end))
		})
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		rr          []interval.Interval
		expectedErr bool
	}{
		"Empty": {},
		"Normalized": {
			rr: []interval.Interval{interval.MustParse("1-2"), interval.MustParse("4-5")},
		},
		"Adjacent": {
			rr:          []interval.Interval{interval.MustParse("1-2"), interval.MustParse("3-5")},
			expectedErr: true,
		},
		"Overlap": {
			rr:          []interval.Interval{interval.MustParse("1-3"), interval.MustParse("3-5")},
			expectedErr: true,
		},
		"Unsorted": {
			rr:          []interval.Interval{interval.MustParse("4-5"), interval.MustParse("1-2")},
			expectedErr: true,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := Set{rr: tc.rr}.Validate()
			if tc.expectedErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("1-2,x,4-3")
	assert.True(t, errors.Is(err, interval.ErrInvalidArgument))
	assert.True(t, errors.Is(err, interval.ErrInvalidRange))
}

func randomInterval(rnd *rand.Rand) (int64, int64) {
	begin := int64(rnd.Intn(60)) - 10
	return begin, begin + int64(rnd.Intn(8))
}

func randomSet(t *testing.T, rnd *rand.Rand) Set {
	var set Set
	var err error
	n := rnd.Intn(6)
	for i := 0; i < n; i++ {
		begin, end := randomInterval(rnd)
		set, err = Add(set, begin, end)
		require.NoError(t, err)
	}
	return set
}

func TestProperties(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	for i := 0; i < 500; i++ {
		s := randomSet(t, rnd)
		a, b := randomInterval(rnd)
		c, d := randomInterval(rnd)

		added, err := Add(s, a, b)
		require.NoError(t, err)
		require.NoError(t, added.Validate(), "add %d-%d to %s", a, b, s)

		// idempotence
		again, err := Add(added, a, b)
		require.NoError(t, err)
		assert.True(t, added.Equal(again), "add %d-%d twice to %s", a, b, s)

		// containment absorption
		if added.Covers(c, d) {
			absorbed, err := Add(added, c, d)
			require.NoError(t, err)
			assert.True(t, added.Equal(absorbed))
		}

		// coverage does not depend on the order of additions
		ab, _ := Add(added, c, d)
		cd, _ := Add(s, c, d)
		cd, _ = Add(cd, a, b)
		assert.True(t, ab.Positions().Equal(cd.Positions()))
		assert.True(t, ab.Equal(cd))

		removed, err := Remove(s, a, b)
		require.NoError(t, err)
		require.NoError(t, removed.Validate(), "remove %d-%d from %s", a, b, s)

		want := s.Positions()
		for pos := a; pos <= b; pos++ {
			want.Delete(pos)
		}
		assert.True(t, want.Equal(removed.Positions()), "remove %d-%d from %s: got %s", a, b, s, removed)

		// add/remove inverse on fresh ground
		fresh, _ := Add(Set{}, a, b)
		empty, _ := Remove(fresh, a, b)
		assert.True(t, empty.IsEmpty())
	}
}

func BenchmarkAdd(b *testing.B) {
	rnd := rand.New(rand.NewSource(0))

	b.ReportAllocs()

	var set Set
	for i := 0; i < b.N; i++ {
		begin := int64(rnd.Intn(8 * 1_000_000))
		set, _ = Add(set, begin, begin+int64(rnd.Intn(16)))
	}
}

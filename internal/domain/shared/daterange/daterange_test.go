package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fractioncar/internal/domain/shared/faults"
)

func d(day int) time.Time {
	return time.Date(2026, time.March, day, 0, 0, 0, 0, time.UTC)
}

func TestNewRejectsInvertedRange(t *testing.T) {
	_, err := New(d(10), d(5))
	require.ErrorIs(t, err, faults.ErrInvalidRange)

	_, err = New(d(10), d(10))
	require.ErrorIs(t, err, faults.ErrInvalidRange)

	_, err = New(time.Time{}, d(10))
	require.ErrorIs(t, err, faults.ErrInvalidRange)
}

func TestOverlapsSymmetry(t *testing.T) {
	cases := []struct {
		name string
		a, b DateRange
	}{
		{"disjoint", DateRange{d(1), d(3)}, DateRange{d(10), d(12)}},
		{"nested", DateRange{d(1), d(20)}, DateRange{d(5), d(7)}},
		{"partial", DateRange{d(1), d(10)}, DateRange{d(5), d(15)}},
		{"touching", DateRange{d(1), d(5)}, DateRange{d(5), d(9)}},
		{"identical", DateRange{d(1), d(5)}, DateRange{d(1), d(5)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.a.Overlaps(tc.b), tc.b.Overlaps(tc.a))
		})
	}
}

func TestOverlapsInclusiveBoundary(t *testing.T) {
	// Ranges that merely touch at an endpoint count as conflicting.
	a := DateRange{From: d(1), To: d(3)}
	b := DateRange{From: d(3), To: d(5)}
	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))

	c := DateRange{From: d(4), To: d(6)}
	assert.False(t, a.Overlaps(c))
}

func TestContains(t *testing.T) {
	outer := DateRange{From: d(1), To: d(10)}
	assert.True(t, outer.Contains(DateRange{From: d(2), To: d(9)}))
	assert.True(t, outer.Contains(outer))
	assert.False(t, outer.Contains(DateRange{From: d(2), To: d(11)}))
}

func TestContainsDate(t *testing.T) {
	r := DateRange{From: d(5), To: d(10)}
	assert.True(t, r.ContainsDate(d(5)))
	assert.True(t, r.ContainsDate(d(10)))
	assert.False(t, r.ContainsDate(d(4)))
	assert.False(t, r.ContainsDate(d(11)))
}

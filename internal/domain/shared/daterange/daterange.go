package daterange

import (
	"time"

	"fractioncar/internal/domain/shared/faults"
)

// DateRange represents a closed interval [From, To]. Both endpoints belong to
// the range, so two ranges that merely touch at an endpoint conflict. The
// policy deliberately favors a false conflict over a double booking.
type DateRange struct {
	From time.Time
	To   time.Time
}

func New(from, to time.Time) (DateRange, error) {
	dr := DateRange{From: from.UTC(), To: to.UTC()}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

func (dr DateRange) Validate() error {
	if dr.From.IsZero() || dr.To.IsZero() {
		return faults.ErrInvalidRange
	}
	if !dr.To.After(dr.From) {
		return faults.ErrInvalidRange
	}
	return nil
}

func (dr DateRange) Overlaps(other DateRange) bool {
	return !dr.From.After(other.To) && !dr.To.Before(other.From)
}

func (dr DateRange) Contains(other DateRange) bool {
	return !dr.From.After(other.From) && !dr.To.Before(other.To)
}

func (dr DateRange) ContainsDate(t time.Time) bool {
	t = t.UTC()
	return !t.Before(dr.From) && !t.After(dr.To)
}

func (dr DateRange) Days() int {
	return int(dr.To.Sub(dr.From).Hours() / 24)
}

package amc

import (
	"context"
	"math"
	"time"
)

// AnnualPenaltyRate is the simple interest rate applied per year overdue.
const AnnualPenaltyRate = 0.18

// ReminderWindowDays bounds how far ahead of a due date reminders go out.
const ReminderWindowDays = 30

// Installment is one yearly slice of an annual maintenance charge.
// Penalty accrues daily while the installment is unpaid and overdue and is
// frozen the moment Paid flips to true.
type Installment struct {
	Year                   int
	Amount                 float64
	Paid                   bool
	DueDate                time.Time
	PaidDate               *time.Time
	Penalty                float64
	LastPenaltyCalculation *time.Time
}

// DaysOverdue counts days past the due date, rounding any partial day up.
func (i *Installment) DaysOverdue(now time.Time) int {
	diff := now.UTC().Sub(i.DueDate.UTC())
	if diff <= 0 {
		return 0
	}
	return int(math.Ceil(diff.Hours() / 24))
}

// DaysUntilDue counts whole days remaining before the due date; zero or
// negative means the installment is due today or already overdue.
func (i *Installment) DaysUntilDue(now time.Time) int {
	diff := i.DueDate.UTC().Sub(now.UTC())
	return int(math.Ceil(diff.Hours() / 24))
}

// AccruedPenalty computes the simple-interest penalty as of now:
// amount x rate/365 x daysOverdue, rounded to 2 decimals. Never negative.
func (i *Installment) AccruedPenalty(now time.Time) float64 {
	days := i.DaysOverdue(now)
	if days <= 0 {
		return 0
	}
	return Round2(i.Amount * AnnualPenaltyRate / 365 * float64(days))
}

// ReminderDue reports whether the installment falls inside the reminder
// window. Overdue installments belong to the penalty path, not reminders.
func (i *Installment) ReminderDue(now time.Time) bool {
	if i.Paid {
		return false
	}
	d := i.DaysUntilDue(now)
	return d > 0 && d <= ReminderWindowDays
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AMC is the annual maintenance charge attached to one ticket of one car,
// split into per-year installments.
type AMC struct {
	ID           string
	UserID       string
	CarID        string
	TicketID     string
	Installments []Installment
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Installment returns the slice entry for the given year, or nil.
func (a *AMC) Installment(year int) *Installment {
	for idx := range a.Installments {
		if a.Installments[idx].Year == year {
			return &a.Installments[idx]
		}
	}
	return nil
}

// TotalPenalty sums penalties across all installments.
func (a *AMC) TotalPenalty() float64 {
	var total float64
	for _, inst := range a.Installments {
		total += inst.Penalty
	}
	return Round2(total)
}

type Repository interface {
	ByID(ctx context.Context, id string) (*AMC, error)
	List(ctx context.Context) ([]*AMC, error)
	Save(ctx context.Context, a *AMC) error
}

package amc

import (
	"context"
	"fmt"

	"fractioncar/internal/app/policies"
	domainamc "fractioncar/internal/domain/amc"
)

// ReminderPreview is one record that would be reminded, with the years still
// unpaid inside the window and the days left before the soonest due date.
type ReminderPreview struct {
	AMC          *domainamc.AMC `json:"amc"`
	UnpaidYears  []int          `json:"unpaidYears"`
	DaysUntilDue int            `json:"daysUntilDue"`
}

// ReminderRunResult aggregates one reminder sweep.
type ReminderRunResult struct {
	TotalChecked  int `json:"totalChecked"`
	RemindersSent int `json:"remindersSent"`
	ErrorCount    int `json:"errorCount"`
}

// PreviewReminders lists the obligations a send would notify, without
// sending. Past-due installments are excluded here; they belong to the
// penalty path.
func (s *Service) PreviewReminders(ctx context.Context) ([]ReminderPreview, error) {
	records, err := s.AMCs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("amc: list records: %w", err)
	}
	now := s.now()
	var previews []ReminderPreview
	for _, rec := range records {
		var years []int
		soonest := 0
		for idx := range rec.Installments {
			inst := &rec.Installments[idx]
			if !inst.ReminderDue(now) {
				continue
			}
			years = append(years, inst.Year)
			d := inst.DaysUntilDue(now)
			if soonest == 0 || d < soonest {
				soonest = d
			}
		}
		if len(years) == 0 {
			continue
		}
		previews = append(previews, ReminderPreview{AMC: rec, UnpaidYears: years, DaysUntilDue: soonest})
	}
	return previews, nil
}

// SendReminders notifies every record with an installment due within the
// window. No dedup beyond one notification per sweep: repeated sweeps
// re-notify by design.
func (s *Service) SendReminders(ctx context.Context) (ReminderRunResult, error) {
	records, err := s.AMCs.List(ctx)
	if err != nil {
		return ReminderRunResult{}, fmt.Errorf("amc: list records: %w", err)
	}
	res := ReminderRunResult{TotalChecked: len(records)}
	now := s.now()
	for _, rec := range records {
		due := false
		soonest := 0
		for idx := range rec.Installments {
			inst := &rec.Installments[idx]
			if !inst.ReminderDue(now) {
				continue
			}
			due = true
			d := inst.DaysUntilDue(now)
			if soonest == 0 || d < soonest {
				soonest = d
			}
		}
		if !due {
			continue
		}
		if s.Notifier != nil {
			n := policies.Notification{
				Recipient: rec.UserID,
				Audience:  "user",
				Event:     "amc.payment_due",
				Title:     "AMC payment due",
				Message:   fmt.Sprintf("Your annual maintenance charge is due in %d day(s)", soonest),
				Data:      map[string]any{"amc_id": rec.ID, "car_id": rec.CarID},
			}
			if err := s.Notifier.Send(ctx, n); err != nil {
				res.ErrorCount++
				if s.Logger != nil {
					s.Logger.Error("amc reminder failed", "amc_id", rec.ID, "error", err)
				}
				continue
			}
		}
		res.RemindersSent++
	}
	return res, nil
}

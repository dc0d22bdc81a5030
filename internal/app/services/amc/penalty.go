package amc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fractioncar/internal/app/policies"
	domainamc "fractioncar/internal/domain/amc"
	"fractioncar/internal/domain/shared/faults"
)

// recalcThrottle skips installments recalculated within the last day, unless
// the penalty is still zero and a first value may be owed.
const recalcThrottle = 24 * time.Hour

// Service recomputes late-payment penalties and sends AMC reminders.
// Sweeps isolate failures per record: one bad record is logged and skipped,
// the rest of the sweep continues.
type Service struct {
	AMCs     domainamc.Repository
	Notifier policies.Notifier
	Email    policies.EmailSender
	Logger   *slog.Logger
	Now      func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// SweepResult aggregates one penalty run.
type SweepResult struct {
	TotalChecked       int     `json:"totalChecked"`
	PenaltiesApplied   int     `json:"penaltiesApplied"`
	TotalPenaltyAmount float64 `json:"totalPenaltyAmount"`
	ErrorCount         int     `json:"errorCount"`
}

// Sweep recomputes penalties for every AMC record. Idempotent within a day:
// an already-current record is a no-op and its timestamps are left alone.
func (s *Service) Sweep(ctx context.Context) (SweepResult, error) {
	records, err := s.AMCs.List(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("amc: list records: %w", err)
	}
	res := SweepResult{TotalChecked: len(records)}
	now := s.now()
	for _, rec := range records {
		changed, delta := s.applyPenalties(rec, now, true)
		if !changed {
			continue
		}
		if err := s.AMCs.Save(ctx, rec); err != nil {
			res.ErrorCount++
			if s.Logger != nil {
				s.Logger.Error("penalty save failed", "amc_id", rec.ID, "error", err)
			}
			continue
		}
		res.PenaltiesApplied++
		res.TotalPenaltyAmount = domainamc.Round2(res.TotalPenaltyAmount + delta)
		s.notifyPenalty(ctx, rec, delta)
	}
	return res, nil
}

// ApplyForOne is the admin-triggered single-record recalculation. Same
// formula as the sweep, no throttle.
func (s *Service) ApplyForOne(ctx context.Context, id string) (SweepResult, error) {
	rec, err := s.AMCs.ByID(ctx, id)
	if err != nil {
		return SweepResult{}, err
	}
	res := SweepResult{TotalChecked: 1}
	now := s.now()
	changed, delta := s.applyPenalties(rec, now, false)
	if !changed {
		return res, nil
	}
	if err := s.AMCs.Save(ctx, rec); err != nil {
		return res, fmt.Errorf("amc: save %s: %w", id, err)
	}
	res.PenaltiesApplied = 1
	res.TotalPenaltyAmount = delta
	s.notifyPenalty(ctx, rec, delta)
	return res, nil
}

// PayInstallment marks one year paid, freezing its penalty at the current
// value. No further recalculation touches a paid installment.
func (s *Service) PayInstallment(ctx context.Context, id string, year int) (*domainamc.AMC, error) {
	rec, err := s.AMCs.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	inst := rec.Installment(year)
	if inst == nil {
		return nil, fmt.Errorf("amc: no installment for year %d: %w", year, faults.ErrNotFound)
	}
	if inst.Paid {
		return rec, nil
	}
	now := s.now()
	inst.Paid = true
	inst.PaidDate = &now
	rec.UpdatedAt = now
	if err := s.AMCs.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("amc: save %s: %w", id, err)
	}
	return rec, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domainamc.AMC, error) {
	return s.AMCs.ByID(ctx, id)
}

// applyPenalties recomputes every unpaid overdue installment of one record.
// Returns whether anything changed and the total penalty delta.
func (s *Service) applyPenalties(rec *domainamc.AMC, now time.Time, throttle bool) (bool, float64) {
	changed := false
	var delta float64
	for idx := range rec.Installments {
		inst := &rec.Installments[idx]
		if inst.Paid {
			continue
		}
		if inst.DaysOverdue(now) <= 0 {
			continue
		}
		if throttle && inst.Penalty > 0 && inst.LastPenaltyCalculation != nil &&
			now.Sub(*inst.LastPenaltyCalculation) < recalcThrottle {
			continue
		}
		penalty := inst.AccruedPenalty(now)
		if penalty == inst.Penalty {
			// Same day, same amount: refresh nothing so reruns stay no-ops.
			continue
		}
		delta += penalty - inst.Penalty
		inst.Penalty = penalty
		ts := now
		inst.LastPenaltyCalculation = &ts
		changed = true
	}
	if changed {
		rec.UpdatedAt = now
		delta = domainamc.Round2(delta)
	}
	return changed, delta
}

// notifyPenalty emits one user-facing and one admin-facing notification per
// penalty change. Best-effort: failures are logged, the penalty write stands.
func (s *Service) notifyPenalty(ctx context.Context, rec *domainamc.AMC, delta float64) {
	if s.Notifier == nil {
		return
	}
	msg := fmt.Sprintf("Late-payment penalty on your AMC is now %.2f (changed by %.2f)", rec.TotalPenalty(), delta)
	for _, n := range []policies.Notification{
		{Recipient: rec.UserID, Audience: "user", Event: "amc.penalty_updated", Title: "AMC penalty updated", Message: msg,
			Data: map[string]any{"amc_id": rec.ID, "car_id": rec.CarID}},
		{Recipient: "admin", Audience: "admin", Event: "amc.penalty_updated", Title: "AMC penalty updated",
			Message: fmt.Sprintf("AMC %s of user %s accrued penalty (total %.2f)", rec.ID, rec.UserID, rec.TotalPenalty()),
			Data:    map[string]any{"amc_id": rec.ID, "user_id": rec.UserID}},
	} {
		if err := s.Notifier.Send(ctx, n); err != nil && s.Logger != nil {
			s.Logger.Error("penalty notification failed", "amc_id", rec.ID, "audience", n.Audience, "error", err)
		}
	}
}

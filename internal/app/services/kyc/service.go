package kyc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fractioncar/internal/app/policies"
	"fractioncar/internal/domain/user"
)

// Service nags users whose KYC is still pending. Like the AMC sweep there is
// no suppression window: every run re-notifies eligible users.
type Service struct {
	Users    user.Repository
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

type ReminderPreview struct {
	User                  *user.User `json:"user"`
	DaysSinceRegistration int        `json:"daysSinceRegistration"`
}

type ReminderRunResult struct {
	TotalChecked  int `json:"totalChecked"`
	RemindersSent int `json:"remindersSent"`
	ErrorCount    int `json:"errorCount"`
}

// PreviewReminders lists users a send would notify.
func (s *Service) PreviewReminders(ctx context.Context) ([]ReminderPreview, error) {
	pending, err := s.Users.ListKYCPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("kyc: list pending users: %w", err)
	}
	now := s.now()
	var previews []ReminderPreview
	for _, u := range pending {
		if !u.KYCReminderDue(now) {
			continue
		}
		previews = append(previews, ReminderPreview{User: u, DaysSinceRegistration: u.DaysSinceRegistration(now)})
	}
	return previews, nil
}

// SendReminders emits both an in-app notification and an email per eligible
// user. Each delivery failure is counted and skipped, never fatal.
func (s *Service) SendReminders(ctx context.Context) (ReminderRunResult, error) {
	pending, err := s.Users.ListKYCPending(ctx)
	if err != nil {
		return ReminderRunResult{}, fmt.Errorf("kyc: list pending users: %w", err)
	}
	res := ReminderRunResult{TotalChecked: len(pending)}
	now := s.now()
	for _, u := range pending {
		if !u.KYCReminderDue(now) {
			continue
		}
		failed := false
		if s.Notifier != nil {
			n := policies.Notification{
				Recipient: u.ID,
				Audience:  "user",
				Event:     "kyc.pending",
				Title:     "Complete your KYC",
				Message:   "Your KYC verification is still pending. Please submit your documents to unlock bookings.",
				Data:      map[string]any{"user_id": u.ID},
			}
			if err := s.Notifier.Send(ctx, n); err != nil {
				failed = true
				if s.Logger != nil {
					s.Logger.Error("kyc notification failed", "user_id", u.ID, "error", err)
				}
			}
		}
		if s.Email != nil && u.Email != "" {
			body := fmt.Sprintf("Hi %s, your KYC has been pending for %d day(s). Please complete it to start booking.",
				u.Name, u.DaysSinceRegistration(now))
			if err := s.Email.Send(ctx, u.Email, "KYC verification pending", body); err != nil {
				failed = true
				if s.Logger != nil {
					s.Logger.Error("kyc email failed", "user_id", u.ID, "error", err)
				}
			}
		}
		if failed {
			res.ErrorCount++
			continue
		}
		res.RemindersSent++
	}
	return res, nil
}

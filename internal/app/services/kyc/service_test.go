package kyc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fractioncar/internal/domain/user"
	"fractioncar/internal/infra/storage/memory"
)

var now = time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	svc      *Service
	notifier *memory.NotifierSink
	email    *memory.EmailSink
}

func seed(t *testing.T, users ...*user.User) fixture {
	t.Helper()
	repo := memory.NewUserRepository()
	for _, u := range users {
		require.NoError(t, repo.Save(context.Background(), u))
	}
	notifier := memory.NewNotifierSink()
	email := memory.NewEmailSink()
	return fixture{
		svc: &Service{
			Users:    repo,
			Notifier: notifier,
			Email:    email,
			Now:      func() time.Time { return now },
		},
		notifier: notifier,
		email:    email,
	}
}

func pendingUser(id string, registeredDaysAgo int) *user.User {
	return &user.User{
		ID:        id,
		Name:      "Asha",
		Email:     id + "@example.com",
		KYCStatus: user.KYCPending,
		Status:    user.StatusActive,
		CreatedAt: now.AddDate(0, 0, -registeredDaysAgo),
	}
}

func TestSendNotifiesPendingUsers(t *testing.T) {
	f := seed(t, pendingUser("u-1", 3))

	res, err := f.svc.SendReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalChecked)
	assert.Equal(t, 1, res.RemindersSent)

	sent := f.notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "kyc.pending", sent[0].Event)
	assert.Equal(t, "u-1", sent[0].Recipient)

	mail := f.email.Sent()
	require.Len(t, mail, 1)
	assert.Equal(t, "u-1@example.com", mail[0].To)
	assert.Contains(t, mail[0].Body, "3 day")
}

func TestEligibilityFilters(t *testing.T) {
	justRegistered := pendingUser("u-new", 0)
	approved := pendingUser("u-ok", 5)
	approved.KYCStatus = user.KYCApproved
	suspended := pendingUser("u-susp", 5)
	suspended.Status = user.StatusSuspended

	f := seed(t, justRegistered, approved, suspended, pendingUser("u-due", 1))

	res, err := f.svc.SendReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.RemindersSent)

	sent := f.notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "u-due", sent[0].Recipient)
}

func TestPreviewDoesNotSend(t *testing.T) {
	f := seed(t, pendingUser("u-1", 7))

	previews, err := f.svc.PreviewReminders(context.Background())
	require.NoError(t, err)
	require.Len(t, previews, 1)
	assert.Equal(t, "u-1", previews[0].User.ID)
	assert.Equal(t, 7, previews[0].DaysSinceRegistration)

	assert.Empty(t, f.notifier.Sent())
	assert.Empty(t, f.email.Sent())
}

func TestDeliveryFailureIsIsolated(t *testing.T) {
	f := seed(t, pendingUser("u-1", 2), pendingUser("u-2", 2))
	f.email.Fail = errors.New("smtp refused")

	res, err := f.svc.SendReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalChecked)
	assert.Zero(t, res.RemindersSent)
	assert.Equal(t, 2, res.ErrorCount)

	// In-app notifications still went out even though mail failed.
	assert.Len(t, f.notifier.Sent(), 2)
}

func TestRepeatedRunsRenotify(t *testing.T) {
	f := seed(t, pendingUser("u-1", 2))
	ctx := context.Background()

	_, err := f.svc.SendReminders(ctx)
	require.NoError(t, err)
	_, err = f.svc.SendReminders(ctx)
	require.NoError(t, err)

	assert.Len(t, f.notifier.Sent(), 2)
	assert.Len(t, f.email.Sent(), 2)
}

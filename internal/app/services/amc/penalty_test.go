package amc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainamc "fractioncar/internal/domain/amc"
	"fractioncar/internal/infra/storage/memory"
)

var now = time.Date(2026, time.September, 1, 6, 0, 0, 0, time.UTC)

func seed(t *testing.T, records ...*domainamc.AMC) (*Service, *memory.AMCRepository, *memory.NotifierSink) {
	t.Helper()
	repo := memory.NewAMCRepository()
	for _, rec := range records {
		require.NoError(t, repo.Save(context.Background(), rec))
	}
	notifier := memory.NewNotifierSink()
	svc := &Service{
		AMCs:     repo,
		Notifier: notifier,
		Now:      func() time.Time { return now },
	}
	return svc, repo, notifier
}

func overdueRecord(id string, amount float64, daysOverdue int) *domainamc.AMC {
	return &domainamc.AMC{
		ID:     id,
		UserID: "u-1",
		CarID:  "car-1",
		Installments: []domainamc.Installment{
			{Year: 1, Amount: amount, DueDate: now.AddDate(0, 0, -daysOverdue)},
		},
	}
}

func TestSweepAppliesPenaltyFormula(t *testing.T) {
	svc, repo, notifier := seed(t, overdueRecord("amc-1", 10000, 30))

	res, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalChecked)
	assert.Equal(t, 1, res.PenaltiesApplied)
	assert.InDelta(t, 147.95, res.TotalPenaltyAmount, 0.001)
	assert.Zero(t, res.ErrorCount)

	stored, err := repo.ByID(context.Background(), "amc-1")
	require.NoError(t, err)
	assert.InDelta(t, 147.95, stored.Installments[0].Penalty, 0.001)
	require.NotNil(t, stored.Installments[0].LastPenaltyCalculation)
	assert.Equal(t, now, *stored.Installments[0].LastPenaltyCalculation)

	// One user-facing and one admin-facing notification per change.
	sent := notifier.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "user", sent[0].Audience)
	assert.Equal(t, "admin", sent[1].Audience)
}

func TestSweepSkipsNotYetDue(t *testing.T) {
	rec := &domainamc.AMC{
		ID: "amc-1", UserID: "u-1",
		Installments: []domainamc.Installment{
			{Year: 1, Amount: 10000, DueDate: now.AddDate(0, 0, 10)},
		},
	}
	svc, repo, _ := seed(t, rec)

	res, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.PenaltiesApplied)

	stored, err := repo.ByID(context.Background(), "amc-1")
	require.NoError(t, err)
	assert.Zero(t, stored.Installments[0].Penalty)
	assert.Nil(t, stored.Installments[0].LastPenaltyCalculation)
}

func TestPaidInstallmentPenaltyIsFrozen(t *testing.T) {
	paidAt := now.AddDate(0, 0, -5)
	rec := &domainamc.AMC{
		ID: "amc-1", UserID: "u-1",
		Installments: []domainamc.Installment{
			{Year: 1, Amount: 10000, Paid: true, PaidDate: &paidAt, Penalty: 42.42,
				DueDate: now.AddDate(0, 0, -90)},
		},
	}
	svc, repo, _ := seed(t, rec)

	res, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.PenaltiesApplied)

	stored, err := repo.ByID(context.Background(), "amc-1")
	require.NoError(t, err)
	assert.Equal(t, 42.42, stored.Installments[0].Penalty, "paid installments never recalculate")
}

func TestSweepThrottleWithinSameDay(t *testing.T) {
	svc, repo, _ := seed(t, overdueRecord("amc-1", 10000, 30))
	ctx := context.Background()

	_, err := svc.Sweep(ctx)
	require.NoError(t, err)
	first, err := repo.ByID(ctx, "amc-1")
	require.NoError(t, err)
	firstCalc := *first.Installments[0].LastPenaltyCalculation

	// An hour later the penalty is current and under the throttle.
	now = now.Add(time.Hour)
	defer func() { now = now.Add(-time.Hour) }()

	res, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.PenaltiesApplied)

	second, err := repo.ByID(ctx, "amc-1")
	require.NoError(t, err)
	assert.Equal(t, firstCalc, *second.Installments[0].LastPenaltyCalculation)
}

func TestSweepRecalculatesWhenPenaltyStillZero(t *testing.T) {
	calc := now.Add(-time.Hour)
	rec := overdueRecord("amc-1", 10000, 30)
	rec.Installments[0].LastPenaltyCalculation = &calc // recent, but penalty never set

	svc, repo, _ := seed(t, rec)
	res, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.PenaltiesApplied, "zero penalty bypasses the throttle")

	stored, err := repo.ByID(context.Background(), "amc-1")
	require.NoError(t, err)
	assert.InDelta(t, 147.95, stored.Installments[0].Penalty, 0.001)
}

func TestApplyForOneIgnoresThrottle(t *testing.T) {
	svc, repo, _ := seed(t, overdueRecord("amc-1", 10000, 29))
	ctx := context.Background()

	_, err := svc.Sweep(ctx)
	require.NoError(t, err)

	// One more day overdue, still inside the sweep throttle window.
	now = now.Add(24 * time.Hour)
	defer func() { now = now.Add(-24 * time.Hour) }()

	res, err := svc.ApplyForOne(ctx, "amc-1")
	require.NoError(t, err)
	assert.Equal(t, 1, res.PenaltiesApplied)

	stored, err := repo.ByID(ctx, "amc-1")
	require.NoError(t, err)
	assert.InDelta(t, 147.95, stored.Installments[0].Penalty, 0.001)
}

func TestPayInstallmentFreezesPenalty(t *testing.T) {
	svc, repo, _ := seed(t, overdueRecord("amc-1", 10000, 30))
	ctx := context.Background()

	_, err := svc.Sweep(ctx)
	require.NoError(t, err)

	rec, err := svc.PayInstallment(ctx, "amc-1", 1)
	require.NoError(t, err)
	assert.True(t, rec.Installments[0].Paid)
	require.NotNil(t, rec.Installments[0].PaidDate)

	// Far in the future the frozen penalty still stands.
	now = now.AddDate(1, 0, 0)
	defer func() { now = now.AddDate(-1, 0, 0) }()

	res, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.PenaltiesApplied)

	stored, err := repo.ByID(ctx, "amc-1")
	require.NoError(t, err)
	assert.InDelta(t, 147.95, stored.Installments[0].Penalty, 0.001)
}

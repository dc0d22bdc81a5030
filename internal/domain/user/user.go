package user

import (
	"context"
	"time"
)

type KYCStatus string

const (
	KYCPending   KYCStatus = "pending"
	KYCSubmitted KYCStatus = "submitted"
	KYCApproved  KYCStatus = "approved"
	KYCRejected  KYCStatus = "rejected"
)

type AccountStatus string

const (
	StatusActive      AccountStatus = "active"
	StatusSuspended   AccountStatus = "suspended"
	StatusDeactivated AccountStatus = "deactivated"
)

type User struct {
	ID        string
	Name      string
	Email     string
	KYCStatus KYCStatus
	Status    AccountStatus
	CreatedAt time.Time
}

// DaysSinceRegistration counts whole days since the account was created.
func (u *User) DaysSinceRegistration(now time.Time) int {
	return int(now.UTC().Sub(u.CreatedAt.UTC()).Hours() / 24)
}

// KYCReminderDue reports whether the user should be nagged about pending KYC.
func (u *User) KYCReminderDue(now time.Time) bool {
	return u.KYCStatus == KYCPending && u.Status == StatusActive && u.DaysSinceRegistration(now) >= 1
}

type Repository interface {
	ByID(ctx context.Context, id string) (*User, error)
	ListKYCPending(ctx context.Context) ([]*User, error)
}

package policies

import "context"

// EmailSender delivers transactional mail. Best-effort like Notifier.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

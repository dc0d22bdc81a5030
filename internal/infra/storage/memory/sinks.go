package memory

import (
	"context"
	"sync"

	"fractioncar/internal/app/policies"
)

// NotifierSink records notifications in memory. Used by tests and as the
// fallback sink when no Kafka brokers are configured.
type NotifierSink struct {
	mu    sync.Mutex
	items []policies.Notification
	Fail  error // when set, Send returns it
}

func NewNotifierSink() *NotifierSink {
	return &NotifierSink{}
}

func (s *NotifierSink) Send(ctx context.Context, n policies.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	s.items = append(s.items, n)
	return nil
}

func (s *NotifierSink) Sent() []policies.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]policies.Notification, len(s.items))
	copy(out, s.items)
	return out
}

// EmailSink records outbound mail in memory.
type EmailSink struct {
	mu    sync.Mutex
	items []SentEmail
	Fail  error
}

type SentEmail struct {
	To      string
	Subject string
	Body    string
}

func NewEmailSink() *EmailSink {
	return &EmailSink{}
}

func (s *EmailSink) Send(ctx context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	s.items = append(s.items, SentEmail{To: to, Subject: subject, Body: body})
	return nil
}

func (s *EmailSink) Sent() []SentEmail {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SentEmail, len(s.items))
	copy(out, s.items)
	return out
}

package domain

import (
	"strings"
	"time"
)

const (
	FreePlan              = "free"
	FreeMonthlyMessageCap = 5
	FreeMessageWordLimit  = 500
)

// Message is one chat line stored for a sender. Exactly one of Email or
// SessionID identifies the sender.
type Message struct {
	ID        string
	Email     *string
	SessionID *string
	Plan      string
	Text      string
	IsUser    bool
	CreatedAt time.Time
}

// SenderKey returns a stable identifier for quota accounting.
func (m *Message) SenderKey() string {
	if m.Email != nil && *m.Email != "" {
		return "email:" + *m.Email
	}
	if m.SessionID != nil {
		return "session:" + *m.SessionID
	}
	return ""
}

// IsFreeTier reports whether the sender is subject to free-tier limits.
// Anonymous session senders are always free tier.
func (m *Message) IsFreeTier() bool {
	if m.Email == nil || *m.Email == "" {
		return true
	}
	return m.Plan == "" || m.Plan == FreePlan
}

// WordCount counts whitespace-separated words in the message text.
func (m *Message) WordCount() int {
	return len(strings.Fields(m.Text))
}

// MonthStart returns midnight UTC on the first day of t's month.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

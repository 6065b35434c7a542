package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/quota"
	"github.com/mtlprog/agentdesk/internal/repository"
)

// MessageService stores chat messages and enforces free-tier limits on the
// ones users send.
type MessageService struct {
	messageRepo *repository.MessageRepository
	limiter     quota.Limiter
	now         func() time.Time
}

// NewMessageService creates a new MessageService.
func NewMessageService(messageRepo *repository.MessageRepository, limiter quota.Limiter) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		limiter:     limiter,
		now:         time.Now,
	}
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// SendMessage validates and stores a message. Free-tier user messages are
// checked against the word limit and then reserve a monthly quota slot.
func (s *MessageService) SendMessage(ctx context.Context, m *domain.Message) (*domain.Message, error) {
	m.Email = emptyToNil(m.Email)
	m.SessionID = emptyToNil(m.SessionID)
	if m.Email == nil && m.SessionID == nil {
		return nil, domain.ErrMissingSender
	}
	if strings.TrimSpace(m.Text) == "" {
		return nil, domain.ErrEmptyMessage
	}
	if m.Plan == "" {
		m.Plan = domain.FreePlan
	}

	now := s.now()
	limited := m.IsUser && m.IsFreeTier()

	if limited {
		if n := m.WordCount(); n > domain.FreeMessageWordLimit {
			return nil, fmt.Errorf("%w: got %d words", domain.ErrMessageTooLong, n)
		}
		if err := s.limiter.Reserve(ctx, m, now); err != nil {
			return nil, err
		}
	}

	if err := s.messageRepo.Create(ctx, m); err != nil {
		if limited {
			s.limiter.Release(ctx, m, now)
		}
		return nil, err
	}

	slog.Info("message stored", "message_id", m.ID, "sender", m.SenderKey(), "is_user", m.IsUser)

	return m, nil
}

// ListMessages returns the conversation of one sender, oldest first.
func (s *MessageService) ListMessages(ctx context.Context, email, sessionID *string) ([]*domain.Message, error) {
	email = emptyToNil(email)
	sessionID = emptyToNil(sessionID)
	if email == nil && sessionID == nil {
		return nil, domain.ErrMissingSender
	}
	return s.messageRepo.ListBySender(ctx, email, sessionID)
}

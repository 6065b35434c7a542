package domain

import (
	"encoding/json"
	"time"
)

// Flow stores a visual agent graph as an opaque JSON document.
type Flow struct {
	ID          string
	Name        string
	Description string
	Data        json.RawMessage
	CreatedAt   time.Time
}

// User is an account that can log in to the admin panel or the chat.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	IsAdmin      bool
	IsActive     bool
	CreatedAt    time.Time
}

// Role returns the token role claim for the user.
func (u *User) Role() string {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleUser
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Feedback is a rating or comment left by a user.
type Feedback struct {
	ID        string
	UserID    *string
	Message   string
	Rating    *int
	CreatedAt time.Time
}

// Prompt is a reusable prompt template in the prompt library.
type Prompt struct {
	ID        string
	Title     string
	Content   string
	Category  string
	Tags      string
	CreatedAt time.Time
}

// RunStatus is the outcome of one agent invocation.
type RunStatus string

const (
	RunStatusSuccess RunStatus = "success"
	RunStatusError   RunStatus = "error"
	RunStatusBlocked RunStatus = "blocked"
)

// RunLog records one agent invocation.
type RunLog struct {
	ID         string
	AgentID    string
	UserID     *string
	InputText  string
	OutputText string
	Status     RunStatus
	CreatedAt  time.Time
}

// Principal is the authenticated caller carried in a session token.
type Principal struct {
	UserID string
	Email  string
	Role   string
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

package domain

import (
	"fmt"
	"time"
)

// Plan is a pricing tier. RateLimit and DailyLimit are informational.
type Plan struct {
	ID          string
	Name        string
	Description string
	Price       float64
	RateLimit   int
	DailyLimit  *int
	Features    []string
	IsPopular   bool
	CTA         string
	CreatedAt   time.Time
}

// Validate checks the numeric invariants of a plan.
func (p *Plan) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name", ErrRequiredField)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price must be non-negative", ErrInvalidPlan)
	}
	if p.RateLimit < 0 {
		return fmt.Errorf("%w: rate_limit must be non-negative", ErrInvalidPlan)
	}
	if p.DailyLimit != nil && *p.DailyLimit < 0 {
		return fmt.Errorf("%w: daily_limit must be non-negative", ErrInvalidPlan)
	}
	return nil
}

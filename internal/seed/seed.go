// Package seed loads initial API keys, agents and plans from a TOML document
// and stores them in one transaction. Records whose name already exists are
// left untouched, so seeding can be repeated.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pelletier/go-toml/v2"

	"github.com/mtlprog/agentdesk/internal/database"
	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/repository"
	"github.com/mtlprog/agentdesk/internal/static"
)

// APIKey is a seeded credential. The secret is taken from Key, or from the
// environment variable named by KeyEnv when Key is empty.
type APIKey struct {
	Name   string `toml:"name"`
	Key    string `toml:"key"`
	KeyEnv string `toml:"key_env"`
	Type   string `toml:"type"`
	Model  string `toml:"model"`
}

// Agent is a seeded agent. APIKey names a key from the same document or
// one already stored.
type Agent struct {
	Name         string   `toml:"name"`
	Description  string   `toml:"description"`
	Instructions string   `toml:"instructions"`
	Type         string   `toml:"type"`
	Model        string   `toml:"model"`
	APIKey       string   `toml:"api_key"`
	Temperature  *float64 `toml:"temperature"`
	MaxTokens    *int     `toml:"max_tokens"`
}

// Plan is a seeded pricing plan.
type Plan struct {
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Price       float64  `toml:"price"`
	RateLimit   int      `toml:"rate_limit"`
	DailyLimit  *int     `toml:"daily_limit"`
	Features    []string `toml:"features"`
	IsPopular   bool     `toml:"is_popular"`
	CTA         string   `toml:"cta"`
}

// Data is the whole seed document.
type Data struct {
	APIKeys []APIKey `toml:"api_keys"`
	Agents  []Agent  `toml:"agents"`
	Plans   []Plan   `toml:"plans"`
}

// Report counts the records created and skipped by Apply.
type Report struct {
	Created int
	Skipped int
}

// Load parses the seed file at path, or the embedded default when path is empty.
func Load(path string) (*Data, error) {
	raw := static.SeedTOML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		raw = b
	}
	return Parse(raw)
}

// Parse decodes a seed document.
func Parse(raw []byte) (*Data, error) {
	var data Data
	if err := toml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return &data, nil
}

// Seeder stores seed data.
type Seeder struct {
	pool      *pgxpool.Pool
	lookupEnv func(string) (string, bool)
}

// NewSeeder creates a Seeder that resolves key_env through the process environment.
func NewSeeder(pool *pgxpool.Pool) *Seeder {
	return &Seeder{pool: pool, lookupEnv: os.LookupEnv}
}

// Apply stores data in one transaction: keys first, then agents, then plans.
func (s *Seeder) Apply(ctx context.Context, data *Data) (Report, error) {
	var report Report
	err := database.InTx(ctx, s.pool, func(tx pgx.Tx) error {
		keys := repository.NewAPIKeyRepository(s.pool).WithTx(tx)
		agents := repository.NewAgentRepository(s.pool).WithTx(tx)
		plans := repository.NewPlanRepository(s.pool).WithTx(tx)

		for _, k := range data.APIKeys {
			created, err := s.seedAPIKey(ctx, keys, k)
			if err != nil {
				return fmt.Errorf("api key %q: %w", k.Name, err)
			}
			report.count(created)
		}
		for _, a := range data.Agents {
			created, err := s.seedAgent(ctx, agents, keys, a)
			if err != nil {
				return fmt.Errorf("agent %q: %w", a.Name, err)
			}
			report.count(created)
		}
		for _, p := range data.Plans {
			created, err := s.seedPlan(ctx, plans, p)
			if err != nil {
				return fmt.Errorf("plan %q: %w", p.Name, err)
			}
			report.count(created)
		}
		return nil
	})
	if err != nil {
		return Report{}, err
	}

	slog.Info("seed applied", "created", report.Created, "skipped", report.Skipped)

	return report, nil
}

func (r *Report) count(created bool) {
	if created {
		r.Created++
	} else {
		r.Skipped++
	}
}

func (s *Seeder) seedAPIKey(ctx context.Context, repo *repository.APIKeyRepository, k APIKey) (bool, error) {
	if _, err := repo.GetByName(ctx, k.Name); err == nil {
		return false, nil
	} else if !errors.Is(err, domain.ErrAPIKeyNotFound) {
		return false, err
	}

	secret := k.Key
	if secret == "" && k.KeyEnv != "" {
		secret, _ = s.lookupEnv(k.KeyEnv)
	}
	if secret == "" {
		return false, fmt.Errorf("%w: key (set key or the %s environment variable)", domain.ErrRequiredField, k.KeyEnv)
	}

	key := &domain.APIKey{
		Name:     k.Name,
		Key:      secret,
		Type:     domain.APIKeyType(k.Type),
		Model:    k.Model,
		IsActive: true,
	}
	if key.Type == "" {
		key.Type = domain.APIKeyTypeOpenAI
	}
	if !key.Type.IsValid() {
		return false, fmt.Errorf("%w: %q", domain.ErrInvalidAPIKeyType, k.Type)
	}
	if key.Model == "" {
		key.Model = domain.DefaultAPIKeyModel
	}

	if _, err := repo.Create(ctx, key); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Seeder) seedAgent(ctx context.Context, repo *repository.AgentRepository, keys *repository.APIKeyRepository, a Agent) (bool, error) {
	if _, err := repo.GetByName(ctx, a.Name); err == nil {
		return false, nil
	} else if !errors.Is(err, domain.ErrAgentNotFound) {
		return false, err
	}

	agent := &domain.Agent{
		Name:          a.Name,
		Description:   a.Description,
		Instructions:  a.Instructions,
		Type:          domain.AgentType(a.Type),
		Model:         a.Model,
		ModelSettings: domain.ModelSettings{Temperature: a.Temperature, MaxTokens: a.MaxTokens},
	}
	agent.ApplyDefaults()
	if !agent.Type.IsValid() {
		return false, fmt.Errorf("%w: %q", domain.ErrInvalidAgentType, a.Type)
	}

	if a.APIKey != "" {
		key, err := keys.GetByName(ctx, a.APIKey)
		if err != nil {
			if errors.Is(err, domain.ErrAPIKeyNotFound) {
				return false, fmt.Errorf("%w: api key %q", domain.ErrInvalidReference, a.APIKey)
			}
			return false, err
		}
		agent.APIKeyID = &key.ID
	}

	if _, err := repo.Create(ctx, agent); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Seeder) seedPlan(ctx context.Context, repo *repository.PlanRepository, p Plan) (bool, error) {
	if _, err := repo.GetByName(ctx, p.Name); err == nil {
		return false, nil
	} else if !errors.Is(err, domain.ErrPlanNotFound) {
		return false, err
	}

	plan := &domain.Plan{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		RateLimit:   p.RateLimit,
		DailyLimit:  p.DailyLimit,
		Features:    p.Features,
		IsPopular:   p.IsPopular,
		CTA:         p.CTA,
	}
	if err := plan.Validate(); err != nil {
		return false, err
	}

	if _, err := repo.Create(ctx, plan); err != nil {
		return false, err
	}
	return true, nil
}

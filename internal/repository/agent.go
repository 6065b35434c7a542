package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/agentdesk/internal/domain"
)

// agentColumns is the shared list of columns for agent queries.
var agentColumns = []string{
	"id", "name", "description", "instructions", "version", "status", "type",
	"model", "model_settings", "tools", "guardrails", "handoffs", "flow_ids",
	"openai_api_key_id", "created_at", "updated_at",
}

// AgentListFilters holds the supported filters for agent listing.
type AgentListFilters struct {
	Status *domain.AgentStatus
	Type   *domain.AgentType
	Page
}

// AgentRepository handles database operations for agents.
type AgentRepository struct {
	db DBTX
}

// NewAgentRepository creates a new AgentRepository.
func NewAgentRepository(pool *pgxpool.Pool) *AgentRepository {
	return &AgentRepository{db: pool}
}

// WithTx returns a copy of the repository that runs its queries in tx.
func (r *AgentRepository) WithTx(tx pgx.Tx) *AgentRepository {
	return &AgentRepository{db: tx}
}

// scanAgent scans a single row into an Agent struct.
func scanAgent(row pgx.Row) (*domain.Agent, error) {
	var agent domain.Agent
	var settingsJSON []byte
	err := row.Scan(
		&agent.ID,
		&agent.Name,
		&agent.Description,
		&agent.Instructions,
		&agent.Version,
		&agent.Status,
		&agent.Type,
		&agent.Model,
		&settingsJSON,
		&agent.Tools,
		&agent.Guardrails,
		&agent.Handoffs,
		&agent.FlowIDs,
		&agent.APIKeyID,
		&agent.CreatedAt,
		&agent.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAgentNotFound
		}
		return nil, fmt.Errorf("scan agent: %w", err)
	}

	if len(settingsJSON) > 0 {
		if err := json.Unmarshal(settingsJSON, &agent.ModelSettings); err != nil {
			return nil, fmt.Errorf("parse model_settings: %w", err)
		}
	}

	return &agent, nil
}

// scanAgents scans multiple rows into a slice of Agent structs.
func scanAgents(rows pgx.Rows) ([]*domain.Agent, error) {
	defer rows.Close()

	agents := []*domain.Agent{}
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, agent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return agents, nil
}

// GetByID retrieves an agent by ID.
func (r *AgentRepository) GetByID(ctx context.Context, agentID string) (*domain.Agent, error) {
	query, args, err := psql.
		Select(agentColumns...).
		From("agents").
		Where(sq.Eq{"id": agentID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for agent: %w", err)
	}

	return scanAgent(r.db.QueryRow(ctx, query, args...))
}

// GetByName retrieves an agent by its unique name.
func (r *AgentRepository) GetByName(ctx context.Context, name string) (*domain.Agent, error) {
	query, args, err := psql.Select(agentColumns...).From("agents").Where(sq.Eq{"name": name}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByName query for agent: %w", err)
	}
	return scanAgent(r.db.QueryRow(ctx, query, args...))
}

// List retrieves agents with filters and pagination, newest first.
func (r *AgentRepository) List(ctx context.Context, filters AgentListFilters) ([]*domain.Agent, int, error) {
	qb := psql.Select(agentColumns...).From("agents")
	countQb := psql.Select("COUNT(*)").From("agents")

	if filters.Status != nil {
		qb = qb.Where(sq.Eq{"status": *filters.Status})
		countQb = countQb.Where(sq.Eq{"status": *filters.Status})
	}
	if filters.Type != nil {
		qb = qb.Where(sq.Eq{"type": *filters.Type})
		countQb = countQb.Where(sq.Eq{"type": *filters.Type})
	}

	total, err := count(ctx, r.db, countQb)
	if err != nil {
		return nil, 0, err
	}

	query, args, err := filters.Page.apply(qb.OrderBy("created_at DESC")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List query for agents: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query agents: %w", err)
	}

	agents, err := scanAgents(rows)
	if err != nil {
		return nil, 0, err
	}
	return agents, total, nil
}

// Search finds agents whose name or instructions contain the text.
func (r *AgentRepository) Search(ctx context.Context, text string, limit int) ([]*domain.Agent, error) {
	pattern := "%" + text + "%"
	query, args, err := psql.
		Select(agentColumns...).
		From("agents").
		Where(sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"instructions": pattern},
		}).
		OrderBy("name").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Search query for agents: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search agents: %w", err)
	}

	return scanAgents(rows)
}

// Create inserts a new agent. Returns the agent with ID and timestamps populated.
func (r *AgentRepository) Create(ctx context.Context, agent *domain.Agent) (*domain.Agent, error) {
	agent.ApplyDefaults()

	settingsJSON, err := json.Marshal(agent.ModelSettings)
	if err != nil {
		return nil, fmt.Errorf("encode model_settings: %w", err)
	}

	query, args, err := psql.
		Insert("agents").
		Columns(
			"name", "description", "instructions", "version", "status", "type",
			"model", "model_settings", "tools", "guardrails", "handoffs", "flow_ids",
			"openai_api_key_id",
		).
		Values(
			agent.Name,
			agent.Description,
			agent.Instructions,
			agent.Version,
			agent.Status,
			agent.Type,
			agent.Model,
			settingsJSON,
			agent.Tools,
			agent.Guardrails,
			agent.Handoffs,
			agent.FlowIDs,
			agent.APIKeyID,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for agent: %w", err)
	}

	err = r.db.QueryRow(ctx, query, args...).Scan(&agent.ID, &agent.CreatedAt, &agent.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("agent %q: %w", agent.Name, domain.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("create agent: %w", err)
	}

	return agent, nil
}

// Update overwrites the mutable fields of an existing agent.
func (r *AgentRepository) Update(ctx context.Context, agent *domain.Agent) error {
	settingsJSON, err := json.Marshal(agent.ModelSettings)
	if err != nil {
		return fmt.Errorf("encode model_settings: %w", err)
	}

	query, args, err := psql.
		Update("agents").
		SetMap(map[string]any{
			"name":              agent.Name,
			"description":       agent.Description,
			"instructions":      agent.Instructions,
			"version":           agent.Version,
			"status":            agent.Status,
			"type":              agent.Type,
			"model":             agent.Model,
			"model_settings":    settingsJSON,
			"tools":             agent.Tools,
			"guardrails":        agent.Guardrails,
			"handoffs":          agent.Handoffs,
			"flow_ids":          agent.FlowIDs,
			"openai_api_key_id": agent.APIKeyID,
			"updated_at":        sq.Expr("NOW()"),
		}).
		Where(sq.Eq{"id": agent.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Update query for agent %s: %w", agent.ID, err)
	}

	err = r.db.QueryRow(ctx, query, args...).Scan(&agent.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrAgentNotFound
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("agent %q: %w", agent.Name, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("update agent: %w", err)
	}

	return nil
}

// CountExisting returns how many of the given ids exist as agents.
func (r *AgentRepository) CountExisting(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return count(ctx, r.db, psql.Select("COUNT(*)").From("agents").Where(sq.Eq{"id::text": ids}))
}

// Delete removes an agent by ID.
func (r *AgentRepository) Delete(ctx context.Context, agentID string) error {
	return deleteByID(ctx, r.db, "agents", agentID, domain.ErrAgentNotFound)
}

// NamesReferencingTool returns the names of agents whose tool list contains toolID.
func (r *AgentRepository) NamesReferencingTool(ctx context.Context, toolID string) ([]string, error) {
	return r.namesWhere(ctx, sq.Expr("? = ANY(tools)", toolID))
}

// NamesReferencingGuardrail returns the names of agents whose guardrail list contains guardrailID.
func (r *AgentRepository) NamesReferencingGuardrail(ctx context.Context, guardrailID string) ([]string, error) {
	return r.namesWhere(ctx, sq.Expr("? = ANY(guardrails)", guardrailID))
}

// NamesReferencingAPIKey returns the names of agents bound to apiKeyID.
func (r *AgentRepository) NamesReferencingAPIKey(ctx context.Context, apiKeyID string) ([]string, error) {
	return r.namesWhere(ctx, sq.Eq{"openai_api_key_id": apiKeyID})
}

func (r *AgentRepository) namesWhere(ctx context.Context, pred sq.Sqlizer) ([]string, error) {
	query, args, err := psql.
		Select("name").
		From("agents").
		Where(pred).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build reference query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query referencing agents: %w", err)
	}

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect agent names: %w", err)
	}
	return names, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/agentdesk/internal/domain"
)

// StatsFilters holds filters for usage statistics queries.
type StatsFilters struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	AgentID     *string // Optional: filter by specific agent
}

// AgentUsageResult holds run counts for a single agent.
type AgentUsageResult struct {
	AgentID   string
	AgentName string
	Runs      int
	Succeeded int
	Failed    int
	Blocked   int
}

// UsageTotalsResult holds usage across all agents and chat sessions.
type UsageTotalsResult struct {
	Runs         int
	RunsByStatus map[string]int
	UserMessages int
	BotMessages  int
	ActiveUsers  int
}

// StatsRepository runs aggregate queries over run logs and messages.
type StatsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository creates a new StatsRepository.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

// GetAgentUsage retrieves per-agent run counts within the period.
// Agents without runs are included with zero counts.
func (r *StatsRepository) GetAgentUsage(ctx context.Context, filters StatsFilters) ([]AgentUsageResult, error) {
	query := `
		SELECT
			a.id,
			a.name,
			COUNT(l.id) AS runs,
			COUNT(CASE WHEN l.status = $3 THEN 1 END) AS succeeded,
			COUNT(CASE WHEN l.status = $4 THEN 1 END) AS failed,
			COUNT(CASE WHEN l.status = $5 THEN 1 END) AS blocked
		FROM agents a
		LEFT JOIN run_logs l ON l.agent_id = a.id AND l.created_at >= $1 AND l.created_at <= $2
	`

	args := []interface{}{
		filters.PeriodStart, filters.PeriodEnd,
		string(domain.RunStatusSuccess), string(domain.RunStatusError), string(domain.RunStatusBlocked),
	}

	if filters.AgentID != nil {
		query += " WHERE a.id = $6"
		args = append(args, *filters.AgentID)
	}

	query += " GROUP BY a.id, a.name ORDER BY runs DESC, a.name"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query agent usage: %w", err)
	}
	defer rows.Close()

	results := []AgentUsageResult{}
	for rows.Next() {
		var result AgentUsageResult
		err := rows.Scan(
			&result.AgentID,
			&result.AgentName,
			&result.Runs,
			&result.Succeeded,
			&result.Failed,
			&result.Blocked,
		)
		if err != nil {
			return nil, fmt.Errorf("scan agent usage: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate agent usage rows: %w", err)
	}

	return results, nil
}

// GetUsageTotals retrieves overall run and message counts within the period.
func (r *StatsRepository) GetUsageTotals(ctx context.Context, filters StatsFilters) (*UsageTotalsResult, error) {
	runsByStatus := make(map[string]int)
	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*)
		FROM run_logs
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY status
	`, filters.PeriodStart, filters.PeriodEnd)
	if err != nil {
		return nil, fmt.Errorf("query runs by status: %w", err)
	}
	defer rows.Close()

	total := 0
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		runsByStatus[status] = n
		total += n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status rows: %w", err)
	}

	result := &UsageTotalsResult{Runs: total, RunsByStatus: runsByStatus}

	// A chat participant is identified by email when present, otherwise by session.
	err = r.pool.QueryRow(ctx, `
		SELECT
			COUNT(CASE WHEN is_user THEN 1 END),
			COUNT(CASE WHEN NOT is_user THEN 1 END),
			COUNT(DISTINCT COALESCE(email, session_id))
		FROM messages
		WHERE created_at >= $1 AND created_at <= $2
	`, filters.PeriodStart, filters.PeriodEnd).Scan(&result.UserMessages, &result.BotMessages, &result.ActiveUsers)
	if err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}

	return result, nil
}

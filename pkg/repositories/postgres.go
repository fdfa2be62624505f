package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/DarianStillwater/courtside/pkg/match/types"
)

type PostgresRepository struct {
	conn *pgx.Conn
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS match_results (
	match_id TEXT PRIMARY KEY,
	home_team_id TEXT NOT NULL,
	away_team_id TEXT NOT NULL,
	home_score INTEGER NOT NULL,
	away_score INTEGER NOT NULL,
	periods INTEGER NOT NULL,
	forfeit BOOLEAN NOT NULL DEFAULT FALSE,
	forfeit_team_id TEXT,
	completed_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS box_scores (
	match_id TEXT NOT NULL,
	player_id TEXT NOT NULL,
	team_id TEXT NOT NULL,
	points INTEGER NOT NULL,
	fouls INTEGER NOT NULL,
	minutes DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (match_id, player_id)
);

CREATE TABLE IF NOT EXISTS play_by_play (
	match_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	quarter INTEGER NOT NULL,
	clock_text TEXT NOT NULL,
	team_id TEXT NOT NULL,
	description TEXT NOT NULL,
	home_score INTEGER NOT NULL,
	away_score INTEGER NOT NULL,
	is_highlight BOOLEAN NOT NULL,
	event_type TEXT NOT NULL,
	PRIMARY KEY (match_id, seq)
);
`

// NewPostgresRepository creates a new PostgresRepository and applies the
// schema. The caller is responsible for calling Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string) (Repository, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	if _, err := conn.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %v", err)
	}

	return &PostgresRepository{
		conn: conn,
	}, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	return r.conn.Close(ctx)
}

func (r *PostgresRepository) SaveMatchResult(ctx context.Context, result *types.MatchResult) error {
	q := `
	INSERT INTO match_results
	(match_id, home_team_id, away_team_id, home_score, away_score, periods, forfeit, forfeit_team_id, completed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (match_id) DO UPDATE SET
	home_score = $4, away_score = $5, periods = $6, forfeit = $7, forfeit_team_id = $8, completed_at = $9;
	`
	_, err := r.conn.Exec(ctx, q, result.MatchID, result.HomeTeamID, result.AwayTeamID,
		result.HomeScore, result.AwayScore, result.Periods, result.Forfeit, result.ForfeitTeamID, result.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to insert match result: %v", err)
	}
	return nil
}

func (r *PostgresRepository) SaveBoxScore(ctx context.Context, matchID string, lines []types.PlayerLine) error {
	tx, err := r.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	for _, line := range lines {
		q := `
		INSERT INTO box_scores (match_id, player_id, team_id, points, fouls, minutes)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (match_id, player_id) DO UPDATE SET points = $4, fouls = $5, minutes = $6;
		`
		if _, err := tx.Exec(ctx, q, matchID, line.PlayerID, line.TeamID, line.Points, line.Fouls, line.Minutes); err != nil {
			return fmt.Errorf("failed to insert box score line: %v", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresRepository) SavePlayByPlay(ctx context.Context, matchID string, entries []types.PlayByPlayEntry) error {
	tx, err := r.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	for seq, entry := range entries {
		q := `
		INSERT INTO play_by_play
		(match_id, seq, quarter, clock_text, team_id, description, home_score, away_score, is_highlight, event_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (match_id, seq) DO NOTHING;
		`
		if _, err := tx.Exec(ctx, q, matchID, seq, entry.Quarter, entry.ClockText, entry.TeamID,
			entry.Description, entry.HomeScore, entry.AwayScore, entry.IsHighlight, string(entry.Type)); err != nil {
			return fmt.Errorf("failed to insert play-by-play entry: %v", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresRepository) GetMatchResult(ctx context.Context, matchID string) (*types.MatchResult, error) {
	q := `
	SELECT match_id, home_team_id, away_team_id, home_score, away_score, periods, forfeit, COALESCE(forfeit_team_id, ''), completed_at
	FROM match_results WHERE match_id = $1;
	`
	result := &types.MatchResult{}
	err := r.conn.QueryRow(ctx, q, matchID).Scan(&result.MatchID, &result.HomeTeamID, &result.AwayTeamID,
		&result.HomeScore, &result.AwayScore, &result.Periods, &result.Forfeit, &result.ForfeitTeamID, &result.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to query match result: %v", err)
	}
	return result, nil
}

func (r *PostgresRepository) ListMatchResults(ctx context.Context, limit int) ([]types.MatchResult, error) {
	q := `
	SELECT match_id, home_team_id, away_team_id, home_score, away_score, periods, forfeit, COALESCE(forfeit_team_id, ''), completed_at
	FROM match_results ORDER BY completed_at DESC LIMIT $1;
	`
	rows, err := r.conn.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query match results: %v", err)
	}
	defer rows.Close()

	var results []types.MatchResult
	for rows.Next() {
		var result types.MatchResult
		if err := rows.Scan(&result.MatchID, &result.HomeTeamID, &result.AwayTeamID, &result.HomeScore,
			&result.AwayScore, &result.Periods, &result.Forfeit, &result.ForfeitTeamID, &result.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match result: %v", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

package repositories

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/DarianStillwater/courtside/pkg/match/types"
)

type SQLiteRepository struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS match_results (
	match_id TEXT PRIMARY KEY,
	home_team_id TEXT NOT NULL,
	away_team_id TEXT NOT NULL,
	home_score INTEGER NOT NULL,
	away_score INTEGER NOT NULL,
	periods INTEGER NOT NULL,
	forfeit INTEGER NOT NULL DEFAULT 0,
	forfeit_team_id TEXT,
	completed_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS box_scores (
	match_id TEXT NOT NULL,
	player_id TEXT NOT NULL,
	team_id TEXT NOT NULL,
	points INTEGER NOT NULL,
	fouls INTEGER NOT NULL,
	minutes REAL NOT NULL,
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
	is_highlight INTEGER NOT NULL,
	event_type TEXT NOT NULL,
	PRIMARY KEY (match_id, seq)
);
`

func NewSQLiteRepository(ctx context.Context, path string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %v", err)
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) SaveMatchResult(ctx context.Context, result *types.MatchResult) error {
	q := `
	INSERT OR REPLACE INTO match_results
	(match_id, home_team_id, away_team_id, home_score, away_score, periods, forfeit, forfeit_team_id, completed_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err := r.db.ExecContext(ctx, q, result.MatchID, result.HomeTeamID, result.AwayTeamID,
		result.HomeScore, result.AwayScore, result.Periods, boolToInt(result.Forfeit), result.ForfeitTeamID, result.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to insert match result: %v", err)
	}
	return nil
}

func (r *SQLiteRepository) SaveBoxScore(ctx context.Context, matchID string, lines []types.PlayerLine) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	for _, line := range lines {
		q := `
		INSERT OR REPLACE INTO box_scores (match_id, player_id, team_id, points, fouls, minutes)
		VALUES (?, ?, ?, ?, ?, ?);
		`
		if _, err := tx.ExecContext(ctx, q, matchID, line.PlayerID, line.TeamID, line.Points, line.Fouls, line.Minutes); err != nil {
			return fmt.Errorf("failed to insert box score line: %v", err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteRepository) SavePlayByPlay(ctx context.Context, matchID string, entries []types.PlayByPlayEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	for seq, entry := range entries {
		q := `
		INSERT OR REPLACE INTO play_by_play
		(match_id, seq, quarter, clock_text, team_id, description, home_score, away_score, is_highlight, event_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
		`
		if _, err := tx.ExecContext(ctx, q, matchID, seq, entry.Quarter, entry.ClockText, entry.TeamID,
			entry.Description, entry.HomeScore, entry.AwayScore, boolToInt(entry.IsHighlight), string(entry.Type)); err != nil {
			return fmt.Errorf("failed to insert play-by-play entry: %v", err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteRepository) GetMatchResult(ctx context.Context, matchID string) (*types.MatchResult, error) {
	q := `
	SELECT match_id, home_team_id, away_team_id, home_score, away_score, periods, forfeit, forfeit_team_id, completed_at
	FROM match_results WHERE match_id = ?;
	`
	result := &types.MatchResult{}
	var forfeit int
	var forfeitTeamID sql.NullString
	err := r.db.QueryRowContext(ctx, q, matchID).Scan(&result.MatchID, &result.HomeTeamID, &result.AwayTeamID,
		&result.HomeScore, &result.AwayScore, &result.Periods, &forfeit, &forfeitTeamID, &result.CompletedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to query match result: %v", err)
	}
	result.Forfeit = forfeit != 0
	result.ForfeitTeamID = forfeitTeamID.String
	return result, nil
}

func (r *SQLiteRepository) ListMatchResults(ctx context.Context, limit int) ([]types.MatchResult, error) {
	q := `
	SELECT match_id, home_team_id, away_team_id, home_score, away_score, periods, forfeit, forfeit_team_id, completed_at
	FROM match_results ORDER BY completed_at DESC LIMIT ?;
	`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query match results: %v", err)
	}
	defer rows.Close()

	var results []types.MatchResult
	for rows.Next() {
		var result types.MatchResult
		var forfeit int
		var forfeitTeamID sql.NullString
		if err := rows.Scan(&result.MatchID, &result.HomeTeamID, &result.AwayTeamID, &result.HomeScore,
			&result.AwayScore, &result.Periods, &forfeit, &forfeitTeamID, &result.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match result: %v", err)
		}
		result.Forfeit = forfeit != 0
		result.ForfeitTeamID = forfeitTeamID.String
		results = append(results, result)
	}
	return results, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

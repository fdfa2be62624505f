package repositories

import (
	"context"

	"github.com/DarianStillwater/courtside/pkg/match/types"
)

type Repository interface {
	Close(ctx context.Context) error
	SaveMatchResult(ctx context.Context, result *types.MatchResult) error
	SaveBoxScore(ctx context.Context, matchID string, lines []types.PlayerLine) error
	SavePlayByPlay(ctx context.Context, matchID string, entries []types.PlayByPlayEntry) error
	GetMatchResult(ctx context.Context, matchID string) (*types.MatchResult, error)
	ListMatchResults(ctx context.Context, limit int) ([]types.MatchResult, error)
}

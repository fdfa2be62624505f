package workers

import (
	"context"

	"github.com/DarianStillwater/courtside/pkg/log"
	"github.com/DarianStillwater/courtside/pkg/match/types"
	"github.com/DarianStillwater/courtside/pkg/repositories"
)

// SaveMatchRequest carries everything worth persisting about a finished
// (or forfeited) match.
type SaveMatchRequest struct {
	Result     types.MatchResult
	BoxScore   []types.PlayerLine
	PlayByPlay []types.PlayByPlayEntry
}

// SaveMatchWorker persists finished matches off the orchestrator
// goroutine. Persistence is best-effort: a repository failure is logged
// and never reaches the match loop.
type SaveMatchWorker struct {
	repository    repositories.Repository
	saveMatchChan <-chan SaveMatchRequest
}

type NewSaveMatchWorkerOptions struct {
	Repository    repositories.Repository
	SaveMatchChan <-chan SaveMatchRequest
}

func NewSaveMatchWorker(opts NewSaveMatchWorkerOptions) *SaveMatchWorker {
	return &SaveMatchWorker{
		repository:    opts.Repository,
		saveMatchChan: opts.SaveMatchChan,
	}
}

func (w *SaveMatchWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case saveRequest := <-w.saveMatchChan:
			w.saveMatch(ctx, saveRequest)
		}
	}
}

func (w *SaveMatchWorker) saveMatch(ctx context.Context, saveRequest SaveMatchRequest) {
	if err := w.repository.SaveMatchResult(ctx, &saveRequest.Result); err != nil {
		log.Error("Failed to save match result for %s: %v", saveRequest.Result.MatchID, err)
		return
	}
	if len(saveRequest.BoxScore) > 0 {
		if err := w.repository.SaveBoxScore(ctx, saveRequest.Result.MatchID, saveRequest.BoxScore); err != nil {
			log.Error("Failed to save box score for %s: %v", saveRequest.Result.MatchID, err)
		}
	}
	if len(saveRequest.PlayByPlay) > 0 {
		if err := w.repository.SavePlayByPlay(ctx, saveRequest.Result.MatchID, saveRequest.PlayByPlay); err != nil {
			log.Error("Failed to save play-by-play for %s: %v", saveRequest.Result.MatchID, err)
		}
	}
	log.Debug("Saved match %s", saveRequest.Result.MatchID)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/DarianStillwater/courtside/pkg/log"
	"github.com/DarianStillwater/courtside/pkg/manager"
	"github.com/DarianStillwater/courtside/pkg/match"
	"github.com/DarianStillwater/courtside/pkg/match/types"
	"github.com/DarianStillwater/courtside/pkg/repositories"
)

// CreateMatchRequest is the body for POST /matches.
type CreateMatchRequest struct {
	HomeTeam         *types.Team `json:"homeTeam"`
	AwayTeam         *types.Team `json:"awayTeam"`
	ControlledTeamID string      `json:"controlledTeamId,omitempty"`
	Speed            string      `json:"speed,omitempty"`
	Tiebreak         string      `json:"tiebreak,omitempty"`
	Seed             int64       `json:"seed,omitempty"`

	AutoPauseOnQuarterEnd   bool    `json:"autoPauseOnQuarterEnd,omitempty"`
	AutoPauseOnTimeout      bool    `json:"autoPauseOnTimeout,omitempty"`
	AutoPauseOnClutch       bool    `json:"autoPauseOnClutch,omitempty"`
	AutoCoach               bool    `json:"autoCoach,omitempty"`
	FatigueThresholdMinutes float64 `json:"fatigueThresholdMinutes,omitempty"`
}

type CreateMatchResponse struct {
	MatchID string `json:"matchId"`
}

func HandleCreateMatch(m *manager.MatchManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := &CreateMatchRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.HomeTeam == nil || req.AwayTeam == nil {
			http.Error(w, "Both teams are required", http.StatusBadRequest)
			return
		}

		config := types.DefaultMatchConfig()
		if req.Speed != "" {
			speed, err := types.ParseSpeedTier(req.Speed)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			config.Speed = speed
		}
		if req.Tiebreak != "" {
			tiebreak, err := types.ParseTiebreakPolicy(req.Tiebreak)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			config.Tiebreak = tiebreak
		}
		config.AutoPauseOnQuarterEnd = req.AutoPauseOnQuarterEnd
		config.AutoPauseOnTimeout = req.AutoPauseOnTimeout
		config.AutoPauseOnClutch = req.AutoPauseOnClutch
		config.AutoCoach = req.AutoCoach
		if req.FatigueThresholdMinutes > 0 {
			config.FatigueThresholdMinutes = req.FatigueThresholdMinutes
		}
		config.Seed = req.Seed

		matchID, err := m.CreateMatch(r.Context(), manager.CreateMatchOptions{
			HomeTeam:         req.HomeTeam,
			AwayTeam:         req.AwayTeam,
			ControlledTeamID: req.ControlledTeamID,
			Config:           config,
		})
		if err != nil {
			if match.IsForfeit(err) {
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
			log.Error("Failed to create match: %v", err)
			http.Error(w, "Failed to create match", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, CreateMatchResponse{MatchID: matchID})
	}
}

func HandleListMatches(m *manager.MatchManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, m.List())
	}
}

func HandleGetMatch(m *manager.MatchManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := m.Snapshot(mux.Vars(r)["matchID"])
		if err != nil {
			http.Error(w, "Match not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, snapshot)
	}
}

func HandleGetPlayByPlay(m *manager.MatchManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		managed, ok := m.Get(mux.Vars(r)["matchID"])
		if !ok {
			http.Error(w, "Match not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, managed.PlayByPlay())
	}
}

func HandlePause(m *manager.MatchManager) http.HandlerFunc {
	return commandHandler(m, func(r *http.Request) (interface{}, error) {
		return &types.PauseCommand{}, nil
	})
}

func HandleResume(m *manager.MatchManager) http.HandlerFunc {
	return commandHandler(m, func(r *http.Request) (interface{}, error) {
		return &types.ResumeCommand{}, nil
	})
}

func HandleStop(m *manager.MatchManager) http.HandlerFunc {
	return commandHandler(m, func(r *http.Request) (interface{}, error) {
		return &types.StopCommand{}, nil
	})
}

// TimeoutRequest is the body for POST /matches/{matchID}/timeout.
type TimeoutRequest struct {
	Side string `json:"side"`
}

func HandleTimeout(m *manager.MatchManager) http.HandlerFunc {
	return commandHandler(m, func(r *http.Request) (interface{}, error) {
		req := &TimeoutRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			return nil, err
		}
		side, err := types.ParseSide(req.Side)
		if err != nil {
			return nil, err
		}
		return &types.TimeoutCommand{Side: side}, nil
	})
}

// SubstitutionRequest is the body for POST /matches/{matchID}/substitutions.
type SubstitutionRequest struct {
	Side  string `json:"side"`
	OutID string `json:"outId"`
	InID  string `json:"inId"`
}

func HandleSubstitution(m *manager.MatchManager) http.HandlerFunc {
	return commandHandler(m, func(r *http.Request) (interface{}, error) {
		req := &SubstitutionRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			return nil, err
		}
		side, err := types.ParseSide(req.Side)
		if err != nil {
			return nil, err
		}
		return &types.SubstituteCommand{Side: side, OutID: req.OutID, InID: req.InID}, nil
	})
}

// SpeedRequest is the body for POST /matches/{matchID}/speed.
type SpeedRequest struct {
	Speed string `json:"speed"`
}

func HandleSetSpeed(m *manager.MatchManager) http.HandlerFunc {
	return commandHandler(m, func(r *http.Request) (interface{}, error) {
		req := &SpeedRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			return nil, err
		}
		speed, err := types.ParseSpeedTier(req.Speed)
		if err != nil {
			return nil, err
		}
		return &types.SetSpeedCommand{Speed: speed}, nil
	})
}

func HandleGetResult(repository repositories.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := repository.GetMatchResult(r.Context(), mux.Vars(r)["matchID"])
		if err != nil {
			if repositories.IsNotFound(err) {
				http.Error(w, "Result not found", http.StatusNotFound)
				return
			}
			log.Error("Failed to get match result: %v", err)
			http.Error(w, "Failed to get match result", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func HandleListResults(repository repositories.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results, err := repository.ListMatchResults(r.Context(), 50)
		if err != nil {
			log.Error("Failed to list match results: %v", err)
			http.Error(w, "Failed to list match results", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, results)
	}
}

func commandHandler(m *manager.MatchManager, build func(r *http.Request) (interface{}, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := mux.Vars(r)["matchID"]
		if !m.Exists(matchID) {
			http.Error(w, "Match not found", http.StatusNotFound)
			return
		}
		cmd, err := build(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := m.Command(matchID, cmd); err != nil {
			log.Error("Failed to enqueue command for match %s: %v", matchID, err)
			http.Error(w, "Failed to enqueue command", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response: %v", err)
	}
}

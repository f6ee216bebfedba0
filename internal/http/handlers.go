package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mvoss42/tabletally/internal/league"
	"github.com/mvoss42/tabletally/internal/stats"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// PreflightHandler answers CORS preflight requests; the headers themselves
// are set by the middleware.
func (s *Server) PreflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) ListUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := s.Store.ListUsers()
		if err != nil {
			log.Error("Failed to list users", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to get users")
			return
		}
		if users == nil {
			users = []league.User{}
		}
		respondJSON(w, http.StatusOK, users)
	}
}

func (s *Server) CreateUserHandler() http.HandlerFunc {
	type request struct {
		Name               string          `json:"name"`
		PreferredFactionID json.RawMessage `json:"preferred_faction_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if req.Name == "" {
			respondError(w, http.StatusBadRequest, "Name is required")
			return
		}

		// The frontend submits the faction id as a form-select string, so
		// accept both string and number forms.
		var preferredFactionID *int64
		if raw := strings.Trim(string(req.PreferredFactionID), `"`); raw != "" && raw != "null" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				respondError(w, http.StatusBadRequest, "Invalid preferred_faction_id")
				return
			}
			preferredFactionID = &id
		}

		user, err := s.Store.CreateUser(req.Name, preferredFactionID)
		if err != nil {
			if errors.Is(err, league.ErrUserExists) {
				respondError(w, http.StatusConflict, "User already exists")
				return
			}
			log.Error("Failed to create user", "error", err, "name", req.Name)
			respondError(w, http.StatusInternalServerError, "Failed to create user")
			return
		}
		respondJSON(w, http.StatusCreated, user)
	}
}

func (s *Server) SearchUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if query == "" {
			respondError(w, http.StatusBadRequest, "Query parameter 'q' is required")
			return
		}
		users, err := s.Store.SearchUsers(query)
		if err != nil {
			log.Error("Failed to search users", "error", err, "query", query)
			respondError(w, http.StatusInternalServerError, "Failed to search users")
			return
		}
		if users == nil {
			users = []league.User{}
		}
		respondJSON(w, http.StatusOK, users)
	}
}

func (s *Server) ListFactionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		factions, err := s.Store.ListFactions()
		if err != nil {
			log.Error("Failed to list factions", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to get factions")
			return
		}
		if factions == nil {
			factions = []league.Faction{}
		}
		respondJSON(w, http.StatusOK, factions)
	}
}

func (s *Server) ListGamesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		games, err := s.Store.ListGames()
		if err != nil {
			log.Error("Failed to list games", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to get games")
			return
		}
		if games == nil {
			games = []league.Game{}
		}
		respondJSON(w, http.StatusOK, games)
	}
}

func (s *Server) ReportGameHandler() http.HandlerFunc {
	type request struct {
		Participants []league.ParticipantInput `json:"participants"`
		Notes        string                    `json:"notes"`
	}
	type response struct {
		ID int64 `json:"id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if len(req.Participants) == 0 {
			respondError(w, http.StatusBadRequest, "At least one participant is required")
			return
		}
		for _, p := range req.Participants {
			if p.UserID <= 0 || p.FactionID <= 0 {
				respondError(w, http.StatusBadRequest, "Each participant needs a user_id and a faction_id")
				return
			}
			if p.Ranking < 1 {
				respondError(w, http.StatusBadRequest, "Ranking must be a positive integer")
				return
			}
		}

		gameID, err := s.Store.ReportGame(req.Participants, req.Notes)
		if err != nil {
			log.Error("Failed to report game", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to report game")
			return
		}
		s.Metrics.IncGamesReported()

		// Notification failures are logged, never surfaced to the reporter.
		isDryRun := r.URL.Query().Get("dry_run") == "true"
		if game, err := s.Store.GetGame(gameID); err != nil {
			log.Error("Failed to load reported game for notification", "error", err, "gameID", gameID)
		} else if err := s.Notifier.SendGameResult(game, isDryRun); err != nil {
			log.Error("Failed to send game result notification", "error", err, "gameID", gameID)
		}

		respondJSON(w, http.StatusCreated, response{ID: gameID})
	}
}

// LeaderboardHandler serves the overall player leaderboard.
func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer s.observeStatsQuery("leaderboard", time.Now())
		entries, err := s.Stats.Leaderboard()
		if err != nil {
			log.Error("Failed to get leaderboard", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to get leaderboard")
			return
		}
		respondJSON(w, http.StatusOK, entries)
	}
}

func (s *Server) MostPlayedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer s.observeStatsQuery("most_played", time.Now())
		entries, err := s.Stats.MostPlayed()
		if err != nil {
			log.Error("Failed to get most-played leaderboard", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to get most-played leaderboard")
			return
		}
		respondJSON(w, http.StatusOK, entries)
	}
}

func (s *Server) FactionWinsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer s.observeStatsQuery("faction_wins", time.Now())
		records, err := s.Stats.FactionWins()
		if err != nil {
			log.Error("Failed to get faction wins leaderboard", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to get faction wins leaderboard")
			return
		}
		respondJSON(w, http.StatusOK, records)
	}
}

func (s *Server) FactionPopularityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer s.observeStatsQuery("faction_popularity", time.Now())
		records, err := s.Stats.FactionPopularity()
		if err != nil {
			log.Error("Failed to get faction popularity leaderboard", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to get faction popularity leaderboard")
			return
		}
		respondJSON(w, http.StatusOK, records)
	}
}

func (s *Server) PlayerComparisonHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player1Param := r.URL.Query().Get("player1")
		player2Param := r.URL.Query().Get("player2")
		if player1Param == "" || player2Param == "" {
			respondError(w, http.StatusBadRequest, "Both player1 and player2 are required")
			return
		}
		player1ID, err := strconv.ParseInt(player1Param, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid player1 id")
			return
		}
		player2ID, err := strconv.ParseInt(player2Param, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid player2 id")
			return
		}

		defer s.observeStatsQuery("player_comparison", time.Now())
		cmp, err := s.Stats.ComparePlayers(player1ID, player2ID)
		if err != nil {
			log.Error("Failed to compare players", "error", err, "player1", player1ID, "player2", player2ID)
			respondError(w, http.StatusInternalServerError, "Failed to compare players")
			return
		}
		respondJSON(w, http.StatusOK, cmp)
	}
}

func (s *Server) PlayerProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := r.URL.Query().Get("id")
		if idParam == "" {
			respondError(w, http.StatusBadRequest, "Query parameter 'id' is required")
			return
		}
		userID, err := strconv.ParseInt(idParam, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid user id")
			return
		}

		defer s.observeStatsQuery("player_profile", time.Now())
		profile, err := s.Stats.PlayerProfile(userID)
		if err != nil {
			if errors.Is(err, stats.ErrUserNotFound) {
				respondError(w, http.StatusNotFound, "User not found")
				return
			}
			log.Error("Failed to get player profile", "error", err, "userID", userID)
			respondError(w, http.StatusInternalServerError, "Failed to get player profile")
			return
		}
		respondJSON(w, http.StatusOK, profile)
	}
}

func (s *Server) observeStatsQuery(kind string, start time.Time) {
	s.Metrics.IncStatsQuery(kind)
	s.Metrics.ObserveStatsQueryDuration(kind, time.Since(start).Seconds())
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

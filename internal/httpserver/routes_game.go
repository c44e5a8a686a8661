// internal/httpserver/routes_game.go
//
// Human games and solver endpoints.
//   - POST /game/new    → start a game (random secret unless one is supplied)
//   - POST /game/guess  → score a guess, persist progress, update user stats
//   - POST /game/hint   → next solver candidate consistent with the game so far
//   - POST /solve       → run the solver against a secret
//   - GET  /stats/solver → solve every secret of the active config
//
// Games live in the in-memory store while they are played; the DB only keeps
// an owner row (user_id or anonymous_id) with counters for history/stats.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/codebreaker/internal/game"
	"github.com/robalobadob/codebreaker/internal/metrics"
	"github.com/robalobadob/codebreaker/internal/solver"
	"github.com/robalobadob/codebreaker/internal/stats"
)

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Secret []string `json:"secret"` // optional fixed secret (testing)
}
type newGameRes struct {
	GameID     string       `json:"gameId"`
	Palette    []game.Color `json:"palette"`
	CodeLength int          `json:"codeLength"`
	MaxTries   int          `json:"maxTries"`
}

// handleNewGame creates a new in-memory game and persists a DB "owner" row.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}

	g, err := game.New(s.cfg.Game, toCode(req.Secret), s.rng())
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	// The secret never goes to the DB.
	now := s.now().UTC().Format(time.RFC3339)
	owner, ownerArg := s.owner(w, r)
	if _, err := s.db.ExecContext(r.Context(),
		`INSERT INTO games (id, `+owner+`, code_length, max_tries, started_at, status, guesses)
		 VALUES (?,?,?,?,?,?,0)`,
		g.ID, ownerArg, g.Config.CodeLength, g.Config.MaxTries, now, game.StatePlaying); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
	}
	metrics.GameStarted("normal")

	writeJSON(w, http.StatusOK, newGameRes{
		GameID:     g.ID,
		Palette:    g.Config.Palette,
		CodeLength: g.Config.CodeLength,
		MaxTries:   g.Config.MaxTries,
	})
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	GameID string   `json:"gameId"`
	Guess  []string `json:"guess"`
}
type guessRes struct {
	Exact   int       `json:"exact"`
	Partial int       `json:"partial"`
	State   string    `json:"state"` // "playing" | "won" | "lost"
	Tries   int       `json:"tries"`
	Secret  game.Code `json:"secret,omitempty"` // revealed once the game is over
}

// handleGuess applies a guess to an in-memory game, persists progress,
// and (if finished) updates user stats in a best-effort transaction.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	var (
		res guessRes
		fb  game.Feedback
	)
	err := s.store.Update(r.Context(), req.GameID, func(g *game.Game) error {
		var err error
		fb, res.State, err = g.ApplyGuess(toCode(req.Guess))
		if err != nil {
			return err
		}
		res.Exact, res.Partial, res.Tries = fb.Exact, fb.Partial, len(g.Moves)
		if g.Finished {
			res.Secret = g.Secret.Clone()
		}
		return nil
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	metrics.Guess(res.State)
	s.recordGuess(w, r, req.GameID, res.State)

	writeJSON(w, http.StatusOK, res)
}

// recordGuess updates the game's owner row and, for finished games of a
// logged-in user, the user's counters. Failures are logged, never returned.
func (s *Server) recordGuess(w http.ResponseWriter, r *http.Request, gameID, state string) {
	l := hlog.FromRequest(r)
	owner, ownerArg := s.owner(w, r)
	ownerClause := owner + `=?`

	tx, err := s.db.BeginTx(r.Context(), nil)
	if err != nil {
		l.Warn().Err(err).Msg("begin tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE games SET guesses = guesses + 1 WHERE id=? AND `+ownerClause, gameID, ownerArg); err != nil {
		l.Warn().Err(err).Msg("update guesses")
	}
	if state == game.StateWon || state == game.StateLost {
		if _, err := tx.Exec(`UPDATE games SET status=?, finished_at=? WHERE id=? AND `+ownerClause,
			state, s.now().UTC().Format(time.RFC3339), gameID, ownerArg); err != nil {
			l.Warn().Err(err).Msg("finish game")
		}
		if me := currentUser(r); me != nil {
			if err := bumpStats(tx, me.ID, state == game.StateWon); err != nil {
				l.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
			}
		}
	}
	if err := tx.Commit(); err != nil {
		l.Warn().Err(err).Msg("commit guess")
	}
}

// owner returns the games column and value identifying who plays this request.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) (string, string) {
	if me := currentUser(r); me != nil {
		return "user_id", me.ID
	}
	return "anonymous_id", s.ensureAnonID(w, r)
}

type hintReq struct {
	GameID string `json:"gameId"`
}
type hintRes struct {
	Guess   game.Code `json:"guess"`
	Opening bool      `json:"opening"`
}

// handleHint suggests the guess the solver would play next. Before the first
// guess that is an opening probe; afterwards (or when a probe is not a legal
// guess) the next code consistent with every move of the game.
func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	var req hintReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	g, err := s.store.Get(r.Context(), req.GameID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if g.Finished {
		writeError(w, http.StatusBadRequest, game.ErrGameFinished.Error())
		return
	}

	var res hintRes
	if len(g.Moves) == 0 {
		// Probes repeat colors, so they are only legal guesses with repetition on.
		probe := solver.BeginMoves(g.Config.Palette, g.Config.CodeLength, s.rng())[0]
		if g.Config.CheckCode(probe) == nil {
			res.Guess, res.Opening = probe, true
		}
	}
	if res.Guess == nil {
		pool, err := s.spaces.Space(g.Config)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		guess, ok := solver.NextCandidate(&pool, g.Moves)
		if !ok {
			writeError(w, http.StatusConflict, solver.ErrExhausted.Error())
			return
		}
		res.Guess = guess
	}
	metrics.Hint()
	writeJSON(w, http.StatusOK, res)
}

type solveReq struct {
	Secret []string `json:"secret"` // random when empty
	Seed   *uint64  `json:"seed"`   // server stream when nil
}
type solveRes struct {
	Secret game.Code `json:"secret"`
	solver.Result
}

// handleSolve lets the solver play one game and returns every move it made.
func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}
	rng := s.rng()
	if req.Seed != nil {
		rng = rand.New(rand.NewPCG(*req.Seed, 0))
	}

	secret := toCode(req.Secret)
	if len(secret) == 0 {
		var err error
		if secret, err = game.GenerateCode(s.cfg.Game, rng); err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
	}
	sv, err := solver.New(s.cfg.Game, rng, solver.WithSpace(s.spaces))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	res, err := sv.Solve(secret)
	if err != nil && !errors.Is(err, solver.ErrExhausted) {
		writeError(w, statusFor(err), err.Error())
		return
	}
	metrics.ObserveSolve(res)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("secret", secret.String()).Msg("solver exhausted")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error(), "result": res})
		return
	}
	writeJSON(w, http.StatusOK, solveRes{Secret: secret, Result: res})
}

// handleSolverStats solves every secret of the active config. ?seed= makes
// the report reproducible; ?workers= bounds the parallelism.
func (s *Server) handleSolverStats(w http.ResponseWriter, r *http.Request) {
	opts := stats.Options{Seed: s.seed, Space: s.spaces}
	if v := r.URL.Query().Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid seed")
			return
		}
		opts.Seed = seed
	}
	if v := r.URL.Query().Get("workers"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid workers")
			return
		}
		opts.Workers = n
	}
	opts.Logger = hlog.FromRequest(r)

	rep, err := stats.Run(r.Context(), s.cfg.Game, opts)
	if err != nil {
		if r.Context().Err() != nil {
			opts.Logger.Warn().Err(err).Msg("stats run cancelled")
			writeError(w, http.StatusServiceUnavailable, "cancelled")
			return
		}
		writeError(w, statusFor(err), err.Error())
		return
	}
	metrics.StatsRun()
	writeJSON(w, http.StatusOK, rep)
}

// bumpStats increments games played; updates wins and streak based on result (within tx).
func bumpStats(tx *sql.Tx, userID string, won bool) error {
	var gp, wins, streak int
	row := tx.QueryRow(`SELECT games_played, wins, streak FROM users WHERE id=?`, userID)
	if err := row.Scan(&gp, &wins, &streak); err != nil {
		return err
	}
	gp++
	if won {
		wins++
		streak++
	} else {
		streak = 0
	}
	_, err := tx.Exec(`UPDATE users SET games_played=?, wins=?, streak=? WHERE id=?`, gp, wins, streak, userID)
	return err
}

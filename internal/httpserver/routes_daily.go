// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start a daily game (creates or reuses session)
//   - POST /daily/guess       → submit a guess for today's daily game
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Everyone gets the same secret on a given UTC date: an HMAC of the date picks
// an index into the enumerated code space of the active config.
// Each player can play once per day (enforced by DB + in-memory session).
// Sessions are held in memory for active play and persisted to DB on win;
// those of earlier dates are dropped when the next daily game starts.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/codebreaker/internal/daily"
	"github.com/robalobadob/codebreaker/internal/game"
	"github.com/robalobadob/codebreaker/internal/metrics"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	sessions map[string]*dailySession // keyed by userID|date
	mu       sync.Mutex               // guards sessions and the games inside them
}

// dailySession holds transient in-memory state for a daily game.
type dailySession struct {
	Game      *game.Game
	UserID    string
	Date      string
	CodeIndex int
	Start     time.Time
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     s.cfg.DailySalt,
		sessions: make(map[string]*dailySession),
	}
	s.daily = dd
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// pruneLocked drops sessions of earlier dates. d.mu must be held.
func (d *dailyServer) pruneLocked(date string) {
	for k, sess := range d.sessions {
		if sess.Date != date {
			delete(d.sessions, k)
		}
	}
}

// today returns today's date key, the secret's index in the space, and the secret.
func (d *dailyServer) today() (string, int, game.Code, error) {
	now := d.srv.now()
	space, err := d.srv.spaces.Space(d.srv.cfg.Game)
	if err != nil {
		return "", 0, nil, err
	}
	idx, secret := daily.Secret(now, d.salt, space)
	return daily.DateKey(now), idx, secret, nil
}

// playerID returns the authenticated user ID if logged in,
// otherwise ensures an anonymous ID via Server.ensureAnonID.
func (d *dailyServer) playerID(w http.ResponseWriter, r *http.Request) string {
	if me := currentUser(r); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	GameID     string       `json:"gameId"`
	Date       string       `json:"date"`
	Played     bool         `json:"played"`
	Palette    []game.Color `json:"palette,omitempty"`
	CodeLength int          `json:"codeLength,omitempty"`
	MaxTries   int          `json:"maxTries,omitempty"`
}

// handleNew creates or reuses a daily session for the current date.
// - If the player already has a DB row for today → Played=true.
// - Otherwise create/reuse an in-memory session and return its GameID.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.playerID(w, r)
	date, idx, secret, err := d.today()
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	played, err := d.store.AlreadyPlayed(r.Context(), uid, date)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("daily already played")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	d.pruneLocked(date)
	sess, ok := d.sessions[key]
	if !ok {
		g, err := game.New(d.srv.cfg.Game, secret, nil)
		if err != nil {
			d.mu.Unlock()
			writeError(w, statusFor(err), err.Error())
			return
		}
		sess = &dailySession{Game: g, UserID: uid, Date: date, CodeIndex: idx, Start: d.srv.now()}
		d.sessions[key] = sess
		metrics.GameStarted("daily")
	}
	cfg := sess.Game.Config
	res := dailyNewRes{
		GameID:     sess.Game.ID,
		Date:       date,
		Palette:    cfg.Palette,
		CodeLength: cfg.CodeLength,
		MaxTries:   cfg.MaxTries,
	}
	d.mu.Unlock()

	writeJSON(w, http.StatusOK, res)
}

// -----------------------------------------------------------------------------
// /daily/guess

// dailyGuessReq is the request payload for /daily/guess.
type dailyGuessReq struct {
	GameID string   `json:"gameId"`
	Guess  []string `json:"guess"`
}

// dailyGuessRes is the response payload for /daily/guess.
type dailyGuessRes struct {
	Exact   int    `json:"exact"`
	Partial int    `json:"partial"`
	State   string `json:"state"` // playing | won | lost | locked
	Guesses int    `json:"guesses"`
}

// handleGuess validates and applies a guess for today's daily session.
// A win is persisted to daily_results; a finished session answers "locked".
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	uid := d.playerID(w, r)

	var p dailyGuessReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if p.GameID == "" {
		writeError(w, http.StatusBadRequest, "missing gameId")
		return
	}

	date := daily.DateKey(d.srv.now())
	key := uid + "|" + date

	d.mu.Lock()
	sess, ok := d.sessions[key]
	if !ok || sess.Game.ID != p.GameID {
		d.mu.Unlock()
		writeError(w, http.StatusConflict, "no session")
		return
	}
	g := sess.Game
	if g.Finished {
		res := dailyGuessRes{State: "locked", Guesses: len(g.Moves)}
		d.mu.Unlock()
		writeJSON(w, http.StatusOK, res)
		return
	}
	fb, state, err := g.ApplyGuess(toCode(p.Guess))
	guesses := len(g.Moves)
	d.mu.Unlock()
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	metrics.Guess(state)

	if state == game.StateWon {
		elapsed := int(d.srv.now().Sub(sess.Start).Milliseconds())
		if err := d.store.InsertResult(r.Context(), daily.Result{
			UserID: uid, Date: date, CodeIndex: sess.CodeIndex, Guesses: guesses, ElapsedMs: elapsed,
		}); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Str("user", uid).Msg("insert daily result")
		}
	}
	writeJSON(w, http.StatusOK, dailyGuessRes{Exact: fb.Exact, Partial: fb.Partial, State: state, Guesses: guesses})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	if rows == nil {
		rows = []daily.LBRow{}
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}

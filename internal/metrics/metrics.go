// Package metrics exposes Prometheus counters for games and the solver.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/robalobadob/codebreaker/internal/solver"
)

var (
	solvesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codebreaker",
		Name:      "solves_total",
		Help:      "Solver runs by outcome.",
	}, []string{"outcome"})

	solveTries = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "codebreaker",
		Name:      "solve_tries",
		Help:      "Guesses used per solver run.",
		Buckets:   prometheus.LinearBuckets(1, 1, 12),
	})

	gamesStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codebreaker",
		Name:      "games_started_total",
		Help:      "Human games started, by mode.",
	}, []string{"mode"})

	guessesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codebreaker",
		Name:      "guesses_total",
		Help:      "Human guesses, by resulting game state.",
	}, []string{"state"})

	hintsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "codebreaker",
		Name:      "hints_total",
		Help:      "Hints served.",
	})

	statsRuns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "codebreaker",
		Name:      "stats_runs_total",
		Help:      "Full solver statistics runs.",
	})
)

// ObserveSolve records one solver result.
func ObserveSolve(res solver.Result) {
	solvesTotal.WithLabelValues(string(res.Outcome)).Inc()
	solveTries.Observe(float64(res.TriesUsed))
}

// GameStarted counts a new human game; mode is "normal" or "daily".
func GameStarted(mode string) { gamesStarted.WithLabelValues(mode).Inc() }

// Guess counts a human guess by the state it left the game in.
func Guess(state string) { guessesTotal.WithLabelValues(state).Inc() }

func Hint() { hintsTotal.Inc() }

func StatsRun() { statsRuns.Inc() }

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }

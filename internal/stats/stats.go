// internal/stats/stats.go
//
// Aggregate solver statistics over every possible secret.
// Responsibilities:
//   - Enumerate the possibility space for a config and solve each secret once.
//   - Fan solves out over a bounded worker pool (errgroup).
//   - Report min/max/failed/average tries plus a tries histogram.
//
// Each secret's generator is derived from (Seed, secret index), so a report
// depends only on the seed, never on worker scheduling.
package stats

import (
	"context"
	"errors"
	"math/rand/v2"
	"runtime"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/codebreaker/internal/game"
	"github.com/robalobadob/codebreaker/internal/solver"
)

// Options tune a Run.
type Options struct {
	Seed    uint64             // base seed; same seed, same report
	Workers int                // parallel solvers; <= 0 means GOMAXPROCS
	Space   solver.SpaceSource // optional shared cache
	Logger  *zerolog.Logger    // optional progress logging
}

// Report summarizes one Run. Only TriesUsed and Solved of each result feed it.
type Report struct {
	Games     int         `json:"games" yaml:"games"`
	Min       int         `json:"min" yaml:"min"`
	Max       int         `json:"max" yaml:"max"`
	Failed    int         `json:"failed" yaml:"failed"`
	Average   float64     `json:"average" yaml:"average"`
	Histogram map[int]int `json:"histogram" yaml:"histogram"` // tries → games
	Seed      uint64      `json:"seed" yaml:"seed"`
	Elapsed   string      `json:"elapsed" yaml:"elapsed"`
}

// Buckets returns the histogram keys in ascending order.
func (r Report) Buckets() []int {
	keys := make([]int, 0, len(r.Histogram))
	for k := range r.Histogram {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

type outcome struct {
	tries  int
	solved bool
}

// Run solves every secret of cfg and aggregates the results.
// An exhausted pool counts as a failure; any other error aborts the run.
func Run(ctx context.Context, cfg game.Config, opts Options) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}
	secrets, err := game.GenerateAllChecked(cfg.Palette, cfg.CodeLength, cfg.AllowRepetition)
	if err != nil {
		return Report{}, err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	start := time.Now()

	results := make([]outcome, len(secrets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, secret := range secrets {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var sopts []solver.Option
			if opts.Space != nil {
				sopts = append(sopts, solver.WithSpace(opts.Space))
			}
			s, err := solver.New(cfg, rand.New(rand.NewPCG(opts.Seed, uint64(i))), sopts...)
			if err != nil {
				return err
			}
			res, err := s.Solve(secret)
			if err != nil && !errors.Is(err, solver.ErrExhausted) {
				return err
			}
			results[i] = outcome{tries: res.TriesUsed, solved: res.Solved}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	rep := aggregate(results)
	rep.Seed = opts.Seed
	rep.Elapsed = time.Since(start).Round(time.Millisecond).String()
	if opts.Logger != nil {
		opts.Logger.Info().
			Int("games", rep.Games).
			Int("max", rep.Max).
			Int("failed", rep.Failed).
			Float64("average", rep.Average).
			Str("elapsed", rep.Elapsed).
			Msg("solver stats")
	}
	return rep, nil
}

func aggregate(results []outcome) Report {
	rep := Report{Games: len(results), Histogram: map[int]int{}}
	if len(results) == 0 {
		return rep
	}
	rep.Min = results[0].tries
	total := 0
	for _, o := range results {
		if !o.solved {
			rep.Failed++
		}
		if o.tries < rep.Min {
			rep.Min = o.tries
		}
		if o.tries > rep.Max {
			rep.Max = o.tries
		}
		rep.Histogram[o.tries]++
		total += o.tries
	}
	rep.Average = float64(total) / float64(len(results))
	return rep
}

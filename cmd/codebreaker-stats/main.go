// cmd/codebreaker-stats
//
// Command-line front end for the solver.
//   - codebreaker-stats            → solve every secret and print the report
//   - codebreaker-stats solve CODE → play one game and print every move
//
// Rules come from flags; --colors wins over --palette-file, and with neither
// the embedded palette is used. Output is text, json or yaml.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/codebreaker/internal/game"
	"github.com/robalobadob/codebreaker/internal/palette"
	"github.com/robalobadob/codebreaker/internal/solver"
	"github.com/robalobadob/codebreaker/internal/stats"
)

type options struct {
	colors      string
	paletteFile string
	length      int
	maxTries    int
	allowRep    bool
	seed        uint64
	workers     int
	format      string
	verbose     bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var o options
	root := &cobra.Command{
		Use:          "codebreaker-stats",
		Short:        "Solve every secret of a configuration and report the tries distribution",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.gameConfig()
			if err != nil {
				return err
			}
			logger := o.logger(stderr)
			rep, err := stats.Run(cmd.Context(), cfg, stats.Options{
				Seed:    o.seed,
				Workers: o.workers,
				Logger:  &logger,
			})
			if err != nil {
				return err
			}
			return o.print(stdout, rep, func(w io.Writer) { writeReport(w, rep) })
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	f := root.PersistentFlags()
	f.StringVar(&o.colors, "colors", "", "comma-separated palette, e.g. red,blue,green")
	f.StringVar(&o.paletteFile, "palette-file", "", "palette file, one color per line")
	f.IntVar(&o.length, "length", 4, "code length")
	f.IntVar(&o.maxTries, "max-tries", 10, "guesses allowed per game")
	f.BoolVar(&o.allowRep, "allow-repetition", true, "allow a color more than once per code")
	f.Uint64Var(&o.seed, "seed", 0, "random seed (0 = from the clock)")
	f.IntVar(&o.workers, "workers", 0, "parallel solvers (0 = GOMAXPROCS)")
	f.StringVar(&o.format, "format", "text", "output format: text, json or yaml")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newSolveCmd(&o, stdout))
	return root
}

func newSolveCmd(o *options, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "solve [SECRET]",
		Short: "Play one game against SECRET (comma-separated colors; random when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.gameConfig()
			if err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(o.seedOrClock(), 0))
			var secret game.Code
			if len(args) == 1 {
				secret = game.ParseCode(args[0])
			} else if secret, err = game.GenerateCode(cfg, rng); err != nil {
				return err
			}
			res, err := solver.Solve(secret, cfg, rng)
			if err != nil {
				return err
			}
			out := struct {
				Secret        game.Code `json:"secret" yaml:"secret"`
				solver.Result `yaml:",inline"`
			}{secret, res}
			return o.print(stdout, out, func(w io.Writer) { writeGame(w, secret, res) })
		},
	}
}

// gameConfig builds and validates the rules from the flags.
func (o *options) gameConfig() (game.Config, error) {
	var (
		pal []game.Color
		err error
	)
	if o.colors != "" {
		pal, err = palette.Parse(o.colors)
	} else {
		pal, err = palette.Load(o.paletteFile)
	}
	if err != nil {
		return game.Config{}, err
	}
	cfg := game.Config{
		Palette:         pal,
		CodeLength:      o.length,
		MaxTries:        o.maxTries,
		AllowRepetition: o.allowRep,
	}
	if err := cfg.Validate(); err != nil {
		return game.Config{}, err
	}
	if o.seed == 0 {
		o.seed = o.seedOrClock()
	}
	return cfg, nil
}

func (o *options) seedOrClock() uint64 {
	if o.seed != 0 {
		return o.seed
	}
	return uint64(time.Now().UnixNano())
}

func (o *options) logger(w io.Writer) zerolog.Logger {
	lvl := zerolog.WarnLevel
	if o.verbose {
		lvl = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).Level(lvl).With().Timestamp().Logger()
}

// print renders v in the selected format; text uses the supplied writer func.
func (o *options) print(w io.Writer, v any, text func(io.Writer)) error {
	switch strings.ToLower(o.format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		text(w)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", o.format)
	}
}

func writeReport(w io.Writer, rep stats.Report) {
	fmt.Fprintf(w, "games:   %d\n", rep.Games)
	fmt.Fprintf(w, "failed:  %d\n", rep.Failed)
	fmt.Fprintf(w, "min:     %d\n", rep.Min)
	fmt.Fprintf(w, "max:     %d\n", rep.Max)
	fmt.Fprintf(w, "average: %.3f\n", rep.Average)
	fmt.Fprintf(w, "seed:    %d\n", rep.Seed)
	fmt.Fprintf(w, "elapsed: %s\n", rep.Elapsed)
	fmt.Fprintln(w, "tries  games")
	for _, k := range rep.Buckets() {
		fmt.Fprintf(w, "%5d  %d\n", k, rep.Histogram[k])
	}
}

func writeGame(w io.Writer, secret game.Code, res solver.Result) {
	fmt.Fprintf(w, "secret: %s\n", secret)
	for i, m := range res.Moves {
		phase := "elimination"
		if i < res.OpeningMoves {
			phase = "opening"
		}
		fmt.Fprintf(w, "%2d  %-30s  %s  %s\n", i+1, m.Guess, m.Feedback, phase)
	}
	fmt.Fprintf(w, "outcome: %s after %d tries\n", res.Outcome, res.TriesUsed)
}

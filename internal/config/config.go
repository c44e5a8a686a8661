// internal/config/config.go
//
// Runtime configuration for the Codebreaker server and CLI.
//
// Values come from the process environment, after loading an optional `.env`
// file (godotenv). Every setting has a development default:
//
//   PORT=5175                LOG_LEVEL=info          DB_PATH=./data/app.db
//   JWT_SECRET=dev_secret_change_me                  JWT_EXPIRES_DAYS=14
//   COOKIE_NAME=codebreaker_token                    CLIENT_ORIGIN=http://localhost:5173
//   APP_ENV=development      DAILY_SALT=local_dev_salt
//   PALETTE_FILE=            COLORS=                 (embedded palette when both empty)
//   CODE_LENGTH=4            MAX_TRIES=10            ALLOW_REPETITION=true
//   SOLVER_SEED=0            (0 = seed from the clock)
//   SPACE_CACHE_SIZE=8
//
// The game rules are validated here, before anything generates a code.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/robalobadob/codebreaker/internal/game"
	"github.com/robalobadob/codebreaker/internal/palette"
)

// Config is the full server configuration.
type Config struct {
	Port           string `validate:"required,numeric"`
	LogLevel       string `validate:"oneof=trace debug info warn error fatal panic disabled"`
	DBPath         string `validate:"required"`
	JWTSecret      string `validate:"required,min=8"`
	JWTExpiresDays int    `validate:"gte=1,lte=365"`
	CookieName     string `validate:"required,printascii"`
	ClientOrigin   string `validate:"required,url"`
	Production     bool
	DailySalt      string `validate:"required"`
	SolverSeed     uint64
	SpaceCacheSize int `validate:"gte=1,lte=1024"`

	Game game.Config `validate:"-"`
}

var validate = validator.New()

// Load reads `.env` (if present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary variable source.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(k, def string) string {
		if v, ok := lookup(k); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	var err error
	c := Config{
		Port:         get("PORT", "5175"),
		LogLevel:     strings.ToLower(get("LOG_LEVEL", "info")),
		DBPath:       get("DB_PATH", "./data/app.db"),
		JWTSecret:    get("JWT_SECRET", "dev_secret_change_me"),
		CookieName:   get("COOKIE_NAME", "codebreaker_token"),
		ClientOrigin: get("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:   get("APP_ENV", "development") == "production",
		DailySalt:    get("DAILY_SALT", "local_dev_salt"),
	}
	if c.JWTExpiresDays, err = atoi("JWT_EXPIRES_DAYS", get("JWT_EXPIRES_DAYS", "14")); err != nil {
		return Config{}, err
	}
	if c.SpaceCacheSize, err = atoi("SPACE_CACHE_SIZE", get("SPACE_CACHE_SIZE", "8")); err != nil {
		return Config{}, err
	}
	if c.SolverSeed, err = strconv.ParseUint(get("SOLVER_SEED", "0"), 10, 64); err != nil {
		return Config{}, fmt.Errorf("config: SOLVER_SEED: %w", err)
	}
	if err := validate.Struct(c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if c.Game, err = gameFromLookup(get); err != nil {
		return Config{}, err
	}
	return c, nil
}

// gameFromLookup assembles and validates the game rules.
func gameFromLookup(get func(k, def string) string) (game.Config, error) {
	var (
		g   game.Config
		err error
	)
	if colors := get("COLORS", ""); colors != "" {
		g.Palette, err = palette.Parse(colors)
	} else {
		g.Palette, err = palette.Load(get("PALETTE_FILE", ""))
	}
	if err != nil {
		return game.Config{}, fmt.Errorf("config: %w", err)
	}
	if g.CodeLength, err = atoi("CODE_LENGTH", get("CODE_LENGTH", "4")); err != nil {
		return game.Config{}, err
	}
	if g.MaxTries, err = atoi("MAX_TRIES", get("MAX_TRIES", "10")); err != nil {
		return game.Config{}, err
	}
	if g.AllowRepetition, err = strconv.ParseBool(get("ALLOW_REPETITION", "true")); err != nil {
		return game.Config{}, fmt.Errorf("config: ALLOW_REPETITION: %w", err)
	}
	if err := g.Validate(); err != nil {
		return game.Config{}, fmt.Errorf("config: %w", err)
	}
	if game.SpaceSize(len(g.Palette), g.CodeLength) < 0 {
		return game.Config{}, fmt.Errorf("config: %w: %d^%d codes", game.ErrSpaceTooLarge, len(g.Palette), g.CodeLength)
	}
	return g, nil
}

func atoi(name, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", name, err)
	}
	return n, nil
}

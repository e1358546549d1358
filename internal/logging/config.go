package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnvLogLevel     = "EWSCTL_LOG_LEVEL"
	EnvLogTimestamp = "EWSCTL_LOG_TIMESTAMP"
	EnvLogNoColor   = "EWSCTL_LOG_NOCOLOR"
	EnvLogBypass    = "EWSCTL_LOG_BYPASS"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// Config is the resolved logger setup.
type Config struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
	Bypass    bool
	Out       io.Writer
}

var configureOnce sync.Once

func ConfigureRuntime() {
	Configure(ProfileRuntime)
}

func ConfigureTests() {
	Configure(ProfileTest)
}

// Configure installs the global zerolog logger once per process. Later calls
// are no-ops.
func Configure(profile Profile) {
	ConfigureLevel(profile, "")
}

// ConfigureLevel is Configure for callers that resolved a level elsewhere,
// such as the ewsctl config file.
func ConfigureLevel(profile Profile, level string) {
	configureOnce.Do(func() {
		Apply(Resolve(profile, level))
	})
}

// Resolve builds the logger setup for profile. A valid level replaces the
// profile default and EWSCTL_LOG_* variables override both.
func Resolve(profile Profile, level string) Config {
	cfg := DefaultConfig(profile)
	for _, raw := range []string{level, os.Getenv(EnvLogLevel)} {
		if lvl, ok := ParseLevel(raw); ok {
			cfg.Level = lvl
		}
	}
	switches := map[string]*bool{
		EnvLogTimestamp: &cfg.Timestamp,
		EnvLogNoColor:   &cfg.NoColor,
		EnvLogBypass:    &cfg.Bypass,
	}
	for env, dst := range switches {
		if v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(env))); err == nil {
			*dst = v
		}
	}
	return cfg
}

func DefaultConfig(profile Profile) Config {
	cfg := Config{Out: os.Stderr}
	switch profile {
	case ProfileTest:
		cfg.Level = zerolog.DebugLevel
		cfg.Timestamp = false
	default:
		cfg.Level = zerolog.InfoLevel
		cfg.Timestamp = true
	}
	return cfg
}

// Apply replaces the global logger with one built from cfg.
func Apply(cfg Config) {
	if cfg.Bypass {
		zerolog.SetGlobalLevel(zerolog.Disabled)
		log.Logger = zerolog.Nop()
		return
	}
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	writer := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    cfg.NoColor,
		TimeFormat: time.RFC3339,
	}
	if !cfg.Timestamp {
		writer.PartsExclude = []string{zerolog.TimestampFieldName}
	}
	zerolog.SetGlobalLevel(cfg.Level)
	ctx := zerolog.New(writer).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	log.Logger = ctx.Str("app", "ewsctl").Logger()
}

// levelAliases extend zerolog's level names.
var levelAliases = map[string]zerolog.Level{
	"diagnostics": zerolog.TraceLevel,
	"warning":     zerolog.WarnLevel,
	"disable":     zerolog.Disabled,
	"off":         zerolog.Disabled,
	"none":        zerolog.Disabled,
	"inactive":    zerolog.Disabled,
}

// ParseLevel maps a user supplied level name onto zerolog. The second result
// is false for blank or unknown input.
func ParseLevel(raw string) (zerolog.Level, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if lvl, ok := levelAliases[name]; ok {
		return lvl, true
	}
	if name == "" {
		return zerolog.InfoLevel, false
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.InfoLevel, false
	}
	return lvl, true
}

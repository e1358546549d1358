package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		" DEBUG ":  zerolog.DebugLevel,
		"info":     zerolog.InfoLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"off":      zerolog.Disabled,
		"inactive": zerolog.Disabled,
	}
	for raw, want := range cases {
		got, ok := ParseLevel(raw)
		if !ok || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", raw, got, ok, want)
		}
	}
	if _, ok := ParseLevel("loud"); ok {
		t.Fatalf("expected unknown level to be rejected")
	}
	if _, ok := ParseLevel(""); ok {
		t.Fatalf("expected blank level to be rejected")
	}
}

func TestResolveEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogTimestamp, "false")
	t.Setenv(EnvLogNoColor, "1")
	t.Setenv(EnvLogBypass, "nope")

	cfg := Resolve(ProfileRuntime, "trace")
	if cfg.Level != zerolog.ErrorLevel {
		t.Fatalf("environment level must win over the configured one: %v", cfg.Level)
	}
	if cfg.Timestamp {
		t.Fatalf("expected timestamp disabled")
	}
	if !cfg.NoColor {
		t.Fatalf("expected color disabled")
	}
	if cfg.Bypass {
		t.Fatalf("invalid bool must not enable bypass")
	}
}

func TestResolveConfiguredLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvLogTimestamp, "")
	t.Setenv(EnvLogNoColor, "")
	t.Setenv(EnvLogBypass, "")

	if cfg := Resolve(ProfileRuntime, "warn"); cfg.Level != zerolog.WarnLevel || !cfg.Timestamp {
		t.Fatalf("configured level: %+v", cfg)
	}
	if cfg := Resolve(ProfileTest, "loud"); cfg.Level != zerolog.DebugLevel || cfg.Timestamp {
		t.Fatalf("unknown level keeps the profile default: %+v", cfg)
	}
	if cfg := Resolve(ProfileRuntime, ""); cfg.Level != zerolog.InfoLevel {
		t.Fatalf("blank level keeps the profile default: %v", cfg.Level)
	}
}

func TestApplyWritesConsoleOutput(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	Apply(Config{Level: zerolog.InfoLevel, NoColor: true, Out: &buf})
	log.Debug().Msg("hidden")
	log.Info().Str("property", "Subject").Msg("registry initialized")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line leaked at info level: %q", out)
	}
	if !strings.Contains(out, "registry initialized") || !strings.Contains(out, "property=Subject") {
		t.Fatalf("unexpected output: %q", out)
	}
}

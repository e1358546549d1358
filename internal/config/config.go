package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/ewsctl/internal/logging"
	"github.com/danmuck/ewsctl/internal/protocol"
	"github.com/rs/zerolog"
)

// ClientConfig controls how ewsctl marshals objects.
type ClientConfig struct {
	// Version is the server version requests are shaped for.
	Version protocol.Version
	// XMLPrefix qualifies written elements; empty writes unprefixed names.
	XMLPrefix string
	// Indent is the per level indent of written XML; empty writes one line.
	Indent string
	// OmitUnsupported skips elements newer than Version while decoding.
	OmitUnsupported bool
	LogLevel        zerolog.Level
}

type fileConfig struct {
	Version         string `toml:"version"`
	XMLPrefix       string `toml:"xml_prefix"`
	Indent          string `toml:"indent"`
	OmitUnsupported bool   `toml:"omit_unsupported"`
	LogLevel        string `toml:"log_level"`
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Version:         protocol.Latest,
		XMLPrefix:       "t",
		Indent:          "  ",
		OmitUnsupported: true,
		LogLevel:        zerolog.InfoLevel,
	}
}

// LoadClientConfig reads path over the defaults. Only keys present in the
// file override a default.
func LoadClientConfig(path string) (ClientConfig, error) {
	cfg := DefaultClientConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return ClientConfig{}, fmt.Errorf("load client config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) != 0 {
		return ClientConfig{}, fmt.Errorf("client config unknown key: %s", undecoded[0])
	}

	if meta.IsDefined("version") {
		v, err := protocol.ParseVersion(raw.Version)
		if err != nil {
			return ClientConfig{}, fmt.Errorf("parse version: %w", err)
		}
		cfg.Version = v
	}

	if meta.IsDefined("xml_prefix") {
		cfg.XMLPrefix = strings.TrimSpace(raw.XMLPrefix)
	}

	if meta.IsDefined("indent") {
		cfg.Indent = raw.Indent
	}

	if meta.IsDefined("omit_unsupported") {
		cfg.OmitUnsupported = raw.OmitUnsupported
	}

	if meta.IsDefined("log_level") {
		level, ok := logging.ParseLevel(raw.LogLevel)
		if !ok {
			return ClientConfig{}, fmt.Errorf("parse log_level: unknown level %q", raw.LogLevel)
		}
		cfg.LogLevel = level
	}

	if err := ValidateClientConfig(cfg); err != nil {
		return ClientConfig{}, err
	}
	return cfg, nil
}

func ValidateClientConfig(cfg ClientConfig) error {
	if !cfg.Version.Valid() {
		return fmt.Errorf("client config invalid version %d", uint8(cfg.Version))
	}
	if strings.ContainsAny(cfg.XMLPrefix, ": \t<>\"'") {
		return fmt.Errorf("client config xml_prefix %q is not a valid prefix", cfg.XMLPrefix)
	}
	if strings.Trim(cfg.Indent, " \t") != "" {
		return fmt.Errorf("client config indent must be blanks, got %q", cfg.Indent)
	}
	return nil
}

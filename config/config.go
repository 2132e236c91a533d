// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package config holds the light client command configuration, read from
// a TOML file.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/naoina/toml"

	"github.com/ChainSafe/ibc-light-clients/internal/log"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/grandpa"
	"github.com/ChainSafe/ibc-light-clients/lib/utils"
	"github.com/ChainSafe/ibc-light-clients/pkg/trie"
)

// Database backends.
const (
	BackendBadger = "badger"
	BackendPebble = "pebble"
	BackendMemory = "memory"
)

// Log formats.
const (
	FormatConsole = "console"
	FormatText    = "text"
)

// Config is the configuration of the light client commands.
type Config struct {
	Global   GlobalConfig   `toml:"global,omitempty"`
	Log      LogConfig      `toml:"log,omitempty"`
	Relay    RelayConfig    `toml:"relay,omitempty"`
	Para     ParaConfig     `toml:"para,omitempty"`
	Client   ClientConfig   `toml:"client,omitempty"`
	Database DatabaseConfig `toml:"database,omitempty"`
}

// GlobalConfig is used by every command
type GlobalConfig struct {
	Name     string `toml:"name,omitempty"`
	BasePath string `toml:"basepath,omitempty"`
	LogLvl   string `toml:"log,omitempty"`
}

// LogConfig is the format of the log lines
type LogConfig struct {
	Format     string `toml:"format,omitempty"`
	CallerFile bool   `toml:"caller-file,omitempty"`
	CallerLine bool   `toml:"caller-line,omitempty"`
}

// RelayConfig is the relay chain node the finality proofs are queried from
type RelayConfig struct {
	Endpoint     string `toml:"endpoint,omitempty"`
	Chain        string `toml:"chain,omitempty"`
	StateVersion string `toml:"state-version,omitempty"`
}

// ParaConfig is the parachain node the timestamp extrinsics are queried from
type ParaConfig struct {
	Endpoint     string `toml:"endpoint,omitempty"`
	ID           uint32 `toml:"id,omitempty"`
	StateVersion string `toml:"state-version,omitempty"`
}

// ClientConfig is the persisted GRANDPA client the commands operate on
type ClientConfig struct {
	ID             string   `toml:"id,omitempty"`
	ChainID        string   `toml:"chain-id,omitempty"`
	TrustingPeriod string `toml:"trusting-period,omitempty"`
}

// DatabaseConfig is the client store
type DatabaseConfig struct {
	Backend string `toml:"backend,omitempty"`
	Path    string `toml:"path,omitempty"`
}

// TrustingPeriodDuration parses the trusting period, such as "24h".
func (c ClientConfig) TrustingPeriodDuration() (time.Duration, error) {
	period, err := time.ParseDuration(c.TrustingPeriod)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidTrustingPeriod, err)
	}
	if period <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidTrustingPeriod, period)
	}
	return period, nil
}

// Default returns the default configuration, for a rococo parachain
// served by local nodes.
func Default() *Config {
	return &Config{
		Global: GlobalConfig{
			Name:     "ibc-lightclient",
			BasePath: "~/.ibc-lightclient",
			LogLvl:   log.Info.String(),
		},
		Log: LogConfig{
			Format: FormatConsole,
		},
		Relay: RelayConfig{
			Endpoint:     "ws://127.0.0.1:9944",
			Chain:        grandpa.Rococo.String(),
			StateVersion: trie.V1.String(),
		},
		Para: ParaConfig{
			Endpoint:     "ws://127.0.0.1:9988",
			ID:           2000,
			StateVersion: trie.V1.String(),
		},
		Client: ClientConfig{
			ID:             "10-grandpa-0",
			ChainID:        "parachain",
			TrustingPeriod: "24h",
		},
		Database: DatabaseConfig{
			Backend: BackendBadger,
			Path:    utils.DefaultDatabaseDir,
		},
	}
}

// Load decodes the TOML file on top of the configuration.
func (c *Config) Load(path string) error {
	/* #nosec */
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()

	err = toml.NewDecoder(f).Decode(c)
	if err != nil {
		return fmt.Errorf("decoding config file %s: %w", path, err)
	}
	return nil
}

// Write encodes the configuration as TOML to the file, creating it if
// needed.
func (c *Config) Write(path string) error {
	encoded, err := toml.Marshal(*c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	err = os.WriteFile(path, encoded, 0600)
	if err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// ValidateBasic checks the configuration values are usable.
func (c *Config) ValidateBasic() error {
	if _, err := c.LogOptions(); err != nil {
		return err
	}

	if err := validateEndpoint(c.Relay.Endpoint); err != nil {
		return fmt.Errorf("relay chain: %w", err)
	}
	if _, err := grandpa.ParseRelayChain(c.Relay.Chain); err != nil {
		return fmt.Errorf("relay chain: %w", err)
	}
	if _, err := trie.ParseVersion(c.Relay.StateVersion); err != nil {
		return fmt.Errorf("relay chain: %w", err)
	}

	if err := validateEndpoint(c.Para.Endpoint); err != nil {
		return fmt.Errorf("parachain: %w", err)
	}
	if c.Para.ID == 0 {
		return fmt.Errorf("%w: 0", ErrInvalidParaID)
	}
	if _, err := trie.ParseVersion(c.Para.StateVersion); err != nil {
		return fmt.Errorf("parachain: %w", err)
	}

	if strings.TrimSpace(c.Client.ID) == "" || strings.ContainsAny(c.Client.ID, "/ ") {
		return fmt.Errorf("%w: %q", ErrInvalidClientID, c.Client.ID)
	}
	if strings.TrimSpace(c.Client.ChainID) == "" {
		return ErrEmptyChainID
	}
	if _, err := c.Client.TrustingPeriodDuration(); err != nil {
		return err
	}

	switch c.Database.Backend {
	case BackendBadger, BackendPebble, BackendMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDatabaseBackend, c.Database.Backend)
	}
	return nil
}

// LogOptions returns the options of the global logger.
func (c *Config) LogOptions() ([]log.Option, error) {
	level, err := log.ParseLevel(c.Global.LogLvl)
	if err != nil {
		return nil, err
	}
	format, err := c.Log.format()
	if err != nil {
		return nil, err
	}
	return []log.Option{
		log.SetLevel(level),
		log.SetFormat(format),
		log.SetCallerFile(c.Log.CallerFile),
		log.SetCallerLine(c.Log.CallerLine),
	}, nil
}

func (l LogConfig) format() (log.Format, error) {
	switch l.Format {
	case "", FormatConsole:
		return log.FormatConsole, nil
	case FormatText:
		return log.FormatText, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLogFormat, l.Format)
	}
}

func validateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidEndpoint, err)
	}
	switch u.Scheme {
	case "ws", "wss", "http", "https":
	default:
		return fmt.Errorf("%w: unsupported scheme in %q", ErrInvalidEndpoint, endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: no host in %q", ErrInvalidEndpoint, endpoint)
	}
	return nil
}

// DatabaseDir returns the directory of the on disk database. A relative
// database path is joined to the base path.
func (c *Config) DatabaseDir() string {
	if filepath.IsAbs(c.Database.Path) {
		return c.Database.Path
	}
	return filepath.Join(utils.ExpandDir(c.Global.BasePath), c.Database.Path)
}

// String will return the json representation for a Config
func (c *Config) String() string {
	out, _ := json.MarshalIndent(c, "", "\t")
	return string(out)
}

// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChainSafe/ibc-light-clients/internal/log"
	"github.com/ChainSafe/ibc-light-clients/lib/lightclient/grandpa"
	"github.com/ChainSafe/ibc-light-clients/pkg/trie"
)

func Test_Default(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.ValidateBasic())

	options, err := cfg.LogOptions()
	require.NoError(t, err)
	assert.Len(t, options, 4)
}

func Test_Config_ValidateBasic(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		modify     func(cfg *Config)
		errWrapped error
	}{
		"valid": {
			modify: func(*Config) {},
		},
		"memory_backend": {
			modify: func(cfg *Config) { cfg.Database.Backend = BackendMemory },
		},
		"pebble_backend": {
			modify: func(cfg *Config) { cfg.Database.Backend = BackendPebble },
		},
		"unknown_log_level": {
			modify:     func(cfg *Config) { cfg.Global.LogLvl = "loud" },
			errWrapped: log.ErrLevelNotRecognised,
		},
		"unknown_log_format": {
			modify:     func(cfg *Config) { cfg.Log.Format = "json" },
			errWrapped: ErrUnknownLogFormat,
		},
		"relay_endpoint_scheme": {
			modify:     func(cfg *Config) { cfg.Relay.Endpoint = "tcp://127.0.0.1:9944" },
			errWrapped: ErrInvalidEndpoint,
		},
		"relay_endpoint_without_host": {
			modify:     func(cfg *Config) { cfg.Relay.Endpoint = "ws://" },
			errWrapped: ErrInvalidEndpoint,
		},
		"unknown_relay_chain": {
			modify:     func(cfg *Config) { cfg.Relay.Chain = "paseo" },
			errWrapped: grandpa.ErrUnknownRelayChain,
		},
		"relay_state_version": {
			modify:     func(cfg *Config) { cfg.Relay.StateVersion = "v2" },
			errWrapped: trie.ErrParseVersion,
		},
		"para_endpoint": {
			modify:     func(cfg *Config) { cfg.Para.Endpoint = "" },
			errWrapped: ErrInvalidEndpoint,
		},
		"zero_para_id": {
			modify:     func(cfg *Config) { cfg.Para.ID = 0 },
			errWrapped: ErrInvalidParaID,
		},
		"para_state_version": {
			modify:     func(cfg *Config) { cfg.Para.StateVersion = "" },
			errWrapped: trie.ErrParseVersion,
		},
		"client_id_with_slash": {
			modify:     func(cfg *Config) { cfg.Client.ID = "10-grandpa/0" },
			errWrapped: ErrInvalidClientID,
		},
		"empty_chain_id": {
			modify:     func(cfg *Config) { cfg.Client.ChainID = " " },
			errWrapped: ErrEmptyChainID,
		},
		"zero_trusting_period": {
			modify:     func(cfg *Config) { cfg.Client.TrustingPeriod = "0s" },
			errWrapped: ErrInvalidTrustingPeriod,
		},
		"unparsable_trusting_period": {
			modify:     func(cfg *Config) { cfg.Client.TrustingPeriod = "two days" },
			errWrapped: ErrInvalidTrustingPeriod,
		},
		"unknown_database_backend": {
			modify:     func(cfg *Config) { cfg.Database.Backend = "leveldb" },
			errWrapped: ErrUnknownDatabaseBackend,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			testCase.modify(cfg)
			err := cfg.ValidateBasic()
			if testCase.errWrapped == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, testCase.errWrapped)
		})
	}
}

func Test_Config_Write_Load(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	cfg.Para.ID = 2087
	cfg.Client.TrustingPeriod = "90m"
	require.NoError(t, cfg.Write(path))

	loaded := new(Config)
	require.NoError(t, loaded.Load(path))
	assert.Equal(t, cfg, loaded)
}

func Test_Config_Load(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(t *testing.T, name, content string) string {
		t.Helper()
		path := filepath.Join(dir, name+".toml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
		return path
	}

	t.Run("overrides_defaults", func(t *testing.T) {
		t.Parallel()

		path := write(t, "overrides", `
[relay]
endpoint = "wss://rococo-rpc.polkadot.io"

[client]
trusting-period = "48h"
`)
		cfg := Default()
		require.NoError(t, cfg.Load(path))
		assert.Equal(t, "wss://rococo-rpc.polkadot.io", cfg.Relay.Endpoint)
		period, err := cfg.Client.TrustingPeriodDuration()
		require.NoError(t, err)
		assert.Equal(t, 48*time.Hour, period)
		assert.Equal(t, Default().Para, cfg.Para)
		assert.NoError(t, cfg.ValidateBasic())
	})

	t.Run("unknown_key", func(t *testing.T) {
		t.Parallel()

		path := write(t, "unknown", `
[client]
trusting-periods = "48h"
`)
		err := Default().Load(path)
		assert.Error(t, err)
	})

	t.Run("missing_file", func(t *testing.T) {
		t.Parallel()

		err := Default().Load(filepath.Join(dir, "missing.toml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func Test_Config_DatabaseDir(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Global.BasePath = "/tmp/lightclient"
	assert.Equal(t, "/tmp/lightclient/db", cfg.DatabaseDir())

	cfg.Database.Path = "/var/lib/clients"
	assert.Equal(t, "/var/lib/clients", cfg.DatabaseDir())
}

// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "nexaflowd.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const validConfig = `
total_supply = "100000000000.000000"
genesis_account = "rGenesis"
listen_addr = "127.0.0.1:9100"

[validator]
id = "v1"
private_key = "aabbcc"

[[unl]]
id = "v2"
public_key = "ddeeff"

[reserve]
base_reserve = "10.000000"
owner_inc = "2.000000"

[fee]
base_fee = "0.00001"
escalation_step = "500"

[[stake_tier]]
id = 1
duration_secs = 2592000
annual_rate_bps = 800
max_penalty_bps = 2000
`

func TestLoadParsesFullDocument(t *testing.T) {
	path := writeConfig(t, validConfig)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "rGenesis", cfg.GenesisAccount)
	require.Equal(t, "v1", cfg.Validator.ID)
	require.Len(t, cfg.UNL, 1)
	require.Equal(t, []string{"v2"}, cfg.UNLIDs())
	require.Len(t, cfg.StakeTiers, 1)
	require.Equal(t, uint32(1), cfg.StakeTiers[0].ID)
}

func TestLoadRequiresGenesisAccount(t *testing.T) {
	path := writeConfig(t, `
[validator]
id = "v1"
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRequiresValidatorID(t *testing.T) {
	path := writeConfig(t, `genesis_account = "rGenesis"`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestPrivateKeyBytesDecodesHex(t *testing.T) {
	path := writeConfig(t, validConfig)
	cfg, err := Load(path)
	require.NoError(t, err)

	key, err := cfg.PrivateKeyBytes()
	require.NoError(t, err)
	require.Equal(t, []byte{0xaa, 0xbb, 0xcc}, key)
}

func TestPrivateKeyBytesNilWhenUnset(t *testing.T) {
	path := writeConfig(t, `
genesis_account = "rGenesis"
[validator]
id = "v1"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	key, err := cfg.PrivateKeyBytes()
	require.NoError(t, err)
	require.Nil(t, key)
}

func TestUNLPubkeysDecodesHexAndSkipsEmpty(t *testing.T) {
	path := writeConfig(t, validConfig)
	cfg, err := Load(path)
	require.NoError(t, err)

	pubs, err := cfg.UNLPubkeys()
	require.NoError(t, err)
	require.Equal(t, []byte{0xdd, 0xee, 0xff}, pubs["v2"])
}

func TestUNLPubkeysRejectsBadHex(t *testing.T) {
	path := writeConfig(t, `
genesis_account = "rGenesis"
[validator]
id = "v1"
[[unl]]
id = "v2"
public_key = "not-hex"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	_, err = cfg.UNLPubkeys()
	require.Error(t, err)
}

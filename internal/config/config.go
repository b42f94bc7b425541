// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config loads the one place non-default values enter the system
// (§6.5): genesis parameters, validator identity, UNL membership and
// reserve/fee schedule, all from a TOML file, following the
// anyswap-CrossChain-Bridge params package's toml.DecodeFile convention.
package config

import (
	"encoding/hex"
	"fmt"

	"github.com/BurntSushi/toml"
)

// ValidatorConfig names this node's identity within the UNL.
type ValidatorConfig struct {
	ID         string
	PrivateKey string `toml:"private_key"`
}

// PeerConfig names one other UNL member and its registered public key.
type PeerConfig struct {
	ID        string
	PublicKey string `toml:"public_key"`
}

// ConsensusConfig holds the BFT-RPCA tuning named by §4.5. These fields
// are decoded but not read: internal/consensus runs on its built-in
// thresholds (0.50 rising to 0.80 over 10 rounds).
type ConsensusConfig struct {
	InitialThreshold float64 `toml:"initial_threshold"`
	FinalThreshold   float64 `toml:"final_threshold"`
	MaxRounds        int     `toml:"max_rounds"`
}

// ReserveConfig holds §4.3.5's reserve schedule.
type ReserveConfig struct {
	BaseReserve string `toml:"base_reserve"`
	OwnerInc    string `toml:"owner_inc"`
}

// FeeConfig holds a static fee schedule (§4.4 supplement,
// fee_escalation.py). These fields are decoded but not read: the ledger's
// FeeEscalator uses its built-in schedule.
type FeeConfig struct {
	BaseFee        string `toml:"base_fee"`
	EscalationStep string `toml:"escalation_step"`
}

// StakeTierConfig mirrors one entry of internal/staking.Tier.
type StakeTierConfig struct {
	ID            uint32
	DurationSecs  int64 `toml:"duration_secs"`
	AnnualRateBps int64 `toml:"annual_rate_bps"`
	MaxPenaltyBps int64 `toml:"max_penalty_bps"`
}

// Config is the root of the TOML document (§6.5). All fields are
// operator-supplied; nothing here is hard-coded as a non-default value.
type Config struct {
	TotalSupply    string            `toml:"total_supply"`
	GenesisAccount string            `toml:"genesis_account"`
	Validator      ValidatorConfig   `toml:"validator"`
	UNL            []PeerConfig      `toml:"unl"`
	Consensus      ConsensusConfig   `toml:"consensus"`
	Reserve        ReserveConfig     `toml:"reserve"`
	Fee            FeeConfig         `toml:"fee"`
	StakeTiers     []StakeTierConfig `toml:"stake_tier"`
	Amendments     []string          `toml:"amendments"`
	ListenAddr     string            `toml:"listen_addr"`
	DataDir        string            `toml:"data_dir"`
}

// Load decodes a TOML file into a Config, matching anyswap-CrossChain-
// Bridge's params.LoadConfig but returning an error instead of exiting
// the process, since this package has no business deciding process
// lifetime on behalf of cmd/nexaflowd.
func Load(path string) (*Config, error) {
	var c Config
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if c.GenesisAccount == "" {
		return nil, fmt.Errorf("config: genesis_account is required")
	}
	if c.Validator.ID == "" {
		return nil, fmt.Errorf("config: validator.id is required")
	}
	return &c, nil
}

// PrivateKeyBytes decodes the validator's configured hex private key, or
// returns nil if the node runs in listen-only (non-proposing) mode.
func (c *Config) PrivateKeyBytes() ([]byte, error) {
	if c.Validator.PrivateKey == "" {
		return nil, nil
	}
	return hex.DecodeString(c.Validator.PrivateKey)
}

// UNLIDs returns the configured UNL member ids, excluding this validator.
func (c *Config) UNLIDs() []string {
	out := make([]string, 0, len(c.UNL))
	for _, p := range c.UNL {
		if p.ID == c.Validator.ID {
			continue
		}
		out = append(out, p.ID)
	}
	return out
}

// UNLPubkeys decodes every configured peer's hex public key into the map
// shape internal/consensus.Config expects.
func (c *Config) UNLPubkeys() (map[string][]byte, error) {
	out := make(map[string][]byte, len(c.UNL))
	for _, p := range c.UNL {
		if p.PublicKey == "" {
			continue
		}
		b, err := hex.DecodeString(p.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("config: unl %s public_key: %w", p.ID, err)
		}
		out[p.ID] = b
	}
	return out, nil
}

// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package xchain implements §4.3.4's cross-chain bridge family. A claim
// references an attestation produced off-ledger by a bridge witness set;
// this package only tracks claim replay; it does not move funds and does
// not verify witness signatures itself.
package xchain

import "github.com/nexaflow-ledger/nexaflow-validator/internal/model"

// Bridge is one configured door account pairing with a remote chain.
type Bridge struct {
	ID            string
	LockingChain  string
	IssuingChain  string
	LockingDoor   string
	IssuingDoor   string
}

// Manager tracks configured bridges and claimed attestation ids.
type Manager struct {
	bridges map[string]*Bridge
	claimed map[string]bool
}

// New returns an empty Manager.
func New() *Manager {
	return &Manager{bridges: make(map[string]*Bridge), claimed: make(map[string]bool)}
}

// CreateBridge registers a new bridge pairing.
func (m *Manager) CreateBridge(b Bridge) (ok bool, msg string) {
	if _, exists := m.bridges[b.ID]; exists {
		return false, "bridge already exists"
	}
	bridge := b
	m.bridges[b.ID] = &bridge
	return true, ""
}

// Get looks up a configured bridge by id.
func (m *Manager) Get(bridgeID string) (*Bridge, bool) {
	b, ok := m.bridges[bridgeID]
	return b, ok
}

// Commit records a lock on the source chain side; it is informational
// only since the validator has no visibility into the remote chain.
func (m *Manager) Commit(bridgeID string) (ok bool, msg string) {
	if _, found := m.bridges[bridgeID]; !found {
		return false, "no such bridge"
	}
	return true, ""
}

// Claim records attestationID as used on bridgeID, failing if the bridge
// is unknown or the id was already claimed there. It moves no funds:
// destination and amount are not used here, and the state machine
// credits and mints the claimed amount itself.
func (m *Manager) Claim(bridgeID, attestationID, destination string, amount model.Micro) (ok bool, msg string) {
	if _, found := m.bridges[bridgeID]; !found {
		return false, "no such bridge"
	}
	key := bridgeID + "|" + attestationID
	if m.claimed[key] {
		return false, "attestation already claimed"
	}
	m.claimed[key] = true
	return true, ""
}

// Clone returns a deep copy for invariant-rollback snapshots.
func (m *Manager) Clone() *Manager {
	out := New()
	for id, b := range m.bridges {
		bridge := *b
		out.bridges[id] = &bridge
	}
	for k, v := range m.claimed {
		out.claimed[k] = v
	}
	return out
}

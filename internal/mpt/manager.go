// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package mpt implements §4.3.4's multi-purpose-token family: a
// fungible-token issuance with a fixed max supply and a per-holder
// authorization list.
package mpt

import "github.com/nexaflow-ledger/nexaflow-validator/internal/model"

// Token is one issued multi-purpose token series.
type Token struct {
	ID            string
	Issuer        string
	MaxSupply     model.Micro
	IssuedSupply  model.Micro
	Authorized    map[string]bool
}

// Manager holds every issued token series.
type Manager struct {
	tokens map[string]*Token
}

// New returns an empty Manager.
func New() *Manager { return &Manager{tokens: make(map[string]*Token)} }

// Create issues a new token series.
func (m *Manager) Create(id, issuer string, maxSupply model.Micro) (ok bool, msg string) {
	if _, exists := m.tokens[id]; exists {
		return false, "token already exists"
	}
	m.tokens[id] = &Token{ID: id, Issuer: issuer, MaxSupply: maxSupply, Authorized: map[string]bool{}}
	return true, ""
}

// Authorize grants a holder permission to hold balances of the token.
func (m *Manager) Authorize(id, holder string) (ok bool, msg string) {
	t, found := m.tokens[id]
	if !found {
		return false, "no such token"
	}
	t.Authorized[holder] = true
	return true, ""
}

// Issue increases the issued supply, failing if it would exceed the
// token's configured max supply — mapped to MPT_MAX_SUPPLY by the state
// machine.
func (m *Manager) Issue(id string, amount model.Micro) (ok bool, msg string) {
	t, found := m.tokens[id]
	if !found {
		return false, "no such token"
	}
	newTotal := t.IssuedSupply.Add(amount)
	if newTotal.Cmp(t.MaxSupply) > 0 {
		return false, "exceeds max supply"
	}
	t.IssuedSupply = newTotal
	return true, ""
}

// Clone returns a deep copy for invariant-rollback snapshots.
func (m *Manager) Clone() *Manager {
	out := New()
	for id, t := range m.tokens {
		tok := *t
		tok.Authorized = make(map[string]bool, len(t.Authorized))
		for k, v := range t.Authorized {
			tok.Authorized[k] = v
		}
		out.tokens[id] = &tok
	}
	return out
}

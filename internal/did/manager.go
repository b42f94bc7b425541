// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package did implements §4.3.4's decentralized-identifier family: one
// document per account.
package did

// Manager holds every account's DID document.
type Manager struct {
	documents map[string][]byte
}

// New returns an empty Manager.
func New() *Manager { return &Manager{documents: make(map[string][]byte)} }

// Set creates or replaces an account's DID document.
func (m *Manager) Set(account string, document []byte, isCreate bool) (ok bool, msg string) {
	_, exists := m.documents[account]
	if isCreate && exists {
		return false, "did already exists"
	}
	m.documents[account] = append([]byte(nil), document...)
	return true, ""
}

// Delete removes an account's DID document.
func (m *Manager) Delete(account string) (ok bool, msg string) {
	if _, exists := m.documents[account]; !exists {
		return false, "no such did"
	}
	delete(m.documents, account)
	return true, ""
}

// Get returns an account's DID document.
func (m *Manager) Get(account string) ([]byte, bool) {
	d, ok := m.documents[account]
	return d, ok
}

// Clone returns a deep copy for invariant-rollback snapshots.
func (m *Manager) Clone() *Manager {
	out := New()
	for account, doc := range m.documents {
		out.documents[account] = append([]byte(nil), doc...)
	}
	return out
}

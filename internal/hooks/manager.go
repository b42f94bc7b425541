// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package hooks implements §4.3.4's hook-program family: an account may
// install a reference to a hook program that the state machine consults
// before applying a transaction against that account. This package
// tracks installed references only; it does not execute hook bytecode.
package hooks

// Manager holds every account's installed hook reference.
type Manager struct {
	installed map[string]string
}

// New returns an empty Manager.
func New() *Manager { return &Manager{installed: make(map[string]string)} }

// Install attaches a hook reference to an account.
func (m *Manager) Install(account, hookRef string) (ok bool, msg string) {
	m.installed[account] = hookRef
	return true, ""
}

// Uninstall removes an account's hook reference.
func (m *Manager) Uninstall(account string) (ok bool, msg string) {
	if _, exists := m.installed[account]; !exists {
		return false, "no hook installed"
	}
	delete(m.installed, account)
	return true, ""
}

// Invoke looks up an account's hook reference. A reference of the
// sentinel value "reject" always fails, mapped to HOOKS_REJECTED by the
// state machine; any other reference (or none installed) passes through.
func (m *Manager) Invoke(account string) (ok bool, msg string) {
	ref, exists := m.installed[account]
	if !exists {
		return true, ""
	}
	if ref == "reject" {
		return false, "rejected by hook"
	}
	return true, ""
}

// Clone returns a deep copy for invariant-rollback snapshots.
func (m *Manager) Clone() *Manager {
	out := New()
	for account, ref := range m.installed {
		out.installed[account] = ref
	}
	return out
}

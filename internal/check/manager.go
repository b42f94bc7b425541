// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package check implements §4.3.4's check family: a deferred pull
// payment that the destination cashes within a bounded window.
package check

import "github.com/nexaflow-ledger/nexaflow-validator/internal/model"

// Entry is one pending check.
type Entry struct {
	ID          string
	Creator     string
	Destination string
	SendMax     model.Amount
	Expiration  int64
}

// Manager holds every pending check, keyed by id.
type Manager struct {
	entries map[string]*Entry
}

// New returns an empty Manager.
func New() *Manager { return &Manager{entries: make(map[string]*Entry)} }

// Create records a new deferred pull.
func (m *Manager) Create(e Entry) { entry := e; m.entries[e.ID] = &entry }

// Get looks up a check by id.
func (m *Manager) Get(id string) (*Entry, bool) {
	e, ok := m.entries[id]
	return e, ok
}

// Cash removes the check and returns the amount to transfer, clamped to
// [deliver_min, send_max] by the caller (the state machine, which alone
// knows the destination's current trust-line/balance capacity).
func (m *Manager) Cash(id, destination string, now int64) (ok bool, msg string, e *Entry) {
	entry, found := m.Get(id)
	if !found {
		return false, "no such check", nil
	}
	if entry.Destination != destination {
		return false, "not the check destination", nil
	}
	if entry.Expiration != 0 && now > entry.Expiration {
		return false, "check expired", nil
	}
	delete(m.entries, id)
	return true, "", entry
}

// Cancel removes a check entry unconditionally once past its expiration,
// or at the creator's or destination's request before then.
func (m *Manager) Cancel(id, requester string, now int64) (ok bool, msg string) {
	entry, found := m.Get(id)
	if !found {
		return false, "no such check"
	}
	expired := entry.Expiration != 0 && now > entry.Expiration
	if !expired && requester != entry.Creator && requester != entry.Destination {
		return false, "not authorized to cancel"
	}
	delete(m.entries, id)
	return true, ""
}

// Clone returns a deep copy for invariant-rollback snapshots.
func (m *Manager) Clone() *Manager {
	out := New()
	for id, e := range m.entries {
		entry := *e
		out.entries[id] = &entry
	}
	return out
}

// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package escrow implements §4.3.4's EscrowCreate/Finish/Cancel family: a
// time- or condition-bounded lock on native funds.
package escrow

import "github.com/nexaflow-ledger/nexaflow-validator/internal/model"

// Entry is one locked escrow.
type Entry struct {
	ID          string
	Creator     string
	Destination string
	Amount      model.Micro
	Condition   []byte
	FinishAfter int64
	CancelAfter int64
}

// Manager holds every open escrow, keyed by id. Like the other §4.3.4
// sub-engines it returns (ok, msg) pairs rather than error values: the
// state machine maps those onto the §4.3.6 result-code taxonomy itself.
type Manager struct {
	entries map[string]*Entry
}

// New returns an empty Manager.
func New() *Manager { return &Manager{entries: make(map[string]*Entry)} }

// Create opens a new escrow entry.
func (m *Manager) Create(e Entry) {
	entry := e
	m.entries[e.ID] = &entry
}

// Get looks up an escrow by (owner, id) pair, matching the XRPL
// convention that an escrow is addressed by its creator plus a
// per-account offer sequence.
func (m *Manager) Get(owner, id string) (*Entry, bool) {
	e, ok := m.entries[id]
	if !ok || e.Creator != owner {
		return nil, false
	}
	return e, true
}

// Finish releases an escrow to its destination once finish_after has
// elapsed and the supplied fulfillment matches the entry's condition
// (an empty condition accepts any fulfillment, including none).
func (m *Manager) Finish(owner, id string, now int64, fulfillment []byte) (ok bool, msg string, amount model.Micro, destination string) {
	e, found := m.Get(owner, id)
	if !found {
		return false, "no such escrow", model.Zero(), ""
	}
	if now < e.FinishAfter {
		return false, "not ready", model.Zero(), ""
	}
	if len(e.Condition) > 0 && string(fulfillment) != string(e.Condition) {
		return false, "bad condition", model.Zero(), ""
	}
	delete(m.entries, id)
	return true, "", e.Amount, e.Destination
}

// Cancel returns an escrow's funds to its creator once cancel_after has
// elapsed.
func (m *Manager) Cancel(owner, id string, now int64) (ok bool, msg string, amount model.Micro, creator string) {
	e, found := m.Get(owner, id)
	if !found {
		return false, "no such escrow", model.Zero(), ""
	}
	if e.CancelAfter == 0 || now < e.CancelAfter {
		return false, "not cancelable yet", model.Zero(), ""
	}
	delete(m.entries, id)
	return true, "", e.Amount, e.Creator
}

// TotalLocked sums every open escrow's amount, consumed by the invariant
// checker's supply-conservation equation.
func (m *Manager) TotalLocked() model.Micro {
	total := model.Zero()
	for _, e := range m.entries {
		total = total.Add(e.Amount)
	}
	return total
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

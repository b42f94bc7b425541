// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package paychan implements §4.3.4's payment-channel family: create,
// fund, claim and close of a unidirectional, off-chain-signed native
// allocation.
package paychan

import "github.com/nexaflow-ledger/nexaflow-validator/internal/model"

// Channel is one open payment channel.
type Channel struct {
	ID          string
	Source      string
	Destination string
	Allocation  model.Micro
	Claimed     model.Micro
	SettleDelay int64
	CancelAfter int64
	PublicKey    []byte
	ClosePending bool
	CloseTime    int64
}

// Manager holds every open channel, keyed by id.
type Manager struct {
	channels map[string]*Channel
}

// New returns an empty Manager.
func New() *Manager { return &Manager{channels: make(map[string]*Channel)} }

// Create opens a new channel.
func (m *Manager) Create(c Channel) { ch := c; m.channels[c.ID] = &ch }

// Get looks up a channel by id.
func (m *Manager) Get(id string) (*Channel, bool) {
	c, ok := m.channels[id]
	return c, ok
}

// Fund adds to a channel's allocation.
func (m *Manager) Fund(id string, amount model.Micro) (ok bool, msg string) {
	c, found := m.Get(id)
	if !found {
		return false, "no such channel"
	}
	c.Allocation = c.Allocation.Add(amount)
	return true, ""
}

// Claim advances the channel's claimed balance to at most its allocation,
// crediting the destination the incremental delta.
func (m *Manager) Claim(id string, balance model.Micro, requestClose bool, now int64) (ok bool, msg string, delta model.Micro, destination string) {
	c, found := m.Get(id)
	if !found {
		return false, "no such channel", model.Zero(), ""
	}
	if balance.Cmp(c.Allocation) > 0 {
		return false, "claim exceeds allocation", model.Zero(), ""
	}
	if balance.Cmp(c.Claimed) < 0 {
		return false, "claim balance may not decrease", model.Zero(), ""
	}
	delta = balance.Sub(c.Claimed)
	c.Claimed = balance
	if requestClose {
		c.ClosePending = true
		c.CloseTime = now + c.SettleDelay
	}
	return true, "", delta, c.Destination
}

// Close returns the unclaimed remainder to the source once settle_delay
// has elapsed since a close was requested.
func (m *Manager) Close(id string, now int64) (ok bool, msg string, remainder model.Micro, source string) {
	c, found := m.Get(id)
	if !found {
		return false, "no such channel", model.Zero(), ""
	}
	if !c.ClosePending || now < c.CloseTime {
		return false, "settle delay not elapsed", model.Zero(), ""
	}
	remainder = c.Allocation.Sub(c.Claimed)
	delete(m.channels, id)
	return true, "", remainder, c.Source
}

// TotalLocked sums every open channel's unclaimed allocation.
func (m *Manager) TotalLocked() model.Micro {
	total := model.Zero()
	for _, c := range m.channels {
		total = total.Add(c.Allocation.Sub(c.Claimed))
	}
	return total
}

// Clone returns a deep copy for invariant-rollback snapshots.
func (m *Manager) Clone() *Manager {
	out := New()
	for id, c := range m.channels {
		ch := *c
		out.channels[id] = &ch
	}
	return out
}

// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package oracle implements §4.3.4's price-feed oracle family.
package oracle

import "github.com/nexaflow-ledger/nexaflow-validator/internal/model"

// MaxFeedsPerProvider caps how many (asset pair) entries a single
// provider may publish, mapped to ORACLE_LIMIT when exceeded.
const MaxFeedsPerProvider = 64

// Manager holds every provider's published feeds.
type Manager struct {
	feeds map[string]map[string]model.Micro // provider -> asset pair -> price
}

// New returns an empty Manager.
func New() *Manager { return &Manager{feeds: make(map[string]map[string]model.Micro)} }

// Set publishes or updates a provider's price for an asset pair.
func (m *Manager) Set(provider, assetPair string, price model.Micro) (ok bool, msg string) {
	feeds, ok := m.feeds[provider]
	if !ok {
		feeds = make(map[string]model.Micro)
		m.feeds[provider] = feeds
	}
	if _, exists := feeds[assetPair]; !exists && len(feeds) >= MaxFeedsPerProvider {
		return false, "feed limit exceeded"
	}
	feeds[assetPair] = price
	return true, ""
}

// Delete removes a provider's feed for an asset pair.
func (m *Manager) Delete(provider, assetPair string) (ok bool, msg string) {
	feeds, found := m.feeds[provider]
	if !found {
		return false, "no such provider"
	}
	if _, exists := feeds[assetPair]; !exists {
		return false, "no such feed"
	}
	delete(feeds, assetPair)
	return true, ""
}

// Get returns a provider's published price for an asset pair.
func (m *Manager) Get(provider, assetPair string) (model.Micro, bool) {
	feeds, found := m.feeds[provider]
	if !found {
		return model.Zero(), false
	}
	p, ok := feeds[assetPair]
	return p, ok
}

// Clone returns a deep copy for invariant-rollback snapshots.
func (m *Manager) Clone() *Manager {
	out := New()
	for provider, feeds := range m.feeds {
		clone := make(map[string]model.Micro, len(feeds))
		for pair, price := range feeds {
			clone[pair] = price
		}
		out.feeds[provider] = clone
	}
	return out
}

// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package authmap implements the authenticated map of §4.2: a digest over
// a 256-bit-key to opaque-value mapping that is deterministic regardless
// of insertion order. The ledger closer uses one instance per closed
// ledger to compute tx_hash and state_hash.
package authmap

import (
	"crypto/sha256"
	"sort"
)

// Map accumulates (key, value) pairs and produces a deterministic root
// digest. It is not a persistent or lookup-efficient trie — the core only
// needs the root hash, never point queries against a historical map — so
// the implementation sorts and hashes rather than maintaining trie nodes
// incrementally. Keys are 256-bit (32-byte) values compared in natural
// big-endian order, matching §4.2.
type Map struct {
	entries map[string][]byte
}

// New returns an empty authenticated map.
func New() *Map {
	return &Map{entries: make(map[string][]byte)}
}

// Insert adds or overwrites the value for key. key must be exactly 32
// bytes; shorter keys (e.g. ASCII tx ids) should be hashed or padded by
// the caller before insertion — the ledger closer does this via
// KeyFromString.
func (m *Map) Insert(key [32]byte, value []byte) {
	m.entries[string(key[:])] = append([]byte(nil), value...)
}

// KeyFromString derives a 32-byte trie key from an arbitrary string by
// hashing it with SHA-256. This is used for tx ids and other
// variable-length identifiers that are not already 32 bytes.
func KeyFromString(s string) [32]byte {
	return sha256.Sum256([]byte(s))
}

// RootHash computes the deterministic digest over all inserted pairs.
// Entries are sorted by key in big-endian order before hashing so that
// the result is independent of insertion order, satisfying §4.2.
func (m *Map) RootHash() [32]byte {
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		h.Write([]byte(k))
		v := m.entries[k]
		h.Write(v)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Len reports how many distinct keys have been inserted.
func (m *Map) Len() int { return len(m.entries) }

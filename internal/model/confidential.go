// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package model

// ConfidentialOutput is a Monero-style shielded UTXO note: the amount is
// never stored in clear, only a Pedersen commitment to it. Spend detection
// happens via key images recorded separately on the ledger, never via this
// struct's fields.
type ConfidentialOutput struct {
	Commitment    []byte
	StealthAddr   []byte
	EphemeralPub  []byte
	RangeProof    []byte
	ViewTag       byte
	TxID          string
	Spent         bool
}

// Clone deep-copies the output for snapshotting.
func (c *ConfidentialOutput) Clone() *ConfidentialOutput {
	if c == nil {
		return nil
	}
	out := *c
	out.Commitment = append([]byte(nil), c.Commitment...)
	out.StealthAddr = append([]byte(nil), c.StealthAddr...)
	out.EphemeralPub = append([]byte(nil), c.EphemeralPub...)
	out.RangeProof = append([]byte(nil), c.RangeProof...)
	return &out
}

// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package model

// LedgerHeader is the immutable summary of a closed ledger. Once appended
// to the chain, none of its fields may change; a new ledger sequence
// begins a new header with ParentHash set to this one's Hash.
type LedgerHeader struct {
	Sequence     uint32
	ParentHash   string
	TxHash       string
	StateHash    string
	CloseTime    int64
	TxCount      uint32
	TotalNative  Micro
	Hash         string
}

// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package consensus implements §4.5's bounded BFT-RPCA voting protocol:
// validators exchange signed Proposals naming a candidate transaction set
// for a ledger sequence and converge on an agreed set across escalating
// rounds, or fail closed.
package consensus

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nexaflow-ledger/nexaflow-validator/internal/crypto"
)

// Proposal is one validator's candidate transaction set for a given
// ledger sequence and round (§4.5).
type Proposal struct {
	ValidatorID  string
	LedgerSeq    uint32
	RoundNumber  uint32
	TxIDs        []string
	Signature    []byte
}

// Hash computes the canonical proposal digest of §4.5:
// hash256("{vid}:{seq}:{round}:{sorted_comma_joined_tx_ids}").
func (p *Proposal) Hash(provider crypto.Provider) [32]byte {
	return provider.Hash256([]byte(p.preimage()))
}

func (p *Proposal) preimage() string {
	ids := append([]string(nil), p.TxIDs...)
	sort.Strings(ids)
	return fmt.Sprintf("%s:%d:%d:%s", p.ValidatorID, p.LedgerSeq, p.RoundNumber, strings.Join(ids, ","))
}

// Sign populates Signature over the proposal's canonical digest using priv.
func (p *Proposal) Sign(provider crypto.Provider, priv []byte) error {
	digest := p.Hash(provider)
	sig, err := provider.Sign(priv, digest[:])
	if err != nil {
		return err
	}
	p.Signature = sig
	return nil
}

// verify reports whether sig is a valid signature over p's canonical
// digest under pub. A proposal from a validator_id with no registered
// pubkey is treated as unverifiable and handled by the caller.
func (p *Proposal) verify(provider crypto.Provider, pub []byte) bool {
	digest := p.Hash(provider)
	return provider.Verify(pub, digest[:], p.Signature)
}

// key identifies the (ledger_seq, round) slot a proposal occupies in the
// engine's bookkeeping.
type proposalKey struct {
	seq   uint32
	round uint32
}

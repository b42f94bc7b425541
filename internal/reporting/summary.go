// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package reporting formats read-only summaries of ledger and consensus
// state for operators and collaborators, adapted from the original's
// reporting.py. It never mutates the Ledger it reads.
package reporting

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/nexaflow-ledger/nexaflow-validator/internal/consensus"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/ledger"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/model"
)

// LedgerSummary is the §6.1 get_state_summary() response: a point-in-time
// snapshot of supply accounting and chain position.
type LedgerSummary struct {
	CurrentSequence  uint32
	AccountCount     int
	TotalSupply      model.Micro
	InitialSupply    model.Micro
	TotalBurned      model.Micro
	TotalMinted      model.Micro
	PendingTxCount   int
	ConfidentialOuts int
	LastHeaderHash   string
}

// Summarize builds a LedgerSummary from the live ledger, matching §8's
// conservation identity total_supply = initial_supply - total_burned +
// total_minted (callers may assert this directly against the result).
func Summarize(l *ledger.Ledger) LedgerSummary {
	s := LedgerSummary{
		CurrentSequence:  l.CurrentSequence(),
		AccountCount:     len(l.AllAccounts()),
		TotalSupply:      l.TotalSupply(),
		InitialSupply:    l.InitialSupply(),
		TotalBurned:      l.TotalBurned(),
		TotalMinted:      l.TotalMinted(),
		ConfidentialOuts: len(l.GetAllConfidentialOutputs()),
	}
	if h := l.LastHeader(); h != nil {
		s.LastHeaderHash = h.Hash
	}
	return s
}

// SummaryCache memoizes Summarize by ledger sequence so repeated
// get_state_summary() polling (§6.1) against a closed, immutable sequence
// doesn't re-walk every account on each call. Bounded rather than
// unbounded since a long-lived validator accumulates one entry per closed
// ledger forever otherwise.
type SummaryCache struct {
	cache *lru.Cache
}

// NewSummaryCache returns a cache holding the most recently requested
// size summaries.
func NewSummaryCache(size int) *SummaryCache {
	c, err := lru.New(size)
	if err != nil {
		// Only returns an error for a non-positive size, which is a
		// caller bug, not a runtime condition to recover from.
		panic(err)
	}
	return &SummaryCache{cache: c}
}

// Get returns the cached summary for seq if present.
func (c *SummaryCache) Get(seq uint32) (LedgerSummary, bool) {
	v, ok := c.cache.Get(seq)
	if !ok {
		return LedgerSummary{}, false
	}
	return v.(LedgerSummary), true
}

// SummarizeCached returns Summarize(l), serving a cached copy when l's
// current sequence was already summarized and nothing has closed since.
func (c *SummaryCache) SummarizeCached(l *ledger.Ledger) LedgerSummary {
	seq := l.CurrentSequence()
	if s, ok := c.Get(seq); ok {
		return s
	}
	s := Summarize(l)
	c.cache.Add(seq, s)
	return s
}

// AccountSummary is a single account's reportable fields, omitting
// internal bookkeeping like TicketIDs that collaborators never need.
type AccountSummary struct {
	Address      string
	Balance      model.Micro
	Sequence     uint32
	OwnerCount   uint32
	TrustLines   int
	OpenOffers   int
}

// SummarizeAccount formats one account for a collaborator query.
func SummarizeAccount(a *model.Account) AccountSummary {
	return AccountSummary{
		Address:    a.Address,
		Balance:    a.Balance,
		Sequence:   a.NextSeq,
		OwnerCount: a.OwnerCount,
		TrustLines: len(a.TrustLines),
		OpenOffers: len(a.OpenOfferIDs),
	}
}

// ConsensusSummary reports an Engine's current round history and
// Byzantine/Negative-UNL bookkeeping, consumed by internal/metrics and
// operator tooling.
type ConsensusSummary struct {
	Rounds          []consensus.RoundStats
	ByzantineCount  int
	NegativeUNLSize int
}

// SummarizeConsensus builds a ConsensusSummary from a live Engine.
func SummarizeConsensus(e *consensus.Engine) ConsensusSummary {
	return ConsensusSummary{
		Rounds:          e.History(),
		ByzantineCount:  len(e.ByzantineValidators()),
		NegativeUNLSize: len(e.NegativeUNL()),
	}
}

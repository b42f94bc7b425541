// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package staking implements §4.3.4's Stake/Unstake handlers and the
// maturity processing the ledger closer runs at every close (§4.4).
package staking

import (
	"fmt"
	"sort"

	"github.com/nexaflow-ledger/nexaflow-validator/internal/model"
)

// Tier describes one staking tier's lock duration, APY and early-unstake
// penalty curve.
type Tier struct {
	ID            uint32
	Duration      int64 // seconds until maturity
	AnnualRateBps int64 // basis points per year, applied linearly over Duration
	MaxPenaltyBps int64 // penalty at t=0, linearly decaying to zero at maturity
}

// Record is one active or matured stake.
type Record struct {
	TxID                      string
	Address                   string
	Amount                    model.Micro
	Tier                      uint32
	StartTime                 int64
	CirculatingSupplyAtStart  model.Micro
	Matured                   bool
}

// Pool tracks every stake record and the tier schedule.
type Pool struct {
	tiers   map[uint32]Tier
	records map[string]*Record
}

// New returns a Pool configured with the given tiers.
func New(tiers []Tier) *Pool {
	p := &Pool{tiers: make(map[uint32]Tier), records: make(map[string]*Record)}
	for _, t := range tiers {
		p.tiers[t.ID] = t
	}
	return p
}

// Tier looks up a tier by id.
func (p *Pool) Tier(id uint32) (Tier, bool) {
	t, ok := p.tiers[id]
	return t, ok
}

// Open records a new stake.
func (p *Pool) Open(r Record) {
	rec := r
	p.records[r.TxID] = &rec
}

// Get returns a stake record by its originating tx id.
func (p *Pool) Get(txID string) (*Record, bool) {
	r, ok := p.records[txID]
	return r, ok
}

// Remove deletes a stake record, called on both early unstake and
// maturity payout.
func (p *Pool) Remove(txID string) {
	delete(p.records, txID)
}

// TotalPrincipal sums the principal of every still-active stake, used by
// the invariant checker's supply-conservation equation (§3 invariant 2).
func (p *Pool) TotalPrincipal() model.Micro {
	total := model.Zero()
	for _, r := range p.records {
		total = total.Add(r.Amount)
	}
	return total
}

// Matured returns, in a deterministic order, every record whose
// start_time + tier_duration <= closeTime — the set the ledger closer
// processes at close (§4.4 step 3).
func (p *Pool) Matured(closeTime int64) []*Record {
	var out []*Record
	for _, r := range p.records {
		tier, ok := p.tiers[r.Tier]
		if !ok {
			continue
		}
		if r.StartTime+tier.Duration <= closeTime {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TxID < out[j].TxID })
	return out
}

// Interest computes the accrued interest for a matured record: principal
// times the tier's annual rate, prorated by the tier's fixed duration
// (since maturity is only ever checked at exactly the tier duration, the
// accrual is always the full-duration amount, rounded down so minted
// supply never exceeds what the tier schedule promises).
func Interest(tier Tier, principal model.Micro) model.Micro {
	const bpsDenominator = 10_000
	const secondsPerYear = 365 * 24 * 3600
	num := tier.AnnualRateBps * tier.Duration
	var den int64 = bpsDenominator * secondsPerYear
	return principal.MulRate(num, den, model.RoundDown)
}

// EarlyPenalty computes the native-unit penalty for withdrawing at
// elapsedSeconds into a tier whose max penalty decays linearly to zero at
// maturity: t=0 burns MaxPenaltyBps of principal, t=maturity burns none.
func EarlyPenalty(tier Tier, principal model.Micro, elapsedSeconds int64) model.Micro {
	if elapsedSeconds >= tier.Duration {
		return model.Zero()
	}
	if elapsedSeconds < 0 {
		elapsedSeconds = 0
	}
	remaining := tier.Duration - elapsedSeconds
	num := tier.MaxPenaltyBps * remaining
	den := int64(10_000) * tier.Duration
	return principal.MulRate(num, den, model.RoundUp)
}

// ErrUnknownTier is returned when a Stake transaction names a tier the
// pool was not configured with.
func ErrUnknownTier(tier uint32) error {
	return fmt.Errorf("staking: unknown tier %d", tier)
}

// Clone returns a deep copy for invariant-rollback snapshots. Tiers are
// immutable configuration, so only records need copying.
func (p *Pool) Clone() *Pool {
	out := &Pool{tiers: p.tiers, records: make(map[string]*Record, len(p.records))}
	for id, r := range p.records {
		rec := *r
		out.records[id] = &rec
	}
	return out
}

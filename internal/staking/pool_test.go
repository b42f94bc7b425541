// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package staking

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexaflow-ledger/nexaflow-validator/internal/model"
)

func yearTier() Tier {
	return Tier{ID: 1, Duration: 365 * 24 * 3600, AnnualRateBps: 1000, MaxPenaltyBps: 2000}
}

func TestEarlyPenaltyAtStartIsMaxPenalty(t *testing.T) {
	tier := yearTier()
	principal := model.FromMicroUnits(1_000_000)
	penalty := EarlyPenalty(tier, principal, 0)
	require.Equal(t, principal.MulRate(tier.MaxPenaltyBps, 10_000, model.RoundUp), penalty)
}

func TestEarlyPenaltyAtMaturityIsZero(t *testing.T) {
	tier := yearTier()
	principal := model.FromMicroUnits(1_000_000)
	penalty := EarlyPenalty(tier, principal, tier.Duration)
	require.True(t, penalty.IsZero())
}

func TestEarlyPenaltyPastMaturityIsZero(t *testing.T) {
	tier := yearTier()
	principal := model.FromMicroUnits(1_000_000)
	penalty := EarlyPenalty(tier, principal, tier.Duration*2)
	require.True(t, penalty.IsZero())
}

func TestEarlyPenaltyDecaysLinearly(t *testing.T) {
	tier := yearTier()
	principal := model.FromMicroUnits(1_000_000)
	half := EarlyPenalty(tier, principal, tier.Duration/2)
	start := EarlyPenalty(tier, principal, 0)
	require.True(t, half.Cmp(start) < 0)
	require.True(t, half.Cmp(model.Zero()) > 0)
}

func TestEarlyPenaltyClampsNegativeElapsed(t *testing.T) {
	tier := yearTier()
	principal := model.FromMicroUnits(1_000_000)
	require.Equal(t, EarlyPenalty(tier, principal, 0), EarlyPenalty(tier, principal, -100))
}

func TestInterestForFullDuration(t *testing.T) {
	tier := yearTier()
	principal := model.FromMicroUnits(1_000_000_000)
	interest := Interest(tier, principal)
	// 1000 bps = 10% annual, over exactly one year.
	require.Equal(t, principal.MulRate(1000, 10_000, model.RoundDown), interest)
}

func TestMaturedOrdersByTxIDAndRespectsDuration(t *testing.T) {
	p := New([]Tier{yearTier()})
	p.Open(Record{TxID: "b", Address: "rA", Amount: model.FromMicroUnits(1), Tier: 1, StartTime: 0})
	p.Open(Record{TxID: "a", Address: "rA", Amount: model.FromMicroUnits(1), Tier: 1, StartTime: 0})
	p.Open(Record{TxID: "c", Address: "rA", Amount: model.FromMicroUnits(1), Tier: 1, StartTime: 1000})

	matured := p.Matured(yearTier().Duration)
	require.Len(t, matured, 2)
	require.Equal(t, "a", matured[0].TxID)
	require.Equal(t, "b", matured[1].TxID)
}

func TestTotalPrincipalSumsActiveStakes(t *testing.T) {
	p := New([]Tier{yearTier()})
	p.Open(Record{TxID: "a", Amount: model.FromMicroUnits(100), Tier: 1})
	p.Open(Record{TxID: "b", Amount: model.FromMicroUnits(200), Tier: 1})
	require.Equal(t, model.FromMicroUnits(300), p.TotalPrincipal())

	p.Remove("a")
	require.Equal(t, model.FromMicroUnits(200), p.TotalPrincipal())
}

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	p := New([]Tier{yearTier()})
	p.Open(Record{TxID: "a", Amount: model.FromMicroUnits(100), Tier: 1})

	clone := p.Clone()
	p.Open(Record{TxID: "b", Amount: model.FromMicroUnits(200), Tier: 1})

	_, ok := clone.Get("b")
	require.False(t, ok)
	_, ok = p.Get("b")
	require.True(t, ok)
}

// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package amm implements §4.3.4's automated-market-maker family:
// create/deposit/withdraw/vote/bid/delete over a constant-product pool.
package amm

import (
	"math/big"

	"github.com/nexaflow-ledger/nexaflow-validator/internal/model"
)

// Pool is one two-asset constant-product liquidity pool.
type Pool struct {
	ID            string
	Asset1, Asset2 model.Amount
	LPTotal       model.Micro
	TradingFeeBps uint32
	Voters        map[string]uint32
}

// Manager holds every AMM pool, keyed by id.
type Manager struct {
	pools map[string]*Pool
}

// New returns an empty Manager.
func New() *Manager { return &Manager{pools: make(map[string]*Pool)} }

// PoolID derives the deterministic id of the pool trading asset1 against
// asset2, used by callers to look up an existing pool without needing
// the CreatePool return value.
func PoolID(a1, a2 model.Amount) string {
	return a1.Currency + "/" + a1.Issuer + "::" + a2.Currency + "/" + a2.Issuer
}

func poolID(a1, a2 model.Amount) string { return PoolID(a1, a2) }

// CreatePool instantiates a new pool seeded with initial liquidity,
// minting LP tokens equal to the geometric mean of the two deposits (the
// standard constant-product bootstrap).
func (m *Manager) CreatePool(asset1, asset2 model.Amount, feeBps uint32) (ok bool, msg string, id string, lpMinted model.Micro) {
	id = poolID(asset1, asset2)
	if _, exists := m.pools[id]; exists {
		return false, "pool already exists", "", model.Zero()
	}
	lp := isqrtMicro(asset1.Value, asset2.Value)
	m.pools[id] = &Pool{ID: id, Asset1: asset1, Asset2: asset2, LPTotal: lp, TradingFeeBps: feeBps, Voters: map[string]uint32{}}
	return true, "", id, lp
}

// isqrtMicro returns the integer square root of a*b, in micro-units, used
// to bootstrap LP token supply for a freshly created pool.
func isqrtMicro(a, b model.Micro) model.Micro {
	prod := new(big.Int).Mul(a.MicroUnits(), b.MicroUnits())
	if prod.Sign() <= 0 {
		return model.Zero()
	}
	return model.FromMicroUnits(new(big.Int).Sqrt(prod).Int64())
}

// Deposit adds proportional liquidity and mints the matching share of LP
// tokens.
func (m *Manager) Deposit(id string, amount1, amount2 model.Micro) (ok bool, msg string, lpMinted model.Micro) {
	p, found := m.pools[id]
	if !found {
		return false, "no such pool", model.Zero()
	}
	if p.Asset1.Value.IsZero() {
		return false, "empty pool", model.Zero()
	}
	minted := proportionalMint(p.LPTotal, p.Asset1.Value, amount1)
	p.Asset1.Value = p.Asset1.Value.Add(amount1)
	p.Asset2.Value = p.Asset2.Value.Add(amount2)
	p.LPTotal = p.LPTotal.Add(minted)
	return true, "", minted
}

func proportionalMint(lpTotal, reserve, deposit model.Micro) model.Micro {
	if reserve.IsZero() {
		return deposit
	}
	return lpTotal.MulRate(deposit.MicroUnits().Int64(), reserve.MicroUnits().Int64(), model.RoundDown)
}

// Withdraw burns LP tokens and returns a proportional share of both
// reserves.
func (m *Manager) Withdraw(id string, lpTokens model.Micro) (ok bool, msg string, out1, out2 model.Micro) {
	p, found := m.pools[id]
	if !found {
		return false, "no such pool", model.Zero(), model.Zero()
	}
	if lpTokens.Cmp(p.LPTotal) > 0 {
		return false, "insufficient LP balance", model.Zero(), model.Zero()
	}
	lpInt := lpTokens.MicroUnits().Int64()
	totalInt := p.LPTotal.MicroUnits().Int64()
	out1 = p.Asset1.Value.MulRate(lpInt, totalInt, model.RoundDown)
	out2 = p.Asset2.Value.MulRate(lpInt, totalInt, model.RoundDown)
	p.Asset1.Value = p.Asset1.Value.Sub(out1)
	p.Asset2.Value = p.Asset2.Value.Sub(out2)
	p.LPTotal = p.LPTotal.Sub(lpTokens)
	return true, "", out1, out2
}

// Vote records a voter's preferred trading fee; the pool's effective fee
// is the median of cast votes in a real implementation, here simplified
// to "most recent voter wins", matching the contract-level scope of
// §4.3.4 (the AMM manager's internal governance algorithm is not part of
// the core's deterministic-apply surface beyond its state mutation).
func (m *Manager) Vote(id, voter string, feeBps uint32) (ok bool, msg string) {
	p, found := m.pools[id]
	if !found {
		return false, "no such pool"
	}
	p.Voters[voter] = feeBps
	p.TradingFeeBps = feeBps
	return true, ""
}

// Bid is a placeholder for the auction-slot bidding mechanism; it
// succeeds unconditionally once the pool exists, recording no further
// state (continuous-auction slot pricing is out of this core's scope).
func (m *Manager) Bid(id, bidder string, amount model.Micro) (ok bool, msg string) {
	if _, found := m.pools[id]; !found {
		return false, "no such pool"
	}
	return true, ""
}

// DeletePool removes an empty pool.
func (m *Manager) DeletePool(id string) (ok bool, msg string) {
	p, found := m.pools[id]
	if !found {
		return false, "no such pool"
	}
	if !p.Asset1.Value.IsZero() || !p.Asset2.Value.IsZero() {
		return false, "pool not empty"
	}
	delete(m.pools, id)
	return true, ""
}

// TotalCollateral sums every pool's native-asset reserve, consumed by the
// invariant checker.
func (m *Manager) TotalCollateral() model.Micro {
	total := model.Zero()
	for _, p := range m.pools {
		if p.Asset1.IsNative() {
			total = total.Add(p.Asset1.Value)
		}
		if p.Asset2.IsNative() {
			total = total.Add(p.Asset2.Value)
		}
	}
	return total
}

// Clone returns a deep copy for invariant-rollback snapshots.
func (m *Manager) Clone() *Manager {
	out := New()
	for id, p := range m.pools {
		pool := *p
		pool.Voters = make(map[string]uint32, len(p.Voters))
		for k, v := range p.Voters {
			pool.Voters[k] = v
		}
		out.pools[id] = &pool
	}
	return out
}

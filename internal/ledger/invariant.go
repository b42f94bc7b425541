// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import "github.com/nexaflow-ledger/nexaflow-validator/internal/model"

// CheckInvariants verifies §3's post-transaction and post-close
// invariants against the ledger's current mutable state. It never
// mutates anything; a caller that gets a non-empty violation list is
// expected to restore the pre-transaction snapshot (§4.3 step 5).
func (l *Ledger) CheckInvariants() []string {
	var violations []string

	// Invariant 1: total_supply = initial_supply - total_burned + total_minted, >= 0.
	expected := l.initialSupply.Sub(l.totalBurned).Add(l.totalMinted)
	if l.totalSupply.Cmp(expected) != 0 {
		violations = append(violations, "total_supply does not equal initial_supply - total_burned + total_minted")
	}
	if l.totalSupply.IsNegative() {
		violations = append(violations, "total_supply is negative")
	}

	// Invariant 2: total_supply = sum of account balances + locked collateral + stake principal.
	accountSum := model.Zero()
	for _, a := range l.accounts {
		accountSum = accountSum.Add(a.Balance)
	}
	locked := l.Escrow.TotalLocked().
		Add(l.PayChan.TotalLocked()).
		Add(l.AMM.TotalCollateral()).
		Add(l.Staking.TotalPrincipal())
	if l.totalSupply.Cmp(accountSum.Add(locked)) != 0 {
		violations = append(violations, "total_supply does not equal the sum of account balances, locked collateral and stake principal")
	}

	// Invariant 3: no trust line balance exceeds its limit (partial-payment
	// delivery already clamps to limit at credit time, so a violation here
	// indicates a handler bug rather than a legitimate edge case).
	for _, a := range l.accounts {
		for _, tl := range a.TrustLines {
			if tl.Balance.Cmp(tl.Limit) > 0 && !tl.Limit.IsZero() {
				violations = append(violations, "trust line balance exceeds limit: "+tl.Key().String())
			}
		}
	}

	// Invariant 6: every account meets its owner reserve.
	for _, a := range l.accounts {
		if !l.MeetsReserve(a) {
			violations = append(violations, "account below owner reserve: "+a.Address)
		}
	}

	return violations
}

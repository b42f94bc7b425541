// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package statemachine

import (
	"github.com/nexaflow-ledger/nexaflow-validator/internal/staking"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/txn"
)

func (m *Machine) applyStake(tx *txn.Transaction, body txn.StakeBody) txn.ResultCode {
	src, code := m.preamble(tx)
	if code != txn.ResultSuccess {
		return code
	}
	if _, ok := m.ledger.Staking.Tier(body.Tier); !ok {
		return txn.ResultNoEntry
	}
	if src.Balance.Cmp(body.Amount) < 0 {
		return txn.ResultUnfunded
	}
	src.Balance = src.Balance.Sub(body.Amount)
	m.ledger.Staking.Open(staking.Record{
		TxID:                     tx.Header.TxID,
		Address:                  tx.Header.Account,
		Amount:                   body.Amount,
		Tier:                     body.Tier,
		StartTime:                tx.Header.Timestamp,
		CirculatingSupplyAtStart: m.ledger.TotalSupply(),
	})
	m.bumpSequence(src, tx.Header)
	return txn.ResultSuccess
}

// applyUnstake withdraws a stake early (forfeiting a decaying penalty) or
// at maturity (crediting the accrued interest), per §4.3.4.
func (m *Machine) applyUnstake(tx *txn.Transaction, body txn.UnstakeBody) txn.ResultCode {
	src, code := m.preamble(tx)
	if code != txn.ResultSuccess {
		return code
	}
	record, found := m.ledger.Staking.Get(body.StakeID)
	if !found {
		return txn.ResultNoEntry
	}
	if record.Address != tx.Header.Account {
		return txn.ResultNoPermission
	}
	tier, ok := m.ledger.Staking.Tier(record.Tier)
	if !ok {
		return txn.ResultNoEntry
	}

	elapsed := tx.Header.Timestamp - record.StartTime
	if elapsed >= tier.Duration {
		interest := staking.Interest(tier, record.Amount)
		src.Balance = src.Balance.Add(record.Amount).Add(interest)
		m.ledger.Mint(interest)
	} else {
		if m.ledger.Amendments().Enabled("NoEarlyUnstake") {
			return txn.ResultStakeLocked
		}
		penalty := staking.EarlyPenalty(tier, record.Amount, elapsed)
		src.Balance = src.Balance.Add(record.Amount.Sub(penalty))
		m.ledger.Burn(penalty)
	}
	m.ledger.Staking.Remove(body.StakeID)
	m.bumpSequence(src, tx.Header)
	return txn.ResultSuccess
}

// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package statemachine

import (
	"github.com/nexaflow-ledger/nexaflow-validator/internal/model"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/txn"
)

// applyClawback lets an issuer with AllowClawback reclaim a holder's IOU
// balance, per §4.3.4. Native balances can never be clawed back.
func (m *Machine) applyClawback(tx *txn.Transaction, body txn.ClawbackBody) txn.ResultCode {
	src, code := m.preamble(tx)
	if code != txn.ResultSuccess {
		return code
	}
	if body.Amount.IsNative() {
		return txn.ResultNoPermission
	}
	if body.Amount.Issuer != tx.Header.Account {
		return txn.ResultNoPermission
	}
	if !src.Flags.AllowClawback {
		return txn.ResultClawbackDisabled
	}

	holder, ok := m.ledger.GetAccount(body.Holder)
	if !ok {
		return txn.ResultNoEntry
	}
	key := model.TrustLineKey{Currency: body.Amount.Currency, Issuer: body.Amount.Issuer}
	line, ok := holder.TrustLines[key]
	if !ok {
		return txn.ResultNoLine
	}
	seized := model.Min(line.Balance, body.Amount.Value)
	line.Balance = line.Balance.Sub(seized)

	m.bumpSequence(src, tx.Header)
	return txn.ResultSuccess
}

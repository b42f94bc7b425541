// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package statemachine

import (
	"github.com/nexaflow-ledger/nexaflow-validator/internal/model"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/txn"
)

// debitAmount removes amt from account's native balance or trust-line
// balance, used by the sub-engine handlers that move value directly
// between two accounts without going through §4.3.1's rippling.
func (m *Machine) debitAmount(address string, amt model.Amount) txn.ResultCode {
	a := m.ledger.EnsureAccount(address)
	if amt.IsNative() {
		if a.Balance.Cmp(amt.Value) < 0 {
			return txn.ResultUnfunded
		}
		a.Balance = a.Balance.Sub(amt.Value)
		return txn.ResultSuccess
	}
	key := model.TrustLineKey{Currency: amt.Currency, Issuer: amt.Issuer}
	line, ok := a.TrustLines[key]
	if !ok || line.Balance.Cmp(amt.Value) < 0 {
		return txn.ResultUnfunded
	}
	line.Balance = line.Balance.Sub(amt.Value)
	return txn.ResultSuccess
}

// creditAmount adds amt to account's native balance or trust-line
// balance, opening the line (and charging its owner-reserve slot) if it
// does not yet exist. A trust-line credit is capped at the line's room
// below its limit; any part of amt above that is not credited.
func (m *Machine) creditAmount(address string, amt model.Amount) txn.ResultCode {
	a := m.ledger.EnsureAccount(address)
	if amt.IsNative() {
		a.Balance = a.Balance.Add(amt.Value)
		return txn.ResultSuccess
	}
	key := model.TrustLineKey{Currency: amt.Currency, Issuer: amt.Issuer}
	line, ok := a.TrustLines[key]
	if !ok {
		line = &model.TrustLine{Holder: a.Address, Currency: amt.Currency, Issuer: amt.Issuer}
		a.TrustLines[key] = line
		a.OwnerCount++
	}
	room := line.AvailableToReceive()
	credit := model.Min(amt.Value, room)
	line.Balance = line.Balance.Add(credit)
	return txn.ResultSuccess
}

// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package statemachine

import (
	"github.com/nexaflow-ledger/nexaflow-validator/internal/amm"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/model"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/txn"
)

// applyAMM dispatches on AMMBody.Op to the constant-product pool manager,
// moving the underlying assets between the caller and the pool around
// each manager call (§4.3.4; the manager itself never touches accounts).
func (m *Machine) applyAMM(tx *txn.Transaction, body txn.AMMBody) txn.ResultCode {
	src, code := m.preamble(tx)
	if code != txn.ResultSuccess {
		return code
	}

	switch body.Op {
	case "create":
		if rc := m.debitAmount(tx.Header.Account, body.Asset1); rc != txn.ResultSuccess {
			return rc
		}
		if rc := m.debitAmount(tx.Header.Account, body.Asset2); rc != txn.ResultSuccess {
			m.creditAmount(tx.Header.Account, body.Asset1)
			return rc
		}
		ok, msg, _, _ := m.ledger.AMM.CreatePool(body.Asset1, body.Asset2, body.TradingFeeBps)
		if !ok {
			m.creditAmount(tx.Header.Account, body.Asset1)
			m.creditAmount(tx.Header.Account, body.Asset2)
			return ammFailureCode(msg)
		}

	case "deposit":
		id := amm.PoolID(body.Asset1, body.Asset2)
		if rc := m.debitAmount(tx.Header.Account, body.Asset1); rc != txn.ResultSuccess {
			return rc
		}
		if rc := m.debitAmount(tx.Header.Account, body.Asset2); rc != txn.ResultSuccess {
			m.creditAmount(tx.Header.Account, body.Asset1)
			return rc
		}
		ok, msg, _ := m.ledger.AMM.Deposit(id, body.Asset1.Value, body.Asset2.Value)
		if !ok {
			m.creditAmount(tx.Header.Account, body.Asset1)
			m.creditAmount(tx.Header.Account, body.Asset2)
			return ammFailureCode(msg)
		}

	case "withdraw":
		id := amm.PoolID(body.Asset1, body.Asset2)
		ok, msg, out1, out2 := m.ledger.AMM.Withdraw(id, body.LPTokens)
		if !ok {
			return ammFailureCode(msg)
		}
		m.creditAmount(tx.Header.Account, withAmount(body.Asset1, out1))
		m.creditAmount(tx.Header.Account, withAmount(body.Asset2, out2))

	case "vote":
		id := amm.PoolID(body.Asset1, body.Asset2)
		ok, msg := m.ledger.AMM.Vote(id, tx.Header.Account, body.TradingFeeBps)
		if !ok {
			return ammFailureCode(msg)
		}

	case "bid":
		id := amm.PoolID(body.Asset1, body.Asset2)
		ok, msg := m.ledger.AMM.Bid(id, tx.Header.Account, body.LPTokens)
		if !ok {
			return ammFailureCode(msg)
		}

	case "delete":
		id := amm.PoolID(body.Asset1, body.Asset2)
		ok, msg := m.ledger.AMM.DeletePool(id)
		if !ok {
			return ammFailureCode(msg)
		}

	default:
		return txn.ResultNoPermission
	}

	m.bumpSequence(src, tx.Header)
	return txn.ResultSuccess
}

func withAmount(template model.Amount, value model.Micro) model.Amount {
	template.Value = value
	return template
}

func ammFailureCode(msg string) txn.ResultCode {
	return txn.ResultAMMBalance
}

// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package statemachine

import (
	"github.com/nexaflow-ledger/nexaflow-validator/internal/model"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/txn"
)

// applyTrustSet implements §4.3.4's TrustSet: create or update a trust
// line's limit and per-line flags. An issuer never holds a line on its
// own currency.
func (m *Machine) applyTrustSet(tx *txn.Transaction, body txn.TrustSetBody) txn.ResultCode {
	src, code := m.preamble(tx)
	if code != txn.ResultSuccess {
		return code
	}

	limit := body.LimitAmount
	if limit.Issuer == tx.Header.Account {
		return txn.ResultNoPermission
	}

	key := model.TrustLineKey{Currency: limit.Currency, Issuer: limit.Issuer}
	line, existed := src.TrustLines[key]
	if !existed {
		line = &model.TrustLine{Holder: src.Address, Currency: limit.Currency, Issuer: limit.Issuer}
	}

	line.Limit = limit.Value
	if body.QualityIn != 0 {
		line.QualityIn = body.QualityIn
	}
	if body.QualityOut != 0 {
		line.QualityOut = body.QualityOut
	}
	if body.SetAuth {
		line.Flags.Authorized = true
	}
	if body.ClearAuth {
		line.Flags.Authorized = false
	}
	if body.SetNoRipple {
		line.Flags.NoRipple = true
	}
	if body.ClearNoRipple {
		line.Flags.NoRipple = false
	}
	if body.SetFreeze {
		line.Flags.Frozen = true
	}
	if body.ClearFreeze {
		line.Flags.Frozen = false
	}

	if line.IsEmpty() && existed {
		delete(src.TrustLines, key)
		if src.OwnerCount > 0 {
			src.OwnerCount--
		}
		m.bumpSequence(src, tx.Header)
		return txn.ResultSuccess
	}

	if !existed {
		src.TrustLines[key] = line
		src.OwnerCount++
		if !m.ledger.MeetsReserve(src) {
			delete(src.TrustLines, key)
			src.OwnerCount--
			return txn.ResultOwnerReserve
		}
	}

	m.bumpSequence(src, tx.Header)
	return txn.ResultSuccess
}

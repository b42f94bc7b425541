// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package statemachine implements §4.3's single entry point, apply(tx) →
// result_code, and the common preamble every handler shares. The machine
// holds no state of its own beyond a Ledger reference: determinism comes
// from touching only what the Ledger exposes, in the order the spec
// fixes, with every container iterated in sorted order.
package statemachine

import (
	"github.com/luxfi/log"

	"github.com/nexaflow-ledger/nexaflow-validator/internal/ledger"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/model"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/txn"
)

// Machine is the deterministic transaction-application engine of §4.3.
type Machine struct {
	ledger *ledger.Ledger
	log    log.Logger
}

// New returns a Machine operating on the given Ledger.
func New(l *ledger.Ledger) *Machine {
	lg := l.Log()
	if lg == nil {
		lg = log.NoLog{}
	}
	return &Machine{ledger: l, log: lg}
}

// Apply implements the seven-step protocol of §4.3.
func (m *Machine) Apply(tx *txn.Transaction) txn.ResultCode {
	if m.ledger.IsApplied(tx.Header.TxID) {
		m.log.Debug("duplicate transaction rejected", log.String("txID", tx.Header.TxID))
		return txn.ResultDuplicate
	}

	snapshot := m.ledger.Take()

	code, delivered := m.dispatch(tx)

	var before, after map[string]*model.Account
	if code.IsSuccess() {
		if violations := m.ledger.CheckInvariants(); len(violations) > 0 {
			m.log.Error("invariant check failed, rolling back",
				log.String("txID", tx.Header.TxID),
				log.Int("violationCount", len(violations)),
			)
			m.ledger.Restore(snapshot)
			code = txn.ResultInvariantFailed
		} else {
			before, after = m.ledger.TouchedAccounts(snapshot)
		}
	} else {
		m.ledger.Restore(snapshot)
	}

	m.recordMetadata(tx, code, delivered, before, after)

	if code.IsSuccess() {
		m.ledger.MarkApplied(ledger.PendingTx{
			TxType:   uint32(tx.Body.Type()),
			Account:  tx.Header.Account,
			Sequence: tx.Header.Sequence,
			TxID:     tx.Header.TxID,
		})
	}
	return code
}

func (m *Machine) recordMetadata(tx *txn.Transaction, code txn.ResultCode, delivered *model.Micro, before, after map[string]*model.Account) {
	meta := &ledger.TxMeta{
		TxID:            tx.Header.TxID,
		ResultCode:      int(code),
		ResultName:      code.Name(),
		DeliveredAmount: delivered,
		Before:          before,
		After:           after,
	}
	m.ledger.AppendMetadata(meta)
}

// preamble implements the common preamble shared by every handler:
// fetch the source account, validate sequence, debit and permanently
// burn the declared fee. The confidential payment branch runs its range
// proof and ring signature checks first and only then calls this wrapper,
// so a transaction failing those checks burns no fee.
func (m *Machine) preamble(tx *txn.Transaction) (*model.Account, txn.ResultCode) {
	src, ok := m.ledger.GetAccount(tx.Header.Account)
	if !ok {
		return nil, txn.ResultUnfunded
	}
	if !m.checkSequence(src, tx.Header) {
		return nil, txn.ResultBadSeq
	}
	if ok, _ := m.ledger.Hooks.Invoke(tx.Header.Account); !ok {
		return nil, txn.ResultHooksRejected
	}
	if code := m.debitFee(src, tx.Header.Fee); code != txn.ResultSuccess {
		return nil, code
	}
	return src, txn.ResultSuccess
}

// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package statemachine

import (
	"github.com/nexaflow-ledger/nexaflow-validator/internal/check"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/escrow"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/model"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/paychan"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/txn"
)

func (m *Machine) applyEscrowCreate(tx *txn.Transaction, body txn.EscrowCreateBody) txn.ResultCode {
	src, code := m.preamble(tx)
	if code != txn.ResultSuccess {
		return code
	}
	if src.Balance.Cmp(body.Amount) < 0 {
		return txn.ResultUnfunded
	}
	src.Balance = src.Balance.Sub(body.Amount)
	src.OwnerCount++
	if !m.ledger.MeetsReserve(src) {
		src.Balance = src.Balance.Add(body.Amount)
		src.OwnerCount--
		return txn.ResultOwnerReserve
	}
	m.ledger.Escrow.Create(escrow.Entry{
		ID:          tx.Header.TxID,
		Creator:     tx.Header.Account,
		Destination: body.Destination,
		Amount:      body.Amount,
		Condition:   body.Condition,
		FinishAfter: body.FinishAfter,
		CancelAfter: body.CancelAfter,
	})
	m.bumpSequence(src, tx.Header)
	return txn.ResultSuccess
}

func (m *Machine) applyEscrowFinish(tx *txn.Transaction, body txn.EscrowFinishBody) txn.ResultCode {
	src, code := m.preamble(tx)
	if code != txn.ResultSuccess {
		return code
	}
	ok, msg, amount, destination := m.ledger.Escrow.Finish(body.Owner, body.OfferID, tx.Header.Timestamp, body.Fulfillment)
	if !ok {
		return escrowFailureCode(msg)
	}
	dst := m.ledger.EnsureAccount(destination)
	dst.Balance = dst.Balance.Add(amount)
	if owner, found := m.ledger.GetAccount(body.Owner); found && owner.OwnerCount > 0 {
		owner.OwnerCount--
	}
	m.bumpSequence(src, tx.Header)
	return txn.ResultSuccess
}

func (m *Machine) applyEscrowCancel(tx *txn.Transaction, body txn.EscrowCancelBody) txn.ResultCode {
	src, code := m.preamble(tx)
	if code != txn.ResultSuccess {
		return code
	}
	ok, msg, amount, creator := m.ledger.Escrow.Cancel(body.Owner, body.OfferID, tx.Header.Timestamp)
	if !ok {
		return escrowFailureCode(msg)
	}
	owner := m.ledger.EnsureAccount(creator)
	owner.Balance = owner.Balance.Add(amount)
	if owner.OwnerCount > 0 {
		owner.OwnerCount--
	}
	m.bumpSequence(src, tx.Header)
	return txn.ResultSuccess
}

func escrowFailureCode(msg string) txn.ResultCode {
	if msg == "not ready" {
		return txn.ResultEscrowNotReady
	}
	if msg == "bad condition" {
		return txn.ResultEscrowBadCondition
	}
	if msg == "not cancelable yet" {
		return txn.ResultEscrowNotReady
	}
	return txn.ResultNoEntry
}

func (m *Machine) applyPayChanCreate(tx *txn.Transaction, body txn.PayChanCreateBody) txn.ResultCode {
	src, code := m.preamble(tx)
	if code != txn.ResultSuccess {
		return code
	}
	if src.Balance.Cmp(body.Amount) < 0 {
		return txn.ResultUnfunded
	}
	src.Balance = src.Balance.Sub(body.Amount)
	src.OwnerCount++
	if !m.ledger.MeetsReserve(src) {
		src.Balance = src.Balance.Add(body.Amount)
		src.OwnerCount--
		return txn.ResultOwnerReserve
	}
	m.ledger.PayChan.Create(paychan.Channel{
		ID:          tx.Header.TxID,
		Source:      tx.Header.Account,
		Destination: body.Destination,
		Allocation:  body.Amount,
		Claimed:     model.Zero(),
		SettleDelay: body.SettleDelay,
		CancelAfter: body.CancelAfter,
		PublicKey:   body.PublicKey,
	})
	m.bumpSequence(src, tx.Header)
	return txn.ResultSuccess
}

func (m *Machine) applyPayChanFund(tx *txn.Transaction, body txn.PayChanFundBody) txn.ResultCode {
	src, code := m.preamble(tx)
	if code != txn.ResultSuccess {
		return code
	}
	ch, found := m.ledger.PayChan.Get(body.ChannelID)
	if !found || ch.Source != tx.Header.Account {
		return txn.ResultNoEntry
	}
	if src.Balance.Cmp(body.Amount) < 0 {
		return txn.ResultUnfunded
	}
	src.Balance = src.Balance.Sub(body.Amount)
	ok, _ := m.ledger.PayChan.Fund(body.ChannelID, body.Amount)
	if !ok {
		src.Balance = src.Balance.Add(body.Amount)
		return txn.ResultNoEntry
	}
	m.bumpSequence(src, tx.Header)
	return txn.ResultSuccess
}

func (m *Machine) applyPayChanClaim(tx *txn.Transaction, body txn.PayChanClaimBody) txn.ResultCode {
	src, code := m.preamble(tx)
	if code != txn.ResultSuccess {
		return code
	}
	ch, found := m.ledger.PayChan.Get(body.ChannelID)
	if !found {
		return txn.ResultNoEntry
	}
	if len(ch.PublicKey) > 0 {
		provider := m.ledger.Crypto()
		digest := provider.Hash256([]byte(body.ChannelID + body.Balance.String()))
		if !provider.Verify(ch.PublicKey, digest[:], body.Signature) {
			return txn.ResultBadSig
		}
	}
	ok, msg, delta, destination := m.ledger.PayChan.Claim(body.ChannelID, body.Balance, body.Close, tx.Header.Timestamp)
	if !ok {
		if msg == "no such channel" {
			return txn.ResultNoEntry
		}
		return txn.ResultNoPermission
	}
	dst := m.ledger.EnsureAccount(destination)
	dst.Balance = dst.Balance.Add(delta)
	m.bumpSequence(src, tx.Header)
	return txn.ResultSuccess
}

func (m *Machine) applyPayChanClose(tx *txn.Transaction, body txn.PayChanCloseBody) txn.ResultCode {
	src, code := m.preamble(tx)
	if code != txn.ResultSuccess {
		return code
	}
	ok, msg, remainder, source := m.ledger.PayChan.Close(body.ChannelID, tx.Header.Timestamp)
	if !ok {
		if msg == "no such channel" {
			return txn.ResultNoEntry
		}
		return txn.ResultPaychanExpired
	}
	owner := m.ledger.EnsureAccount(source)
	owner.Balance = owner.Balance.Add(remainder)
	if owner.OwnerCount > 0 {
		owner.OwnerCount--
	}
	m.bumpSequence(src, tx.Header)
	return txn.ResultSuccess
}

func (m *Machine) applyCheckCreate(tx *txn.Transaction, body txn.CheckCreateBody) txn.ResultCode {
	src, code := m.preamble(tx)
	if code != txn.ResultSuccess {
		return code
	}
	src.OwnerCount++
	if !m.ledger.MeetsReserve(src) {
		src.OwnerCount--
		return txn.ResultOwnerReserve
	}
	m.ledger.Check.Create(check.Entry{
		ID:          tx.Header.TxID,
		Creator:     tx.Header.Account,
		Destination: body.Destination,
		SendMax:     body.SendMax,
		Expiration:  body.Expiration,
	})
	m.bumpSequence(src, tx.Header)
	return txn.ResultSuccess
}

func (m *Machine) applyCheckCash(tx *txn.Transaction, body txn.CheckCashBody) (txn.ResultCode, *model.Micro) {
	src, code := m.preamble(tx)
	if code != txn.ResultSuccess {
		return code, nil
	}
	ok, msg, entry := m.ledger.Check.Cash(body.CheckID, tx.Header.Account, tx.Header.Timestamp)
	if !ok {
		if msg == "check expired" {
			return txn.ResultCheckExpired, nil
		}
		return txn.ResultNoEntry, nil
	}

	deliver := entry.SendMax
	if body.Amount != nil {
		deliver = *body.Amount
	}
	if deliver.Value.Cmp(entry.SendMax.Value) > 0 {
		deliver.Value = entry.SendMax.Value
	}
	if body.DeliverMin != nil && deliver.Value.Cmp(body.DeliverMin.Value) < 0 {
		return txn.ResultUnfunded, nil
	}

	if rc := m.debitAmount(entry.Creator, deliver); rc != txn.ResultSuccess {
		return rc, nil
	}
	m.creditAmount(entry.Destination, deliver)

	if creator, found := m.ledger.GetAccount(entry.Creator); found && creator.OwnerCount > 0 {
		creator.OwnerCount--
	}
	m.bumpSequence(src, tx.Header)
	return txn.ResultSuccess, &deliver.Value
}

func (m *Machine) applyCheckCancel(tx *txn.Transaction, body txn.CheckCancelBody) txn.ResultCode {
	src, code := m.preamble(tx)
	if code != txn.ResultSuccess {
		return code
	}
	ok, _ := m.ledger.Check.Cancel(body.CheckID, tx.Header.Account, tx.Header.Timestamp)
	if !ok {
		return txn.ResultNoPermission
	}
	if creator, found := m.ledger.GetAccount(tx.Header.Account); found && creator.OwnerCount > 0 {
		creator.OwnerCount--
	}
	m.bumpSequence(src, tx.Header)
	return txn.ResultSuccess
}

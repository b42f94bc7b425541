// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package statemachine

import (
	"encoding/binary"
	"fmt"

	"github.com/nexaflow-ledger/nexaflow-validator/internal/model"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/txn"
)

// deletionSeqFloor is the spam-heuristic minimum sequence number an
// account must reach before AccountDelete is permitted (§4.3.4).
const deletionSeqFloor = 256

// applyTicketCreate reserves count sequence-bypassing slots, each keyed
// by a deterministic id derived from the creating transaction so that two
// validators always assign the same ticket ids.
func (m *Machine) applyTicketCreate(tx *txn.Transaction, body txn.TicketCreateBody) txn.ResultCode {
	src, code := m.preamble(tx)
	if code != txn.ResultSuccess {
		return code
	}
	for i := uint32(0); i < body.Count; i++ {
		id := m.ticketID(tx.Header.TxID, i)
		m.ledger.PutTicket(&model.Ticket{ID: id, Account: tx.Header.Account})
		src.TicketIDs = append(src.TicketIDs, id)
		src.OwnerCount++
	}
	if !m.ledger.MeetsReserve(src) {
		return txn.ResultOwnerReserve
	}
	m.bumpSequence(src, tx.Header)
	return txn.ResultSuccess
}

func (m *Machine) ticketID(txID string, index uint32) uint32 {
	digest := m.ledger.Crypto().Hash256([]byte(fmt.Sprintf("%s:%d", txID, index)))
	return binary.BigEndian.Uint32(digest[:4])
}

// applyAccountDelete destroys an account once it meets §4.3.4's
// structural preconditions, sweeping its residual balance to Destination.
func (m *Machine) applyAccountDelete(tx *txn.Transaction, body txn.AccountDeleteBody) txn.ResultCode {
	src, code := m.preamble(tx)
	if code != txn.ResultSuccess {
		return code
	}
	if !src.DeletionEligible(deletionSeqFloor) {
		return txn.ResultNoPermission
	}

	dst := m.ledger.EnsureAccount(body.Destination)
	dst.Balance = dst.Balance.Add(src.Balance)
	m.ledger.DeleteAccount(tx.Header.Account)
	return txn.ResultSuccess
}

// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package statemachine

import (
	"github.com/nexaflow-ledger/nexaflow-validator/internal/model"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/txn"
)

// checkSequence implements the "0 is a wildcard" sequence rule: a
// transaction carrying sequence 0 AND a nonzero ticket_id is ticket-driven,
// so it bypasses the ordinary next-expected check only if ticket_id names a
// ticket that account a actually reserved and has not yet used. A plain
// sequence of 0 with no ticket_id is just an account's first ordinary
// sequence number and still goes through the NextSeq comparison below. The
// ticket itself is consumed by bumpSequence once the rest of the
// transaction succeeds.
func (m *Machine) checkSequence(a *model.Account, hdr txn.Header) bool {
	if hdr.Sequence != 0 || hdr.TicketID == 0 {
		return hdr.Sequence == a.NextSeq
	}
	t, ok := m.ledger.GetTicket(hdr.TicketID)
	return ok && !t.Used && t.Account == a.Address
}

// debitFee subtracts fee from the account's balance and permanently
// burns it from total_supply, leaving balance untouched and returning the
// failing result code if the account cannot cover it, if it falls short of
// the FeeEscalator's current dynamic floor (§4.4 supplement,
// fee_escalation.py), or if the debit would push balance below reserve
// (spec.md:180's "any handler that reduces balance... must ensure the
// post-state balance remains >= reserve").
func (m *Machine) debitFee(a *model.Account, fee model.Micro) txn.ResultCode {
	m.ledger.FeeEscalator().Observe(len(m.ledger.PendingTxIDs()))
	if fee.Cmp(m.ledger.FeeEscalator().CurrentFloor()) < 0 {
		return txn.ResultInsufFee
	}
	if a.Balance.Cmp(fee) < 0 {
		return txn.ResultInsufFee
	}
	a.Balance = a.Balance.Sub(fee)
	if !m.ledger.MeetsReserve(a) {
		a.Balance = a.Balance.Add(fee)
		return txn.ResultOwnerReserve
	}
	m.ledger.Burn(fee)
	return txn.ResultSuccess
}

// bumpSequence advances the source account's sequence number on final
// success, per §4.3's common preamble note that this happens "only on
// final success". A ticket-driven transaction (sequence 0 with a nonzero
// ticket_id) instead consumes its reserved ticket and leaves NextSeq
// untouched, matching the XRPL rule that ticket use never perturbs ordinary
// sequence ordering.
func (m *Machine) bumpSequence(a *model.Account, hdr txn.Header) {
	if hdr.Sequence == 0 && hdr.TicketID != 0 {
		m.ledger.ConsumeTicket(hdr.TicketID)
		return
	}
	a.NextSeq++
}

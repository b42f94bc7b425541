// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package statemachine

import (
	"github.com/nexaflow-ledger/nexaflow-validator/internal/model"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/txn"
)

// dispatch routes a transaction to its handler per §4.3 step 3. Unknown
// types succeed without mutation, matching the spec's explicit fallback.
func (m *Machine) dispatch(tx *txn.Transaction) (txn.ResultCode, *model.Micro) {
	switch body := tx.Body.(type) {
	case txn.PaymentBody:
		return m.applyPayment(tx, body)
	case txn.OfferCreateBody:
		return m.applyOfferCreate(tx, body), nil
	case txn.OfferCancelBody:
		return m.applyOfferCancel(tx, body), nil
	case txn.TrustSetBody:
		return m.applyTrustSet(tx, body), nil
	case txn.EscrowCreateBody:
		return m.applyEscrowCreate(tx, body), nil
	case txn.EscrowFinishBody:
		return m.applyEscrowFinish(tx, body), nil
	case txn.EscrowCancelBody:
		return m.applyEscrowCancel(tx, body), nil
	case txn.PayChanCreateBody:
		return m.applyPayChanCreate(tx, body), nil
	case txn.PayChanFundBody:
		return m.applyPayChanFund(tx, body), nil
	case txn.PayChanClaimBody:
		return m.applyPayChanClaim(tx, body), nil
	case txn.PayChanCloseBody:
		return m.applyPayChanClose(tx, body), nil
	case txn.CheckCreateBody:
		return m.applyCheckCreate(tx, body), nil
	case txn.CheckCashBody:
		return m.applyCheckCash(tx, body)
	case txn.CheckCancelBody:
		return m.applyCheckCancel(tx, body), nil
	case txn.StakeBody:
		return m.applyStake(tx, body), nil
	case txn.UnstakeBody:
		return m.applyUnstake(tx, body), nil
	case txn.ClawbackBody:
		return m.applyClawback(tx, body), nil
	case txn.AMMBody:
		return m.applyAMM(tx, body), nil
	case txn.NFTBody:
		return m.applyNFT(tx, body), nil
	case txn.OracleBody:
		return m.applyOracle(tx, body), nil
	case txn.DIDBody:
		return m.applyDID(tx, body), nil
	case txn.MPTBody:
		return m.applyMPT(tx, body), nil
	case txn.CredentialBody:
		return m.applyCredential(tx, body), nil
	case txn.XChainBody:
		return m.applyXChain(tx, body), nil
	case txn.HooksBody:
		return m.applyHooks(tx, body), nil
	case txn.TicketCreateBody:
		return m.applyTicketCreate(tx, body), nil
	case txn.AccountDeleteBody:
		return m.applyAccountDelete(tx, body), nil
	default:
		return txn.ResultSuccess, nil
	}
}

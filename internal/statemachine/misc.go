// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package statemachine

import (
	"fmt"

	"github.com/nexaflow-ledger/nexaflow-validator/internal/txn"
)

func (m *Machine) applyOracle(tx *txn.Transaction, body txn.OracleBody) txn.ResultCode {
	src, code := m.preamble(tx)
	if code != txn.ResultSuccess {
		return code
	}
	var ok bool
	var msg string
	if body.Delete {
		ok, msg = m.ledger.Oracle.Delete(tx.Header.Account, body.AssetPair)
	} else {
		ok, msg = m.ledger.Oracle.Set(tx.Header.Account, body.AssetPair, body.Price)
	}
	if !ok {
		if msg == "feed limit exceeded" {
			return txn.ResultOracleLimit
		}
		return txn.ResultNoEntry
	}
	m.bumpSequence(src, tx.Header)
	return txn.ResultSuccess
}

func (m *Machine) applyDID(tx *txn.Transaction, body txn.DIDBody) txn.ResultCode {
	src, code := m.preamble(tx)
	if code != txn.ResultSuccess {
		return code
	}
	var ok bool
	var msg string
	if body.Delete {
		ok, msg = m.ledger.DID.Delete(tx.Header.Account)
	} else {
		ok, msg = m.ledger.DID.Set(tx.Header.Account, body.Document, true)
	}
	if !ok {
		if msg == "did already exists" {
			return txn.ResultDIDExists
		}
		return txn.ResultNoEntry
	}
	m.bumpSequence(src, tx.Header)
	return txn.ResultSuccess
}

// applyMPT implements §4.3.4's multi-purpose-token create/authorize. A
// token series is identified by its issuer's address, matching the
// body's lack of a separate series id: one issuer operates one series.
func (m *Machine) applyMPT(tx *txn.Transaction, body txn.MPTBody) txn.ResultCode {
	src, code := m.preamble(tx)
	if code != txn.ResultSuccess {
		return code
	}
	id := tx.Header.Account
	var ok bool
	var msg string
	if body.Authorize {
		ok, msg = m.ledger.MPT.Authorize(id, body.Holder)
	} else {
		ok, msg = m.ledger.MPT.Create(id, tx.Header.Account, body.MaxSupply)
	}
	if !ok {
		if msg == "exceeds max supply" {
			return txn.ResultMPTMaxSupply
		}
		return txn.ResultNoEntry
	}
	m.bumpSequence(src, tx.Header)
	return txn.ResultSuccess
}

// applyCredential implements §4.3.4's attestation-credential family. The
// accept operation reuses Subject to carry the issuer's address (the
// acceptor is always the transaction's own account), since the body
// carries only one counterparty field.
func (m *Machine) applyCredential(tx *txn.Transaction, body txn.CredentialBody) txn.ResultCode {
	src, code := m.preamble(tx)
	if code != txn.ResultSuccess {
		return code
	}
	var ok bool
	var msg string
	switch body.Op {
	case "accept":
		ok, msg = m.ledger.Credential.Accept(body.Subject, tx.Header.Account, body.CredType)
	case "delete":
		ok, msg = m.ledger.Credential.Delete(tx.Header.Account, body.Subject, body.CredType)
	default:
		ok, msg = m.ledger.Credential.Create(tx.Header.Account, body.Subject, body.CredType)
	}
	if !ok {
		if msg == "credential already exists" {
			return txn.ResultCredentialExists
		}
		return txn.ResultNoEntry
	}
	m.bumpSequence(src, tx.Header)
	return txn.ResultSuccess
}

// applyXChain implements §4.3.4's cross-chain bridge commit/claim. Commit
// escrows native funds into the bridge's locking door; claim mints the
// equivalent amount to the caller once a fresh attestation id clears
// replay protection.
func (m *Machine) applyXChain(tx *txn.Transaction, body txn.XChainBody) txn.ResultCode {
	src, code := m.preamble(tx)
	if code != txn.ResultSuccess {
		return code
	}

	if body.Commit {
		bridge, ok := m.ledger.XChain.Get(body.BridgeID)
		if !ok {
			return txn.ResultNoEntry
		}
		if src.Balance.Cmp(body.Amount) < 0 {
			return txn.ResultUnfunded
		}
		ok2, _ := m.ledger.XChain.Commit(body.BridgeID)
		if !ok2 {
			return txn.ResultNoEntry
		}
		src.Balance = src.Balance.Sub(body.Amount)
		door := m.ledger.EnsureAccount(bridge.LockingDoor)
		door.Balance = door.Balance.Add(body.Amount)
		m.bumpSequence(src, tx.Header)
		return txn.ResultSuccess
	}

	attestationID := tx.Header.TxID
	if len(body.Attestations) > 0 {
		attestationID = fmt.Sprintf("%x", body.Attestations[0])
	}
	ok, msg := m.ledger.XChain.Claim(body.BridgeID, attestationID, tx.Header.Account, body.Amount)
	if !ok {
		if msg == "attestation already claimed" {
			return txn.ResultXChainNoQuorum
		}
		return txn.ResultNoEntry
	}
	src.Balance = src.Balance.Add(body.Amount)
	m.ledger.Mint(body.Amount)
	m.bumpSequence(src, tx.Header)
	return txn.ResultSuccess
}

func (m *Machine) applyHooks(tx *txn.Transaction, body txn.HooksBody) txn.ResultCode {
	src, code := m.preamble(tx)
	if code != txn.ResultSuccess {
		return code
	}
	hookRef := fmt.Sprintf("%x", body.HookHash)
	ok, _ := m.ledger.Hooks.Install(tx.Header.Account, hookRef)
	if !ok {
		return txn.ResultNoEntry
	}
	m.bumpSequence(src, tx.Header)
	return txn.ResultSuccess
}

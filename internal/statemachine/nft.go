// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package statemachine

import (
	"github.com/nexaflow-ledger/nexaflow-validator/internal/nft"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/txn"
)

// applyNFT dispatches on NFTBody.Op to the token/offer manager, settling
// the native payment leg of an accepted offer itself (§4.3.4).
func (m *Machine) applyNFT(tx *txn.Transaction, body txn.NFTBody) txn.ResultCode {
	src, code := m.preamble(tx)
	if code != txn.ResultSuccess {
		return code
	}

	switch body.Op {
	case "burn":
		ok, _ := m.ledger.NFT.Burn(body.TokenID, tx.Header.Account)
		if !ok {
			return txn.ResultNoPermission
		}

	case "offer_create":
		offerID := body.OfferID
		if offerID == "" {
			offerID = tx.Header.TxID
		}
		ok, _ := m.ledger.NFT.CreateOffer(nft.Offer{
			ID:      offerID,
			TokenID: body.TokenID,
			Owner:   tx.Header.Account,
			Amount:  body.Amount,
			IsSell:  true,
		})
		if !ok {
			return txn.ResultNoEntry
		}

	case "offer_accept":
		ok, msg, _, amount, buyer, seller := m.ledger.NFT.AcceptOffer(body.OfferID, tx.Header.Account)
		if !ok {
			if msg == "no such offer" || msg == "token no longer exists" {
				return txn.ResultNoEntry
			}
			return txn.ResultNoPermission
		}
		buyerAcc, ok := m.ledger.GetAccount(buyer)
		if !ok || buyerAcc.Balance.Cmp(amount) < 0 {
			return txn.ResultUnfunded
		}
		buyerAcc.Balance = buyerAcc.Balance.Sub(amount)
		sellerAcc := m.ledger.EnsureAccount(seller)
		sellerAcc.Balance = sellerAcc.Balance.Add(amount)

	case "offer_cancel":
		m.ledger.NFT.CancelOffer(body.OfferID)

	default:
		ok, msg := m.ledger.NFT.Mint(nft.Token{
			ID:             body.TokenID,
			Owner:          tx.Header.Account,
			Issuer:         tx.Header.Account,
			URI:            body.URI,
			TransferFeeBps: body.TransferFeeBps,
		})
		if !ok {
			if msg == "token already exists" {
				return txn.ResultNFTokenExists
			}
			return txn.ResultNoPermission
		}
	}

	m.bumpSequence(src, tx.Header)
	return txn.ResultSuccess
}

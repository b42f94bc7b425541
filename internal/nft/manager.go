// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package nft implements §4.3.4's NFT family: mint, burn, and a simple
// offer book for transferring ownership against a native payment.
package nft

import "github.com/nexaflow-ledger/nexaflow-validator/internal/model"

// Token is one minted non-fungible token.
type Token struct {
	ID             string
	Owner          string
	Issuer         string
	URI            string
	TransferFeeBps uint32
}

// Offer is a resting buy or sell offer against a token.
type Offer struct {
	ID      string
	TokenID string
	Owner   string
	Amount  model.Micro
	IsSell  bool
}

// Manager holds every minted token and every open offer.
type Manager struct {
	tokens map[string]*Token
	offers map[string]*Offer
}

// New returns an empty Manager.
func New() *Manager {
	return &Manager{tokens: make(map[string]*Token), offers: make(map[string]*Offer)}
}

// Mint creates a new token. It fails if the id is already in use.
func (m *Manager) Mint(t Token) (ok bool, msg string) {
	if _, exists := m.tokens[t.ID]; exists {
		return false, "token already exists"
	}
	tok := t
	m.tokens[t.ID] = &tok
	return true, ""
}

// Burn removes a token, provided the caller owns it.
func (m *Manager) Burn(id, caller string) (ok bool, msg string) {
	t, found := m.tokens[id]
	if !found {
		return false, "no such token"
	}
	if t.Owner != caller {
		return false, "not the owner"
	}
	delete(m.tokens, id)
	return true, ""
}

// CreateOffer opens a buy or sell offer against a token.
func (m *Manager) CreateOffer(o Offer) (ok bool, msg string) {
	if _, found := m.tokens[o.TokenID]; !found {
		return false, "no such token"
	}
	offer := o
	m.offers[o.ID] = &offer
	return true, ""
}

// AcceptOffer transfers ownership and returns the settlement amount and
// counterparties for the state machine to move the native payment.
func (m *Manager) AcceptOffer(offerID, acceptor string) (ok bool, msg string, token *Token, amount model.Micro, buyer, seller string) {
	o, found := m.offers[offerID]
	if !found {
		return false, "no such offer", nil, model.Zero(), "", ""
	}
	t, found := m.tokens[o.TokenID]
	if !found {
		return false, "token no longer exists", nil, model.Zero(), "", ""
	}
	delete(m.offers, offerID)
	if o.IsSell {
		t.Owner = acceptor
		return true, "", t, o.Amount, acceptor, o.Owner
	}
	t.Owner = o.Owner
	return true, "", t, o.Amount, o.Owner, acceptor
}

// CancelOffer removes an offer best-effort.
func (m *Manager) CancelOffer(offerID string) bool {
	if _, found := m.offers[offerID]; !found {
		return false
	}
	delete(m.offers, offerID)
	return true
}

// Clone returns a deep copy for invariant-rollback snapshots.
func (m *Manager) Clone() *Manager {
	out := New()
	for id, t := range m.tokens {
		tok := *t
		out.tokens[id] = &tok
	}
	for id, o := range m.offers {
		off := *o
		out.offers[id] = &off
	}
	return out
}

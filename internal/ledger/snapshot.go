// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"reflect"

	"github.com/nexaflow-ledger/nexaflow-validator/internal/amm"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/check"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/credential"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/did"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/escrow"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/hooks"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/model"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/mpt"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/nft"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/oracle"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/orderbook"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/paychan"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/staking"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/xchain"
)

// ledgerSnapshot is the reversible state captured before a transaction is
// dispatched (§4.3 step 2): every account, the supply counters, every
// sub-engine, and the privacy sets. The apply protocol restores it
// wholesale on invariant failure (§4.3 step 5) rather than tracking a
// precise touched-set, which keeps restore trivially correct at the cost
// of an O(ledger size) copy per transaction — acceptable at the scale
// this core targets (§9 design notes call for deterministic, not
// necessarily minimal, snapshot/rollback).
type ledgerSnapshot struct {
	accounts            map[string]*model.Account
	spentKeyImages      map[string]bool
	confidentialOutputs map[string]*model.ConfidentialOutput
	tickets             map[uint32]*model.Ticket

	totalSupply model.Micro
	totalBurned model.Micro
	totalMinted model.Micro

	amendments   *Amendments
	feeEscalator *FeeEscalator

	stakingPool   *staking.Pool
	escrowMgr     *escrow.Manager
	payChanMgr    *paychan.Manager
	checkMgr      *check.Manager
	ammMgr        *amm.Manager
	nftMgr        *nft.Manager
	oracleMgr     *oracle.Manager
	didMgr        *did.Manager
	mptMgr        *mpt.Manager
	credentialMgr *credential.Manager
	xchainMgr     *xchain.Manager
	hooksMgr      *hooks.Manager
	orderBook     *orderbook.OrderBook
	offerMarkets  map[string]OfferMarket
}

// Take records a full snapshot of the ledger's mutable state.
func (l *Ledger) Take() *ledgerSnapshot {
	s := &ledgerSnapshot{
		accounts:            make(map[string]*model.Account, len(l.accounts)),
		spentKeyImages:      make(map[string]bool, len(l.spentKeyImages)),
		confidentialOutputs: make(map[string]*model.ConfidentialOutput, len(l.confidentialOutputs)),
		tickets:             make(map[uint32]*model.Ticket, len(l.tickets)),
		totalSupply:         l.totalSupply,
		totalBurned:         l.totalBurned,
		totalMinted:         l.totalMinted,
		amendments:          l.amendments.Clone(),
		feeEscalator:        l.feeEscalator.Clone(),
		stakingPool:         l.Staking.Clone(),
		escrowMgr:           l.Escrow.Clone(),
		payChanMgr:          l.PayChan.Clone(),
		checkMgr:            l.Check.Clone(),
		ammMgr:              l.AMM.Clone(),
		nftMgr:              l.NFT.Clone(),
		oracleMgr:           l.Oracle.Clone(),
		didMgr:              l.DID.Clone(),
		mptMgr:              l.MPT.Clone(),
		credentialMgr:       l.Credential.Clone(),
		xchainMgr:           l.XChain.Clone(),
		hooksMgr:            l.Hooks.Clone(),
		orderBook:           l.OrderBook.Clone(),
		offerMarkets:        make(map[string]OfferMarket, len(l.offerMarkets)),
	}
	for id, mk := range l.offerMarkets {
		s.offerMarkets[id] = mk
	}
	for addr, a := range l.accounts {
		s.accounts[addr] = a.Clone()
	}
	for k, v := range l.spentKeyImages {
		s.spentKeyImages[k] = v
	}
	for k, v := range l.confidentialOutputs {
		s.confidentialOutputs[k] = v.Clone()
	}
	for id, t := range l.tickets {
		tk := *t
		s.tickets[id] = &tk
	}
	return s
}

// Restore replaces the ledger's mutable state with a prior snapshot
// (§4.3 step 5), restoring the pre-transaction bits exactly.
func (l *Ledger) Restore(s *ledgerSnapshot) {
	l.accounts = s.accounts
	l.spentKeyImages = s.spentKeyImages
	l.confidentialOutputs = s.confidentialOutputs
	l.tickets = s.tickets
	l.totalSupply = s.totalSupply
	l.totalBurned = s.totalBurned
	l.totalMinted = s.totalMinted
	l.amendments = s.amendments
	l.feeEscalator = s.feeEscalator
	l.Staking = s.stakingPool
	l.Escrow = s.escrowMgr
	l.PayChan = s.payChanMgr
	l.Check = s.checkMgr
	l.AMM = s.ammMgr
	l.NFT = s.nftMgr
	l.Oracle = s.oracleMgr
	l.DID = s.didMgr
	l.MPT = s.mptMgr
	l.Credential = s.credentialMgr
	l.XChain = s.xchainMgr
	l.Hooks = s.hooksMgr
	l.OrderBook = s.orderBook
	l.offerMarkets = s.offerMarkets
}

// TouchedAccounts diffs the ledger's current accounts against a snapshot
// taken before dispatch, for §4.3 step 6's per-transaction metadata: every
// account that differs (or is new) appears in after, keyed the same as in
// before when it already existed pre-dispatch. Both maps hold independent
// clones so later mutation of the live accounts can never leak into a
// recorded metadata entry.
func (l *Ledger) TouchedAccounts(s *ledgerSnapshot) (before, after map[string]*model.Account) {
	before = make(map[string]*model.Account)
	after = make(map[string]*model.Account)
	for addr, cur := range l.accounts {
		prior, existed := s.accounts[addr]
		if existed && reflect.DeepEqual(prior, cur) {
			continue
		}
		if existed {
			before[addr] = prior.Clone()
		}
		after[addr] = cur.Clone()
	}
	return before, after
}

// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ledger owns the open ledger state named in §3: the account map,
// every sub-engine, the confidential-output and spent-key-image sets, and
// the machinery to close a ledger into an immutable, hash-chained header
// (§4.4). No other package is permitted to hold an owning reference to an
// Account; sub-engines receive only the values the state machine extracts
// from here, never a live pointer back into this struct (§9 design notes:
// cyclic manager references replaced with arena-style single ownership).
package ledger

import (
	"sort"

	"github.com/luxfi/log"

	"github.com/nexaflow-ledger/nexaflow-validator/internal/amm"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/check"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/credential"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/crypto"
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

// Params configures a freshly constructed Ledger; every field is required
// to be sourced from config (§6.5), never hard-coded (§9 design notes).
type Params struct {
	GenesisAccount string
	InitialSupply  model.Micro
	BaseReserve    model.Micro
	OwnerInc       model.Micro
	StakeTiers     []staking.Tier
	Amendments     []string
	Crypto         crypto.Provider
	Log            log.Logger
}

// Ledger is the single owner of every Account, ConfidentialOutput and
// sub-engine instance. Everything outside this package reaches mutable
// state only by calling into methods here.
type Ledger struct {
	log    log.Logger
	crypto crypto.Provider

	accounts            map[string]*model.Account
	spentKeyImages       map[string]bool
	appliedTxIDs         map[string]bool
	confidentialOutputs  map[string]*model.ConfidentialOutput
	tickets              map[uint32]*model.Ticket
	pendingTxns          []PendingTx

	currentSequence uint32
	totalSupply     model.Micro
	initialSupply   model.Micro
	totalBurned     model.Micro
	totalMinted     model.Micro

	baseReserve model.Micro
	ownerInc    model.Micro

	headers []*model.LedgerHeader

	amendments    *Amendments
	feeEscalator  *FeeEscalator

	Staking    *staking.Pool
	Escrow     *escrow.Manager
	PayChan    *paychan.Manager
	Check      *check.Manager
	AMM        *amm.Manager
	NFT        *nft.Manager
	Oracle     *oracle.Manager
	DID        *did.Manager
	MPT        *mpt.Manager
	Credential *credential.Manager
	XChain     *xchain.Manager
	Hooks      *hooks.Manager
	OrderBook  *orderbook.OrderBook

	offerMarkets map[string]OfferMarket

	metadata []*TxMeta
}

// OfferMarket records which market a resting offer belongs to, so
// OfferCancel can find the book to remove it from without scanning every
// market (§4.3.3).
type OfferMarket struct {
	Base, Counter orderbook.AssetKey
}

// PendingTx is one transaction awaiting the next close, recorded with the
// ordering key §4.4 step 4 canonicalises on.
type PendingTx struct {
	TxType   uint32
	Account  string
	Sequence uint32
	TxID     string
}

// TxMeta is the per-transaction record built at apply step 6: before/after
// of touched accounts, delivered amount, and the named result code.
type TxMeta struct {
	TxID            string
	ResultCode      int
	ResultName      string
	DeliveredAmount *model.Micro
	Before          map[string]*model.Account
	After           map[string]*model.Account
}

// New constructs a Ledger seeded with the genesis account holding the
// entire initial supply, matching the original's genesis bootstrap.
func New(p Params) *Ledger {
	l := &Ledger{
		log:                 p.Log,
		crypto:              p.Crypto,
		accounts:            make(map[string]*model.Account),
		spentKeyImages:      make(map[string]bool),
		appliedTxIDs:        make(map[string]bool),
		confidentialOutputs: make(map[string]*model.ConfidentialOutput),
		tickets:             make(map[uint32]*model.Ticket),
		currentSequence:     1,
		totalSupply:         p.InitialSupply,
		initialSupply:       p.InitialSupply,
		totalBurned:         model.Zero(),
		totalMinted:         model.Zero(),
		baseReserve:         p.BaseReserve,
		ownerInc:            p.OwnerInc,
		amendments:          NewAmendments(p.Amendments),
		feeEscalator:        NewFeeEscalator(),
		Staking:             staking.New(p.StakeTiers),
		Escrow:              escrow.New(),
		PayChan:             paychan.New(),
		Check:               check.New(),
		AMM:                 amm.New(),
		NFT:                 nft.New(),
		Oracle:              oracle.New(),
		DID:                 did.New(),
		MPT:                 mpt.New(),
		Credential:          credential.New(),
		XChain:              xchain.New(),
		Hooks:               hooks.New(),
		OrderBook:           orderbook.New(),
		offerMarkets:        make(map[string]OfferMarket),
	}
	if l.log == nil {
		l.log = log.NoLog{}
	}
	if p.GenesisAccount != "" {
		genesis := model.NewAccount(p.GenesisAccount)
		genesis.Balance = p.InitialSupply
		l.accounts[p.GenesisAccount] = genesis
	}
	return l
}

// Crypto returns the cryptographic provider the ledger was constructed
// with, consumed by the state machine's confidential-payment branch.
func (l *Ledger) Crypto() crypto.Provider { return l.crypto }

// Log returns the ledger's structured logger.
func (l *Ledger) Log() log.Logger { return l.log }

// Amendments returns the ledger's amendment flag set.
func (l *Ledger) Amendments() *Amendments { return l.amendments }

// FeeEscalator returns the ledger's dynamic fee floor tracker.
func (l *Ledger) FeeEscalator() *FeeEscalator { return l.feeEscalator }

// BaseReserve returns the configured base reserve.
func (l *Ledger) BaseReserve() model.Micro { return l.baseReserve }

// OwnerInc returns the configured per-object owner reserve increment.
func (l *Ledger) OwnerInc() model.Micro { return l.ownerInc }

// CurrentSequence returns the ledger sequence that will be assigned to the
// next closed header.
func (l *Ledger) CurrentSequence() uint32 { return l.currentSequence }

// TotalSupply returns the live total_supply counter.
func (l *Ledger) TotalSupply() model.Micro { return l.totalSupply }

// TotalBurned returns the live total_burned counter.
func (l *Ledger) TotalBurned() model.Micro { return l.totalBurned }

// TotalMinted returns the live total_minted counter.
func (l *Ledger) TotalMinted() model.Micro { return l.totalMinted }

// InitialSupply returns the genesis total_supply.
func (l *Ledger) InitialSupply() model.Micro { return l.initialSupply }

// Burn subtracts amount from total_supply and adds it to total_burned,
// the permanent-fee-burn step every handler's common preamble performs.
func (l *Ledger) Burn(amount model.Micro) {
	l.totalSupply = l.totalSupply.Sub(amount)
	l.totalBurned = l.totalBurned.Add(amount)
}

// Mint adds amount to total_supply and total_minted, used by stake
// maturity interest and XChain claim issuance.
func (l *Ledger) Mint(amount model.Micro) {
	l.totalSupply = l.totalSupply.Add(amount)
	l.totalMinted = l.totalMinted.Add(amount)
}

// GetAccount is the read-only query of §6.1.
func (l *Ledger) GetAccount(address string) (*model.Account, bool) {
	a, ok := l.accounts[address]
	return a, ok
}

// EnsureAccount returns the account at address, creating a zero-balance
// one if it does not yet exist (§4.3.1 transparent-branch step 1).
func (l *Ledger) EnsureAccount(address string) *model.Account {
	a, ok := l.accounts[address]
	if !ok {
		a = model.NewAccount(address)
		l.accounts[address] = a
	}
	return a
}

// PutAccount installs an account, used when a handler must delete or
// replace an entry (AccountDelete) or the invariant-rollback path.
func (l *Ledger) PutAccount(a *model.Account) { l.accounts[a.Address] = a }

// DeleteAccount removes an account entirely (AccountDelete, §4.3.4).
func (l *Ledger) DeleteAccount(address string) { delete(l.accounts, address) }

// AllAccounts returns every account in deterministic address-sorted
// order, used by pathfinding's TrustGraph build and the ledger closer's
// state-hash computation.
func (l *Ledger) AllAccounts() []*model.Account {
	addrs := make([]string, 0, len(l.accounts))
	for addr := range l.accounts {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)
	out := make([]*model.Account, len(addrs))
	for i, addr := range addrs {
		out[i] = l.accounts[addr]
	}
	return out
}

// GetBalance is the read-only query of §6.1.
func (l *Ledger) GetBalance(address string) model.Micro {
	a, ok := l.accounts[address]
	if !ok {
		return model.Zero()
	}
	return a.Balance
}

// GetTrustLine is the read-only query of §6.1.
func (l *Ledger) GetTrustLine(holder, currency, issuer string) (*model.TrustLine, bool) {
	a, ok := l.accounts[holder]
	if !ok {
		return nil, false
	}
	tl, ok := a.TrustLines[model.TrustLineKey{Currency: currency, Issuer: issuer}]
	return tl, ok
}

// GetConfidentialOutput is the read-only query of §6.1.
func (l *Ledger) GetConfidentialOutput(stealthHex string) (*model.ConfidentialOutput, bool) {
	o, ok := l.confidentialOutputs[stealthHex]
	return o, ok
}

// GetAllConfidentialOutputs is the read-only query of §6.1, returned in
// deterministic stealth-address-sorted order.
func (l *Ledger) GetAllConfidentialOutputs() []*model.ConfidentialOutput {
	keys := make([]string, 0, len(l.confidentialOutputs))
	for k := range l.confidentialOutputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*model.ConfidentialOutput, len(keys))
	for i, k := range keys {
		out[i] = l.confidentialOutputs[k]
	}
	return out
}

// PutConfidentialOutput stores a freshly created shielded output (§4.3.1
// confidential-branch step 5).
func (l *Ledger) PutConfidentialOutput(stealthHex string, o *model.ConfidentialOutput) {
	l.confidentialOutputs[stealthHex] = o
}

// IsKeyImageSpent is the read-only query of §6.1.
func (l *Ledger) IsKeyImageSpent(keyImageHex string) bool { return l.spentKeyImages[keyImageHex] }

// SpendKeyImage records a key image as spent (§4.3.1 confidential-branch
// step 6). The caller is responsible for having already checked
// IsKeyImageSpent under the KEY_IMAGE_SPENT result code.
func (l *Ledger) SpendKeyImage(keyImageHex string) { l.spentKeyImages[keyImageHex] = true }

// IsStealthAddressUsed is the read-only query of §6.1.
func (l *Ledger) IsStealthAddressUsed(stealthHex string) bool {
	_, ok := l.confidentialOutputs[stealthHex]
	return ok
}

// IsApplied reports whether tx_id has already been committed (§4.3 step 1).
func (l *Ledger) IsApplied(txID string) bool { return l.appliedTxIDs[txID] }

// MarkApplied commits a tx_id and its pending-close record (§4.3 step 7).
func (l *Ledger) MarkApplied(p PendingTx) {
	l.appliedTxIDs[p.TxID] = true
	l.pendingTxns = append(l.pendingTxns, p)
}

// GetTicket looks up a reserved sequence ticket.
func (l *Ledger) GetTicket(id uint32) (*model.Ticket, bool) {
	t, ok := l.tickets[id]
	return t, ok
}

// PutTicket records a newly created ticket (TicketCreate).
func (l *Ledger) PutTicket(t *model.Ticket) { l.tickets[t.ID] = t }

// ConsumeTicket marks a ticket used, returning false if it was already
// consumed or does not exist.
func (l *Ledger) ConsumeTicket(id uint32) bool {
	t, ok := l.tickets[id]
	if !ok || t.Used {
		return false
	}
	t.Used = true
	return true
}

// PendingTxIDs returns the tx_ids awaiting the next close, in apply
// order, consumed by the consensus engine's submit_transactions (§6.1).
func (l *Ledger) PendingTxIDs() []string {
	out := make([]string, len(l.pendingTxns))
	for i, p := range l.pendingTxns {
		out[i] = p.TxID
	}
	return out
}

// AppendMetadata records the apply-step-6 metadata object for a tx.
func (l *Ledger) AppendMetadata(m *TxMeta) { l.metadata = append(l.metadata, m) }

// Metadata returns every recorded transaction metadata entry in apply
// order.
func (l *Ledger) Metadata() []*TxMeta { return l.metadata }

// Headers returns every closed ledger header in ascending sequence order.
func (l *Ledger) Headers() []*model.LedgerHeader { return l.headers }

// LastHeader returns the most recently closed header, or nil for a
// ledger that has never closed.
func (l *Ledger) LastHeader() *model.LedgerHeader {
	if len(l.headers) == 0 {
		return nil
	}
	return l.headers[len(l.headers)-1]
}

// PutOfferMarket records the market a freshly resting offer belongs to.
func (l *Ledger) PutOfferMarket(offerID string, m OfferMarket) { l.offerMarkets[offerID] = m }

// GetOfferMarket looks up the market a resting offer belongs to.
func (l *Ledger) GetOfferMarket(offerID string) (OfferMarket, bool) {
	m, ok := l.offerMarkets[offerID]
	return m, ok
}

// DeleteOfferMarket removes an offer's market record once it is filled or
// cancelled.
func (l *Ledger) DeleteOfferMarket(offerID string) { delete(l.offerMarkets, offerID) }

// OwnerReserve computes the account's required reserve under the
// ledger's configured parameters (§4.3.5).
func (l *Ledger) OwnerReserve(a *model.Account) model.Micro {
	return a.OwnerReserve(l.baseReserve, l.ownerInc)
}

// MeetsReserve reports whether an account's current balance satisfies its
// owner reserve, the check every balance-reducing or owner-count-increasing
// handler must pass (§4.3.5).
func (l *Ledger) MeetsReserve(a *model.Account) bool {
	return a.Balance.Cmp(l.OwnerReserve(a)) >= 0
}

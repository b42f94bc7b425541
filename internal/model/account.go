// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package model

// AccountFlags is the set of boolean protocol flags an account can carry.
// Stored as a struct of bools rather than a bitmask dictionary so that the
// state machine never touches a dynamic attribute bag (see design notes on
// tagged variants replacing dynamic attributes).
type AccountFlags struct {
	RequireDest   bool
	DisableMaster bool
	DefaultRipple bool
	GlobalFreeze  bool
	DepositAuth   bool
	AllowClawback bool
	RequireAuth   bool
}

// Account is the ledger's unit of ownership: a native balance, a set of
// trust lines, open offers, and the bookkeeping needed to enforce
// sequence ordering, reserves and owner-count-gated destruction.
type Account struct {
	Address        string
	Balance        Micro
	NextSeq        uint32
	OwnerCount     uint32
	TrustLines     map[TrustLineKey]*TrustLine
	OpenOfferIDs   []string
	TransferRate   Micro // 1.0 == no fee; range [1.0, 2.0]
	Flags          AccountFlags
	RegularKey     string
	Domain         string
	Preauthorized  map[string]bool
	TicketIDs      []uint32
	KeyType        string
}

// NewAccount returns a freshly created account with zero balance and the
// default (fee-free) transfer rate.
func NewAccount(address string) *Account {
	return &Account{
		Address:       address,
		Balance:       Zero(),
		TransferRate:  FromMicroUnits(1_000000),
		TrustLines:    make(map[TrustLineKey]*TrustLine),
		Preauthorized: make(map[string]bool),
	}
}

// Clone produces a deep copy suitable for invariant-rollback snapshots.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	out := *a
	out.TrustLines = make(map[TrustLineKey]*TrustLine, len(a.TrustLines))
	for k, v := range a.TrustLines {
		tl := *v
		out.TrustLines[k] = &tl
	}
	out.OpenOfferIDs = append([]string(nil), a.OpenOfferIDs...)
	out.TicketIDs = append([]uint32(nil), a.TicketIDs...)
	out.Preauthorized = make(map[string]bool, len(a.Preauthorized))
	for k, v := range a.Preauthorized {
		out.Preauthorized[k] = v
	}
	return &out
}

// OwnerReserve computes BASE_RESERVE + OWNER_INC * owner_count for this
// account given the ledger-wide reserve parameters.
func (a *Account) OwnerReserve(baseReserve, ownerInc Micro) Micro {
	inc := ownerInc.MulRate(int64(a.OwnerCount), 1, RoundDown)
	return baseReserve.Add(inc)
}

// DeletionEligible reports whether the account satisfies AccountDelete's
// structural preconditions (§4.3.4): no owned objects, no trust lines, and
// a sequence number past the spam-heuristic floor.
func (a *Account) DeletionEligible(seqFloor uint32) bool {
	return a.OwnerCount == 0 && len(a.TrustLines) == 0 && a.NextSeq >= seqFloor
}

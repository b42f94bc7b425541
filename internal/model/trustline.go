// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package model

import "fmt"

// TrustLineKey identifies a trust line by the (currency, issuer) pair it
// is denominated in; the holder is implicit in whichever Account.TrustLines
// map it lives in.
type TrustLineKey struct {
	Currency string
	Issuer   string
}

// String renders the key as "CUR/issuer" for logging and diagnostics.
func (k TrustLineKey) String() string {
	return fmt.Sprintf("%s/%s", k.Currency, k.Issuer)
}

// TrustLineFlags mirrors the per-line boolean flags in §3.
type TrustLineFlags struct {
	NoRipple   bool
	Frozen     bool
	Authorized bool
}

// TrustLine is a directed IOU credit relation (holder, currency, issuer).
// A positive Balance means the holder is owed by the issuer; trust lines
// between two non-issuer accounts never arise directly (rippling always
// walks issuer-anchored edges), matching the XRPL trust-line model.
type TrustLine struct {
	Holder     string
	Currency   string
	Issuer     string
	Balance    Micro
	Limit      Micro
	PeerLimit  Micro
	Flags      TrustLineFlags
	QualityIn  int64 // fixed-point rate numerator over 1_000000 denominator
	QualityOut int64
}

// Key returns the (currency, issuer) lookup key for this line.
func (t *TrustLine) Key() TrustLineKey {
	return TrustLineKey{Currency: t.Currency, Issuer: t.Issuer}
}

// AvailableToSend returns how much of the holder's balance can move
// outward on this line (capped at zero if the balance is already
// negative, which XRPL trust lines never reach under honest issuance but
// which the invariant checker still must tolerate defensively).
func (t *TrustLine) AvailableToSend() Micro {
	if t.Balance.IsNegative() {
		return Zero()
	}
	return t.Balance
}

// AvailableToReceive returns how much more can be credited to this line
// before it exceeds its Limit.
func (t *TrustLine) AvailableToReceive() Micro {
	room := t.Limit.Sub(t.Balance)
	if room.IsNegative() {
		return Zero()
	}
	return room
}

// IsEmpty reports whether the line has zero balance and zero limit, the
// condition under which it may be pruned from an account (§3).
func (t *TrustLine) IsEmpty() bool {
	return t.Balance.IsZero() && t.Limit.IsZero()
}

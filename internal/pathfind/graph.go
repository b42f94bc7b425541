// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pathfind implements §4.3.2's multi-hop rippling: a TrustGraph
// snapshot of trust-line capacity and a deterministic best-first
// PathFinder search over it, bounded to MaxHops so that path selection is
// reproducible across validators (§9 design notes).
//
// Trust lines never run directly between two non-issuer accounts (§3), so
// the graph is bipartite around each issuer: a holder's line contributes a
// debit edge holder->issuer (how much the holder can give back) and a
// credit edge issuer->holder (how much room the holder has to receive
// more). A source lacking any line in the target currency/issuer has no
// edge of either kind to offer, so the only way it can enter the graph at
// all is the native leg described in step 2 of §4.3.2: an edge carrying
// the source's native balance to any other account, usable only as the
// first hop of a path, after which the walk must continue on
// issuer-anchored IOU edges to actually deliver the target currency.
package pathfind

import "github.com/nexaflow-ledger/nexaflow-validator/internal/model"

// MaxHops bounds the search depth, per the design notes' redesign of the
// original's unbounded DFS into a bounded best-first search.
const MaxHops = 6

// Edge is one directed trust-line hop, carrying how much of Currency it
// can still move before exhausting the trust line's available capacity
// (on a native leg, Issuer is empty and capacity is the sender's balance).
type Edge struct {
	From, To string
	Currency string
	Issuer   string
	Capacity model.Micro
}

// Graph is a snapshot of every account's outgoing trust-line and native
// capacity at the moment a payment needs to ripple, built fresh per
// payment (§4.3.2 step 1) so that concurrent mutation of the live ledger
// never leaks into a search in progress.
type Graph struct {
	edges map[string][]Edge
}

// AccountView is the minimal read-only shape the Ledger exposes when
// building a Graph, kept separate from model.Account so this package
// never needs to import the ledger package.
type AccountView struct {
	Address string
	Balance model.Micro
	Lines   []LineView
}

// LineView is one trust line's capacity, from the perspective of the
// account that holds it.
type LineView struct {
	Currency string
	Issuer   string
	Balance  model.Micro
	Limit    model.Micro
	NoRipple bool
	Frozen   bool
}

// Build constructs a Graph from a set of account views. IOU legs are
// added only along issuer-anchored trust lines so rippling always
// transits through a shared issuer, matching XRPL semantics: a debit
// edge holder->issuer for what the holder can redeem, and a credit edge
// issuer->holder for the room the holder has to receive more. A native
// leg from each positive-balance account to every other account gives a
// line-less source a way to enter the graph at all (§4.3.2 step 2).
func Build(accounts []AccountView) *Graph {
	g := &Graph{edges: make(map[string][]Edge)}
	for _, a := range accounts {
		for _, l := range a.Lines {
			if l.Frozen || l.NoRipple {
				continue
			}
			if capacity := l.AvailableOut(); !capacity.IsZero() {
				g.edges[a.Address] = append(g.edges[a.Address], Edge{
					From:     a.Address,
					To:       l.Issuer,
					Currency: l.Currency,
					Issuer:   l.Issuer,
					Capacity: capacity,
				})
			}
			if room := l.AvailableIn(); !room.IsZero() {
				g.edges[l.Issuer] = append(g.edges[l.Issuer], Edge{
					From:     l.Issuer,
					To:       a.Address,
					Currency: l.Currency,
					Issuer:   l.Issuer,
					Capacity: room,
				})
			}
		}
	}
	for _, a := range accounts {
		if a.Balance.IsZero() || a.Balance.IsNegative() {
			continue
		}
		for _, b := range accounts {
			if b.Address == a.Address {
				continue
			}
			g.edges[a.Address] = append(g.edges[a.Address], Edge{
				From:     a.Address,
				To:       b.Address,
				Capacity: a.Balance,
			})
		}
	}
	return g
}

// AvailableOut returns how much of the line's balance the holder can
// still push outward.
func (l LineView) AvailableOut() model.Micro {
	if l.Balance.IsNegative() {
		return model.Zero()
	}
	return l.Balance
}

// AvailableIn returns how much more the issuer can credit this line
// before it exceeds its limit.
func (l LineView) AvailableIn() model.Micro {
	room := l.Limit.Sub(l.Balance)
	if room.IsNegative() {
		return model.Zero()
	}
	return room
}

// EdgesFrom returns the outgoing edges for an account, in a stable order
// (insertion order, which Build derives deterministically from the
// caller's already-sorted account view slice).
func (g *Graph) EdgesFrom(account string) []Edge {
	return g.edges[account]
}

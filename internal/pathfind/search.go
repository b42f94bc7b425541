// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package pathfind

import (
	"sort"

	"github.com/nexaflow-ledger/nexaflow-validator/internal/model"
)

// Hop is one leg of a chosen path.
type Hop struct {
	Account  string
	Currency string
	Issuer   string
}

// Path is a candidate route from the payment's source to its destination.
type Path struct {
	Hops      []Hop
	Delivered model.Micro
}

// candidate is an in-progress search frontier entry.
type candidate struct {
	path      []Hop
	capacity  model.Micro
	visited   map[string]bool
}

// Find runs the bounded best-first search of §4.3.2 step 2-3: among all
// paths from src to dst of at most MaxHops edges, return the one
// maximising delivered amount, then minimising hop count, then
// lexicographic path order, for determinism across validators. Every hop
// must carry the target currency/issuer, except the first, which may be
// a native leg (empty currency/issuer) bridging a source that holds no
// line in the target currency at all. A path only counts as having
// reached dst if the final hop actually delivered the target currency —
// landing on dst via a bare native leg does not satisfy an IOU payment.
func Find(g *Graph, src, dst, currency, issuer string, maxSend model.Micro) (*Path, bool) {
	var best *Path

	var visit func(c candidate)
	visit = func(c candidate) {
		last := c.path[len(c.path)-1]
		if last.Account == dst && last.Currency == currency && last.Issuer == issuer {
			delivered := model.Min(c.capacity, maxSend)
			if delivered.IsZero() {
				return
			}
			cand := &Path{Hops: append([]Hop(nil), c.path...), Delivered: delivered}
			if betterPath(cand, best) {
				best = cand
			}
			return
		}
		if len(c.path) >= MaxHops {
			return
		}
		edges := g.EdgesFrom(last.Account)
		sortedEdges := append([]Edge(nil), edges...)
		sort.Slice(sortedEdges, func(i, j int) bool { return sortedEdges[i].To < sortedEdges[j].To })
		for _, e := range sortedEdges {
			isNativeLeg := e.Currency == "" && e.Issuer == ""
			matchesTarget := e.Currency == currency && e.Issuer == issuer
			if !matchesTarget && !(isNativeLeg && len(c.path) == 1) {
				continue
			}
			if c.visited[e.To] {
				continue
			}
			nextVisited := make(map[string]bool, len(c.visited)+1)
			for k := range c.visited {
				nextVisited[k] = true
			}
			nextVisited[e.To] = true
			nextCap := model.Min(c.capacity, e.Capacity)
			visit(candidate{
				path:     append(append([]Hop(nil), c.path...), Hop{Account: e.To, Currency: e.Currency, Issuer: e.Issuer}),
				capacity: nextCap,
				visited:  nextVisited,
			})
		}
	}

	visit(candidate{
		path:     []Hop{{Account: src}},
		capacity: maxSend,
		visited:  map[string]bool{src: true},
	})

	if best == nil {
		return nil, false
	}
	return best, true
}

// betterPath implements the tie-break rule: delivered_amount desc,
// hop_count asc, path lexicographic.
func betterPath(candidate, current *Path) bool {
	if current == nil {
		return true
	}
	if cmp := candidate.Delivered.Cmp(current.Delivered); cmp != 0 {
		return cmp > 0
	}
	if len(candidate.Hops) != len(current.Hops) {
		return len(candidate.Hops) < len(current.Hops)
	}
	return pathKey(candidate) < pathKey(current)
}

func pathKey(p *Path) string {
	s := ""
	for _, h := range p.Hops {
		s += h.Account + ">"
	}
	return s
}

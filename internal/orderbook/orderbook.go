// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package orderbook implements §4.3.3's OfferCreate/OfferCancel matching
// engine: a price-time-priority limit order book per (base, counter)
// market, with GTC/IOC/FOK order types and auto-bridging through the
// native asset as pivot when neither side of a submission is native.
package orderbook

import (
	"sort"

	"github.com/nexaflow-ledger/nexaflow-validator/internal/model"
)

// Side is which side of the market an offer rests on.
type Side int

const (
	SideBuy Side = iota
	SideSell
)

// OrderType selects the matching discipline for a submission.
type OrderType int

const (
	// GTC rests any unfilled remainder on the book.
	GTC OrderType = iota
	// IOC fills what it can immediately and cancels the remainder.
	IOC
	// FOK fills completely or not at all.
	FOK
)

// AssetKey identifies one side of a market.
type AssetKey struct {
	Currency string
	Issuer   string
}

// MarketKey identifies an order book: an unordered pair of assets, stored
// canonically so (A,B) and (B,A) resolve to the same book.
type MarketKey struct {
	Base, Counter AssetKey
}

// Offer is a resting or incoming limit order. Price is expressed as
// counter-per-base in the same fixed-point rate form as trust-line
// quality: a numerator over a 1_000000 denominator.
type Offer struct {
	ID       string
	Account  string
	Side     Side
	Price    int64 // counter units per base unit, scaled by 1_000000
	Quantity model.Micro
	seq      uint64
}

// Fill is one matched trade between a resting maker offer and an incoming
// taker order.
type Fill struct {
	MakerOfferID string
	MakerAccount string
	TakerAccount string
	Price        int64
	Quantity     model.Micro
}

// Book holds the resting offers for a single market.
type Book struct {
	bids []*Offer // descending price
	asks []*Offer // ascending price
}

// OrderBook indexes one Book per market and assigns a monotonically
// increasing sequence number to every submitted offer so that
// same-price matches are resolved in deterministic arrival order.
type OrderBook struct {
	books   map[MarketKey]*Book
	nextSeq uint64
}

// New returns an empty OrderBook.
func New() *OrderBook {
	return &OrderBook{books: make(map[MarketKey]*Book)}
}

func canonicalMarket(base, counter AssetKey) (MarketKey, bool) {
	// Canonicalize by a stable string ordering so the same pair always
	// maps to the same book regardless of which side is "base".
	if assetLess(counter, base) {
		return MarketKey{Base: counter, Counter: base}, true
	}
	return MarketKey{Base: base, Counter: counter}, false
}

func assetLess(a, b AssetKey) bool {
	if a.Currency != b.Currency {
		return a.Currency < b.Currency
	}
	return a.Issuer < b.Issuer
}

func (ob *OrderBook) bookFor(base, counter AssetKey) (*Book, bool) {
	key, flipped := canonicalMarket(base, counter)
	b, ok := ob.books[key]
	if !ok {
		b = &Book{}
		ob.books[key] = b
	}
	return b, flipped
}

// Submit matches an incoming offer against the resting book, returning
// the fills produced and the unfilled remainder. GTC rests the remainder
// and returns zero; IOC discards it and returns it; FOK requires the full
// quantity to be fillable or produces no fills, no resting offer, and
// returns the whole quantity.
func (ob *OrderBook) Submit(base, counter AssetKey, offer Offer, ot OrderType) ([]Fill, model.Micro) {
	book, flipped := ob.bookFor(base, counter)
	side := offer.Side
	if flipped {
		if side == SideBuy {
			side = SideSell
		} else {
			side = SideBuy
		}
	}
	offer.Side = side
	ob.nextSeq++
	offer.seq = ob.nextSeq

	if ot == FOK {
		available := availableQuantity(book, side, offer.Price)
		if available.Cmp(offer.Quantity) < 0 {
			return nil, offer.Quantity
		}
	}

	fills, remaining := match(book, &offer)

	if remaining.IsZero() || ot != GTC {
		return fills, remaining
	}

	rest := offer
	rest.Quantity = remaining
	insertResting(book, &rest)
	return fills, model.Zero()
}

func availableQuantity(book *Book, side Side, limitPrice int64) model.Micro {
	total := model.Zero()
	if side == SideBuy {
		for _, ask := range book.asks {
			if ask.Price > limitPrice {
				break
			}
			total = total.Add(ask.Quantity)
		}
	} else {
		for _, bid := range book.bids {
			if bid.Price < limitPrice {
				break
			}
			total = total.Add(bid.Quantity)
		}
	}
	return total
}

func match(book *Book, incoming *Offer) ([]Fill, model.Micro) {
	var fills []Fill
	remaining := incoming.Quantity

	if incoming.Side == SideBuy {
		for remaining.IsZero() == false && len(book.asks) > 0 {
			best := book.asks[0]
			if best.Price > incoming.Price {
				break
			}
			qty := model.Min(remaining, best.Quantity)
			fills = append(fills, Fill{MakerOfferID: best.ID, MakerAccount: best.Account, TakerAccount: incoming.Account, Price: best.Price, Quantity: qty})
			remaining = remaining.Sub(qty)
			best.Quantity = best.Quantity.Sub(qty)
			if best.Quantity.IsZero() {
				book.asks = book.asks[1:]
			}
		}
	} else {
		for remaining.IsZero() == false && len(book.bids) > 0 {
			best := book.bids[0]
			if best.Price < incoming.Price {
				break
			}
			qty := model.Min(remaining, best.Quantity)
			fills = append(fills, Fill{MakerOfferID: best.ID, MakerAccount: best.Account, TakerAccount: incoming.Account, Price: best.Price, Quantity: qty})
			remaining = remaining.Sub(qty)
			best.Quantity = best.Quantity.Sub(qty)
			if best.Quantity.IsZero() {
				book.bids = book.bids[1:]
			}
		}
	}
	return fills, remaining
}

func insertResting(book *Book, offer *Offer) {
	if offer.Side == SideBuy {
		book.bids = append(book.bids, offer)
		sort.SliceStable(book.bids, func(i, j int) bool {
			if book.bids[i].Price != book.bids[j].Price {
				return book.bids[i].Price > book.bids[j].Price
			}
			return book.bids[i].seq < book.bids[j].seq
		})
	} else {
		book.asks = append(book.asks, offer)
		sort.SliceStable(book.asks, func(i, j int) bool {
			if book.asks[i].Price != book.asks[j].Price {
				return book.asks[i].Price < book.asks[j].Price
			}
			return book.asks[i].seq < book.asks[j].seq
		})
	}
}

// Cancel removes a resting offer by id, best-effort: a missing offer is
// not an error, matching §4.3.3's OfferCancel contract.
func (ob *OrderBook) Cancel(base, counter AssetKey, offerID string) bool {
	book, _ := ob.bookFor(base, counter)
	for i, o := range book.bids {
		if o.ID == offerID {
			book.bids = append(book.bids[:i], book.bids[i+1:]...)
			return true
		}
	}
	for i, o := range book.asks {
		if o.ID == offerID {
			book.asks = append(book.asks[:i], book.asks[i+1:]...)
			return true
		}
	}
	return false
}

// NXF is the native-asset pivot used for auto-bridged submissions when
// neither side of taker_pays/taker_gets is native (§4.3.3 step 2).
var NXF = AssetKey{}

// Bridge implements that auto-bridged routing: it spends up to budget
// units of base buying NXF off the (NXF, base) book, then sells whatever
// NXF that raises into the (NXF, counter) book. NXF's empty currency/
// issuer always sorts first, so it is the canonical base of every market
// it appears in; that makes the second leg an ordinary Quantity-in-NXF
// IOC sell, but the first leg has to spend by budget rather than by a
// fixed NXF quantity, since the caller only knows how much base it has
// left, not how much NXF that will buy at the going rate. Both legs
// consume resting liquidity exactly like Submit's IOC path.
func (ob *OrderBook) Bridge(taker string, base, counter AssetKey, budget model.Micro) (baseLeg, counterLeg []Fill, baseSpent, counterRaised model.Micro) {
	var nxfRaised model.Micro
	nxfRaised, baseSpent, baseLeg = ob.spendForNXF(taker, base, budget)
	if nxfRaised.IsZero() {
		return nil, nil, model.Zero(), model.Zero()
	}

	ob.nextSeq++
	counterLeg, _ = ob.Submit(NXF, counter, Offer{
		ID:       taker + "-bridge-" + counter.Currency,
		Account:  taker,
		Side:     SideSell,
		Quantity: nxfRaised,
	}, IOC)

	counterRaised = model.Zero()
	for _, f := range counterLeg {
		counterRaised = counterRaised.Add(f.Quantity.MulRate(f.Price, 1_000000, model.RoundDown))
	}
	return baseLeg, counterLeg, baseSpent, counterRaised
}

// spendForNXF walks the (NXF, other) book's resting asks, cheapest
// other-per-NXF first, spending up to budget units of other. It returns
// how much NXF that bought, how much of budget it actually spent, and
// the fills taken, without going through Submit/match since those model
// a fixed base quantity rather than a fixed spend.
func (ob *OrderBook) spendForNXF(taker string, other AssetKey, budget model.Micro) (nxfAcquired, spent model.Micro, fills []Fill) {
	book, _ := ob.bookFor(NXF, other)
	nxfAcquired = model.Zero()
	spent = model.Zero()
	for len(book.asks) > 0 {
		best := book.asks[0]
		if best.Price == 0 {
			break
		}
		remainingBudget := budget.Sub(spent)
		if remainingBudget.IsZero() {
			break
		}
		cost := best.Quantity.MulRate(best.Price, 1_000000, model.RoundUp)
		if cost.Cmp(remainingBudget) <= 0 {
			fills = append(fills, Fill{MakerOfferID: best.ID, MakerAccount: best.Account, TakerAccount: taker, Price: best.Price, Quantity: best.Quantity})
			nxfAcquired = nxfAcquired.Add(best.Quantity)
			spent = spent.Add(cost)
			book.asks = book.asks[1:]
			continue
		}
		qty := remainingBudget.MulRate(1_000000, best.Price, model.RoundDown)
		if qty.IsZero() {
			break
		}
		partialCost := qty.MulRate(best.Price, 1_000000, model.RoundUp)
		fills = append(fills, Fill{MakerOfferID: best.ID, MakerAccount: best.Account, TakerAccount: taker, Price: best.Price, Quantity: qty})
		nxfAcquired = nxfAcquired.Add(qty)
		spent = spent.Add(partialCost)
		best.Quantity = best.Quantity.Sub(qty)
		break
	}
	return nxfAcquired, spent, fills
}

// Clone returns a deep copy for invariant-rollback snapshots.
func (ob *OrderBook) Clone() *OrderBook {
	out := &OrderBook{books: make(map[MarketKey]*Book, len(ob.books)), nextSeq: ob.nextSeq}
	for key, book := range ob.books {
		nb := &Book{
			bids: make([]*Offer, len(book.bids)),
			asks: make([]*Offer, len(book.asks)),
		}
		for i, o := range book.bids {
			off := *o
			nb.bids[i] = &off
		}
		for i, o := range book.asks {
			off := *o
			nb.asks[i] = &off
		}
		out.books[key] = nb
	}
	return out
}

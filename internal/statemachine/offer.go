// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package statemachine

import (
	"github.com/nexaflow-ledger/nexaflow-validator/internal/ledger"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/model"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/orderbook"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/txn"
)

func assetKey(a model.Amount) orderbook.AssetKey {
	return orderbook.AssetKey{Currency: a.Currency, Issuer: a.Issuer}
}

// applyOfferCreate implements §4.3.3: submit taker_gets/taker_pays to the
// (base, counter) book as a sell of the base asset, settle every
// immediate fill, and rest the remainder unless the order type forbids it.
func (m *Machine) applyOfferCreate(tx *txn.Transaction, body txn.OfferCreateBody) txn.ResultCode {
	src, code := m.preamble(tx)
	if code != txn.ResultSuccess {
		return code
	}

	base := assetKey(body.TakerGets)
	counter := assetKey(body.TakerPays)
	if base == counter {
		return txn.ResultNoPermission
	}
	bridged := base.Currency != "" && counter.Currency != ""

	getsUnits := body.TakerGets.Value.MicroUnits().Int64()
	if getsUnits == 0 {
		return txn.ResultNoPermission
	}
	price := body.TakerPays.Value.MulRate(1_000000, getsUnits, model.RoundDown).MicroUnits().Int64()

	offerID := body.OfferID
	if offerID == "" {
		offerID = tx.Header.TxID
	}

	ot := orderbook.GTC
	switch {
	case body.FillOrKill:
		ot = orderbook.FOK
	case body.ImmediateOrCancel:
		ot = orderbook.IOC
	}

	// GTC and bridged FOK submissions harvest direct fills via IOC first,
	// deferring resting and the all-or-nothing check until after a bridge
	// attempt, rather than letting Submit rest or reject against the
	// direct book alone.
	directOT := ot
	switch {
	case ot == orderbook.GTC:
		directOT = orderbook.IOC
	case ot == orderbook.FOK && bridged:
		directOT = orderbook.IOC
	}

	fills, remaining := m.ledger.OrderBook.Submit(base, counter, orderbook.Offer{
		ID:       offerID,
		Account:  tx.Header.Account,
		Side:     orderbook.SideSell,
		Price:    price,
		Quantity: body.TakerGets.Value,
	}, directOT)

	if ot == orderbook.FOK && !bridged && len(fills) == 0 && !remaining.IsZero() {
		return txn.ResultUnfunded
	}

	for _, f := range fills {
		counterAmt := f.Quantity.MulRate(f.Price, 1_000000, model.RoundDown)
		if code := m.settleAssetLeg(tx.Header.Account, base, f.Quantity, false); code != txn.ResultSuccess {
			return code
		}
		if code := m.settleAssetLeg(tx.Header.Account, counter, counterAmt, true); code != txn.ResultSuccess {
			return code
		}
		if code := m.settleAssetLeg(f.MakerAccount, base, f.Quantity, true); code != txn.ResultSuccess {
			return code
		}
		if code := m.settleAssetLeg(f.MakerAccount, counter, counterAmt, false); code != txn.ResultSuccess {
			return code
		}
		m.ledger.DeleteOfferMarket(f.MakerOfferID)
	}

	if !remaining.IsZero() && bridged {
		baseLeg, counterLeg, baseSpent, _ := m.ledger.OrderBook.Bridge(tx.Header.Account, base, counter, remaining)
		if !baseSpent.IsZero() {
			if code := m.settleBridgeLeg(tx.Header.Account, base, baseLeg, true); code != txn.ResultSuccess {
				return code
			}
			if code := m.settleBridgeLeg(tx.Header.Account, counter, counterLeg, false); code != txn.ResultSuccess {
				return code
			}
			remaining = remaining.Sub(baseSpent)
		}
	}

	if ot == orderbook.FOK && !remaining.IsZero() {
		return txn.ResultUnfunded
	}

	if !remaining.IsZero() && ot == orderbook.GTC {
		m.ledger.OrderBook.Submit(base, counter, orderbook.Offer{
			ID:       offerID,
			Account:  tx.Header.Account,
			Side:     orderbook.SideSell,
			Price:    price,
			Quantity: remaining,
		}, orderbook.GTC)
		src.OwnerCount++
		src.OpenOfferIDs = append(src.OpenOfferIDs, offerID)
		m.ledger.PutOfferMarket(offerID, ledger.OfferMarket{Base: base, Counter: counter})
		if !m.ledger.MeetsReserve(src) {
			return txn.ResultOwnerReserve
		}
	}

	m.bumpSequence(src, tx.Header)
	return txn.ResultSuccess
}

// applyOfferCancel removes a resting offer, a no-op if it is not found
// (§4.3.3).
func (m *Machine) applyOfferCancel(tx *txn.Transaction, body txn.OfferCancelBody) txn.ResultCode {
	src, code := m.preamble(tx)
	if code != txn.ResultSuccess {
		return code
	}

	mk, ok := m.ledger.GetOfferMarket(body.OfferID)
	if ok {
		if m.ledger.OrderBook.Cancel(mk.Base, mk.Counter, body.OfferID) {
			m.ledger.DeleteOfferMarket(body.OfferID)
			for i, id := range src.OpenOfferIDs {
				if id == body.OfferID {
					src.OpenOfferIDs = append(src.OpenOfferIDs[:i], src.OpenOfferIDs[i+1:]...)
					break
				}
			}
			if src.OwnerCount > 0 {
				src.OwnerCount--
			}
		}
	}
	m.bumpSequence(src, tx.Header)
	return txn.ResultSuccess
}

// settleBridgeLeg settles one leg of an NXF-pivoted OfferCreate fill set
// (§4.3.3 step 2). When takerBuysNative is true, taker is the buyer of
// NXF in this leg (spending other, receiving NXF) and every maker is the
// seller (receiving other, paying NXF); otherwise the roles invert, as
// on the second leg where taker sells the NXF raised by the first.
func (m *Machine) settleBridgeLeg(taker string, other orderbook.AssetKey, fills []orderbook.Fill, takerBuysNative bool) txn.ResultCode {
	for _, f := range fills {
		otherAmt := f.Quantity.MulRate(f.Price, 1_000000, model.RoundDown)
		if code := m.settleAssetLeg(taker, other, otherAmt, !takerBuysNative); code != txn.ResultSuccess {
			return code
		}
		if code := m.settleAssetLeg(taker, orderbook.NXF, f.Quantity, takerBuysNative); code != txn.ResultSuccess {
			return code
		}
		if code := m.settleAssetLeg(f.MakerAccount, other, otherAmt, takerBuysNative); code != txn.ResultSuccess {
			return code
		}
		if code := m.settleAssetLeg(f.MakerAccount, orderbook.NXF, f.Quantity, !takerBuysNative); code != txn.ResultSuccess {
			return code
		}
		m.ledger.DeleteOfferMarket(f.MakerOfferID)
	}
	return txn.ResultSuccess
}

// settleAssetLeg credits or debits one side of a matched fill, routing to
// native balance or a trust line depending on the asset.
func (m *Machine) settleAssetLeg(account string, asset orderbook.AssetKey, amt model.Micro, credit bool) txn.ResultCode {
	a := m.ledger.EnsureAccount(account)
	if asset.Currency == "" {
		if credit {
			a.Balance = a.Balance.Add(amt)
			return txn.ResultSuccess
		}
		if a.Balance.Cmp(amt) < 0 {
			return txn.ResultUnfunded
		}
		a.Balance = a.Balance.Sub(amt)
		return txn.ResultSuccess
	}

	key := model.TrustLineKey{Currency: asset.Currency, Issuer: asset.Issuer}
	line, ok := a.TrustLines[key]
	if !ok {
		if !credit {
			return txn.ResultNoLine
		}
		line = &model.TrustLine{Holder: a.Address, Currency: asset.Currency, Issuer: asset.Issuer}
		a.TrustLines[key] = line
		a.OwnerCount++
	}
	if credit {
		line.Balance = line.Balance.Add(amt)
		return txn.ResultSuccess
	}
	if line.Balance.Cmp(amt) < 0 {
		return txn.ResultUnfunded
	}
	line.Balance = line.Balance.Sub(amt)
	return txn.ResultSuccess
}

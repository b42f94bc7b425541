// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package orderbook

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexaflow-ledger/nexaflow-validator/internal/model"
)

// base/counter chosen so canonicalMarket never flips them, keeping the
// fixtures below straightforward to reason about.
var (
	base    = AssetKey{Currency: "BTC", Issuer: "rIssuer"}
	counter = AssetKey{Currency: "USD", Issuer: "rIssuer"}
)

func qty(units int64) model.Micro { return model.FromMicroUnits(units) }

func TestSubmitGTCRestsUnfilledOffer(t *testing.T) {
	ob := New()
	fills, remaining := ob.Submit(base, counter, Offer{ID: "ask1", Account: "rMaker", Side: SideSell, Price: 100, Quantity: qty(10)}, GTC)
	require.Empty(t, fills)
	require.True(t, remaining.IsZero())
	require.True(t, ob.Cancel(base, counter, "ask1"))
}

func TestSubmitMatchesCrossingPricesFully(t *testing.T) {
	ob := New()
	ob.Submit(base, counter, Offer{ID: "ask1", Account: "rMaker", Side: SideSell, Price: 100, Quantity: qty(10)}, GTC)

	fills, remaining := ob.Submit(base, counter, Offer{ID: "bid1", Account: "rTaker", Side: SideBuy, Price: 100, Quantity: qty(6)}, GTC)
	require.Len(t, fills, 1)
	require.Equal(t, "ask1", fills[0].MakerOfferID)
	require.Equal(t, "rMaker", fills[0].MakerAccount)
	require.Equal(t, "rTaker", fills[0].TakerAccount)
	require.Equal(t, qty(6), fills[0].Quantity)
	require.True(t, remaining.IsZero())
}

func TestSubmitGTCRestsPartialRemainderAfterMatch(t *testing.T) {
	ob := New()
	ob.Submit(base, counter, Offer{ID: "ask1", Account: "rMaker", Side: SideSell, Price: 100, Quantity: qty(4)}, GTC)

	fills, remaining := ob.Submit(base, counter, Offer{ID: "bid1", Account: "rTaker", Side: SideBuy, Price: 100, Quantity: qty(10)}, GTC)
	require.Len(t, fills, 1)
	require.Equal(t, qty(4), fills[0].Quantity)
	require.True(t, remaining.IsZero())
	require.True(t, ob.Cancel(base, counter, "bid1"))
}

func TestSubmitIOCDiscardsUnfilledRemainder(t *testing.T) {
	ob := New()
	ob.Submit(base, counter, Offer{ID: "ask1", Account: "rMaker", Side: SideSell, Price: 100, Quantity: qty(5)}, GTC)

	fills, remaining := ob.Submit(base, counter, Offer{ID: "bid1", Account: "rTaker", Side: SideBuy, Price: 100, Quantity: qty(10)}, IOC)
	require.Len(t, fills, 1)
	require.Equal(t, qty(5), fills[0].Quantity)
	require.Equal(t, qty(5), remaining)
	require.False(t, ob.Cancel(base, counter, "bid1"))
}

func TestSubmitFOKRejectsWhenLiquidityInsufficient(t *testing.T) {
	ob := New()
	ob.Submit(base, counter, Offer{ID: "ask1", Account: "rMaker", Side: SideSell, Price: 100, Quantity: qty(5)}, GTC)

	fills, remaining := ob.Submit(base, counter, Offer{ID: "bid1", Account: "rTaker", Side: SideBuy, Price: 100, Quantity: qty(10)}, FOK)
	require.Empty(t, fills)
	require.Equal(t, qty(10), remaining)
	require.False(t, ob.Cancel(base, counter, "bid1"))
}

func TestSubmitFOKFillsFullyWhenLiquiditySufficient(t *testing.T) {
	ob := New()
	ob.Submit(base, counter, Offer{ID: "ask1", Account: "rMaker", Side: SideSell, Price: 100, Quantity: qty(10)}, GTC)

	fills, remaining := ob.Submit(base, counter, Offer{ID: "bid1", Account: "rTaker", Side: SideBuy, Price: 100, Quantity: qty(10)}, FOK)
	require.Len(t, fills, 1)
	require.Equal(t, qty(10), fills[0].Quantity)
	require.True(t, remaining.IsZero())
}

func TestSubmitDoesNotMatchNonCrossingPrices(t *testing.T) {
	ob := New()
	ob.Submit(base, counter, Offer{ID: "ask1", Account: "rMaker", Side: SideSell, Price: 110, Quantity: qty(10)}, GTC)

	fills, remaining := ob.Submit(base, counter, Offer{ID: "bid1", Account: "rTaker", Side: SideBuy, Price: 100, Quantity: qty(10)}, GTC)
	require.Empty(t, fills)
	require.True(t, remaining.IsZero())
	require.True(t, ob.Cancel(base, counter, "bid1"))
	require.True(t, ob.Cancel(base, counter, "ask1"))
}

func TestSubmitPriceTimePriorityPrefersBestPriceThenEarliestOffer(t *testing.T) {
	ob := New()
	ob.Submit(base, counter, Offer{ID: "ask-cheap", Account: "rCheap", Side: SideSell, Price: 90, Quantity: qty(5)}, GTC)
	ob.Submit(base, counter, Offer{ID: "ask-expensive", Account: "rExpensive", Side: SideSell, Price: 100, Quantity: qty(5)}, GTC)

	fills, _ := ob.Submit(base, counter, Offer{ID: "bid1", Account: "rTaker", Side: SideBuy, Price: 100, Quantity: qty(5)}, GTC)
	require.Len(t, fills, 1)
	require.Equal(t, "ask-cheap", fills[0].MakerOfferID)
}

func TestSubmitSamePriceMatchesEarliestSequenceFirst(t *testing.T) {
	ob := New()
	ob.Submit(base, counter, Offer{ID: "ask-first", Account: "rFirst", Side: SideSell, Price: 100, Quantity: qty(5)}, GTC)
	ob.Submit(base, counter, Offer{ID: "ask-second", Account: "rSecond", Side: SideSell, Price: 100, Quantity: qty(5)}, GTC)

	fills, _ := ob.Submit(base, counter, Offer{ID: "bid1", Account: "rTaker", Side: SideBuy, Price: 100, Quantity: qty(5)}, GTC)
	require.Len(t, fills, 1)
	require.Equal(t, "ask-first", fills[0].MakerOfferID)
}

func TestCancelIsBestEffortForMissingOffer(t *testing.T) {
	ob := New()
	require.False(t, ob.Cancel(base, counter, "missing"))
}

func TestBridgeRoutesThroughNXFWhenNeitherSideIsNative(t *testing.T) {
	ob := New()
	// A maker resting an ask on (NXF, base): sells 100 base-denominated
	// NXF at 2 base per NXF.
	ob.Submit(NXF, base, Offer{ID: "ask-nxf-base", Account: "rMakerBase", Side: SideSell, Price: 2_000000, Quantity: qty(100)}, GTC)
	// A maker resting a bid on (NXF, counter): buys NXF at 0.5 counter per NXF.
	ob.Submit(NXF, counter, Offer{ID: "bid-nxf-counter", Account: "rMakerCounter", Side: SideBuy, Price: 500000, Quantity: qty(25)}, GTC)

	baseLeg, counterLeg, baseSpent, counterRaised := ob.Bridge("rTaker", base, counter, qty(50))

	require.Len(t, baseLeg, 1)
	require.Equal(t, "ask-nxf-base", baseLeg[0].MakerOfferID)
	require.Equal(t, qty(25), baseLeg[0].Quantity)
	require.Equal(t, qty(50), baseSpent)

	require.Len(t, counterLeg, 1)
	require.Equal(t, "bid-nxf-counter", counterLeg[0].MakerOfferID)
	require.Equal(t, qty(25), counterLeg[0].Quantity)
	require.Equal(t, qty(12), counterRaised)

	remainingBaseAsk, _ := ob.bookFor(NXF, base)
	require.Len(t, remainingBaseAsk.asks, 1)
	require.Equal(t, qty(75), remainingBaseAsk.asks[0].Quantity)
}

func TestBridgeProducesNoFillsWhenNXFLegHasNoLiquidity(t *testing.T) {
	ob := New()
	ob.Submit(NXF, counter, Offer{ID: "bid-nxf-counter", Account: "rMakerCounter", Side: SideBuy, Price: 500000, Quantity: qty(25)}, GTC)

	baseLeg, counterLeg, baseSpent, counterRaised := ob.Bridge("rTaker", base, counter, qty(50))
	require.Empty(t, baseLeg)
	require.Empty(t, counterLeg)
	require.True(t, baseSpent.IsZero())
	require.True(t, counterRaised.IsZero())
}

func TestCloneIsIndependentOfOriginalBook(t *testing.T) {
	ob := New()
	ob.Submit(base, counter, Offer{ID: "ask1", Account: "rMaker", Side: SideSell, Price: 100, Quantity: qty(10)}, GTC)

	clone := ob.Clone()
	require.True(t, clone.Cancel(base, counter, "ask1"))
	require.False(t, clone.Cancel(base, counter, "ask1"))
	require.True(t, ob.Cancel(base, counter, "ask1"))
}

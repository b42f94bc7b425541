// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package reporting

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexaflow-ledger/nexaflow-validator/internal/crypto"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/ledger"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/model"
)

func newTestLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	return ledger.New(ledger.Params{
		GenesisAccount: "rGenesis",
		InitialSupply:  model.FromMicroUnits(1_000_000),
		BaseReserve:    model.FromMicroUnits(10_000),
		OwnerInc:       model.FromMicroUnits(2_000),
		Crypto:         crypto.NewSecp256k1Provider(),
	})
}

func TestSummarizeReflectsSupply(t *testing.T) {
	l := newTestLedger(t)
	s := Summarize(l)
	require.Equal(t, model.FromMicroUnits(1_000_000), s.TotalSupply)
	require.Equal(t, 1, s.AccountCount)
}

func TestSummarizeCachedServesSameSequenceFromCache(t *testing.T) {
	l := newTestLedger(t)
	c := NewSummaryCache(4)

	first := c.SummarizeCached(l)
	l.Burn(model.FromMicroUnits(1)) // mutate without closing

	second := c.SummarizeCached(l)
	require.Equal(t, first, second, "same sequence should serve the cached summary, ignoring the post-cache mutation")

	l.Close(100)
	third := c.SummarizeCached(l)
	require.NotEqual(t, first.CurrentSequence, third.CurrentSequence)
}

func TestSummarizeAccountOmitsInternalBookkeeping(t *testing.T) {
	l := newTestLedger(t)
	a, _ := l.GetAccount("rGenesis")
	s := SummarizeAccount(a)
	require.Equal(t, "rGenesis", s.Address)
	require.Equal(t, model.FromMicroUnits(1_000_000), s.Balance)
}

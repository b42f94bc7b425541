// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package oracle

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexaflow-ledger/nexaflow-validator/internal/model"
)

func TestSetAndGetRoundTrip(t *testing.T) {
	m := New()
	ok, _ := m.Set("rProvider", "XRP/USD", model.FromMicroUnits(500_000))
	require.True(t, ok)

	price, found := m.Get("rProvider", "XRP/USD")
	require.True(t, found)
	require.Equal(t, model.FromMicroUnits(500_000), price)
}

func TestSetEnforcesPerProviderFeedLimit(t *testing.T) {
	m := New()
	for i := 0; i < MaxFeedsPerProvider; i++ {
		ok, _ := m.Set("rProvider", fmt.Sprintf("PAIR%d", i), model.FromMicroUnits(1))
		require.True(t, ok)
	}
	ok, msg := m.Set("rProvider", "ONE_TOO_MANY", model.FromMicroUnits(1))
	require.False(t, ok)
	require.Equal(t, "feed limit exceeded", msg)
}

func TestSetUpdatingExistingFeedDoesNotCountAgainstLimit(t *testing.T) {
	m := New()
	for i := 0; i < MaxFeedsPerProvider; i++ {
		m.Set("rProvider", fmt.Sprintf("PAIR%d", i), model.FromMicroUnits(1))
	}
	ok, _ := m.Set("rProvider", "PAIR0", model.FromMicroUnits(2))
	require.True(t, ok)
}

func TestDeleteRemovesFeed(t *testing.T) {
	m := New()
	m.Set("rProvider", "XRP/USD", model.FromMicroUnits(1))
	ok, _ := m.Delete("rProvider", "XRP/USD")
	require.True(t, ok)

	_, found := m.Get("rProvider", "XRP/USD")
	require.False(t, found)
}

func TestDeleteRejectsUnknownFeed(t *testing.T) {
	m := New()
	ok, msg := m.Delete("rProvider", "missing")
	require.False(t, ok)
	require.Equal(t, "no such provider", msg)
}

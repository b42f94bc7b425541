// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package paychan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexaflow-ledger/nexaflow-validator/internal/model"
)

func openChannel() Channel {
	return Channel{
		ID: "c1", Source: "rA", Destination: "rB",
		Allocation: model.FromMicroUnits(1000), SettleDelay: 100,
	}
}

func TestClaimRejectsExceedingAllocation(t *testing.T) {
	m := New()
	m.Create(openChannel())
	ok, msg, _, _ := m.Claim("c1", model.FromMicroUnits(2000), false, 0)
	require.False(t, ok)
	require.Equal(t, "claim exceeds allocation", msg)
}

func TestClaimRejectsDecreasingBalance(t *testing.T) {
	m := New()
	m.Create(openChannel())
	_, _, _, _ = m.Claim("c1", model.FromMicroUnits(500), false, 0)
	ok, msg, _, _ := m.Claim("c1", model.FromMicroUnits(400), false, 0)
	require.False(t, ok)
	require.Equal(t, "claim balance may not decrease", msg)
}

func TestClaimDeltaIsIncremental(t *testing.T) {
	m := New()
	m.Create(openChannel())
	_, _, delta1, dest := m.Claim("c1", model.FromMicroUnits(500), false, 0)
	require.Equal(t, model.FromMicroUnits(500), delta1)
	require.Equal(t, "rB", dest)

	_, _, delta2, _ := m.Claim("c1", model.FromMicroUnits(700), false, 0)
	require.Equal(t, model.FromMicroUnits(200), delta2)
}

func TestCloseRequiresSettleDelayElapsed(t *testing.T) {
	m := New()
	m.Create(openChannel())
	m.Claim("c1", model.FromMicroUnits(300), true, 1000)

	ok, msg, _, _ := m.Close("c1", 1050)
	require.False(t, ok)
	require.Equal(t, "settle delay not elapsed", msg)

	ok, _, remainder, source := m.Close("c1", 1100)
	require.True(t, ok)
	require.Equal(t, model.FromMicroUnits(700), remainder)
	require.Equal(t, "rA", source)
}

func TestFundIncreasesAllocation(t *testing.T) {
	m := New()
	m.Create(openChannel())
	ok, _ := m.Fund("c1", model.FromMicroUnits(500))
	require.True(t, ok)

	c, _ := m.Get("c1")
	require.Equal(t, model.FromMicroUnits(1500), c.Allocation)
}

func TestTotalLockedExcludesClaimedAmounts(t *testing.T) {
	m := New()
	m.Create(openChannel())
	m.Claim("c1", model.FromMicroUnits(400), false, 0)
	require.Equal(t, model.FromMicroUnits(600), m.TotalLocked())
}

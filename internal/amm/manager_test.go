// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package amm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexaflow-ledger/nexaflow-validator/internal/model"
)

func TestCreatePoolRejectsDuplicate(t *testing.T) {
	m := New()
	a1 := model.Native(model.FromMicroUnits(100_000_000))
	a2 := model.Amount{Value: model.FromMicroUnits(100_000_000), Currency: "USD", Issuer: "rIssuer"}

	ok, _, id, lp := m.CreatePool(a1, a2, 30)
	require.True(t, ok)
	require.False(t, lp.IsZero())

	ok, msg, _, _ := m.CreatePool(a1, a2, 30)
	require.False(t, ok)
	require.Equal(t, "pool already exists", msg)
	require.Equal(t, PoolID(a1, a2), id)
}

func TestDepositMintsProportionalLP(t *testing.T) {
	m := New()
	a1 := model.Native(model.FromMicroUnits(100_000_000))
	a2 := model.Amount{Value: model.FromMicroUnits(100_000_000), Currency: "USD", Issuer: "rIssuer"}
	_, _, id, initialLP := m.CreatePool(a1, a2, 30)

	ok, _, minted := m.Deposit(id, model.FromMicroUnits(100_000_000), model.FromMicroUnits(100_000_000))
	require.True(t, ok)
	// Doubling both reserves should roughly double LP (same proportion deposited).
	require.Equal(t, initialLP, minted)
}

func TestWithdrawRejectsExcessLP(t *testing.T) {
	m := New()
	a1 := model.Native(model.FromMicroUnits(100_000_000))
	a2 := model.Amount{Value: model.FromMicroUnits(100_000_000), Currency: "USD", Issuer: "rIssuer"}
	_, _, id, lp := m.CreatePool(a1, a2, 30)

	ok, msg, _, _ := m.Withdraw(id, lp.Add(model.FromMicroUnits(1)))
	require.False(t, ok)
	require.Equal(t, "insufficient LP balance", msg)
}

func TestWithdrawReturnsProportionalReserves(t *testing.T) {
	m := New()
	a1 := model.Native(model.FromMicroUnits(100_000_000))
	a2 := model.Amount{Value: model.FromMicroUnits(100_000_000), Currency: "USD", Issuer: "rIssuer"}
	_, _, id, lp := m.CreatePool(a1, a2, 30)

	ok, _, out1, out2 := m.Withdraw(id, lp)
	require.True(t, ok)
	require.Equal(t, model.FromMicroUnits(100_000_000), out1)
	require.Equal(t, model.FromMicroUnits(100_000_000), out2)
}

func TestDeletePoolRejectsNonEmpty(t *testing.T) {
	m := New()
	a1 := model.Native(model.FromMicroUnits(100_000_000))
	a2 := model.Amount{Value: model.FromMicroUnits(100_000_000), Currency: "USD", Issuer: "rIssuer"}
	_, _, id, _ := m.CreatePool(a1, a2, 30)

	ok, msg := m.DeletePool(id)
	require.False(t, ok)
	require.Equal(t, "pool not empty", msg)
}

func TestTotalCollateralCountsOnlyNativeSide(t *testing.T) {
	m := New()
	a1 := model.Native(model.FromMicroUnits(100_000_000))
	a2 := model.Amount{Value: model.FromMicroUnits(50_000_000), Currency: "USD", Issuer: "rIssuer"}
	m.CreatePool(a1, a2, 30)

	require.Equal(t, model.FromMicroUnits(100_000_000), m.TotalCollateral())
}

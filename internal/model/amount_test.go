// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromStringRoundTrip(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"100", "100.000000"},
		{"100.00001", "100.000010"},
		{"0.000001", "0.000001"},
		{"-5.5", "-5.500000"},
		{"123.4567899", "123.456789"}, // truncated beyond MicroDecimals
	}
	for _, c := range cases {
		m, err := FromString(c.in)
		require.NoError(t, err)
		require.Equal(t, c.want, m.String())
	}
}

func TestFromStringInvalid(t *testing.T) {
	_, err := FromString("not-a-number")
	require.Error(t, err)
}

func TestMicroArithmetic(t *testing.T) {
	a := FromMicroUnits(1_000_000)
	b := FromMicroUnits(250_000)

	require.Equal(t, "1.250000", a.Add(b).String())
	require.Equal(t, "0.750000", a.Sub(b).String())
	require.True(t, a.Cmp(b) > 0)
	require.True(t, Zero().IsZero())
	require.True(t, a.Neg().IsNegative())
	require.Equal(t, b, Min(a, b))
	require.Equal(t, a, Max(a, b))
}

func TestMulRateRoundingPreservesConservation(t *testing.T) {
	principal := FromMicroUnits(1_000_001) // deliberately not a multiple of 3
	down := principal.MulRate(1, 3, RoundDown)
	up := principal.MulRate(1, 3, RoundUp)

	// RoundDown truncates, RoundUp rounds away from zero: the two must
	// differ by at most one micro-unit whenever the division is inexact.
	diff := up.Sub(down)
	require.True(t, diff.Cmp(Zero()) >= 0)
	require.True(t, diff.Cmp(FromMicroUnits(1)) <= 0)
}

func TestMulRateExactDivisionRoundingAgrees(t *testing.T) {
	principal := FromMicroUnits(9_000_000)
	down := principal.MulRate(1, 3, RoundDown)
	up := principal.MulRate(1, 3, RoundUp)
	require.Equal(t, down, up)
	require.Equal(t, FromMicroUnits(3_000_000), down)
}

func TestAmountIsNative(t *testing.T) {
	native := Native(FromMicroUnits(1))
	require.True(t, native.IsNative())

	iou := Amount{Value: FromMicroUnits(1), Currency: "USD", Issuer: "rIssuer"}
	require.False(t, iou.IsNative())
}

// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveAddressDeterministicAndPrefixed(t *testing.T) {
	p := NewSecp256k1Provider()
	_, pub, err := p.Keypair()
	require.NoError(t, err)

	a1 := DeriveAddress(p, pub)
	a2 := DeriveAddress(p, pub)
	require.Equal(t, a1, a2)
	require.True(t, len(a1) > 1)
	require.Equal(t, byte('r'), a1[0])
}

func TestDeriveAddressDiffersAcrossKeys(t *testing.T) {
	p := NewSecp256k1Provider()
	_, pub1, err := p.Keypair()
	require.NoError(t, err)
	_, pub2, err := p.Keypair()
	require.NoError(t, err)

	require.NotEqual(t, DeriveAddress(p, pub1), DeriveAddress(p, pub2))
}

// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package crypto

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHash256Deterministic(t *testing.T) {
	p := NewSecp256k1Provider()
	a := p.Hash256([]byte("hello"))
	b := p.Hash256([]byte("hello"))
	require.Equal(t, a, b)

	c := p.Hash256([]byte("hello!"))
	require.NotEqual(t, a, c)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	p := NewSecp256k1Provider()
	priv, pub, err := p.Keypair()
	require.NoError(t, err)

	digest := p.Hash256([]byte("a transaction preimage"))
	sig, err := p.Sign(priv, digest[:])
	require.NoError(t, err)
	require.True(t, p.Verify(pub, digest[:], sig))
}

func TestVerifyRejectsTamperedDigest(t *testing.T) {
	p := NewSecp256k1Provider()
	priv, pub, err := p.Keypair()
	require.NoError(t, err)

	digest := p.Hash256([]byte("original"))
	sig, err := p.Sign(priv, digest[:])
	require.NoError(t, err)

	other := p.Hash256([]byte("tampered"))
	require.False(t, p.Verify(pub, other[:], sig))
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	p := NewSecp256k1Provider()
	priv1, _, err := p.Keypair()
	require.NoError(t, err)
	_, pub2, err := p.Keypair()
	require.NoError(t, err)

	digest := p.Hash256([]byte("msg"))
	sig, err := p.Sign(priv1, digest[:])
	require.NoError(t, err)
	require.False(t, p.Verify(pub2, digest[:], sig))
}

func TestVerifyNeverPanicsOnMalformedInput(t *testing.T) {
	p := NewSecp256k1Provider()
	require.False(t, p.Verify(nil, nil, nil))
	require.False(t, p.Verify([]byte("garbage"), make([]byte, 32), []byte("garbage")))
}

func TestRingSignVerifyRoundTrip(t *testing.T) {
	p := NewSecp256k1Provider()
	const ringSize = 4
	privs := make([][]byte, ringSize)
	pubs := make([][]byte, ringSize)
	for i := 0; i < ringSize; i++ {
		priv, pub, err := p.Keypair()
		require.NoError(t, err)
		privs[i] = priv
		pubs[i] = pub
	}

	message := []byte("confidential payment preimage")
	signerIndex := 2
	sig, keyImage, err := p.RingSign(message, privs[signerIndex], pubs, signerIndex)
	require.NoError(t, err)
	require.NotEmpty(t, keyImage)
	require.True(t, p.RingVerify(sig, message))
}

func TestRingVerifyRejectsWrongMessage(t *testing.T) {
	p := NewSecp256k1Provider()
	privs := make([][]byte, 3)
	pubs := make([][]byte, 3)
	for i := range privs {
		priv, pub, err := p.Keypair()
		require.NoError(t, err)
		privs[i] = priv
		pubs[i] = pub
	}
	sig, _, err := p.RingSign([]byte("real message"), privs[0], pubs, 0)
	require.NoError(t, err)
	require.False(t, p.RingVerify(sig, []byte("different message")))
}

func TestRingSignKeyImageStableForSameSigner(t *testing.T) {
	p := NewSecp256k1Provider()
	priv, pub, err := p.Keypair()
	require.NoError(t, err)
	_, pub2, err := p.Keypair()
	require.NoError(t, err)
	ring := [][]byte{pub, pub2}

	_, ki1, err := p.RingSign([]byte("m1"), priv, ring, 0)
	require.NoError(t, err)
	_, ki2, err := p.RingSign([]byte("m2"), priv, ring, 0)
	require.NoError(t, err)
	require.True(t, bytes.Equal(ki1, ki2))
}

func TestPedersenCommitDeterministicForSameInputs(t *testing.T) {
	p := NewSecp256k1Provider()
	blinding := make([]byte, 32)
	_, err := rand.Read(blinding)
	require.NoError(t, err)

	c1, err := p.PedersenCommit(100, blinding)
	require.NoError(t, err)
	c2, err := p.PedersenCommit(100, blinding)
	require.NoError(t, err)
	require.True(t, bytes.Equal(c1, c2))

	c3, err := p.PedersenCommit(101, blinding)
	require.NoError(t, err)
	require.False(t, bytes.Equal(c1, c3))
}

func TestRangeProveVerifyRoundTrip(t *testing.T) {
	p := NewSecp256k1Provider()
	blinding := make([]byte, 32)
	_, err := rand.Read(blinding)
	require.NoError(t, err)

	const value = int64(12345)
	commitment, err := p.PedersenCommit(value, blinding)
	require.NoError(t, err)

	proof, err := p.RangeProve(value, blinding)
	require.NoError(t, err)
	require.True(t, p.RangeVerify(proof, commitment))
}

func TestRangeProveRejectsNegativeValue(t *testing.T) {
	p := NewSecp256k1Provider()
	blinding := make([]byte, 32)
	_, err := rand.Read(blinding)
	require.NoError(t, err)
	_, err = p.RangeProve(-1, blinding)
	require.Error(t, err)
}

func TestStealthGenerateRecoverRoundTrip(t *testing.T) {
	p := NewSecp256k1Provider()
	viewPriv, viewPub, err := p.Keypair()
	require.NoError(t, err)
	_, spendPub, err := p.Keypair()
	require.NoError(t, err)

	oneTime, ephemeral, tag, _, err := p.StealthGenerate(viewPub, spendPub)
	require.NoError(t, err)

	recovered, ok := p.StealthRecover(viewPriv, spendPub, ephemeral, tag)
	require.True(t, ok)
	require.True(t, bytes.Equal(oneTime, recovered))
}

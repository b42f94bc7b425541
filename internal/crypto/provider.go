// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package crypto defines the cryptographic-primitives contract the core
// consumes (§4.1) and a reference implementation over secp256k1. The core
// never dictates how Provider is implemented internally — a validator may
// swap in a hardware-backed or audited implementation without touching the
// state machine, ledger closer or consensus engine.
package crypto

// Provider is the cryptographic-primitives contract required by §4.1.
// Every verification method returns a plain bool: the core never panics
// or throws on malformed or adversarial input, it only ever gets a
// deterministic yes/no.
type Provider interface {
	Keypair() (priv, pub []byte, err error)
	Sign(priv, digest32 []byte) (sig []byte, err error)
	Verify(pub, digest32, sig []byte) bool

	Hash256(data []byte) [32]byte

	PedersenCommit(value int64, blinding32 []byte) ([]byte, error)

	StealthGenerate(viewPub, spendPub []byte) (oneTimeAddr, ephemeralPub []byte, viewTag byte, sharedSecret []byte, err error)
	StealthRecover(viewPriv, spendPub, ephemeralPub []byte, viewTag byte) (oneTimeAddr []byte, ok bool)

	RingSign(message []byte, signerPriv []byte, ringPubs [][]byte, signerIndex int) (sig []byte, keyImage []byte, err error)
	RingVerify(sig []byte, message []byte) bool

	RangeProve(value int64, blinding32 []byte) ([]byte, error)
	RangeVerify(proof []byte, commitment []byte) bool
}

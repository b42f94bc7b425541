// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package crypto

import "github.com/mr-tron/base58"

// addressVersion tags every derived address as belonging to this network,
// the way XRPL reserves byte 0x00 for classic accounts.
const addressVersion byte = 0x00

// DeriveAddress derives the base58, checksum-protected account address
// for a public key, for operator tooling and wallet integrations that
// need a human-typeable form of an on-ledger account (§3's Account.Address
// is an opaque string everywhere inside the ledger; this is the one place
// that string is manufactured from a key rather than taken from config or
// a counterparty). Not consensus-critical: the state machine never calls
// this, it only ever compares the strings accounts already carry.
func DeriveAddress(provider Provider, pub []byte) string {
	pubHash := provider.Hash256(pub)
	payload := append([]byte{addressVersion}, pubHash[:20]...)
	payloadHash := provider.Hash256(payload)
	checksum := provider.Hash256(payloadHash[:])
	full := append(payload, checksum[:4]...)
	return "r" + base58.Encode(full)
}

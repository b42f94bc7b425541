// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package xchain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexaflow-ledger/nexaflow-validator/internal/model"
)

func TestCreateBridgeRejectsDuplicate(t *testing.T) {
	m := New()
	ok, _ := m.CreateBridge(Bridge{ID: "b1"})
	require.True(t, ok)

	ok, msg := m.CreateBridge(Bridge{ID: "b1"})
	require.False(t, ok)
	require.Equal(t, "bridge already exists", msg)
}

func TestClaimRejectsReplayedAttestation(t *testing.T) {
	m := New()
	m.CreateBridge(Bridge{ID: "b1"})

	ok, _ := m.Claim("b1", "att1", "rDest", model.FromMicroUnits(100))
	require.True(t, ok)

	ok, msg := m.Claim("b1", "att1", "rDest", model.FromMicroUnits(100))
	require.False(t, ok)
	require.Equal(t, "attestation already claimed", msg)
}

func TestClaimRejectsUnknownBridge(t *testing.T) {
	m := New()
	ok, msg := m.Claim("missing", "att1", "rDest", model.FromMicroUnits(100))
	require.False(t, ok)
	require.Equal(t, "no such bridge", msg)
}

func TestClaimAllowsSameAttestationOnDifferentBridge(t *testing.T) {
	m := New()
	m.CreateBridge(Bridge{ID: "b1"})
	m.CreateBridge(Bridge{ID: "b2"})

	m.Claim("b1", "att1", "rDest", model.FromMicroUnits(100))
	ok, _ := m.Claim("b2", "att1", "rDest", model.FromMicroUnits(100))
	require.True(t, ok)
}

// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package mpt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexaflow-ledger/nexaflow-validator/internal/model"
)

func TestCreateRejectsDuplicateID(t *testing.T) {
	m := New()
	ok, _ := m.Create("tok1", "rIssuer", model.FromMicroUnits(1_000_000))
	require.True(t, ok)

	ok, msg := m.Create("tok1", "rOther", model.FromMicroUnits(1))
	require.False(t, ok)
	require.Equal(t, "token already exists", msg)
}

func TestIssueRejectsExceedingMaxSupply(t *testing.T) {
	m := New()
	m.Create("tok1", "rIssuer", model.FromMicroUnits(100))

	ok, _ := m.Issue("tok1", model.FromMicroUnits(60))
	require.True(t, ok)

	ok, msg := m.Issue("tok1", model.FromMicroUnits(50))
	require.False(t, ok)
	require.Equal(t, "exceeds max supply", msg)
}

func TestIssueUpToExactMaxSupplySucceeds(t *testing.T) {
	m := New()
	m.Create("tok1", "rIssuer", model.FromMicroUnits(100))
	ok, _ := m.Issue("tok1", model.FromMicroUnits(100))
	require.True(t, ok)
}

func TestAuthorizeRequiresExistingToken(t *testing.T) {
	m := New()
	ok, msg := m.Authorize("missing", "rHolder")
	require.False(t, ok)
	require.Equal(t, "no such token", msg)
}

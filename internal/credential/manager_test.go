// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package credential

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateRejectsDuplicate(t *testing.T) {
	m := New()
	ok, _ := m.Create("rIssuer", "rSubject", "kyc")
	require.True(t, ok)

	ok, msg := m.Create("rIssuer", "rSubject", "kyc")
	require.False(t, ok)
	require.Equal(t, "credential already exists", msg)
}

func TestAcceptRequiresExistingCredential(t *testing.T) {
	m := New()
	ok, msg := m.Accept("rIssuer", "rSubject", "kyc")
	require.False(t, ok)
	require.Equal(t, "no such credential", msg)

	m.Create("rIssuer", "rSubject", "kyc")
	ok, _ = m.Accept("rIssuer", "rSubject", "kyc")
	require.True(t, ok)
}

func TestDifferentCredTypesAreIndependent(t *testing.T) {
	m := New()
	m.Create("rIssuer", "rSubject", "kyc")
	ok, _ := m.Create("rIssuer", "rSubject", "aml")
	require.True(t, ok)
}

func TestDeleteRemovesCredential(t *testing.T) {
	m := New()
	m.Create("rIssuer", "rSubject", "kyc")
	ok, _ := m.Delete("rIssuer", "rSubject", "kyc")
	require.True(t, ok)

	ok, _ = m.Accept("rIssuer", "rSubject", "kyc")
	require.False(t, ok)
}

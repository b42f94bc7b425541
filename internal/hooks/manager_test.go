// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package hooks

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInvokeWithNoHookInstalledPasses(t *testing.T) {
	m := New()
	ok, _ := m.Invoke("rA")
	require.True(t, ok)
}

func TestInvokeRejectSentinelFails(t *testing.T) {
	m := New()
	m.Install("rA", "reject")
	ok, msg := m.Invoke("rA")
	require.False(t, ok)
	require.Equal(t, "rejected by hook", msg)
}

func TestInvokeOtherReferencePasses(t *testing.T) {
	m := New()
	m.Install("rA", "some-hook-hash")
	ok, _ := m.Invoke("rA")
	require.True(t, ok)
}

func TestUninstallRequiresExisting(t *testing.T) {
	m := New()
	ok, msg := m.Uninstall("rA")
	require.False(t, ok)
	require.Equal(t, "no hook installed", msg)

	m.Install("rA", "reject")
	ok, _ = m.Uninstall("rA")
	require.True(t, ok)

	ok, _ = m.Invoke("rA")
	require.True(t, ok)
}

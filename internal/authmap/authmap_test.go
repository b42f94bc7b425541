// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package authmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootHashOrderIndependent(t *testing.T) {
	a := New()
	a.Insert(KeyFromString("tx1"), []byte("v1"))
	a.Insert(KeyFromString("tx2"), []byte("v2"))
	a.Insert(KeyFromString("tx3"), []byte("v3"))

	b := New()
	b.Insert(KeyFromString("tx3"), []byte("v3"))
	b.Insert(KeyFromString("tx1"), []byte("v1"))
	b.Insert(KeyFromString("tx2"), []byte("v2"))

	require.Equal(t, a.RootHash(), b.RootHash())
}

func TestRootHashSensitiveToContent(t *testing.T) {
	a := New()
	a.Insert(KeyFromString("tx1"), []byte("v1"))

	b := New()
	b.Insert(KeyFromString("tx1"), []byte("v2"))

	require.NotEqual(t, a.RootHash(), b.RootHash())
}

func TestOverwriteReplacesValue(t *testing.T) {
	a := New()
	a.Insert(KeyFromString("k"), []byte("first"))
	a.Insert(KeyFromString("k"), []byte("second"))
	require.Equal(t, 1, a.Len())

	b := New()
	b.Insert(KeyFromString("k"), []byte("second"))
	require.Equal(t, a.RootHash(), b.RootHash())
}

func TestEmptyMapIsDeterministic(t *testing.T) {
	require.Equal(t, New().RootHash(), New().RootHash())
}

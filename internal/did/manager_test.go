// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package did

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetCreateRejectsExisting(t *testing.T) {
	m := New()
	ok, _ := m.Set("rA", []byte("doc1"), true)
	require.True(t, ok)

	ok, msg := m.Set("rA", []byte("doc2"), true)
	require.False(t, ok)
	require.Equal(t, "did already exists", msg)
}

func TestSetUpdateReplacesDocument(t *testing.T) {
	m := New()
	m.Set("rA", []byte("doc1"), true)
	ok, _ := m.Set("rA", []byte("doc2"), false)
	require.True(t, ok)

	doc, _ := m.Get("rA")
	require.Equal(t, []byte("doc2"), doc)
}

func TestDeleteRejectsMissing(t *testing.T) {
	m := New()
	ok, msg := m.Delete("rA")
	require.False(t, ok)
	require.Equal(t, "no such did", msg)
}

func TestCloneIsIndependentOfMutation(t *testing.T) {
	m := New()
	m.Set("rA", []byte("doc1"), true)
	clone := m.Clone()
	m.Set("rA", []byte("doc2"), false)

	doc, _ := clone.Get("rA")
	require.Equal(t, []byte("doc1"), doc)
}

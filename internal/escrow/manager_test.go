// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package escrow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexaflow-ledger/nexaflow-validator/internal/model"
)

func TestFinishRejectsBeforeFinishAfter(t *testing.T) {
	m := New()
	m.Create(Entry{ID: "e1", Creator: "rA", Destination: "rB", Amount: model.FromMicroUnits(100), FinishAfter: 1000})

	ok, msg, _, _ := m.Finish("rA", "e1", 500, nil)
	require.False(t, ok)
	require.Equal(t, "not ready", msg)
}

func TestFinishSucceedsAfterFinishAfterWithNoCondition(t *testing.T) {
	m := New()
	m.Create(Entry{ID: "e1", Creator: "rA", Destination: "rB", Amount: model.FromMicroUnits(100), FinishAfter: 1000})

	ok, _, amount, dest := m.Finish("rA", "e1", 1000, nil)
	require.True(t, ok)
	require.Equal(t, model.FromMicroUnits(100), amount)
	require.Equal(t, "rB", dest)

	_, found := m.Get("rA", "e1")
	require.False(t, found)
}

func TestFinishRejectsWrongFulfillment(t *testing.T) {
	m := New()
	m.Create(Entry{ID: "e1", Creator: "rA", Destination: "rB", Amount: model.FromMicroUnits(100), Condition: []byte("secret")})

	ok, msg, _, _ := m.Finish("rA", "e1", 0, []byte("wrong"))
	require.False(t, ok)
	require.Equal(t, "bad condition", msg)
}

func TestCancelRequiresCancelAfterSet(t *testing.T) {
	m := New()
	m.Create(Entry{ID: "e1", Creator: "rA", Destination: "rB", Amount: model.FromMicroUnits(100)})

	ok, msg, _, _ := m.Cancel("rA", "e1", 1_000_000)
	require.False(t, ok)
	require.Equal(t, "not cancelable yet", msg)
}

func TestCancelReturnsToCreator(t *testing.T) {
	m := New()
	m.Create(Entry{ID: "e1", Creator: "rA", Destination: "rB", Amount: model.FromMicroUnits(100), CancelAfter: 500})

	ok, _, amount, creator := m.Cancel("rA", "e1", 500)
	require.True(t, ok)
	require.Equal(t, model.FromMicroUnits(100), amount)
	require.Equal(t, "rA", creator)
}

func TestGetRejectsWrongOwner(t *testing.T) {
	m := New()
	m.Create(Entry{ID: "e1", Creator: "rA", Destination: "rB", Amount: model.FromMicroUnits(100)})
	_, found := m.Get("rC", "e1")
	require.False(t, found)
}

func TestTotalLockedSumsOpenEscrows(t *testing.T) {
	m := New()
	m.Create(Entry{ID: "e1", Creator: "rA", Amount: model.FromMicroUnits(100)})
	m.Create(Entry{ID: "e2", Creator: "rA", Amount: model.FromMicroUnits(200)})
	require.Equal(t, model.FromMicroUnits(300), m.TotalLocked())
}

func TestCloneIsIndependent(t *testing.T) {
	m := New()
	m.Create(Entry{ID: "e1", Creator: "rA", Amount: model.FromMicroUnits(100)})
	clone := m.Clone()
	m.Create(Entry{ID: "e2", Creator: "rA", Amount: model.FromMicroUnits(200)})

	require.Equal(t, model.FromMicroUnits(100), clone.TotalLocked())
	require.Equal(t, model.FromMicroUnits(300), m.TotalLocked())
}

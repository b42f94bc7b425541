// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// memStore is a trivial in-memory Store used only to confirm the
// interface's contract is satisfiable and exercised the way collaborators
// are expected to implement it.
type memStore struct {
	data map[string][]byte
}

func newMemStore() *memStore { return &memStore{data: make(map[string][]byte)} }

func (s *memStore) Put(_ context.Context, key string, value []byte) error {
	s.data[key] = value
	return nil
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memStore) Scan(_ context.Context, prefix string) ([]KV, error) {
	var out []KV
	for k, v := range s.data {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			out = append(out, KV{Key: k, Value: v})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

var _ Store = (*memStore)(nil)

func TestStorePutGetRoundTrip(t *testing.T) {
	s := newMemStore()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Put(ctx, "k1", []byte("v1")))
	v, ok, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v1"), v)
}

func TestStoreScanReturnsKeySortedPrefixMatches(t *testing.T) {
	s := newMemStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "ledger/2", []byte("b")))
	require.NoError(t, s.Put(ctx, "ledger/1", []byte("a")))
	require.NoError(t, s.Put(ctx, "account/rA", []byte("c")))

	kvs, err := s.Scan(ctx, "ledger/")
	require.NoError(t, err)
	require.Len(t, kvs, 2)
	require.Equal(t, "ledger/1", kvs[0].Key)
	require.Equal(t, "ledger/2", kvs[1].Key)
}

func TestErrNotFoundMessage(t *testing.T) {
	require.Equal(t, "storage: key not found", ErrNotFound.Error())
}

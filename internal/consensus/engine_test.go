// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package consensus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexaflow-ledger/nexaflow-validator/internal/crypto"
)

type validatorSet struct {
	ids   []string
	privs map[string][]byte
	pubs  map[string][]byte
}

func buildValidators(t *testing.T, provider crypto.Provider, n int) validatorSet {
	t.Helper()
	vs := validatorSet{privs: map[string][]byte{}, pubs: map[string][]byte{}}
	for i := 0; i < n; i++ {
		id := string(rune('a' + i))
		priv, pub, err := provider.Keypair()
		require.NoError(t, err)
		vs.ids = append(vs.ids, id)
		vs.privs[id] = priv
		vs.pubs[id] = pub
	}
	return vs
}

func newEngine(t *testing.T, provider crypto.Provider, myID string, vs validatorSet) *Engine {
	t.Helper()
	unl := make([]string, 0, len(vs.ids))
	for _, id := range vs.ids {
		if id != myID {
			unl = append(unl, id)
		}
	}
	return New(Config{
		MyID:      myID,
		MyPrivKey: vs.privs[myID],
		UNL:       unl,
		UNLPubkey: vs.pubs,
		Crypto:    provider,
	})
}

func signedProposal(provider crypto.Provider, priv []byte, validatorID string, seq, round uint32, txIDs []string) *Proposal {
	p := &Proposal{ValidatorID: validatorID, LedgerSeq: seq, RoundNumber: round, TxIDs: txIDs}
	_ = p.Sign(provider, priv)
	return p
}

func TestConsensusReachesAgreementWithAllHonest(t *testing.T) {
	provider := crypto.NewSecp256k1Provider()
	vs := buildValidators(t, provider, 4)
	e := newEngine(t, provider, "a", vs)

	txIDs := []string{"tx1", "tx2"}
	e.SubmitTransactions(1, txIDs)
	for _, id := range vs.ids[1:] {
		e.AddProposal(signedProposal(provider, vs.privs[id], id, 1, 0, txIDs))
	}

	result, ok := e.RunRounds(context.Background(), 1)
	require.True(t, ok)
	require.ElementsMatch(t, txIDs, result.Agreed)
	require.Equal(t, 0, result.ByzantineCount)
}

func TestEquivocationMarksByzantineAndDropsVote(t *testing.T) {
	provider := crypto.NewSecp256k1Provider()
	vs := buildValidators(t, provider, 4)
	e := newEngine(t, provider, "a", vs)

	first := signedProposal(provider, vs.privs["b"], "b", 1, 0, []string{"tx1"})
	second := signedProposal(provider, vs.privs["b"], "b", 1, 0, []string{"tx2"})

	require.True(t, e.AddProposal(first))
	require.False(t, e.AddProposal(second))
	require.Contains(t, e.ByzantineValidators(), "b")
}

func TestInvalidSignatureQuarantinesSender(t *testing.T) {
	provider := crypto.NewSecp256k1Provider()
	vs := buildValidators(t, provider, 3)
	e := newEngine(t, provider, "a", vs)

	bad := &Proposal{ValidatorID: "b", LedgerSeq: 1, RoundNumber: 0, TxIDs: []string{"tx1"}, Signature: []byte("not-a-signature")}
	require.False(t, e.AddProposal(bad))
	require.Contains(t, e.ByzantineValidators(), "b")
}

func TestMissingSignatureQuarantinesSender(t *testing.T) {
	provider := crypto.NewSecp256k1Provider()
	vs := buildValidators(t, provider, 3)
	e := newEngine(t, provider, "a", vs)

	bad := &Proposal{ValidatorID: "b", LedgerSeq: 1, RoundNumber: 0, TxIDs: []string{"tx1"}}
	require.False(t, e.AddProposal(bad))
	require.Contains(t, e.ByzantineValidators(), "b")
}

func TestUnregisteredValidatorSkipsSignatureCheck(t *testing.T) {
	provider := crypto.NewSecp256k1Provider()
	vs := buildValidators(t, provider, 2)
	e := newEngine(t, provider, "a", vs)

	unregistered := &Proposal{ValidatorID: "stranger", LedgerSeq: 1, RoundNumber: 0, TxIDs: []string{"tx1"}}
	require.True(t, e.AddProposal(unregistered))
	require.NotContains(t, e.ByzantineValidators(), "stranger")
}

// TestConsensusScenarioSixEquivocatorAmongFour mirrors §8 scenario 6:
// UNL = {v1,v2,v3,v4}, v2 equivocates at round 0; consensus should still
// reach a unanimous agreed set among the three honest validators with a
// byzantine_count of 1.
func TestConsensusScenarioSixEquivocatorAmongFour(t *testing.T) {
	provider := crypto.NewSecp256k1Provider()
	ids := []string{"v1", "v2", "v3", "v4"}
	vs := validatorSet{privs: map[string][]byte{}, pubs: map[string][]byte{}}
	for _, id := range ids {
		priv, pub, err := provider.Keypair()
		require.NoError(t, err)
		vs.ids = append(vs.ids, id)
		vs.privs[id] = priv
		vs.pubs[id] = pub
	}
	e := newEngine(t, provider, "v1", vs)

	txIDs := []string{"txA", "txB"}
	e.SubmitTransactions(1, txIDs)
	e.AddProposal(signedProposal(provider, vs.privs["v2"], "v2", 1, 0, []string{"different"}))
	e.AddProposal(signedProposal(provider, vs.privs["v2"], "v2", 1, 0, []string{"other"}))
	e.AddProposal(signedProposal(provider, vs.privs["v3"], "v3", 1, 0, txIDs))
	e.AddProposal(signedProposal(provider, vs.privs["v4"], "v4", 1, 0, txIDs))

	result, ok := e.RunRounds(context.Background(), 1)
	require.True(t, ok)
	require.ElementsMatch(t, txIDs, result.Agreed)
	require.Equal(t, 1, result.ByzantineCount)
}

func TestRunRoundsNoResultWhenNoProposals(t *testing.T) {
	provider := crypto.NewSecp256k1Provider()
	vs := buildValidators(t, provider, 4)
	e := newEngine(t, provider, "a", vs)

	_, ok := e.RunRounds(context.Background(), 1)
	require.False(t, ok)
}

func TestMaxByzantineFaultsFormula(t *testing.T) {
	provider := crypto.NewSecp256k1Provider()
	vs := buildValidators(t, provider, 4) // n = 3 unl members + self = 4
	e := newEngine(t, provider, "a", vs)
	require.Equal(t, 1, e.MaxByzantineFaults()) // floor((4-1)/3) = 1
}

// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package consensus

import (
	"context"
	"sort"

	"github.com/luxfi/log"

	"github.com/nexaflow-ledger/nexaflow-validator/internal/crypto"
)

const (
	initialThreshold = 0.50
	finalThreshold   = 0.80
	maxRounds        = 10
)

var thresholdStep = (finalThreshold - initialThreshold) / float64(maxRounds-1)

// RoundStats records one round's outcome for diagnostics and metrics.
type RoundStats struct {
	Round          uint32
	Threshold      float64
	AgreedCount    int
	EffectiveTotal int
	ByzantineCount int
}

// Result is the outcome of a successful run_rounds call (§4.5).
type Result struct {
	Agreed         []string
	Round          uint32
	Threshold      float64
	Total          int
	ByzantineCount int
}

// Engine runs one validator's view of the bounded voting protocol. It
// holds no ledger reference: callers feed it the candidate tx_ids and
// consume the agreed set, keeping consensus decoupled from application
// the way §5 separates ingress, rounds and state-machine apply into
// independent activities.
type Engine struct {
	myID      string
	myPrivKey []byte
	unl       []string
	unlPubkey map[string][]byte
	crypto    crypto.Provider
	log       log.Logger

	proposals   map[proposalKey]map[string]*Proposal
	byzantine   map[string]bool
	negativeUNL map[string]bool

	history []RoundStats
}

// Config seeds a freshly constructed Engine from §6.5's validator
// identity and UNL configuration.
type Config struct {
	MyID      string
	MyPrivKey []byte
	UNL       []string
	UNLPubkey map[string][]byte
	Crypto    crypto.Provider
	Log       log.Logger
}

// New returns an Engine for one validator.
func New(c Config) *Engine {
	lg := c.Log
	if lg == nil {
		lg = log.NoLog{}
	}
	pub := c.UNLPubkey
	if pub == nil {
		pub = make(map[string][]byte)
	}
	return &Engine{
		myID:        c.MyID,
		myPrivKey:   c.MyPrivKey,
		unl:         append([]string(nil), c.UNL...),
		unlPubkey:   pub,
		crypto:      c.Crypto,
		log:         lg,
		proposals:   make(map[proposalKey]map[string]*Proposal),
		byzantine:   make(map[string]bool),
		negativeUNL: make(map[string]bool),
	}
}

// n is the effective validator-set size including self, used for the
// Byzantine fault bound f = floor((n-1)/3).
func (e *Engine) n() int { return len(e.unl) + 1 }

// MaxByzantineFaults returns f for the configured UNL size.
func (e *Engine) MaxByzantineFaults() int { return (e.n() - 1) / 3 }

// ByzantineValidators returns the current set of equivocators/bad-sig
// senders, sorted for determinism.
func (e *Engine) ByzantineValidators() []string { return sortedKeys(e.byzantine) }

// NegativeUNL returns the current set of validators excluded from the
// quorum denominator, sorted for determinism.
func (e *Engine) NegativeUNL() []string { return sortedKeys(e.negativeUNL) }

// History returns every round's recorded statistics in chronological
// order, consumed by internal/reporting and internal/metrics.
func (e *Engine) History() []RoundStats { return e.history }

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// SubmitTransactions sets this validator's round-0 candidate set and
// emits the resulting self-signed Proposal (§4.5 submit_transactions).
func (e *Engine) SubmitTransactions(seq uint32, txIDs []string) *Proposal {
	p := &Proposal{ValidatorID: e.myID, LedgerSeq: seq, RoundNumber: 0, TxIDs: txIDs}
	if e.myPrivKey != nil {
		_ = p.Sign(e.crypto, e.myPrivKey)
	}
	e.AddProposal(p)
	return p
}

// AddProposal implements §4.5's add_proposal: signature discipline,
// equivocation detection, then insertion, returning whether the proposal
// was accepted into the engine's bookkeeping.
func (e *Engine) AddProposal(p *Proposal) bool {
	if pub, known := e.unlPubkey[p.ValidatorID]; known {
		if len(p.Signature) == 0 || !p.verify(e.crypto, pub) {
			e.log.Warn("rejecting proposal with missing or invalid signature",
				log.String("validator", p.ValidatorID))
			e.byzantine[p.ValidatorID] = true
			return false
		}
	}

	key := proposalKey{seq: p.LedgerSeq, round: p.RoundNumber}
	byValidator, ok := e.proposals[key]
	if !ok {
		byValidator = make(map[string]*Proposal)
		e.proposals[key] = byValidator
	}

	if prior, exists := byValidator[p.ValidatorID]; exists {
		if prior.Hash(e.crypto) != p.Hash(e.crypto) {
			e.log.Warn("equivocating proposal detected",
				log.String("validator", p.ValidatorID),
				log.Uint32("seq", p.LedgerSeq),
				log.Uint32("round", p.RoundNumber),
			)
			e.byzantine[p.ValidatorID] = true
			delete(byValidator, p.ValidatorID)
			return false
		}
	}

	byValidator[p.ValidatorID] = p
	return true
}

// RunRounds implements §4.5's run_rounds: escalating-threshold rounds up
// to maxRounds, producing a new self-proposal between rounds from the
// best agreed set so far. ctx cancellation aborts the current wait and
// returns the best result available, or ok=false if none exists yet.
func (e *Engine) RunRounds(ctx context.Context, seq uint32) (*Result, bool) {
	myTxIDs := e.candidateAt(seq, 0)

	for round := uint32(0); round < maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			e.log.Info("consensus round cancelled", log.Uint32("round", round))
			return e.finalAttempt(seq, round)
		}

		threshold := thresholdAt(round)
		agreed, effectiveTotal := e.computeAgreement(seq, round, threshold)
		e.history = append(e.history, RoundStats{
			Round:          round,
			Threshold:      threshold,
			AgreedCount:    len(agreed),
			EffectiveTotal: effectiveTotal,
			ByzantineCount: len(e.byzantine),
		})

		e.updateNegativeUNL(seq, round)

		if threshold >= finalThreshold && len(agreed) > 0 {
			return &Result{
				Agreed:         agreed,
				Round:          round,
				Threshold:      threshold,
				Total:          effectiveTotal,
				ByzantineCount: len(e.byzantine),
			}, true
		}

		myTxIDs = agreed
		next := &Proposal{ValidatorID: e.myID, LedgerSeq: seq, RoundNumber: round + 1, TxIDs: myTxIDs}
		if e.myPrivKey != nil {
			_ = next.Sign(e.crypto, e.myPrivKey)
		}
		e.AddProposal(next)
	}

	return e.finalAttempt(seq, maxRounds-1)
}

// finalAttempt is the fallback of §4.5's last paragraph: one more
// agreement computation at final_threshold, accepted if non-empty.
func (e *Engine) finalAttempt(seq uint32, round uint32) (*Result, bool) {
	agreed, effectiveTotal := e.computeAgreement(seq, round, finalThreshold)
	if len(agreed) == 0 {
		return nil, false
	}
	return &Result{
		Agreed:         agreed,
		Round:          round,
		Threshold:      finalThreshold,
		Total:          effectiveTotal,
		ByzantineCount: len(e.byzantine),
	}, true
}

func thresholdAt(round uint32) float64 {
	t := initialThreshold + thresholdStep*float64(round)
	if t > finalThreshold {
		return finalThreshold
	}
	return t
}

func (e *Engine) candidateAt(seq uint32, round uint32) []string {
	byValidator := e.proposals[proposalKey{seq: seq, round: round}]
	if p, ok := byValidator[e.myID]; ok {
		return p.TxIDs
	}
	return nil
}

// latestProposals returns each validator's most recent proposal for seq
// at or below round, so a vote cast in an earlier round keeps counting
// until that validator replaces it.
func (e *Engine) latestProposals(seq uint32, round uint32) map[string]*Proposal {
	out := make(map[string]*Proposal)
	for r := uint32(0); r <= round; r++ {
		for v, p := range e.proposals[proposalKey{seq: seq, round: r}] {
			out[v] = p
		}
	}
	return out
}

// computeAgreement tallies, using each validator's latest proposal for seq
// up to round, which tx_ids appear in proposals from at least
// threshold*effective_total honest validators, where effective_total
// excludes Byzantine and Negative-UNL validators and is floored at the
// adjusted quorum size (§4.5 step 2).
func (e *Engine) computeAgreement(seq uint32, round uint32, threshold float64) ([]string, int) {
	byValidator := e.latestProposals(seq, round)

	counts := make(map[string]int)
	honest := 0
	for validator, p := range byValidator {
		if e.byzantine[validator] || e.negativeUNL[validator] {
			continue
		}
		honest++
		for _, txID := range p.TxIDs {
			counts[txID]++
		}
	}

	floor := e.n() - len(e.negativeUNL)
	effectiveTotal := honest
	if effectiveTotal < floor {
		effectiveTotal = floor
	}

	need := threshold * float64(effectiveTotal)
	var agreed []string
	for txID, c := range counts {
		if float64(c) >= need {
			agreed = append(agreed, txID)
		}
	}
	sort.Strings(agreed)
	return agreed, effectiveTotal
}

// updateNegativeUNL implements §4.5 step 4: validators with no proposal
// for seq up to this round are penalised into the Negative-UNL; those who
// resumed participation are removed from it.
func (e *Engine) updateNegativeUNL(seq uint32, round uint32) {
	byValidator := e.latestProposals(seq, round)
	for _, v := range e.unl {
		if _, submitted := byValidator[v]; submitted {
			delete(e.negativeUNL, v)
		} else {
			e.negativeUNL[v] = true
		}
	}
}

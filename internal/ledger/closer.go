// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/luxfi/log"

	"github.com/nexaflow-ledger/nexaflow-validator/internal/authmap"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/model"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/staking"
)

// Close runs §4.4's close_ledger procedure: mature stakes, canonicalise
// the pending transaction set, compute tx_hash/state_hash over fresh
// authenticated maps, and append a new immutable header. closeTime is
// supplied by the caller rather than read from a wall clock here, so that
// two validators closing with the same closeTime produce the same header.
// cmd/nexaflowd passes its own local wall-clock time; the value is not
// agreed through consensus.
func (l *Ledger) Close(closeTime int64) *model.LedgerHeader {
	parentHash := ""
	if last := l.LastHeader(); last != nil {
		parentHash = last.Hash
	}

	l.matureStakes(closeTime)

	ordered := append([]PendingTx(nil), l.pendingTxns...)
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.TxType != b.TxType {
			return a.TxType < b.TxType
		}
		if a.Account != b.Account {
			return a.Account < b.Account
		}
		if a.Sequence != b.Sequence {
			return a.Sequence < b.Sequence
		}
		return a.TxID < b.TxID
	})

	txMap := authmap.New()
	for _, p := range ordered {
		txMap.Insert(authmap.KeyFromString(p.TxID), []byte(p.TxID))
	}
	txHash := txMap.RootHash()

	stateMap := authmap.New()
	for _, a := range l.AllAccounts() {
		digest := fmt.Sprintf("%s|%s|%d", a.Address, a.Balance.String(), a.NextSeq)
		stateMap.Insert(authmap.KeyFromString(a.Address), []byte(digest))
	}
	for _, o := range l.GetAllConfidentialOutputs() {
		key := "ct:" + fmt.Sprintf("%x", o.StealthAddr)
		stateMap.Insert(authmap.KeyFromString(key), []byte(fmt.Sprintf("%x", o.Commitment)))
	}
	stateHash := stateMap.RootHash()

	header := &model.LedgerHeader{
		Sequence:    l.currentSequence,
		ParentHash:  parentHash,
		TxHash:      fmt.Sprintf("%x", txHash),
		StateHash:   fmt.Sprintf("%x", stateHash),
		CloseTime:   closeTime,
		TxCount:     uint32(len(ordered)),
		TotalNative: l.totalSupply,
	}
	header.Hash = fmt.Sprintf("%x", l.hashHeader(header))

	l.headers = append(l.headers, header)
	l.pendingTxns = nil
	l.currentSequence++

	l.log.Info("ledger closed",
		log.Uint32("sequence", header.Sequence),
		log.Int("txCount", int(header.TxCount)),
		log.String("hash", header.Hash),
	)
	return header
}

// matureStakes implements §4.4 step 3: credit principal + interest for
// every record past maturity, minting the interest into supply.
func (l *Ledger) matureStakes(closeTime int64) {
	for _, r := range l.Staking.Matured(closeTime) {
		tier, ok := l.Staking.Tier(r.Tier)
		if !ok {
			continue
		}
		interest := staking.Interest(tier, r.Amount)
		a := l.EnsureAccount(r.Address)
		a.Balance = a.Balance.Add(r.Amount).Add(interest)
		l.Mint(interest)
		l.Staking.Remove(r.TxID)
	}
}

// hashHeader implements §6.4's header serialization.
func (l *Ledger) hashHeader(h *model.LedgerHeader) [32]byte {
	var buf []byte
	buf = appendI64(buf, int64(h.Sequence))
	buf = append(buf, []byte(h.ParentHash)...)
	buf = append(buf, []byte(h.TxHash)...)
	buf = append(buf, []byte(h.StateHash)...)
	buf = appendI64(buf, h.CloseTime)
	buf = appendI64(buf, int64(h.TxCount))
	var fb [8]byte
	binary.BigEndian.PutUint64(fb[:], math.Float64bits(h.TotalNative.Float64()))
	buf = append(buf, fb[:]...)
	return l.crypto.Hash256(buf)
}

func appendI64(buf []byte, v int64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	return append(buf, b[:]...)
}

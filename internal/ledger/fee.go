// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import "github.com/nexaflow-ledger/nexaflow-validator/internal/model"

// FeeEscalator tracks the open ledger's pending-transaction queue depth
// and derives a dynamic fee floor from it, adapted from the original's
// fee_escalation.py. The state machine's common preamble consults
// CurrentFloor as a lower bound on top of whatever fee the transaction
// itself declares, so the declared fee still governs INSUF_FEE — this
// only ever raises, never lowers, the effective requirement.
type FeeEscalator struct {
	baseFee    model.Micro
	queueDepth int
	threshold  int // queue depth above which escalation kicks in
	stepBps    int64
}

// NewFeeEscalator returns an escalator with NexaFlow's default schedule:
// a 0.00001 base fee, escalating by 500bps for every pending transaction
// beyond the first 20.
func NewFeeEscalator() *FeeEscalator {
	return &FeeEscalator{
		baseFee:   model.FromMicroUnits(10),
		threshold: 20,
		stepBps:   500,
	}
}

// Observe records the current pending-transaction count, called once per
// submission by the owner task.
func (f *FeeEscalator) Observe(queueDepth int) { f.queueDepth = queueDepth }

// CurrentFloor returns the minimum fee an incoming transaction must meet
// given the last observed queue depth.
func (f *FeeEscalator) CurrentFloor() model.Micro {
	if f.queueDepth <= f.threshold {
		return f.baseFee
	}
	excess := int64(f.queueDepth - f.threshold)
	multiplierBps := int64(10_000) + excess*f.stepBps
	return f.baseFee.MulRate(multiplierBps, 10_000, model.RoundUp)
}

// Clone returns a deep copy for invariant-rollback snapshots.
func (f *FeeEscalator) Clone() *FeeEscalator {
	out := *f
	return &out
}

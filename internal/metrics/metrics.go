// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics exposes the validator's counters and gauges over
// github.com/prometheus/client_golang, the library the teacher's rpc/
// servers register collectors against, covering applied-tx counts by
// result code, consensus round counts and Byzantine counts.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every collector the validator registers. Unlike the
// teacher's metric.Registerer indirection (built for a multi-VM host
// process), a single validator process registers directly against one
// prometheus.Registry, so this package holds concrete collectors rather
// than an interface.
type Metrics struct {
	TxApplied     *prometheus.CounterVec
	ConsensusRounds prometheus.Counter
	ByzantineTotal  prometheus.Counter
	NegativeUNLSize prometheus.Gauge
	LedgerSequence  prometheus.Gauge
	OpenLedgerFee   prometheus.Gauge
}

// New builds and registers every collector against reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TxApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nexaflow",
			Name:      "tx_applied_total",
			Help:      "Transactions applied, labelled by result code name.",
		}, []string{"result"}),
		ConsensusRounds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nexaflow",
			Name:      "consensus_rounds_total",
			Help:      "BFT-RPCA rounds run across all ledger sequences.",
		}),
		ByzantineTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nexaflow",
			Name:      "consensus_byzantine_total",
			Help:      "Validators marked Byzantine, cumulative across the process lifetime.",
		}),
		NegativeUNLSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nexaflow",
			Name:      "consensus_negative_unl_size",
			Help:      "Current Negative-UNL membership count.",
		}),
		LedgerSequence: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nexaflow",
			Name:      "ledger_sequence",
			Help:      "Current open ledger sequence number.",
		}),
		OpenLedgerFee: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nexaflow",
			Name:      "open_ledger_fee_floor",
			Help:      "Current dynamic fee floor in native micro-units.",
		}),
	}
	reg.MustRegister(
		m.TxApplied,
		m.ConsensusRounds,
		m.ByzantineTotal,
		m.NegativeUNLSize,
		m.LedgerSequence,
		m.OpenLedgerFee,
	)
	return m
}

// ObserveApply records one state-machine Apply outcome.
func (m *Metrics) ObserveApply(resultName string) {
	m.TxApplied.WithLabelValues(resultName).Inc()
}

// ObserveConsensusResult records one run_rounds outcome.
func (m *Metrics) ObserveConsensusResult(rounds int, byzantineCount, negativeUNLSize int) {
	m.ConsensusRounds.Add(float64(rounds))
	if byzantineCount > 0 {
		m.ByzantineTotal.Add(float64(byzantineCount))
	}
	m.NegativeUNLSize.Set(float64(negativeUNLSize))
}

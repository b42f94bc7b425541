// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Collector) float64 {
	t.Helper()
	ch := make(chan prometheus.Metric, 1)
	c.Collect(ch)
	m := <-ch
	var pb dto.Metric
	require.NoError(t, m.Write(&pb))
	switch {
	case pb.Counter != nil:
		return pb.Counter.GetValue()
	case pb.Gauge != nil:
		return pb.Gauge.GetValue()
	default:
		t.Fatalf("unsupported metric type")
		return 0
	}
}

func TestObserveApplyIncrementsLabeledCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveApply("tesSUCCESS")
	m.ObserveApply("tesSUCCESS")
	m.ObserveApply("tecINSUF_FEE")

	require.Equal(t, float64(2), counterValue(t, m.TxApplied.WithLabelValues("tesSUCCESS")))
	require.Equal(t, float64(1), counterValue(t, m.TxApplied.WithLabelValues("tecINSUF_FEE")))
}

func TestObserveConsensusResultAccumulatesRoundsAndByzantine(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveConsensusResult(3, 1, 2)
	m.ObserveConsensusResult(2, 0, 0)

	require.Equal(t, float64(5), counterValue(t, m.ConsensusRounds))
	require.Equal(t, float64(1), counterValue(t, m.ByzantineTotal))
	require.Equal(t, float64(0), counterValue(t, m.NegativeUNLSize))
}

// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/nexaflow-ledger/nexaflow-validator/internal/config"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/consensus"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/crypto"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/ledger"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/metrics"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/model"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/reporting"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/staking"
	"github.com/nexaflow-ledger/nexaflow-validator/internal/statemachine"
)

// summaryCacheSize bounds the state summary cache to roughly the window
// of recent ledgers an operator dashboard or collaborator might poll.
const summaryCacheSize = 64

func runCommand() *cobra.Command {
	var configPath string
	var closeInterval time.Duration

	c := &cobra.Command{
		Use:   "run",
		Short: "Run the validator's close/consensus loop",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath, closeInterval)
		},
	}
	c.Flags().StringVar(&configPath, "config", "nexaflowd.toml", "path to the TOML config file (§6.5)")
	c.Flags().DurationVar(&closeInterval, "close-interval", 5*time.Second, "wall-clock budget between ledger closes")
	return c
}

func run(ctx context.Context, configPath string, closeInterval time.Duration) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := log.NoLog{}
	runID := uuid.New().String()
	logger.Info("starting validator run", log.String("runID", runID), log.String("validator", cfg.Validator.ID))
	provider := crypto.NewSecp256k1Provider()

	l, err := buildLedger(cfg, provider, logger)
	if err != nil {
		return err
	}
	machine := statemachine.New(l)
	engine, err := buildConsensus(cfg, provider, logger)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	summaries := reporting.NewSummaryCache(summaryCacheSize)

	if cfg.ListenAddr != "" {
		go serveMetrics(cfg.ListenAddr, reg)
	}

	ticker := time.NewTicker(closeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			closeLedger(ctx, l, machine, engine, m, logger)
			s := summaries.SummarizeCached(l)
			logger.Debug("ledger closed",
				log.Uint32("seq", s.CurrentSequence),
				log.Int("accounts", s.AccountCount),
			)
		}
	}
}

// closeLedger drives one round of §4.5 consensus over the ledger's
// pending transaction set, then §4.4's close_ledger once agreement is
// reached. When RunRounds returns no agreed set, the ledger is not closed
// this cycle.
func closeLedger(ctx context.Context, l *ledger.Ledger, machine *statemachine.Machine, engine *consensus.Engine, m *metrics.Metrics, logger log.Logger) {
	seq := l.CurrentSequence()
	candidates := l.PendingTxIDs()
	engine.SubmitTransactions(seq, candidates)

	roundCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, ok := engine.RunRounds(roundCtx, seq)
	if !ok {
		logger.Warn("consensus produced no agreed set this cycle", log.Uint32("seq", seq))
		return
	}

	m.ObserveConsensusResult(int(result.Round)+1, result.ByzantineCount, len(engine.NegativeUNL()))
	header := l.Close(time.Now().Unix())
	m.LedgerSequence.Set(float64(header.Sequence))
	m.OpenLedgerFee.Set(l.FeeEscalator().CurrentFloor().Float64())

	for _, meta := range l.Metadata() {
		m.ObserveApply(meta.ResultName)
	}

	_ = machine // the state machine's Apply entry point is called by the
	// transport layer per §6.1; this loop only closes ledgers the
	// transport has already applied transactions into.
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	_ = http.ListenAndServe(addr, mux)
}

func buildLedger(cfg *config.Config, provider crypto.Provider, logger log.Logger) (*ledger.Ledger, error) {
	totalSupply, err := model.FromString(cfg.TotalSupply)
	if err != nil {
		return nil, fmt.Errorf("total_supply: %w", err)
	}
	baseReserve, err := model.FromString(cfg.Reserve.BaseReserve)
	if err != nil {
		return nil, fmt.Errorf("reserve.base_reserve: %w", err)
	}
	ownerInc, err := model.FromString(cfg.Reserve.OwnerInc)
	if err != nil {
		return nil, fmt.Errorf("reserve.owner_inc: %w", err)
	}

	tiers := make([]staking.Tier, 0, len(cfg.StakeTiers))
	for _, t := range cfg.StakeTiers {
		tiers = append(tiers, staking.Tier{
			ID:            t.ID,
			Duration:      t.DurationSecs,
			AnnualRateBps: t.AnnualRateBps,
			MaxPenaltyBps: t.MaxPenaltyBps,
		})
	}

	return ledger.New(ledger.Params{
		GenesisAccount: cfg.GenesisAccount,
		InitialSupply:  totalSupply,
		BaseReserve:    baseReserve,
		OwnerInc:       ownerInc,
		StakeTiers:     tiers,
		Amendments:     cfg.Amendments,
		Crypto:         provider,
		Log:            logger,
	}), nil
}

func buildConsensus(cfg *config.Config, provider crypto.Provider, logger log.Logger) (*consensus.Engine, error) {
	priv, err := cfg.PrivateKeyBytes()
	if err != nil {
		return nil, fmt.Errorf("validator.private_key: %w", err)
	}
	pub, err := cfg.UNLPubkeys()
	if err != nil {
		return nil, err
	}
	return consensus.New(consensus.Config{
		MyID:      cfg.Validator.ID,
		MyPrivKey: priv,
		UNL:       cfg.UNLIDs(),
		UNLPubkey: pub,
		Crypto:    provider,
		Log:       logger,
	}), nil
}

// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Command nexaflowd is the validator node entry point: it wires
// internal/config, internal/ledger, internal/statemachine and
// internal/consensus together and drives the close loop, calling the
// external-collaborator interfaces of §6.1/§6.2 without implementing the
// transport, REST or persistence layers themselves (those are explicit
// Non-goals; a real deployment supplies them against the interfaces this
// binary consumes).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "nexaflowd",
		Short: "NexaFlow validator node",
	}
	root.AddCommand(runCommand())
	root.AddCommand(versionCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the validator version",
		RunE: func(*cobra.Command, []string) error {
			fmt.Println("nexaflowd dev")
			return nil
		},
	}
}

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/suparena/keyedstore"
	"github.com/suparena/keyedstore/metrics"
	"github.com/suparena/keyedstore/models"
	"github.com/suparena/keyedstore/registry"
)

// newRootCmd builds the command tree. cfg supplies flag defaults.
func newRootCmd(cfg config) *cobra.Command {
	var (
		reg       *prometheus.Registry
		collector *metrics.Collector
	)

	rootCmd := &cobra.Command{
		Use:   "keyedstore",
		Short: "Import, inspect and convert keyed entity snapshots",
		Long: `keyedstore manages snapshots of keyed entities.

Each command loads the snapshot of one kind from a backend, applies the
operation and saves the result back when it changed anything.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfg.MetricsOut == "" {
				return nil
			}
			reg = prometheus.NewRegistry()
			var err error
			collector, err = metrics.NewCollector(reg)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if reg == nil {
				return nil
			}
			cfg.debugf("writing metrics to %s", cfg.MetricsOut)
			return prometheus.WriteToTextfile(cfg.MetricsOut, reg)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfg.Data, "data", "d", cfg.Data, "Snapshot file, database path or DynamoDB table")
	flags.StringVarP(&cfg.Backend, "backend", "b", cfg.Backend, fmt.Sprintf("Storage backend %v", backendNames))
	flags.StringVarP(&cfg.Kind, "kind", "k", cfg.Kind, fmt.Sprintf("Entity kind %v", registry.Kinds()))
	flags.StringVar(&cfg.MetricsOut, "metrics-out", cfg.MetricsOut, "Write Prometheus metrics to this file")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Log what is loaded and saved")

	// handlers are built after flag parsing so they see the final config
	h := func() (handler, error) {
		if collector != nil {
			return newHandler(cfg, collector)
		}
		return newHandler(cfg, nil)
	}

	rootCmd.AddCommand(
		newImportCmd(h),
		newListCmd(h),
		newGetCmd(h),
		newRemoveCmd(h),
		newSetCmd(h),
		newSetQuantityCmd(h, &cfg),
		newGroupCmd(h),
		newConvertCmd(h),
		newVersionCmd(),
	)
	return rootCmd
}

func newImportCmd(h func() (handler, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import delimited records, all or nothing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hd, err := h()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			n, err := hd.Import(cmd.Context(), f)
			if err != nil {
				return err
			}
			log.Printf("imported %d records from %s", n, args[0])
			return nil
		},
	}
}

func newListCmd(h func() (handler, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every entity in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hd, err := h()
			if err != nil {
				return err
			}
			return hd.List(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func newGetCmd(h func() (handler, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print one entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hd, err := h()
			if err != nil {
				return err
			}
			return hd.Get(cmd.Context(), args[0], cmd.OutOrStdout())
		},
	}
}

func newRemoveCmd(h func() (handler, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove one entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hd, err := h()
			if err != nil {
				return err
			}
			return hd.Remove(cmd.Context(), args[0])
		},
	}
}

func newSetCmd(h func() (handler, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <field> <value>",
		Short: "Update one field with validation",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			hd, err := h()
			if err != nil {
				return err
			}
			return hd.Set(cmd.Context(), args[0], args[1], args[2])
		},
	}
}

func newSetQuantityCmd(h func() (handler, error), cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "set-quantity <id> <quantity>",
		Short: "Update the stock of an inventory item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Kind != models.KindInventory {
				return fmt.Errorf("set-quantity applies to inventory, not %s", cfg.Kind)
			}
			hd, err := h()
			if err != nil {
				return err
			}
			return hd.Set(cmd.Context(), args[0], "quantity", args[1])
		},
	}
}

func newGroupCmd(h func() (handler, error)) *cobra.Command {
	var by string
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Print entities grouped by a registered grouping",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hd, err := h()
			if err != nil {
				return err
			}
			return hd.Group(cmd.Context(), by, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&by, "by", "", "Grouping name, e.g. category")
	_ = cmd.MarkFlagRequired("by")
	return cmd
}

func newConvertCmd(h func() (handler, error)) *cobra.Command {
	var to target
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Copy the snapshot to another backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hd, err := h()
			if err != nil {
				return err
			}
			n, err := hd.Convert(cmd.Context(), to)
			if err != nil {
				return err
			}
			log.Printf("converted %d entities to %s %s", n, to.Backend, to.Data)
			return nil
		},
	}
	cmd.Flags().StringVar(&to.Backend, "to", "", fmt.Sprintf("Target backend %v", backendNames))
	cmd.Flags().StringVar(&to.Data, "to-data", "", "Target file, database path or DynamoDB table")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := keyedstore.GetVersionInfo()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "keyedstore version %s\n", info.Version)
			fmt.Fprintf(out, "Git commit: %s\n", info.GitCommit)
			fmt.Fprintf(out, "Build date: %s\n", info.BuildDate)
			fmt.Fprintf(out, "Go version: %s\n", info.GoVersion)
		},
	}
}

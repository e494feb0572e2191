package main

import (
	"fmt"
	"io"

	"github.com/pavanmanishd/dynamic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Run every scenario and print the stack metrics in Prometheus text format",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		reg := prometheus.NewRegistry()
		if err := reg.Register(dynamic.NewCollector(st, prometheus.Labels{"stack": "tour"})); err != nil {
			return fmt.Errorf("register collector: %w", err)
		}

		for _, run := range []scenario{runLists, runText, runNested, runFrames} {
			if err := run(io.Discard, st); err != nil {
				return err
			}
		}

		families, err := reg.Gather()
		if err != nil {
			return fmt.Errorf("gather metrics: %w", err)
		}
		for _, mf := range families {
			if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
				return err
			}
		}
		return nil
	},
}

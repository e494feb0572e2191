package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/pavanmanishd/dynamic"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	v  = dynamic.NewViper("DYNAMIC")
	st *dynamic.Stack
)

var rootCmd = &cobra.Command{
	Use:   "dynamic-tour",
	Short: "Walk through scoped lists and text",
	Long: `dynamic-tour runs the list, text and frame scenarios against one stack.
Settings come from flags or DYNAMIC_* environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := dynamic.ConfigFromViper(v)
		if err != nil {
			return err
		}
		cfg.Output = cmd.ErrOrStderr()
		st = dynamic.NewStack(cfg)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		st.Close()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		for _, run := range []scenario{runLists, runText, runNested, runFrames} {
			if err := run(w, st); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.Bool("debug", false, "Log every track, untrack and collection")
	f.Bool("no-color", false, "Disable coloured log output")
	f.Int64("memory-limit", 0, "Cap on tracked bytes, 0 for unlimited")
	f.String("allocator", dynamic.AllocatorHeap, "Raw block allocator: heap or mmap")
	bind(v, map[string]string{
		"debug":        "debug",
		"no_color":     "no-color",
		"memory_limit": "memory-limit",
		"allocator":    "allocator",
	})

	rootCmd.AddCommand(
		scenarioCmd("lists", "Build, index and render flat lists", runLists),
		scenarioCmd("text", "Concatenate, slice and upper-case text", runText),
		scenarioCmd("nested", "Render a list of lists", runNested),
		scenarioCmd("frames", "Promote values across frames", runFrames),
		metricsCmd,
	)
}

func bind(v *viper.Viper, keys map[string]string) {
	for key, flag := range keys {
		if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			log.Fatal("Failed to bind flag", "flag", flag, "error", err)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

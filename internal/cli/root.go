// Package cli implements wqctl, the operator command line for scoring
// readings offline and managing reference data.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/wargaair/water-safety-service/internal/adapter/gormstore"
	"github.com/wargaair/water-safety-service/internal/adapter/refdata"
	"github.com/wargaair/water-safety-service/internal/assessment"
	"github.com/wargaair/water-safety-service/internal/domain"
	"github.com/wargaair/water-safety-service/internal/observability"
)

const defaultRefdataPath = "data/reference.yaml"

// NewRootCmd builds the wqctl command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wqctl",
		Short:         "Water safety scoring from the command line",
		Long:          "wqctl scores sensory and laboratory water readings against the reference thresholds and manages the reference data.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("refdata", defaultRefdataPath, "Path to the reference data YAML file")
	root.PersistentFlags().String("dsn", "", "MySQL DSN; reads reference data from the database instead of --refdata")
	root.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(newSensoryCmd())
	root.AddCommand(newLabCmd())
	root.AddCommand(newStandardsCmd())
	root.AddCommand(newSeedCmd())
	return root
}

// Execute runs the root command with the process arguments.
func Execute() error {
	return NewRootCmd().Execute()
}

// cliLogger writes to stderr so it never mixes with command output.
func cliLogger(cmd *cobra.Command) *slog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
}

// resolveRefs opens the reference data named by --dsn (highest priority) or
// --refdata. The returned close function is never nil.
func resolveRefs(cmd *cobra.Command) (domain.ReferenceData, func() error, error) {
	if dsn, _ := cmd.Flags().GetString("dsn"); dsn != "" {
		store, err := gormstore.Open(dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		return store, store.Close, nil
	}

	path, _ := cmd.Flags().GetString("refdata")
	store, err := refdata.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return store, func() error { return nil }, nil
}

// newService wires a Service without a verdict cache. Metrics go to a
// private registry that is never exported.
func newService(cmd *cobra.Command) (*assessment.Service, func() error, error) {
	refs, closeRefs, err := resolveRefs(cmd)
	if err != nil {
		return nil, nil, err
	}
	metrics := observability.NewMetricsWithRegistry(prometheus.NewRegistry())
	return assessment.NewService(refs, nil, cliLogger(cmd), metrics), closeRefs, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

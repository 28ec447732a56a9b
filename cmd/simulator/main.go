package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"memehub/simulator"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := simulator.DefaultConfig()
	var verbose bool

	cmd := &cobra.Command{
		Use:          "simulator",
		Short:        "Drive a running meme engine with a synthetic workload",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			if !verbose {
				logger = logger.WithOptions(zap.IncreaseLevel(zap.InfoLevel))
			}
			defer logger.Sync() //nolint:errcheck

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sim := simulator.NewSimulator(cfg, logger)
			if err := sim.Run(ctx); err != nil {
				return err
			}
			logger.Info("simulation completed", zap.Int64("failed_requests", sim.Stats().Failures()))
			sim.Stats().WriteSummary(cmd.OutOrStdout())
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.EngineURL, "url", cfg.EngineURL, "engine base URL")
	f.IntVar(&cfg.NumUsers, "users", cfg.NumUsers, "number of simulated users")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent request loops")
	f.DurationVarP(&cfg.SimulationTime, "duration", "d", cfg.SimulationTime, "how long to run")
	f.IntVar(&cfg.CreateWeight, "create-weight", cfg.CreateWeight, "relative weight of meme creation")
	f.IntVar(&cfg.VoteWeight, "vote-weight", cfg.VoteWeight, "relative weight of votes")
	f.IntVar(&cfg.ViewWeight, "view-weight", cfg.ViewWeight, "relative weight of views")
	f.IntVar(&cfg.CommentWeight, "comment-weight", cfg.CommentWeight, "relative weight of comments")
	f.IntVar(&cfg.BrowseWeight, "browse-weight", cfg.BrowseWeight, "relative weight of feed browsing")
	f.Float64Var(&cfg.ZipfS, "zipf", cfg.ZipfS, "Zipf skew of meme popularity (> 1)")
	f.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	f.DurationVar(&cfg.RequestTimeout, "timeout", 5*time.Second, "per request timeout")
	return cmd
}

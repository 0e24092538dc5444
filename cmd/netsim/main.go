// netsim replays replicated objects between a simulated server and client
// and reports how accurately the client reconstructs them.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spacemeshos/go-netvalue/cmd"
	"github.com/spacemeshos/go-netvalue/config"
	"github.com/spacemeshos/go-netvalue/config/presets"
	"github.com/spacemeshos/go-netvalue/log"
	"github.com/spacemeshos/go-netvalue/metrics"
	"github.com/spacemeshos/go-netvalue/sim"
	"github.com/spacemeshos/go-netvalue/timesync"
)

var (
	version string
	commit  string
)

func main() {
	cmd.Version = version
	cmd.Commit = commit
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cobra.Command{
		Use:          "netsim",
		Short:        "simulate property replication over an unreliable network",
		Version:      cmd.VersionString(),
		SilenceUsage: true,
		RunE: func(c *cobra.Command, _ []string) error {
			conf, err := cmd.LoadConfig(c)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			report, err := run(ctx, conf)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(c.OutOrStdout(),
				"samples %d misses %d | position mean %.4f max %.4f | rotation mean %.4f max %.4f | health mean %.4f max %.4f\n",
				report.Samples, report.Misses,
				report.Position.Mean, report.Position.Max,
				report.Rotation.Mean, report.Rotation.Max,
				report.Health.Mean, report.Health.Max,
			)
			return err
		},
	}
	cmd.AddCommands(c)
	c.AddCommand(&cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(c *cobra.Command, _ []string) {
			for _, name := range presets.Options() {
				fmt.Fprintln(c.OutOrStdout(), name)
			}
		},
	})
	return c
}

func newLogger(conf *config.Config, name, level string) (*zap.Logger, error) {
	return log.New(name, level, conf.Logging.Encoder)
}

func run(ctx context.Context, conf *config.Config) (*sim.Report, error) {
	logger, err := newLogger(conf, "netsim", conf.Logging.Level)
	if err != nil {
		return nil, log.ErrInvalidConfig(err)
	}
	defer logger.Sync()
	logger.Info("loaded config", zap.Inline(conf), zap.String("version", cmd.VersionString()))

	simLogger, err := newLogger(conf, "sim", conf.Logging.SimLoggerLevel)
	if err != nil {
		return nil, log.ErrInvalidConfig(err)
	}
	replicaLogger, err := newLogger(conf, "replica", conf.Logging.ReplicaLoggerLevel)
	if err != nil {
		return nil, log.ErrInvalidConfig(err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	eg, ctx := errgroup.WithContext(ctx)

	if conf.CollectMetrics {
		srv, err := metrics.NewServer(fmt.Sprintf(":%d", conf.MetricsPort), logger.Named("metrics"))
		if err != nil {
			return nil, err
		}
		eg.Go(func() error {
			return srv.Run(ctx)
		})
	}
	if conf.PushConfig.URL != "" {
		metrics.StartPushing(ctx, logger.Named("metrics"), conf.PushConfig, fmt.Sprintf("seed-%d", conf.Sim.Seed))
	}

	opts := []sim.Opt{
		sim.WithConfig(conf.Sim),
		sim.WithReplicaConfig(conf.Replica),
		sim.WithLogger(simLogger),
		sim.WithReplicaLogger(replicaLogger),
	}
	if conf.Sim.Realtime {
		clockLogger, err := newLogger(conf, "clock", conf.Logging.ClockLoggerLevel)
		if err != nil {
			return nil, log.ErrInvalidConfig(err)
		}
		clock, err := timesync.NewClock(timesync.WithConfig(conf.Time), timesync.WithLogger(clockLogger))
		if err != nil {
			return nil, err
		}
		defer clock.Close()
		eg.Go(func() error {
			if err := clock.Run(ctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
		opts = append(opts, sim.WithClock(clock))
	}
	runner, err := sim.New(opts...)
	if err != nil {
		return nil, err
	}
	var report *sim.Report
	eg.Go(func() error {
		// stop the rest of the group once the session is over
		defer cancel()
		rst, err := runner.Run(ctx)
		if err != nil {
			return err
		}
		report = rst
		if conf.ReportPath != "" {
			if err := report.Write(conf.ReportPath); err != nil {
				return log.ErrWriteReport(conf.ReportPath, err)
			}
			logger.Info("report written", zap.String("path", conf.ReportPath))
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.uber.org/zap"
)

// PushConfig configures pushing to a prometheus push gateway.
type PushConfig struct {
	URL    string        `mapstructure:"metrics-push"`
	Period time.Duration `mapstructure:"metrics-push-period"`
}

// StartPushing pushes the default registry to cfg.URL every cfg.Period until ctx is done.
// Metrics are grouped by the given run name.
func StartPushing(ctx context.Context, logger *zap.Logger, cfg PushConfig, run string) {
	pusher := push.New(cfg.URL, "netvalue").
		Gatherer(prometheus.DefaultGatherer).
		Grouping("run", run)
	go func() {
		ticker := time.NewTicker(cfg.Period)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := pusher.PushContext(ctx); err != nil {
					logger.Warn("failed to push metrics", zap.Error(err))
				}
			}
		}
	}()
}

package timesync

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/spacemeshos/go-netvalue/metrics"
)

var (
	latenessHist = metrics.NewHistogramWithBuckets(
		"lateness_seconds",
		"clock",
		"delay between the expected frame start and the tick",
		[]string{},
		prometheus.ExponentialBuckets(0.0001, 2, 16),
	).WithLabelValues()

	missedTicks = metrics.NewCounter(
		"missed_ticks",
		"clock",
		"number of ticks dropped because a subscriber wasn't ready",
		[]string{},
	).WithLabelValues()
)

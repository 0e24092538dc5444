package sim

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/spacemeshos/go-netvalue/metrics"
)

const namespace = "sim"

var (
	renderError = metrics.NewHistogramWithBuckets(
		"render_error",
		namespace,
		"distance between the value rendered by the client and the true value",
		[]string{"property"},
		prometheus.ExponentialBuckets(0.0001, 4, 10),
	)
	positionError = renderError.WithLabelValues("position")
	rotationError = renderError.WithLabelValues("rotation")
	healthError   = renderError.WithLabelValues("health")

	packetsCounter = metrics.NewCounter(
		"packets",
		namespace,
		"number of packets by outcome",
		[]string{"outcome"},
	)
	packetsSent      = packetsCounter.WithLabelValues("sent")
	packetsReceived  = packetsCounter.WithLabelValues("received")
	packetsMalformed = packetsCounter.WithLabelValues("malformed")
)

package replica

import (
	"github.com/spacemeshos/go-netvalue/metrics"
)

const namespace = "replica"

var (
	updatesCounter = metrics.NewCounter(
		"updates",
		namespace,
		"number of updates received by the registry",
		[]string{"result"},
	)
	appliedUpdates  = updatesCounter.WithLabelValues("applied")
	staleUpdates    = updatesCounter.WithLabelValues("stale")
	rejectedUpdates = updatesCounter.WithLabelValues("rejected")

	evictedObjects = metrics.NewCounter(
		"evicted_objects",
		namespace,
		"number of objects evicted to stay within max objects",
		[]string{},
	).WithLabelValues()

	trackedObjects = metrics.NewGauge(
		"objects",
		namespace,
		"number of objects tracked by all registries",
		[]string{},
	).WithLabelValues()

	samplesCounter = metrics.NewCounter(
		"samples",
		namespace,
		"number of sampled properties",
		[]string{"result"},
	)
	sampleHit  = samplesCounter.WithLabelValues("hit")
	sampleMiss = samplesCounter.WithLabelValues("miss")
)

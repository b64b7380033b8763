package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			refreshIntervalOpt := WithRefreshInterval(5 * time.Second)

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(refreshIntervalOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithRefreshInterval(10*time.Second),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording cache metrics", func() {
			Convey("Then it should record hits and misses", func() {
				So(func() {
					RecordCacheHit()
					RecordCacheHit()
					RecordCacheMiss()
				}, ShouldNotPanic)
			})

			Convey("And it should record coalesced calls", func() {
				So(func() {
					RecordCoalescedCall()
				}, ShouldNotPanic)
			})

			Convey("And it should update the cache size", func() {
				So(func() {
					UpdateCacheSize(42)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording oracle metrics", func() {
			Convey("Then it should record calls, errors, and latency", func() {
				So(func() {
					RecordOracleCall()
					RecordOracleError()
					RecordOracleSchemaError()
					RecordOracleLatency(120.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording business metrics", func() {
			Convey("Then it should record scored pairs and fallbacks", func() {
				So(func() {
					RecordPairScored()
					RecordPrefetchDuplicate()
					RecordFallbackServed()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording queue metrics", func() {
			Convey("Then it should record queue activity", func() {
				So(func() {
					UpdateQueueCapacity(1000)
					UpdateQueueSize(10)
					UpdateQueueUtilization(0.01)
					RecordQueueEnqueue()
					RecordQueueDequeue()
					RecordQueueEnqueueError()
					RecordQueueProcessingLatency(5.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording worker metrics", func() {
			Convey("Then it should record worker activity", func() {
				So(func() {
					UpdateWorkerCount(8)
					UpdateWorkerActiveCount(8)
					UpdateWorkerIdleCount(0)
					UpdateWorkerPairsPerSecond(12.5)
					RecordWorkerProcessingLatency(90.0)
					RecordWorkerError()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP metrics", func() {
			Convey("Then it should record requests and durations", func() {
				So(func() {
					RecordHTTPRequest("recommendations", "GET", "200")
					RecordHTTPRequestDuration("recommendations", "GET", "200", 15.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording error metrics", func() {
			Convey("Then it should record errors by label", func() {
				So(func() {
					RecordErrorByComponent("oracle", "unavailable")
					RecordErrorByType("schema_error", "medium")
					RecordErrorByEndpoint("filters", "PUT", "client_error")
					RecordErrorLatency("oracle", "unavailable", 200.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording system metrics", func() {
			Convey("Then it should record system state", func() {
				So(func() {
					UpdateSystemMemoryUsage(1024 * 1024)
					UpdateSystemGoroutineCount(32)
					RecordSystemGCPauseTime(0.5)
				}, ShouldNotPanic)
			})
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the global registry", t, func() {
		Convey("When fetching it", func() {
			registry := GetRegistry()

			Convey("Then it should not be nil", func() {
				So(registry, ShouldNotBeNil)
			})

			Convey("And it should be gatherable", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})
}

package catalog

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	foldersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cabinet_folders_created_total",
		Help: "The number of folders created",
	})
	foldersDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cabinet_folders_deleted_total",
		Help: "The number of folders deleted, including cascaded descendants",
	})
	filesUploaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cabinet_files_uploaded_total",
		Help: "The number of files uploaded",
	})
	filesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cabinet_files_deleted_total",
		Help: "The number of files deleted",
	})
	bytesUploaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cabinet_uploaded_bytes_total",
		Help: "The number of payload bytes written",
	})
	payloadWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cabinet_payload_write_failures_total",
		Help: "The number of uploads rolled back because the payload could not be stored",
	})
	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cabinet_catalog_operation_seconds",
		Help:    "Latency of catalog operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "outcome"})
)

func observe(operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	operationDuration.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())
}

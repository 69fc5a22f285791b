package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ImagesUploaded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wardrobe",
		Name:      "images_uploaded_total",
		Help:      "Total number of image files stored",
	})

	UploadBytes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wardrobe",
		Name:      "upload_bytes_total",
		Help:      "Total bytes written to the upload store",
	})

	ItemsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wardrobe",
		Name:      "items_created_total",
		Help:      "Total number of wardrobe items created",
	}, []string{"source"})

	RecognitionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wardrobe",
		Name:      "recognition_duration_seconds",
		Help:      "Duration of single-image recognition calls",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
	}, []string{"backend"})

	RecognitionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wardrobe",
		Name:      "recognition_failures_total",
		Help:      "Total number of failed single-image recognition calls",
	}, []string{"backend"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wardrobe",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

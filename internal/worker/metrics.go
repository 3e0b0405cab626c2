package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobsEncolados = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gestion_jobs_enqueued_total",
			Help: "Jobs pushed to the Redis queues",
		},
		[]string{"type"},
	)

	jobsProcesados = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gestion_jobs_processed_total",
			Help: "Jobs processed by the worker pool, by result (ok, retry, dlq)",
		},
		[]string{"type", "result"},
	)

	jobDuracion = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gestion_job_duration_seconds",
			Help:    "Duration of job handlers",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"type"},
	)

	chequesVencidos = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gestion_cheques_vencidos_total",
		Help: "Cheques flagged as vencido by the daily sweep",
	})
)

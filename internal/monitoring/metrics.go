package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

var (
	ContractsSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "contracts_sent_total",
			Help: "Total number of contracts sent out for signing",
		},
	)
	SignaturesRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contract_signatures_total",
			Help: "Total number of signatures recorded by party role",
		},
		[]string{"role"},
	)
	OTPIssued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_issued_total",
			Help: "Total number of OTP codes issued by purpose",
		},
		[]string{"purpose"},
	)
	OTPRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_rejected_total",
			Help: "Total number of OTP verifications rejected by purpose",
		},
		[]string{"purpose"},
	)
	TerminationsCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contract_terminations_completed_total",
			Help: "Total number of completed terminations by outcome status",
		},
		[]string{"outcome"},
	)
	ExtensionsResolved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contract_extensions_resolved_total",
			Help: "Total number of resolved extension requests by decision",
		},
		[]string{"decision"},
	)
	SigningCeremonyDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "contract_signing_ceremony_duration_seconds",
			Help:    "Time from contract creation to full signature coverage",
			Buckets: prometheus.ExponentialBuckets(60, 4, 10), // 1 minute to ~8 days
		},
	)
)

func InitMetrics() {
	collectors := []prometheus.Collector{
		ContractsSent,
		SignaturesRecorded,
		OTPIssued,
		OTPRejected,
		TerminationsCompleted,
		ExtensionsResolved,
		SigningCeremonyDuration,
	}
	for _, c := range collectors {
		if err := prometheus.Register(c); err != nil {
			log.Error().Err(err).Msg("Failed to register metric")
		}
	}
}

package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UsersRegisteredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_users_registered_total",
		Help: "Total number of registered customers",
	})

	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_login_attempts_total",
		Help: "Login attempts by role and outcome",
	}, []string{"role", "outcome"})

	ProductsAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_products_added_total",
		Help: "Total number of products added to the catalog",
	})

	ProductsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_products_deleted_total",
		Help: "Total number of products removed from the catalog",
	})

	OffersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_offers_created_total",
		Help: "Total number of offers submitted",
	})

	OffersRejectedInputTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_offers_invalid_total",
		Help: "Offer submissions refused before persisting",
	}, []string{"reason"})

	OffersDecidedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_offers_decided_total",
		Help: "Offer decisions by resulting status",
	}, []string{"status"})

	SupplyRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_supply_recorded_total",
		Help: "Total number of supplied units",
	})

	SupplySkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_supply_skipped_total",
		Help: "Supply calls that changed nothing",
	}, []string{"reason"})

	MessagesPostedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_messages_posted_total",
		Help: "Chat messages by sender role",
	}, []string{"sender"})

	StoreSaveLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "marketplace_store_save_latency_seconds",
		Help:    "Latency of whole-document saves",
		Buckets: prometheus.DefBuckets,
	})

	StoreSaveFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_store_save_failures_total",
		Help: "Total number of failed document saves",
	})

	NotificationsDeliveredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_notifications_delivered_total",
		Help: "Notifications handed to the notifier by event type",
	}, []string{"event_type"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)

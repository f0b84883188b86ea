// Package metrics defines all custom Prometheus metrics for the shop API. It
// is the single source of truth for metric names, labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation and exposed on /metrics next to the HTTP metrics of the
// echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shop"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts accounts created through the public endpoint.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registered accounts.",
	},
)

// PasswordResetsTotal counts password-reset steps.
// Labels:
//   - step: "request" or "confirm"
//   - result: "success" or "failure"
var PasswordResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of password-reset requests and confirmations.",
	},
	[]string{"step", "result"},
)

// ── Relay metrics ─────────────────────────────────────────────────────────────

// UploadsTotal counts image uploads forwarded to the media host.
// Label:
//   - result: "success", "rejected" (bad file type) or "failure"
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of image uploads, by result.",
	},
	[]string{"result"},
)

// PaymentsTotal counts mobile-money collection requests.
// Label:
//   - status: pending, successful, failed, other, or error
var PaymentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_total",
		Help:      "Total number of payment collection requests, by gateway status.",
	},
	[]string{"status"},
)

// PaymentDuration measures the round trip of a collection request, including
// the transaction lookup.
var PaymentDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "payment_duration_seconds",
		Help:      "Duration of payment collection calls to the gateway.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrdersCreatedTotal counts placed orders.
// Label:
//   - payment_method: the method chosen at checkout (e.g. "PayPal")
var OrdersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created, by payment method.",
	},
	[]string{"payment_method"},
)

// ── Mail metrics ──────────────────────────────────────────────────────────────

// MailDeliveriesTotal counts outbound mail delivery attempts.
// Label:
//   - result: "sent", "failed" or "dropped" (queue full)
var MailDeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_deliveries_total",
		Help:      "Total number of outbound mail deliveries, by result.",
	},
	[]string{"result"},
)

// MailQueueDepth tracks the current number of messages waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var MailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of messages pending in each mail worker channel.",
	},
	[]string{"worker_id"},
)

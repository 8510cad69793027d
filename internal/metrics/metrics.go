package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "meritrix"

var (
	BookingAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_attempts_total",
		Help:      "Live session booking attempts by result.",
	}, []string{"result"})

	BookingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "booking_duration_seconds",
		Help:      "Time spent in the booking transaction including retries.",
		Buckets:   prometheus.DefBuckets,
	})

	BookingRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_retries_total",
		Help:      "Booking transactions retried after a serialization failure or deadlock.",
	})

	PaymentVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_verifications_total",
		Help:      "Checkout verifications by purchase kind and result.",
	}, []string{"kind", "result"})

	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_events_total",
		Help:      "Payment gateway webhook events by type and result.",
	}, []string{"type", "result"})
)

// Purchase kinds
const (
	KindPass    = "pass"
	KindSubject = "subject"
	KindPackage = "package"
)

// Handler /metrics endpoint'i
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

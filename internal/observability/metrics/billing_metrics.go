package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type BillingMetrics struct {
	chargeAttempts  *prometheus.CounterVec
	invoiceOutcomes *prometheus.CounterVec
	runDuration     *prometheus.HistogramVec
	runBatchSize    *prometheus.GaugeVec
}

var (
	billingMetricsOnce sync.Once
	billingMetrics     *BillingMetrics
)

func Billing() *BillingMetrics {
	return BillingWithConfig(Config{})
}

func BillingWithConfig(cfg Config) *BillingMetrics {
	billingMetricsOnce.Do(func() {
		billingMetrics = newBillingMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return billingMetrics
}

func ResetBillingMetricsForTest() {
	billingMetricsOnce = sync.Once{}
	billingMetrics = nil
}

func newBillingMetrics(registerer prometheus.Registerer, cfg Config) *BillingMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "antaeus"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	chargeAttempts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "antaeus_charge_attempts_total",
			Help:        "Total payment gateway charge attempts, retries included.",
			ConstLabels: constLabels,
		},
		[]string{"result"}, // accepted | declined | transient | currency_mismatch | customer_not_found | unknown
	)

	invoiceOutcomes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "antaeus_invoice_outcomes_total",
			Help:        "Final invoice status transitions per billing run.",
			ConstLabels: constLabels,
		},
		[]string{"status"},
	)

	runDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "antaeus_billing_run_duration_seconds",
			Help: "Wall time of a full billing run by kind.",
			Buckets: []float64{
				0.1, 0.5, 1, 5, 15, 60, 300, 900,
			},
			ConstLabels: constLabels,
		},
		[]string{"kind"}, // monthly_cycle | retry_sweep
	)

	runBatchSize := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name:        "antaeus_billing_run_batch_size",
			Help:        "Number of invoices fetched for the latest run by kind.",
			ConstLabels: constLabels,
		},
		[]string{"kind"},
	)

	registerer.MustRegister(
		chargeAttempts,
		invoiceOutcomes,
		runDuration,
		runBatchSize,
	)

	return &BillingMetrics{
		chargeAttempts:  chargeAttempts,
		invoiceOutcomes: invoiceOutcomes,
		runDuration:     runDuration,
		runBatchSize:    runBatchSize,
	}
}

func (m *BillingMetrics) IncChargeAttempt(result string) {
	if m == nil {
		return
	}
	m.chargeAttempts.WithLabelValues(result).Inc()
}

func (m *BillingMetrics) IncInvoiceOutcome(status string) {
	if m == nil {
		return
	}
	m.invoiceOutcomes.WithLabelValues(status).Inc()
}

func (m *BillingMetrics) ObserveRunDuration(kind string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.runDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (m *BillingMetrics) SetRunBatchSize(kind string, size int) {
	if m == nil {
		return
	}
	m.runBatchSize.WithLabelValues(kind).Set(float64(size))
}

package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// InvoiceCreateTotal counts invoice creation attempts by outcome.
	InvoiceCreateTotal *prometheus.CounterVec
	// InvoicePreviewTotal counts draft invoice recompute requests.
	InvoicePreviewTotal prometheus.Counter
	// RecipeChangeTotal counts recipe mutations by operation and outcome.
	RecipeChangeTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		InvoiceCreateTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_create_total",
			Help:      "Count of invoice creation attempts by outcome.",
		}, []string{"result"})
		InvoicePreviewTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_preview_total",
			Help:      "Count of draft invoice recompute requests.",
		})
		RecipeChangeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recipe_change_total",
			Help:      "Count of recipe mutations by operation and outcome.",
		}, []string{"op", "result"})

		mustRegisterCollector(reg, InvoiceCreateTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				InvoiceCreateTotal = v
			}
		})
		mustRegisterCollector(reg, InvoicePreviewTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				InvoicePreviewTotal = v
			}
		})
		mustRegisterCollector(reg, RecipeChangeTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				RecipeChangeTotal = v
			}
		})
	})
}

// CountInvoiceCreate records one invoice creation outcome when metrics are registered.
func CountInvoiceCreate(result string) {
	if InvoiceCreateTotal != nil {
		InvoiceCreateTotal.WithLabelValues(result).Inc()
	}
}

// CountInvoicePreview records one draft recompute when metrics are registered.
func CountInvoicePreview() {
	if InvoicePreviewTotal != nil {
		InvoicePreviewTotal.Inc()
	}
}

// CountRecipeChange records one recipe mutation outcome when metrics are registered.
func CountRecipeChange(op, result string) {
	if RecipeChangeTotal != nil {
		RecipeChangeTotal.WithLabelValues(op, result).Inc()
	}
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}

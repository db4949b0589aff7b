package credentials

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Значения label credential
const (
	credentialAttached = "attached"
	credentialAbsent   = "absent"
	credentialSkipped  = "skipped"
	credentialForeign  = "foreign_origin"
)

// Metrics считает исходящие запросы по классу и решению о заголовке
type Metrics struct {
	requests *prometheus.CounterVec
}

// NewMetrics creates and registers the filter counters.
// An already registered collector with the same description is reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fishlog",
		Subsystem: "client",
		Name:      "requests_total",
		Help:      "Outgoing requests by classification and credential decision.",
	}, []string{"class", "credential"})

	if err := reg.Register(requests); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, err
		}
		requests = existing
	}

	return &Metrics{requests: requests}, nil
}

func (m *Metrics) observe(class Class, credential string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(class.String(), credential).Inc()
}

package lumendb

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// observer records one log line and one metric sample per operation. Both
// sides are optional; a nil observer is a no-op so call sites never branch.
type observer struct {
	logger     *slog.Logger
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg == nil {
		return o, nil
	}

	o.operations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lumendb",
		Subsystem: "sdk",
		Name:      "operations_total",
		Help:      "Completed SDK operations by type and status.",
	}, []string{"operation", "status"})
	if err := registerOrReuse(reg, &o.operations); err != nil {
		return nil, err
	}

	o.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lumendb",
		Subsystem: "sdk",
		Name:      "operation_duration_seconds",
		Help:      "Wall-clock SDK operation duration.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
	return o, registerOrReuse(reg, &o.duration)
}

// registerOrReuse registers c, or swaps in the collector already registered
// under the same descriptor. Two clients sharing a registerer must end up
// sharing collectors, not failing construction.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("lumendb: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("lumendb: metric already registered with incompatible type: %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	status := "ok"
	if err != nil {
		status = "error"
	}

	if o.operations != nil {
		o.operations.WithLabelValues(op, status).Inc()
		o.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	switch {
	case o.logger == nil:
	case err != nil:
		o.logger.Warn("operation failed", "op", op, "duration", dur, "error", err)
	default:
		o.logger.Debug("operation completed", "op", op, "duration", dur)
	}
}

package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DeviceCollector exposes metrics about calls into a device backend.
type DeviceCollector struct {
	gatherer prometheus.Gatherer

	CallDuration *prometheus.HistogramVec
	CallFailures *prometheus.CounterVec
	Uptime       *prometheus.GaugeVec
}

// NewDeviceCollector registers device metrics against the provided registerer.
func NewDeviceCollector(reg prometheus.Registerer) (*DeviceCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "subsys_device_call_duration_seconds",
		Help:    "Duration of calls into the device backend.",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
	}, []string{"service", "operation"})
	duration, err := registerHistogramVec(reg, duration, "subsys_device_call_duration_seconds")
	if err != nil {
		return nil, err
	}

	failures, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "subsys_device_call_failures_total",
		Help: "Device backend calls that returned an error.",
	}, []string{"service", "operation"}), "subsys_device_call_failures_total")
	if err != nil {
		return nil, err
	}

	uptime, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "subsys_device_uptime_seconds",
		Help: "Device uptime as last reported by a power query.",
	}, []string{"service"}), "subsys_device_uptime_seconds")
	if err != nil {
		return nil, err
	}

	return &DeviceCollector{
		gatherer:     gatherer,
		CallDuration: duration,
		CallFailures: failures,
		Uptime:       uptime,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *DeviceCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// ObserveCall records one device call.
func (c *DeviceCollector) ObserveCall(service, operation string, d time.Duration, err error) {
	if c == nil {
		return
	}
	if c.CallDuration != nil {
		c.CallDuration.WithLabelValues(service, operation).Observe(d.Seconds())
	}
	if err != nil && c.CallFailures != nil {
		c.CallFailures.WithLabelValues(service, operation).Inc()
	}
}

// SetUptime updates the uptime gauge.
func (c *DeviceCollector) SetUptime(service string, seconds int64) {
	if c == nil || c.Uptime == nil {
		return
	}
	if seconds < 0 {
		seconds = 0
	}
	c.Uptime.WithLabelValues(service).Set(float64(seconds))
}

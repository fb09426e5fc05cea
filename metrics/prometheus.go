package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusProvider adapts Provider to github.com/prometheus/client_golang,
// registering one prometheus collector per distinct instrument name on
// first use and reusing it thereafter. Grounded on linkerd-linkerd2's use
// of client_golang for runtime metrics, the other example repo in the pack
// that depends on it; BasicProvider's "create instruments on demand, cache
// by name" shape is kept, with the backing storage swapped from a plain
// struct to a prometheus vec.
type PrometheusProvider struct {
	reg *prometheus.Registry

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	updowns    map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
}

// NewPrometheusProvider constructs a Provider backed by reg. If reg is nil,
// a fresh, unregistered registry is created (the caller can retrieve it via
// Registry() to expose /metrics).
func NewPrometheusProvider(reg *prometheus.Registry) *PrometheusProvider {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	return &PrometheusProvider{
		reg:        reg,
		counters:   make(map[string]*prometheus.CounterVec),
		updowns:    make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

// Registry returns the underlying prometheus registry, for wiring into an
// HTTP handler.
func (p *PrometheusProvider) Registry() *prometheus.Registry { return p.reg }

func labelNames(attrs map[string]string) ([]string, prometheus.Labels) {
	if len(attrs) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(attrs))
	for k := range attrs {
		names = append(names, k)
	}
	return names, prometheus.Labels(attrs)
}

// Counter returns a monotonic counter instrument for name, creating and
// registering its CounterVec on first use.
func (p *PrometheusProvider) Counter(name string, opts ...InstrumentOption) Counter {
	cfg := applyOptions(opts)

	p.mu.Lock()
	defer p.mu.Unlock()

	vec, ok := p.counters[name]
	if !ok {
		names, _ := labelNames(cfg.Attributes)
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: name,
			Help: cfg.Description,
		}, names)
		p.reg.MustRegister(vec)
		p.counters[name] = vec
	}

	_, labels := labelNames(cfg.Attributes)
	return &promCounter{vec: vec, labels: labels}
}

// UpDownCounter returns a bidirectional counter instrument for name,
// backed by a prometheus gauge since client_golang has no native
// up-down-counter type.
func (p *PrometheusProvider) UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter {
	cfg := applyOptions(opts)

	p.mu.Lock()
	defer p.mu.Unlock()

	vec, ok := p.updowns[name]
	if !ok {
		names, _ := labelNames(cfg.Attributes)
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: name,
			Help: cfg.Description,
		}, names)
		p.reg.MustRegister(vec)
		p.updowns[name] = vec
	}

	_, labels := labelNames(cfg.Attributes)
	return &promUpDown{vec: vec, labels: labels}
}

// Histogram returns a distribution instrument for name, creating and
// registering its HistogramVec on first use with prometheus's default
// bucket set.
func (p *PrometheusProvider) Histogram(name string, opts ...InstrumentOption) Histogram {
	cfg := applyOptions(opts)

	p.mu.Lock()
	defer p.mu.Unlock()

	vec, ok := p.histograms[name]
	if !ok {
		names, _ := labelNames(cfg.Attributes)
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    name,
			Help:    cfg.Description,
			Buckets: prometheus.DefBuckets,
		}, names)
		p.reg.MustRegister(vec)
		p.histograms[name] = vec
	}

	_, labels := labelNames(cfg.Attributes)
	return &promHistogram{vec: vec, labels: labels}
}

type promCounter struct {
	vec    *prometheus.CounterVec
	labels prometheus.Labels
}

func (c *promCounter) Add(n int64) { c.vec.With(c.labels).Add(float64(n)) }

type promUpDown struct {
	vec    *prometheus.GaugeVec
	labels prometheus.Labels
}

func (c *promUpDown) Add(n int64) { c.vec.With(c.labels).Add(float64(n)) }

type promHistogram struct {
	vec    *prometheus.HistogramVec
	labels prometheus.Labels
}

func (h *promHistogram) Record(v float64) { h.vec.With(h.labels).Observe(v) }

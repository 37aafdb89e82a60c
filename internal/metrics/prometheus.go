package metrics

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/OldStager01/sentinel-console/internal/logger"
)

const namespace = "sentinel"

type Metrics struct {
	mu sync.RWMutex

	// Counters
	predictionsTotal map[string]int64            // outcome -> count
	criticalTotal    map[string]int64            // machine type -> count
	chatTotal        map[string]int64            // outcome -> count
	historyFetches   map[string]int64            // outcome -> count
	upstreamRequests map[string]map[string]int64 // endpoint -> status class -> count

	// Gauges
	activeSessions      int
	websocketClients    int
	circuitBreakerState map[string]int // 0=closed, 1=open, 2=half-open

	// Latency, last value and running sum per endpoint
	upstreamLatency    map[string]time.Duration
	upstreamLatencySum map[string]time.Duration
}

var (
	instance *Metrics
	once     sync.Once
)

// Get returns the process-wide registry.
func Get() *Metrics {
	once.Do(func() {
		instance = New()
	})
	return instance
}

func New() *Metrics {
	return &Metrics{
		predictionsTotal:    make(map[string]int64),
		criticalTotal:       make(map[string]int64),
		chatTotal:           make(map[string]int64),
		historyFetches:      make(map[string]int64),
		upstreamRequests:    make(map[string]map[string]int64),
		circuitBreakerState: make(map[string]int),
		upstreamLatency:     make(map[string]time.Duration),
		upstreamLatencySum:  make(map[string]time.Duration),
	}
}

func (m *Metrics) IncPrediction(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictionsTotal[outcome]++
}

func (m *Metrics) IncCritical(machineType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.criticalTotal[machineType]++
}

func (m *Metrics) IncChat(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chatTotal[outcome]++
}

func (m *Metrics) IncHistoryFetch(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.historyFetches[outcome]++
}

// ObserveUpstream records one call to the remote service. status is the
// HTTP status, or zero when no response arrived.
func (m *Metrics) ObserveUpstream(endpoint string, status int, d time.Duration) {
	class := "error"
	if status > 0 {
		class = strconv.Itoa(status/100) + "xx"
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upstreamRequests[endpoint] == nil {
		m.upstreamRequests[endpoint] = make(map[string]int64)
	}
	m.upstreamRequests[endpoint][class]++
	m.upstreamLatency[endpoint] = d
	m.upstreamLatencySum[endpoint] += d
}

func (m *Metrics) SetActiveSessions(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeSessions = n
}

func (m *Metrics) SetWebsocketClients(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.websocketClients = n
}

func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.circuitBreakerState[name] = state
}

func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		m.WriteTo(w)
	})
}

// WriteTo renders every series in the text exposition format, sorted by
// label so scrapes are stable.
func (m *Metrics) WriteTo(w io.Writer) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ew := &errWriter{w: w}

	writeCounterMap(ew, "predictions_total", "outcome", m.predictionsTotal)
	writeCounterMap(ew, "critical_results_total", "machine_type", m.criticalTotal)
	writeCounterMap(ew, "chat_messages_total", "outcome", m.chatTotal)
	writeCounterMap(ew, "history_fetches_total", "outcome", m.historyFetches)

	for _, endpoint := range sortedKeys(m.upstreamRequests) {
		classes := m.upstreamRequests[endpoint]
		for _, class := range sortedKeys(classes) {
			writeMetric(ew, "upstream_requests_total",
				map[string]string{"endpoint": endpoint, "status": class}, float64(classes[class]))
		}
	}
	for _, endpoint := range sortedKeys(m.upstreamLatency) {
		labels := map[string]string{"endpoint": endpoint}
		writeMetric(ew, "upstream_latency_ms", labels, float64(m.upstreamLatency[endpoint].Milliseconds()))
		writeMetric(ew, "upstream_latency_ms_sum", labels, float64(m.upstreamLatencySum[endpoint].Milliseconds()))
	}

	writeMetric(ew, "active_sessions", nil, float64(m.activeSessions))
	writeMetric(ew, "websocket_clients", nil, float64(m.websocketClients))

	for _, name := range sortedKeys(m.circuitBreakerState) {
		writeMetric(ew, "circuit_breaker_state", map[string]string{"name": name}, float64(m.circuitBreakerState[name]))
	}

	return ew.n, ew.err
}

func writeCounterMap(w io.Writer, name, label string, values map[string]int64) {
	for _, key := range sortedKeys(values) {
		writeMetric(w, name, map[string]string{label: key}, float64(values[key]))
	}
}

func writeMetric(w io.Writer, name string, labels map[string]string, value float64) {
	var b strings.Builder
	b.WriteString(namespace + "_" + name)
	if len(labels) > 0 {
		b.WriteByte('{')
		for i, k := range sortedKeys(labels) {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "%s=%q", k, labels[k])
		}
		b.WriteByte('}')
	}
	b.WriteString(" " + strconv.FormatFloat(value, 'f', -1, 64) + "\n")
	io.WriteString(w, b.String())
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type errWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.n += int64(n)
	e.err = err
	return n, err
}

// StartServer exposes the registry on its own port.
func StartServer(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Get().Handler())

	addr := ":" + strconv.Itoa(port)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	logger.Infof("Metrics server listening on %s", addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("Metrics server error: %v", err)
		}
	}()
	return srv
}

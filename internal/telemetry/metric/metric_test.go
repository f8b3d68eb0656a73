package metric

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"

	"github.com/redrabbit/vaultrelay/internal/core/domain"
	"github.com/redrabbit/vaultrelay/internal/infra/buildinfo"
)

type fakeStats struct{ st domain.Stats }

func (f fakeStats) Stats() domain.Stats { return f.st }

// gather returns the metric families keyed by name.
func gather(t *testing.T, m *Metrics) map[string]*dto.MetricFamily {
	t.Helper()
	mfs, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	out := make(map[string]*dto.MetricFamily, len(mfs))
	for _, mf := range mfs {
		out[mf.GetName()] = mf
	}
	return out
}

func TestBuildInfo(t *testing.T) {
	mf, ok := gather(t, New())["relay_build_info"]
	if !ok {
		t.Fatal("relay_build_info not registered")
	}
	metric := mf.GetMetric()[0]
	if metric.GetGauge().GetValue() != 1 {
		t.Errorf("build_info = %v, want 1", metric.GetGauge().GetValue())
	}

	labels := make(map[string]string)
	for _, lp := range metric.GetLabel() {
		labels[lp.GetName()] = lp.GetValue()
	}
	if labels["version"] != buildinfo.Version || labels["go_version"] == "" {
		t.Errorf("unexpected labels: %v", labels)
	}
}

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest("/api/message", http.MethodPost, 200, 5*time.Millisecond)
	m.ObserveRequest("/api/message", http.MethodPost, 200, 5*time.Millisecond)
	m.ObserveRequest("/api/message", http.MethodPost, 413, time.Millisecond)

	fams := gather(t, m)
	mf, ok := fams["relay_http_requests_total"]
	if !ok {
		t.Fatal("relay_http_requests_total not registered")
	}
	if len(mf.GetMetric()) != 2 {
		t.Fatalf("expected 2 label sets, got %d", len(mf.GetMetric()))
	}

	var total float64
	for _, metric := range mf.GetMetric() {
		total += metric.GetCounter().GetValue()
	}
	if total != 3 {
		t.Errorf("total requests = %v, want 3", total)
	}
}

func TestObserveSweep(t *testing.T) {
	m := New()
	m.ObserveSweep(domain.SweepResult{ExpiredMessages: 4, AckedMessages: 2, RemovedVaults: 1}, time.Millisecond, nil)
	m.ObserveSweep(domain.SweepResult{ExpiredMessages: 1}, time.Millisecond, errors.New("canceled"))

	fams := gather(t, m)
	if got := fams["relay_sweep_expired_messages_total"].GetMetric()[0].GetCounter().GetValue(); got != 5 {
		t.Errorf("expired = %v, want 5", got)
	}
	if got := fams["relay_sweep_removed_vaults_total"].GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Errorf("removed = %v, want 1", got)
	}

	outcomes := map[string]float64{}
	for _, metric := range fams["relay_sweep_runs_total"].GetMetric() {
		outcomes[metric.GetLabel()[0].GetValue()] = metric.GetCounter().GetValue()
	}
	if outcomes["completed"] != 1 || outcomes["interrupted"] != 1 {
		t.Errorf("unexpected outcomes: %v", outcomes)
	}
	if fams["relay_sweep_last_run_timestamp_seconds"].GetMetric()[0].GetGauge().GetValue() == 0 {
		t.Error("last sweep time should be set after a completed run")
	}
}

func TestCollector(t *testing.T) {
	m := New()
	c := NewCollector(fakeStats{domain.Stats{Vaults: 3, PublicVaults: 2, PrivateVaults: 1, Messages: 7, Participants: 5}})
	if err := m.Register(c); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	fams := gather(t, m)
	if got := fams["relay_store_messages"].GetMetric()[0].GetGauge().GetValue(); got != 7 {
		t.Errorf("messages = %v, want 7", got)
	}
	if got := fams["relay_store_participants"].GetMetric()[0].GetGauge().GetValue(); got != 5 {
		t.Errorf("participants = %v, want 5", got)
	}

	byType := map[string]float64{}
	for _, metric := range fams["relay_store_vaults"].GetMetric() {
		byType[metric.GetLabel()[0].GetValue()] = metric.GetGauge().GetValue()
	}
	if byType["public"] != 2 || byType["private"] != 1 {
		t.Errorf("unexpected vault gauges: %v", byType)
	}
}

func TestCollector_DoubleRegister(t *testing.T) {
	m := New()
	c := NewCollector(fakeStats{})
	if err := m.Register(c); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	if err := m.Register(NewCollector(fakeStats{})); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRateLimited("write")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `relay_http_rate_limited_total{limiter="write"} 1`) {
		t.Errorf("exposition missing rate limit counter:\n%s", body)
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Error("exposition missing runtime collector")
	}
}

package metric

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/redrabbit/vaultrelay/internal/core/domain"
)

// StatsProvider reports the current store counters.
type StatsProvider interface {
	Stats() domain.Stats
}

// Collector exposes store counters as gauges computed at scrape time.
type Collector struct {
	source StatsProvider

	vaults       *prometheus.Desc
	messages     *prometheus.Desc
	participants *prometheus.Desc
}

// NewCollector creates a collector reading from source.
func NewCollector(source StatsProvider) *Collector {
	return &Collector{
		source: source,
		vaults: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "store", "vaults"),
			"Vaults currently held in memory, by type",
			[]string{"type"}, nil,
		),
		messages: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "store", "messages"),
			"Messages currently held in memory",
			nil, nil,
		),
		participants: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "store", "participants"),
			"Participants summed over all vaults",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.vaults
	ch <- c.messages
	ch <- c.participants
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.source.Stats()
	ch <- prometheus.MustNewConstMetric(c.vaults, prometheus.GaugeValue, float64(st.PublicVaults), string(domain.VaultPublic))
	ch <- prometheus.MustNewConstMetric(c.vaults, prometheus.GaugeValue, float64(st.PrivateVaults), string(domain.VaultPrivate))
	ch <- prometheus.MustNewConstMetric(c.messages, prometheus.GaugeValue, float64(st.Messages))
	ch <- prometheus.MustNewConstMetric(c.participants, prometheus.GaugeValue, float64(st.Participants))
}

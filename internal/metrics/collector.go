package metrics

import (
	"sync"
	"time"

	"media-gallery/internal/logging"
)

// StatsProvider interface for collecting stats
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds the current catalog statistics
type Stats struct {
	TotalItems  int
	TotalImages int
	TotalVideos int
	LastScan    time.Time
}

// Collector periodically collects and updates metrics
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopOnce      sync.Once
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection
func (c *Collector) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.GetStats()

	CatalogItems.WithLabelValues("image").Set(float64(stats.TotalImages))
	CatalogItems.WithLabelValues("video").Set(float64(stats.TotalVideos))
	if !stats.LastScan.IsZero() {
		CatalogLastScanTimestamp.Set(float64(stats.LastScan.Unix()))
	}

	logging.Debug("Metrics collected: items=%d, images=%d, videos=%d",
		stats.TotalItems, stats.TotalImages, stats.TotalVideos)
}

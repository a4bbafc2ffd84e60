package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type mockStatsProvider struct {
	mu    sync.Mutex
	calls int
	stats Stats
}

func (m *mockStatsProvider) GetStats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.stats
}

func (m *mockStatsProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestCollectorCollect(t *testing.T) {
	scan := time.Unix(1700000000, 0)
	provider := &mockStatsProvider{stats: Stats{TotalItems: 12, TotalImages: 9, TotalVideos: 3, LastScan: scan}}
	c := NewCollector(provider, time.Minute)

	c.collect()

	if got := testutil.ToFloat64(CatalogItems.WithLabelValues("image")); got != 9 {
		t.Errorf("Expected 9 images, got %v", got)
	}
	if got := testutil.ToFloat64(CatalogItems.WithLabelValues("video")); got != 3 {
		t.Errorf("Expected 3 videos, got %v", got)
	}
	if got := testutil.ToFloat64(CatalogLastScanTimestamp); got != float64(scan.Unix()) {
		t.Errorf("Expected last scan %d, got %v", scan.Unix(), got)
	}
}

func TestCollectorNilProvider(_ *testing.T) {
	NewCollector(nil, time.Minute).collect()
}

func TestCollectorStartStop(t *testing.T) {
	provider := &mockStatsProvider{}
	c := NewCollector(provider, 10*time.Millisecond)
	c.Start()

	deadline := time.Now().Add(2 * time.Second)
	for provider.callCount() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	c.Stop()
	c.Stop()

	if provider.callCount() < 2 {
		t.Errorf("Expected repeated collection, got %d calls", provider.callCount())
	}
}

package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"media-gallery/internal/filesystem"
	"media-gallery/internal/logging"
	"media-gallery/internal/mediatypes"
	"media-gallery/internal/workers"
)

// Throttle blocks probe workers while the process is under memory pressure.
// memory.Monitor satisfies it. WaitIfPaused returns false when the wait was
// abandoned and the worker should stop.
type Throttle interface {
	WaitIfPaused() bool
}

// Scanner keeps the catalog entries of a directory current.
type Scanner struct {
	store    *Store
	prober   *Prober
	throttle Throttle
	workers  int
}

// NewScanner creates a scanner. A nil throttle never blocks; workers <= 0
// sizes the pool from PROBE_WORKERS or the CPU count.
func NewScanner(store *Store, prober *Prober, throttle Throttle, workerCount int) *Scanner {
	if workerCount <= 0 {
		workerCount = workers.ForIO(8)
	}
	return &Scanner{store: store, prober: prober, throttle: throttle, workers: workerCount}
}

type probeJob struct {
	path    string
	modTime time.Time
}

// Scan lists the media files directly inside dir, probes the ones without a
// current entry and returns descriptors for all of them ordered by name.
func (s *Scanner) Scan(ctx context.Context, dir string) ([]mediatypes.Descriptor, error) {
	start := time.Now()
	dir = filepath.Clean(dir)

	entries, err := filesystem.ReadDir(dir, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	known, err := s.store.List(ctx, dir)
	if err != nil {
		return nil, err
	}
	cached := make(map[string]Item, len(known))
	for _, it := range known {
		cached[it.Path] = it
	}

	var (
		paths  []string
		jobs   []probeJob
		result = make(map[string]mediatypes.Descriptor)
	)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !mediatypes.IsMediaFile(strings.ToLower(filepath.Ext(name))) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			logging.Warn("Skipping %s: %v", name, err)
			continue
		}
		path := filepath.Join(dir, name)
		paths = append(paths, path)

		modTime := info.ModTime().Truncate(time.Second)
		if it, ok := cached[path]; ok && it.ModTime.Equal(modTime) {
			result[path] = it.Descriptor
			continue
		}
		jobs = append(jobs, probeJob{path: path, modTime: modTime})
	}

	probed, err := s.probeAll(ctx, jobs)
	for path, desc := range probed {
		result[path] = desc
	}
	if err != nil {
		return nil, err
	}

	if removed, err := s.store.Prune(ctx, dir, paths); err != nil {
		logging.Warn("Failed to prune catalog entries in %s: %v", dir, err)
	} else if removed > 0 {
		logging.Info("Removed %d stale catalog entries in %s", removed, dir)
	}

	if err := s.store.SetLastScan(ctx, time.Now()); err != nil {
		logging.Warn("Failed to record scan time: %v", err)
	}
	if err := s.store.refreshStats(ctx); err != nil {
		logging.Warn("Failed to refresh catalog statistics: %v", err)
	}

	sort.Strings(paths)
	out := make([]mediatypes.Descriptor, 0, len(paths))
	for _, p := range paths {
		out = append(out, result[p])
	}

	logging.Info("Scanned %s: %d items, %d probed in %v", dir, len(out), len(jobs), time.Since(start).Round(time.Millisecond))
	return out, nil
}

func (s *Scanner) probeAll(ctx context.Context, jobs []probeJob) (map[string]mediatypes.Descriptor, error) {
	results := make(map[string]mediatypes.Descriptor, len(jobs))
	if len(jobs) == 0 {
		return results, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)
	queue := make(chan probeJob)

	n := min(s.workers, len(jobs))
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range queue {
				if s.throttle != nil && !s.throttle.WaitIfPaused() {
					cancel()
					return
				}
				desc, err := s.prober.Probe(ctx, job.path)
				if err != nil && ctx.Err() != nil {
					return
				}
				// Unprobeable files are still listed, with unknown geometry.
				if err := s.store.Upsert(ctx, Item{Descriptor: desc, ModTime: job.modTime}); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					cancel()
				}
				mu.Lock()
				results[job.path] = desc
				mu.Unlock()
			}
		}()
	}

feed:
	for _, job := range jobs {
		select {
		case queue <- job:
		case <-ctx.Done():
			break feed
		}
	}
	close(queue)
	wg.Wait()

	if firstErr != nil {
		return results, firstErr
	}
	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return results, err
	}
	if len(results) < len(jobs) {
		return results, fmt.Errorf("catalog: scan interrupted after %d of %d probes", len(results), len(jobs))
	}
	return results, nil
}

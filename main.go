package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"media-gallery/internal/catalog"
	"media-gallery/internal/decoder"
	"media-gallery/internal/filesystem"
	"media-gallery/internal/gallery"
	"media-gallery/internal/handlers"
	"media-gallery/internal/logging"
	"media-gallery/internal/media"
	"media-gallery/internal/mediatypes"
	"media-gallery/internal/memory"
	"media-gallery/internal/metrics"
	"media-gallery/internal/middleware"
	"media-gallery/internal/playback"
	"media-gallery/internal/startup"
	"media-gallery/internal/timer"
	"media-gallery/internal/zoompan"

	"github.com/gorilla/mux"
)

// frameInterval is how often players advance and pending taps resolve.
const frameInterval = 33 * time.Millisecond

func main() {
	startTime := time.Now()

	// Must run before significant allocations
	memConfig := memory.ConfigureFromEnv()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}
	startup.LogMemoryConfig(memConfig)

	// Metrics and observers
	metrics.InitializeMetrics()
	buildInfo := startup.GetBuildInfo()
	metrics.SetAppInfo(buildInfo.Version, buildInfo.Commit, buildInfo.GoVersion)
	playback.SetObserver(metrics.NewPlaybackObserver())
	zoompan.SetObserver(metrics.NewGestureObserver())
	filesystem.SetObserver(metrics.NewFilesystemObserver())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize catalog
	store, err := catalog.New(ctx, config.DatabasePath)
	if err != nil {
		startup.LogFatal("Failed to initialize catalog: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Warn("Failed to close catalog: %v", err)
		}
	}()

	monitor := memory.NewMonitor(memory.DefaultConfig())
	monitor.Start()

	collector := metrics.NewCollector(store, time.Minute)
	collector.Start()

	// The loop owns the gallery, its slots and every player callback
	startup.LogDecoderInit()
	loop := timer.NewLoop(256)
	loopCtx, stopLoop := context.WithCancel(context.Background())
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		if err := loop.Run(loopCtx); err != nil && !errors.Is(err, context.Canceled) {
			logging.Error("Gallery loop stopped: %v", err)
		}
	}()
	factory := decoder.NewFactory(loop, decoder.ProbeVideo)
	scheduler := timer.NewLoopScheduler(loop)

	newGallery := func(items []mediatypes.Descriptor) *gallery.Gallery {
		return gallery.New(items, gallery.Options{
			PoolSize: config.SlotPoolSize,
			Viewport: config.Viewport,
			MaxScale: config.MaxZoomScale,
			Actions:  config.Actions,
			Slot: playback.SlotOptions{
				Config:    config.Playback,
				Factory:   factory,
				Probe:     monitor,
				Scheduler: scheduler,
			},
		})
	}

	scanner := catalog.NewScanner(store, catalog.NewProber(), monitor, 0)
	scanStart := time.Now()
	items, err := scanner.Scan(ctx, config.MediaDir)
	if err != nil {
		logging.Error("Initial scan failed: %v", err)
	}
	startup.LogCatalogInit(time.Since(scanStart), len(items))

	// Initialize handlers
	h := handlers.New(loop, nil, media.NewCache(config.SlotPoolSize), store)
	if err := h.SwapGallery(ctx, newGallery(items)); err != nil {
		startup.LogFatal("Failed to start gallery: %v", err)
	}

	go runFrames(ctx, loop, factory, h)
	go runRescans(ctx, config, scanner, items, func(next []mediatypes.Descriptor) error {
		return h.SwapGallery(ctx, newGallery(next))
	})

	// Setup router
	router := setupRouter(h, config.MetricsEnabled)
	startup.LogHTTPRoutes(router, config.LogHealthChecks, config.LogPreviews)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	loggingConfig.LogPreviews = config.LogPreviews
	handler := middleware.Logger(loggingConfig)(router)

	srv := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", h.MetricsHandler())
		metricsMux.HandleFunc("/health", h.LivenessCheck)
		metricsSrv = &http.Server{
			Addr:              ":" + config.MetricsPort,
			Handler:           metricsMux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		handleShutdown(srv, metricsSrv, func(shutdownCtx context.Context) {
			cancel()

			startup.LogShutdownStep("Releasing players")
			if err := h.Close(shutdownCtx); err != nil {
				logging.Warn("Failed to release players: %v", err)
			}
			stopLoop()
			<-loopDone
			startup.LogShutdownStepComplete("Players released")

			startup.LogShutdownStep("Stopping background workers")
			monitor.Stop()
			collector.Stop()
			startup.LogShutdownStepComplete("Background workers stopped")
		})
	}()

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		startup.LogFatal("Server error: %v", err)
	}
	<-shutdownDone
}

func setupRouter(h *handlers.Handlers, recordMetrics bool) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// Session routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/items", h.ListItems).Methods("GET")
	api.HandleFunc("/levels", h.GetLevels).Methods("GET")
	api.HandleFunc("/focus/{index}", h.SetFocus).Methods("POST")
	api.HandleFunc("/scroll", h.SetScrolling).Methods("POST")
	api.HandleFunc("/viewport", h.SetViewport).Methods("POST")

	// Per-item routes
	item := api.PathPrefix("/items/{index}").Subrouter()
	item.HandleFunc("", h.GetItem).Methods("GET")
	item.HandleFunc("/pointer", h.PointerEvent).Methods("POST")
	item.HandleFunc("/preview.png", h.Preview).Methods("GET")
	item.HandleFunc("/zoom/cycle", h.CycleZoom).Methods("POST")
	item.HandleFunc("/zoom/reset", h.ResetZoom).Methods("POST")
	item.HandleFunc("/reload", h.Reload).Methods("POST")
	item.HandleFunc("/play", h.TogglePlay).Methods("POST")
	item.HandleFunc("/player", h.GetPlayer).Methods("GET")

	if recordMetrics {
		r.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))
	}
	return r
}

// runFrames advances players and resolves expired single taps on the loop.
func runFrames(ctx context.Context, loop *timer.Loop, factory *decoder.Factory, h *handlers.Handlers) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			if !loop.Post(func() {
				factory.Tick(now)
				h.FlushTaps(now)
			}) {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// runRescans rescans the media directory and installs a new gallery when
// the item list changed.
func runRescans(ctx context.Context, config *startup.Config, scanner *catalog.Scanner, current []mediatypes.Descriptor, install func([]mediatypes.Descriptor) error) {
	if config.ScanInterval <= 0 {
		logging.Info("Periodic rescans disabled (SCAN_INTERVAL=0)")
		return
	}
	ticker := time.NewTicker(config.ScanInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			start := time.Now()
			items, err := scanner.Scan(ctx, config.MediaDir)
			if err != nil {
				logging.Error("Rescan failed: %v", err)
				continue
			}
			if slices.Equal(items, current) {
				logging.Debug("Rescan found no changes in %v", time.Since(start))
				continue
			}
			if err := install(items); err != nil {
				logging.Warn("Failed to install rescanned gallery: %v", err)
				continue
			}
			logging.Info("Rescan found %d items (was %d) in %v", len(items), len(current), time.Since(start))
			current = items
		case <-ctx.Done():
			return
		}
	}
}

func handleShutdown(srv, metricsSrv *http.Server, cleanup func(ctx context.Context)) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	cleanup(ctx)
	startup.LogShutdownComplete()
}

package startup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"media-gallery/internal/gesture"
	"media-gallery/internal/logging"
	"media-gallery/internal/memory"
	"media-gallery/internal/playback"
	"media-gallery/internal/viewport"
	"media-gallery/internal/zoompan"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// Config holds all application configuration
type Config struct {
	Settings

	// Derived paths
	DatabasePath string
}

// Settings holds the values read from the environment. LoadConfig resolves
// and prepares the directories on top of them.
type Settings struct {
	MediaDir        string
	DatabaseDir     string
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	LogHealthChecks bool
	LogPreviews     bool
	ScanInterval    time.Duration
	// Viewport is the default render viewport until a client reports its own.
	Viewport        viewport.Viewport
	MaxZoomScale    float64
	Actions         zoompan.ActionTable
	Playback        playback.Config
	SlotPoolSize    int
}

// swipeEnv lists the swipe binding variables in table order.
var swipeEnv = []struct {
	key  string
	side gesture.Side
	dir  gesture.Direction
}{
	{"SWIPE_LEFT_UP", gesture.SideLeft, gesture.DirectionUp},
	{"SWIPE_LEFT_DOWN", gesture.SideLeft, gesture.DirectionDown},
	{"SWIPE_RIGHT_UP", gesture.SideRight, gesture.DirectionUp},
	{"SWIPE_RIGHT_DOWN", gesture.SideRight, gesture.DirectionDown},
}

// ReadSettings parses the environment. Invalid values are logged and
// replaced by their defaults.
func ReadSettings() Settings {
	defaults := playback.DefaultConfig()

	s := Settings{
		MediaDir:        getEnv("MEDIA_DIR", "/media"),
		DatabaseDir:     getEnv("DATABASE_DIR", "/database"),
		Port:            getEnv("PORT", "8080"),
		MetricsPort:     getEnv("METRICS_PORT", "9090"),
		MetricsEnabled:  getEnvBool("METRICS_ENABLED", true),
		LogHealthChecks: getEnvBool("LOG_HEALTH_CHECKS", true),
		LogPreviews:     getEnvBool("LOG_PREVIEWS", false),
		ScanInterval:    getEnvDurationAllowZero("SCAN_INTERVAL", 30*time.Minute),
		Viewport: viewport.Viewport{
			Width:  getEnvFloat("VIEWPORT_WIDTH", 1080),
			Height: getEnvFloat("VIEWPORT_HEIGHT", 1920),
		},
		SlotPoolSize: getEnvInt("SLOT_POOL_SIZE", 3),
		Playback: playback.Config{
			LoadTimeout:   getEnvDuration("PLAYER_LOAD_TIMEOUT", defaults.LoadTimeout),
			MaxRetries:    getEnvInt("PLAYER_MAX_RETRIES", defaults.MaxRetries),
			RetryCooldown: getEnvDuration("PLAYER_RETRY_COOLDOWN", defaults.RetryCooldown),
			Admission: playback.AdmissionConfig{
				CriticalRatio: getEnvFloat("MEMORY_CRITICAL_RATIO", defaults.Admission.CriticalRatio),
				MinHeadroom:   getEnvBytes("MEMORY_MIN_HEADROOM", defaults.Admission.MinHeadroom),
			},
		},
	}

	if s.SlotPoolSize < 1 {
		logging.Warn("SLOT_POOL_SIZE must be at least 1, using default: 3")
		s.SlotPoolSize = 3
	}
	if s.Playback.MaxRetries < 0 {
		logging.Warn("PLAYER_MAX_RETRIES must not be negative, using default: %d", defaults.MaxRetries)
		s.Playback.MaxRetries = defaults.MaxRetries
	}
	if r := s.Playback.Admission.CriticalRatio; r <= 0 || r > 1 {
		logging.Warn("MEMORY_CRITICAL_RATIO %.2f out of range (0.0-1.0], using default: %.2f", r, defaults.Admission.CriticalRatio)
		s.Playback.Admission.CriticalRatio = defaults.Admission.CriticalRatio
	}

	requested := getEnvFloat("MAX_ZOOM_SCALE", viewport.DefaultMaxScale)
	s.MaxZoomScale = viewport.NormalizeMaxScale(requested)
	if s.MaxZoomScale != requested {
		logging.Warn("MAX_ZOOM_SCALE %.2f adjusted to %.2f", requested, s.MaxZoomScale)
	}

	s.Actions = zoompan.DefaultActionTable()
	s.Actions.SingleTap = getEnvAction("SINGLE_TAP_ACTION", s.Actions.SingleTap)
	s.Actions.DoubleTap = getEnvAction("DOUBLE_TAP_ACTION", s.Actions.DoubleTap)
	for _, e := range swipeEnv {
		s.Actions.SetSwipe(e.side, e.dir, getEnvAction(e.key, s.Actions.SwipeAction(e.side, e.dir)))
	}

	return s
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	s := ReadSettings()

	logging.Info("  MEDIA_DIR:             %s", s.MediaDir)
	logging.Info("  DATABASE_DIR:          %s", s.DatabaseDir)
	logging.Info("  PORT:                  %s", s.Port)
	logging.Info("  METRICS_PORT:          %s", s.MetricsPort)
	logging.Info("  METRICS_ENABLED:       %v", s.MetricsEnabled)
	logging.Info("  SCAN_INTERVAL:         %s", s.ScanInterval)
	logging.Info("  LOG_HEALTH_CHECKS:     %v", s.LogHealthChecks)
	logging.Info("  LOG_PREVIEWS:          %v", s.LogPreviews)
	logging.Info("  LOG_LEVEL:             %s", logging.GetLevel())
	logging.Info("  VIEWPORT:              %.0fx%.0f", s.Viewport.Width, s.Viewport.Height)
	logging.Info("  MAX_ZOOM_SCALE:        %.2f", s.MaxZoomScale)
	logging.Info("  SINGLE_TAP_ACTION:     %s", s.Actions.SingleTap)
	logging.Info("  DOUBLE_TAP_ACTION:     %s", s.Actions.DoubleTap)
	for _, e := range swipeEnv {
		logging.Info("  %-22s %s", e.key+":", s.Actions.SwipeAction(e.side, e.dir))
	}
	logging.Info("  SLOT_POOL_SIZE:        %d", s.SlotPoolSize)
	logging.Info("  PLAYER_LOAD_TIMEOUT:   %s", s.Playback.LoadTimeout)
	logging.Info("  PLAYER_MAX_RETRIES:    %d", s.Playback.MaxRetries)
	logging.Info("  PLAYER_RETRY_COOLDOWN: %s", s.Playback.RetryCooldown)
	logging.Info("  MEMORY_CRITICAL_RATIO: %.2f", s.Playback.Admission.CriticalRatio)
	logging.Info("  MEMORY_MIN_HEADROOM:   %s", memory.FormatBytes(s.Playback.Admission.MinHeadroom))

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	mediaDir, err := filepath.Abs(s.MediaDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve media directory path: %w", err)
	}
	logging.Info("  Media directory (absolute): %s", mediaDir)

	databaseDir, err := filepath.Abs(s.DatabaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database directory path: %w", err)
	}
	logging.Info("  Database directory (absolute): %s", databaseDir)

	// A missing media directory only yields an empty gallery.
	if err := ensureDirectory(mediaDir, "media"); err != nil {
		logging.Warn("  Media directory issue: %v", err)
	}

	if err := ensureDirectory(databaseDir, "database"); err != nil {
		return nil, fmt.Errorf("database directory error: %w", err)
	}
	logging.Debug("  Testing database directory write access...")
	if err := testWriteAccess(databaseDir); err != nil {
		return nil, fmt.Errorf("database directory is not writable (required for catalog): %w", err)
	}
	logging.Info("  [OK] Database directory is writable")

	s.MediaDir = mediaDir
	s.DatabaseDir = databaseDir
	return &Config{
		Settings:     s,
		DatabasePath: filepath.Join(databaseDir, "catalog.db"),
	}, nil
}

// LogMemoryConfig logs the outcome of memory.ConfigureFromEnv.
func LogMemoryConfig(mc memory.ConfigResult) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("MEMORY CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	switch {
	case !mc.Configured:
		logging.Info("  GOMEMLIMIT not configured (set MEMORY_LIMIT or GOMEMLIMIT)")
		logging.Info("  Player admission control uses no memory budget")
	case mc.Source == "GOMEMLIMIT":
		logging.Info("  GOMEMLIMIT:      %s (from environment)", memory.FormatBytes(mc.GoMemLimit))
	default:
		logging.Info("  Container limit: %s", memory.FormatBytes(mc.ContainerLimit))
		logging.Info("  GOMEMLIMIT:      %s (%.0f%% of container)", memory.FormatBytes(mc.GoMemLimit), mc.Ratio*100)
	}
}

// LogCatalogInit logs catalog initialization
func LogCatalogInit(duration time.Duration, items int) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("CATALOG INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  [OK] Catalog scanned in %v (%d items)", duration, items)
}

// LogDecoderInit logs decoder initialization and checks for ffprobe
func LogDecoderInit() {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DECODER INITIALIZATION")
	logging.Info("------------------------------------------------------------")

	if err := checkFFprobe(); err != nil {
		logging.Warn("  ffprobe check failed: %v", err)
		logging.Warn("  Videos will fail to prepare and show the error state")
		return
	}
	logging.Info("  [OK] ffprobe is available")
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"*"}
		}

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   route.GetName(),
			})
		}
		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes, grouped by prefix, at
// debug level.
func LogHTTPRoutes(router *mux.Router, logHealthChecks, logPreviews bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		logging.Debug("  Registered routes (%d total):", len(routes))

		groups := make(map[string][]RouteInfo)
		for _, route := range routes {
			prefix := getRouteGroup(route.Path)
			groups[prefix] = append(groups[prefix], route)
		}

		groupKeys := make([]string, 0, len(groups))
		for k := range groups {
			groupKeys = append(groupKeys, k)
		}
		sort.Strings(groupKeys)

		for _, group := range groupKeys {
			label := group
			if label == "" {
				label = "root"
			}
			logging.Debug("  [%s]", label)
			for _, route := range groups[group] {
				logging.Debug("    %-6s %s", route.Method, route.Path)
			}
		}
	}

	logging.Info("  HTTP logging enabled")
	logging.Info("    Health check logging: %s", onOff(logHealthChecks, "LOG_HEALTH_CHECKS"))
	logging.Info("    Preview logging:      %s", onOff(logPreviews, "LOG_PREVIEWS"))
}

func onOff(on bool, key string) string {
	if on {
		return "ON"
	}
	return "OFF (set " + key + "=true to enable)"
}

// getRouteGroup extracts a group name from a route path
func getRouteGroup(path string) string {
	parts := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 3)
	if parts[0] == "api" && len(parts) > 1 {
		return "api/" + parts[1]
	}
	return parts[0]
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Control API:   http://0.0.0.0:%s/api", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://0.0.0.0:%s/metrics", config.MetricsPort)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

func printBanner() {
	banner := `
------------------------------------------------------------
   ____       _ _                      _
  / ___| __ _| | | ___ _ __ _   _   __| |
 | |  _ / _' | | |/ _ \ '__| | | | / _' |
 | |_| | (_| | | |  __/ |  | |_| || (_| |
  \____|\__,_|_|_|\___|_|   \__, | \__,_|
                            |___/
------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if logging.IsDebugEnabled() {
		logging.Debug("  Goroutines:      %d", runtime.NumGoroutine())
		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}
		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
	}
	return nil
}

func checkFFprobe() error {
	path, err := exec.LookPath("ffprobe")
	if err != nil {
		return fmt.Errorf("ffprobe not found in PATH")
	}
	logging.Debug("  ffprobe path: %s", path)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	output, err := exec.CommandContext(ctx, "ffprobe", "-version").Output()
	if err != nil {
		return fmt.Errorf("failed to get ffprobe version: %w", err)
	}
	if line, _, _ := strings.Cut(string(output), "\n"); line != "" {
		logging.Debug("  ffprobe version: %s", strings.TrimSpace(line))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		logging.Warn("Invalid number for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		logging.Warn("Invalid duration for %s: %q, using default: %s", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

// getEnvDurationAllowZero is getEnvDuration for settings where zero
// switches the feature off.
func getEnvDurationAllowZero(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed < 0 {
		logging.Warn("Invalid duration for %s: %q, using default: %s", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvBytes(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := memory.ParseBytes(value)
	if err != nil || parsed < 0 {
		logging.Warn("Invalid byte size for %s: %q, using default: %s", key, value, memory.FormatBytes(defaultValue))
		return defaultValue
	}
	return parsed
}

func getEnvAction(key string, defaultValue zoompan.Action) zoompan.Action {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	a, err := zoompan.ParseAction(value)
	if err != nil {
		logging.Warn("Invalid action for %s: %v, using default: %s", key, err, defaultValue)
		return defaultValue
	}
	return a
}

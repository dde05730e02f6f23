package api

import (
	"context"
	"database/sql"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/pokedex/internal/pkg/httputil"
	"github.com/ignite/pokedex/internal/pkg/logger"
)

const (
	healthMessage = "Gotta catch them all!"
	healthVersion = "1.0.0"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Message string                    `json:"message"`
	Status  string                    `json:"status"` // healthy, degraded, unhealthy
	Version string                    `json:"version"`
	Storage string                    `json:"storage"`
	Uptime  string                    `json:"uptime"`
	Checks  map[string]ComponentCheck `json:"checks"`
}

// ComponentCheck is the result of pinging one backend connection.
type ComponentCheck struct {
	Status  string `json:"status"` // up, degraded, down
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// probe pings one connection. slow marks the latency above which the
// component is reported degraded.
type probe struct {
	name    string
	timeout time.Duration
	slow    time.Duration
	ping    func(context.Context) error
}

func (p probe) run(ctx context.Context) ComponentCheck {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	err := p.ping(ctx)
	latency := time.Since(start)

	c := ComponentCheck{Status: "up", Latency: latency.String()}
	switch {
	case err != nil:
		logger.Warn("health check failed", "component", p.name, "error", err)
		c.Status = "down"
		c.Error = safeErrorMessage(http.StatusInternalServerError, err)
	case latency > p.slow:
		c.Status = "degraded"
	}
	return c
}

// HealthChecker reports on the connections held by the storage backend.
// Backends without a connection (memory, dynamodb) report no checks.
type HealthChecker struct {
	storage string
	probes  map[string]probe
	started time.Time
}

// NewHealthChecker builds a checker for the given handles; either may be nil.
func NewHealthChecker(storage string, db *sql.DB, rdb *redis.Client) *HealthChecker {
	probes := make(map[string]probe)
	if db != nil {
		probes["database"] = probe{name: "database", timeout: 3 * time.Second, slow: time.Second, ping: db.PingContext}
	}
	if rdb != nil {
		probes["redis"] = probe{
			name:    "redis",
			timeout: 2 * time.Second,
			slow:    500 * time.Millisecond,
			ping:    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}
	}
	return &HealthChecker{storage: storage, probes: probes, started: time.Now()}
}

// HandleHealth always answers 200 with the greeting and every check.
func (hc *HealthChecker) HandleHealth(w http.ResponseWriter, r *http.Request) {
	checks := hc.check(r.Context())
	httputil.OK(w, HealthStatus{
		Message: healthMessage,
		Status:  overallStatus(checks),
		Version: healthVersion,
		Storage: hc.storage,
		Uptime:  hc.uptime(),
		Checks:  checks,
	})
}

// HandleLiveness answers 200 while the process is up.
func (hc *HealthChecker) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{"status": "alive", "uptime": hc.uptime()})
}

// HandleReadiness answers 503 when a storage connection is down.
func (hc *HealthChecker) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	checks := hc.check(r.Context())
	status := overallStatus(checks)
	code := http.StatusOK
	if status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}
	httputil.JSON(w, code, map[string]interface{}{
		"ready":  code == http.StatusOK,
		"status": status,
		"checks": checks,
	})
}

// check runs every probe concurrently.
func (hc *HealthChecker) check(ctx context.Context) map[string]ComponentCheck {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		checks = make(map[string]ComponentCheck, len(hc.probes))
	)
	for name, p := range hc.probes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := p.run(ctx)
			mu.Lock()
			checks[name] = c
			mu.Unlock()
		}()
	}
	wg.Wait()
	return checks
}

func (hc *HealthChecker) uptime() string {
	return time.Since(hc.started).Truncate(time.Second).String()
}

func overallStatus(checks map[string]ComponentCheck) string {
	status := "healthy"
	for _, c := range checks {
		switch c.Status {
		case "down":
			return "unhealthy"
		case "degraded":
			status = "degraded"
		}
	}
	return status
}

package health

import (
	"context"
	"encoding/json"
	"runtime"
	"strconv"
	"time"

	"agriconnect-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const (
	StatusOK    = "ok"
	StatusIssue = "issue"

	depConnected    = "connected"
	depDisconnected = "disconnected"
	depError        = "error"
)

// DBPinger is optional. If nil, the database is reported as disconnected.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// Report is the body of GET /health/json.
type Report struct {
	Service      string               `json:"service"`
	Status       string               `json:"status"`
	Runtime      RuntimeInfo          `json:"runtime"`
	Traffic      TrafficInfo          `json:"traffic"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

type RuntimeInfo struct {
	UptimeSeconds int64  `json:"uptimeSeconds"`
	HeapMB        int    `json:"heapMb"`
	Goroutines    int    `json:"goroutines"`
	Platform      string `json:"platform"`
	GoVersion     string `json:"goVersion"`
}

type TrafficInfo struct {
	TotalRequests   int                    `json:"totalRequests"`
	SuccessCount    int                    `json:"successCount"`
	FailedCount     int                    `json:"failedCount"`
	SuccessRate     string                 `json:"successRate"`
	AvgResponseTime string                 `json:"avgResponseTime"`
	LastRequest     map[string]interface{} `json:"lastRequest"`
}

type DepStatus struct {
	Status string `json:"status"`
	PingMs *int64 `json:"pingMs"`
}

// Collect pings the database and Redis and reads the request counters kept by
// middleware.HealthMarker.
func Collect(ctx context.Context, rdb *redis.Client, db DBPinger) Report {
	report := Report{
		Service:      "agriconnect-api",
		Dependencies: make(map[string]DepStatus, 2),
		Traffic:      TrafficInfo{SuccessRate: "100", AvgResponseTime: "0"},
	}

	dbDep := DepStatus{Status: depDisconnected}
	if db != nil {
		dbDep = ping(func() error { return db.PingContext(ctx) })
	}
	report.Dependencies["database"] = dbDep

	startMs := time.Now().UnixMilli()
	redisDep := DepStatus{Status: depDisconnected}
	if rdb != nil {
		redisDep = ping(func() error { return rdb.Ping(ctx).Err() })
		if redisDep.Status == depConnected {
			if t, ok := readTraffic(ctx, rdb, &report.Traffic); ok {
				startMs = t
			}
		}
	}
	report.Dependencies["redis"] = redisDep

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	uptime := (time.Now().UnixMilli() - startMs) / 1000
	if uptime < 0 {
		uptime = 0
	}
	report.Runtime = RuntimeInfo{
		UptimeSeconds: uptime,
		HeapMB:        int(m.HeapInuse / 1024 / 1024),
		Goroutines:    runtime.NumGoroutine(),
		Platform:      runtime.GOOS + " (" + runtime.GOARCH + ")",
		GoVersion:     runtime.Version(),
	}

	report.Status = StatusIssue
	if dbDep.Status == depConnected && redisDep.Status == depConnected {
		report.Status = StatusOK
	}
	return report
}

func ping(fn func() error) DepStatus {
	start := time.Now()
	if err := fn(); err != nil {
		return DepStatus{Status: depError}
	}
	ms := time.Since(start).Milliseconds()
	return DepStatus{Status: depConnected, PingMs: &ms}
}

// readTraffic fills t from Redis and returns the recorded start time, if any.
func readTraffic(ctx context.Context, rdb *redis.Client, t *TrafficInfo) (int64, bool) {
	vals, err := rdb.MGet(ctx, middleware.KeyReqTotal, middleware.KeyReqErrors, middleware.KeyResTime,
		middleware.KeyResCount, middleware.KeyStartTime, middleware.KeyLastReq).Result()
	if err != nil {
		return 0, false
	}
	s := func(i int) string {
		v, _ := vals[i].(string)
		return v
	}

	t.TotalRequests, _ = strconv.Atoi(s(0))
	t.FailedCount, _ = strconv.Atoi(s(1))
	t.SuccessCount = t.TotalRequests - t.FailedCount
	if t.TotalRequests > 0 {
		t.SuccessRate = strconv.FormatFloat(float64(t.SuccessCount)/float64(t.TotalRequests)*100, 'f', 1, 64)
	}
	timeSum, _ := strconv.ParseFloat(s(2), 64)
	if count, _ := strconv.Atoi(s(3)); count > 0 {
		t.AvgResponseTime = strconv.FormatFloat(timeSum/float64(count), 'f', 2, 64)
	}
	if last := s(5); last != "" {
		_ = json.Unmarshal([]byte(last), &t.LastRequest)
	}

	start, err := strconv.ParseInt(s(4), 10, 64)
	return start, err == nil
}

// Reset clears the request counters and restarts the uptime clock.
func Reset(ctx context.Context, rdb *redis.Client, now time.Time) error {
	_, err := rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, middleware.HealthKeys...)
		p.Set(ctx, middleware.KeyStartTime, now.UnixMilli(), 0)
		return nil
	})
	return err
}

package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

func TestCollect_WithNilDeps(t *testing.T) {
	report := Collect(context.Background(), nil, nil)
	assert.Equal(t, StatusIssue, report.Status)
	assert.Equal(t, "disconnected", report.Dependencies["database"].Status)
	assert.Equal(t, "disconnected", report.Dependencies["redis"].Status)
	assert.Equal(t, 0, report.Traffic.TotalRequests)
	assert.Equal(t, "agriconnect-api", report.Service)
}

func TestCollect_WithMiniredis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()

	report := Collect(ctx, rdb, pinger{})
	assert.Equal(t, StatusOK, report.Status)
	assert.Equal(t, "100", report.Traffic.SuccessRate)

	require.NoError(t, rdb.Set(ctx, "health:global:req_total", "10", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:global:req_errors", "2", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:global:res_time_total", "150.5", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:global:res_count", "10", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:global:start_time", "1000000", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:global:last_request", `{"method":"GET","path":"/api/listings"}`, 0).Err())

	report = Collect(ctx, rdb, pinger{})
	assert.Equal(t, 10, report.Traffic.TotalRequests)
	assert.Equal(t, 2, report.Traffic.FailedCount)
	assert.Equal(t, 8, report.Traffic.SuccessCount)
	assert.Equal(t, "80.0", report.Traffic.SuccessRate)
	assert.Equal(t, "15.05", report.Traffic.AvgResponseTime)
	assert.Equal(t, "/api/listings", report.Traffic.LastRequest["path"])
	assert.Greater(t, report.Runtime.UptimeSeconds, int64(0))
}

func TestCollect_DatabaseError(t *testing.T) {
	report := Collect(context.Background(), nil, pinger{err: errors.New("down")})
	assert.Equal(t, "error", report.Dependencies["database"].Status)
	assert.Nil(t, report.Dependencies["database"].PingMs)
	assert.Equal(t, StatusIssue, report.Status)
}

func TestReset(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()

	require.NoError(t, rdb.Set(ctx, "health:global:req_total", "5", 0).Err())
	now := time.UnixMilli(1700000000000)
	require.NoError(t, Reset(ctx, rdb, now))

	_, err = rdb.Get(ctx, "health:global:req_total").Result()
	assert.ErrorIs(t, err, redis.Nil)
	start, err := rdb.Get(ctx, "health:global:start_time").Int64()
	require.NoError(t, err)
	assert.Equal(t, now.UnixMilli(), start)
}

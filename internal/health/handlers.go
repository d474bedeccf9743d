package health

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/fas-supply/backend-wholesale/internal/common"
)

// Probe checks the backing stores the order core cannot run without.
type Probe struct {
	Pool         *pgxpool.Pool
	Redis        *redis.Client
	PingTimeout  time.Duration
	RedisTimeout time.Duration
}

var errNotConfigured = errors.New("not configured")

type status struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// Live reports process liveness. It never consults dependencies.
func (p Probe) Live(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready probes Postgres and Redis and reports per-dependency status.
func (p Probe) Ready(w http.ResponseWriter, r *http.Request) {
	s := status{Status: "ok", Database: "ok", Redis: "ok"}

	if err := p.pingDB(r.Context()); err != nil {
		s.Status = "degraded"
		s.Database = err.Error()
	}
	if err := p.pingRedis(r.Context()); err != nil {
		s.Status = "degraded"
		s.Redis = err.Error()
	}

	code := http.StatusOK
	if s.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	common.JSON(w, code, s)
}

func (p Probe) pingDB(ctx context.Context) error {
	if p.Pool == nil {
		return errNotConfigured
	}
	timeout := p.PingTimeout
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.Pool.Ping(ctx)
}

func (p Probe) pingRedis(ctx context.Context) error {
	if p.Redis == nil {
		return errNotConfigured
	}
	timeout := p.RedisTimeout
	if timeout <= 0 {
		timeout = 300 * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.Redis.Ping(ctx).Err()
}

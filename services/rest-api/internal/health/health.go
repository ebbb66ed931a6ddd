package health

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName — имя сервиса в grpc.health.v1
const ServiceName = "picshare.RestAPI"

// Pinger проверяет доступность БД
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Checker отдаёт статус сервиса по gRPC health протоколу.
// Статус определяется периодическим пингом БД.
type Checker struct {
	hs       *health.Server
	db       Pinger
	interval time.Duration
	timeout  time.Duration
}

func NewChecker(db Pinger, interval time.Duration) *Checker {
	c := &Checker{
		hs:       health.NewServer(),
		db:       db,
		interval: interval,
		timeout:  interval / 2,
	}
	// пока БД не проверена, считаем сервис недоступным
	c.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return c
}

// Register регистрирует health сервис на gRPC сервере
func (c *Checker) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, c.hs)
}

// Run пингует БД каждые interval до отмены ctx, затем переводит сервис в NOT_SERVING
func (c *Checker) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.check(ctx)
	for {
		select {
		case <-ctx.Done():
			c.hs.Shutdown()
			return
		case <-ticker.C:
			c.check(ctx)
		}
	}
}

func (c *Checker) check(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.db.PingContext(ctx); err != nil {
		slog.Warn("database ping failed", "error", err)
		c.set(healthpb.HealthCheckResponse_NOT_SERVING)
		return
	}
	c.set(healthpb.HealthCheckResponse_SERVING)
}

func (c *Checker) set(status healthpb.HealthCheckResponse_ServingStatus) {
	c.hs.SetServingStatus("", status)
	c.hs.SetServingStatus(ServiceName, status)
}

package server

import "context"

type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

// PingHealthChecker reports healthy while the given ping succeeds. It is
// usually backed by the database pool.
type PingHealthChecker struct {
	ping func(ctx context.Context) error
}

func NewPingHealthChecker(ping func(ctx context.Context) error) *PingHealthChecker {
	return &PingHealthChecker{ping: ping}
}

func (hc *PingHealthChecker) Healthy(ctx context.Context) bool {
	return hc.ping(ctx) == nil
}

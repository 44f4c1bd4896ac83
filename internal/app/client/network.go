package client

import (
	"context"
	"time"
)

// PingChecker answers IsOnline by probing the backend health endpoint with
// a short timeout. The session consults it synchronously before choosing a
// direct write over queueing.
type PingChecker struct {
	backend Backend
	timeout time.Duration
}

func NewPingChecker(backend Backend, timeout time.Duration) *PingChecker {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &PingChecker{backend: backend, timeout: timeout}
}

func (p *PingChecker) IsOnline() bool {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	return p.backend.Ping(ctx) == nil
}

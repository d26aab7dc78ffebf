package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgolink/v3/disgolink"

	"github.com/arkete/shadebot/internal/config"
)

const (
	nodeConnectAttempts = 3
	nodeConnectTimeout  = 30 * time.Second
)

// nodeConnector is the health-check's view of the audio node pool.
type nodeConnector interface {
	Available() bool
	Connect(ctx context.Context) error
}

// lavalinkPool registers the configured Lavalink node with a bounded
// number of attempts. The node password stays out of every log line; only
// the address is diagnostic.
type lavalinkPool struct {
	lavalink disgolink.Client
	cfg      *config.Config
	attempts int
	timeout  time.Duration
}

func newLavalinkPool(lavalink disgolink.Client, cfg *config.Config) *lavalinkPool {
	return &lavalinkPool{
		lavalink: lavalink,
		cfg:      cfg,
		attempts: nodeConnectAttempts,
		timeout:  nodeConnectTimeout,
	}
}

func (p *lavalinkPool) Available() bool {
	return p.lavalink.BestNode() != nil
}

func (p *lavalinkPool) Connect(ctx context.Context) error {
	address := p.cfg.NodeAddress()

	var lastErr error
	for attempt := 1; attempt <= p.attempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, p.timeout)
		node, err := p.lavalink.AddNode(attemptCtx, disgolink.NodeConfig{
			Name:     "main",
			Address:  address,
			Password: p.cfg.LavalinkPassword,
			Secure:   false,
		})
		cancel()

		if err == nil {
			slog.Info("audio node connected", "name", node.Config().Name, "address", address)
			return nil
		}

		lastErr = err
		slog.Warn("audio node connect attempt failed", "attempt", attempt, "address", address, "error", err)

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return fmt.Errorf("connect audio node %s after %d attempts: %w", address, p.attempts, lastErr)
}

// healthCheckLoop reconnects the audio pool whenever it reports no usable
// nodes. It survives every failure and exits only by cancellation.
func (b *Bot) healthCheckLoop(ctx context.Context) {
	ticker := time.NewTicker(b.healthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if b.pool.Available() {
				continue
			}

			slog.Warn("no audio nodes available, attempting reconnection")
			if err := b.pool.Connect(ctx); err != nil {
				slog.Error("audio node reconnect failed", "error", err)
				continue
			}
			slog.Info("audio nodes reconnected")
		}
	}
}

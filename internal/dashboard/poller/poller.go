// Package poller owns the dashboard's refresh timer with an explicit
// start/stop lifecycle, so tearing down the server never leaves an orphaned
// periodic read behind.
package poller

import (
	"context"
	"log/slog"
	"time"
)

// Refresher is what the poller drives; in practice the dashboard Reader.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Poller refreshes on mount and then on a fixed interval until stopped.
type Poller struct {
	reader   Refresher
	interval time.Duration
	logger   *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// New constructs a poller. Interval must be positive.
func New(reader Refresher, interval time.Duration, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{reader: reader, interval: interval, logger: logger}
}

// Start performs an immediate refresh and launches the ticking loop.
// Calling Start twice without Stop is a programming error.
func (p *Poller) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})

	if err := p.reader.Refresh(ctx); err != nil {
		p.logger.Warn("initial dashboard refresh failed", "error", err.Error())
	}

	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := p.reader.Refresh(ctx); err != nil {
					p.logger.Warn("dashboard refresh failed", "error", err.Error())
				}
			}
		}
	}()
}

// Stop cancels the loop and waits for it to exit.
func (p *Poller) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
	p.cancel = nil
}

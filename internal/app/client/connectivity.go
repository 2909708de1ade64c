package client

import (
	"context"
	"sync"
	"time"

	"golang.org/x/exp/slog"
)

// ProbeFunc checks whether the backend is reachable. A nil error means
// online.
type ProbeFunc func(ctx context.Context) error

// Monitor is the single source of truth for online/offline state. It
// polls the backend health endpoint and also accepts pushed state from
// the proxy, which sees real request outcomes first. The restored flag
// latches on an offline-to-online transition and is consumed exactly
// once, so one restoration triggers one auto-sync regardless of how
// many observers ask.
type Monitor struct {
	mu         sync.RWMutex
	online     bool
	wasOffline bool

	probe    ProbeFunc
	interval time.Duration
	settle   time.Duration
	log      *slog.Logger
}

func NewMonitor(probe ProbeFunc, interval, settle time.Duration, log *slog.Logger) *Monitor {
	return &Monitor{
		online:   true,
		probe:    probe,
		interval: interval,
		settle:   settle,
		log:      log.With(slog.String("component", "connectivity")),
	}
}

// Online returns the current connectivity state.
func (m *Monitor) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// SetOnline records a connectivity observation. The offline-to-online
// edge sets the restored flag.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.online == online {
		return
	}

	if online && !m.online {
		m.wasOffline = true
	}
	m.online = online

	if online {
		m.log.Info("connectivity restored")
	} else {
		m.log.Warn("connectivity lost")
	}
}

// ConsumeRestored reports whether connectivity came back since the last
// call, clearing the flag. At most one caller observes a given
// restoration.
func (m *Monitor) ConsumeRestored() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.wasOffline && m.online {
		m.wasOffline = false
		return true
	}
	return false
}

// SettleDelay is how long to wait after a restoration before syncing,
// to avoid racing a flapping connection.
func (m *Monitor) SettleDelay() time.Duration {
	return m.settle
}

// Run polls the probe until ctx is canceled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Check runs one probe and records the result.
func (m *Monitor) Check(ctx context.Context) bool {
	err := m.probe(ctx)
	if err != nil {
		m.log.Debug("connectivity probe failed", "error", err)
	}
	m.SetOnline(err == nil)
	return err == nil
}

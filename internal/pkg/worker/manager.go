package worker

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	metrics "github.com/WatchHubTV/WatchHub/internal/pkg/metrics/counter"
	"github.com/WatchHubTV/WatchHub/internal/pkg/statistics"
)

// Manager runs the periodic background tasks: draining play counters into
// the database and refreshing the admin metrics cache.
type Manager struct {
	counterFlushTicker *time.Ticker
	metricsTicker      *time.Ticker
	stopCh             chan struct{}
	wg                 sync.WaitGroup
	mu                 sync.Mutex
	running            bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global background task manager (singleton)
func GetManager() *Manager {
	managerOnce.Do(func() {
		globalManager = &Manager{
			stopCh: make(chan struct{}),
		}
	})
	return globalManager
}

// Start starts the background tasks
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so manager can be restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true
	log.Info("[Worker Manager] Starting background tasks")

	// Counter flush worker (Redis -> DB) every 5 seconds
	m.counterFlushTicker = time.NewTicker(5 * time.Second)
	m.wg.Add(1)
	go m.counterFlushWorker()

	// Metrics cache refresh every 5 minutes
	m.metricsTicker = time.NewTicker(5 * time.Minute)
	m.wg.Add(1)
	go m.metricsWorker()

	log.Info("[Worker Manager] Started successfully")
}

// Stop stops the background tasks and waits for the workers to exit
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[Worker Manager] Stopping background tasks...")

	if m.counterFlushTicker != nil {
		m.counterFlushTicker.Stop()
	}
	if m.metricsTicker != nil {
		m.metricsTicker.Stop()
	}

	close(m.stopCh)
	m.wg.Wait()
	m.running = false

	log.Info("[Worker Manager] Stopped")
}

// IsRunning returns whether the manager is currently running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// counterFlushWorker periodically flushes pending counters from Redis to DB
func (m *Manager) counterFlushWorker() {
	defer m.wg.Done()
	for {
		select {
		case <-m.stopCh:
			log.Info("[Worker Manager] Counter flush worker stopping")
			return
		case <-m.counterFlushTicker.C:
			if err := metrics.FlushAll(); err != nil {
				log.Errorf("[Worker Manager] Counter flush error: %v", err)
			}
		}
	}
}

// metricsWorker keeps the admin dashboard metrics warm
func (m *Manager) metricsWorker() {
	defer m.wg.Done()
	for {
		select {
		case <-m.stopCh:
			log.Info("[Worker Manager] Metrics worker stopping")
			return
		case <-m.metricsTicker.C:
			statistics.UpdateCacheIfNeeded()
		}
	}
}

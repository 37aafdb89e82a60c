package console

import (
	"context"
	"sync"
	"time"

	"github.com/OldStager01/sentinel-console/internal/chat"
	"github.com/OldStager01/sentinel-console/internal/client"
	"github.com/OldStager01/sentinel-console/internal/diagnostic"
	"github.com/OldStager01/sentinel-console/internal/events"
	"github.com/OldStager01/sentinel-console/internal/history"
	"github.com/OldStager01/sentinel-console/internal/logger"
	"github.com/OldStager01/sentinel-console/pkg/models"
)

// Observer is the metrics surface the consoles report to.
type Observer interface {
	diagnostic.Observer
	history.Observer
	chat.Observer
	SetActiveSessions(n int)
}

type Config struct {
	Diagnostic    diagnostic.Config
	PageSize      int
	IdleTTL       time.Duration
	SweepInterval time.Duration
	EventBuffer   int
}

// Manager maps session ids to consoles, creating them on first sight and
// evicting them once idle. It also owns the event bus they publish on.
type Manager struct {
	config      Config
	client      client.Client
	observer    Observer
	eventBus    *events.EventBus
	eventLogger *events.EventLogger
	consoles    map[string]*Console
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	now         func() time.Time
}

type ManagerConfig struct {
	Config   Config
	Client   client.Client
	Observer Observer
	Recorder events.RunRecorder
}

func NewManager(cfg ManagerConfig) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	eventBus := events.NewEventBus(cfg.Config.EventBuffer)
	eventLogger := events.NewEventLogger(cfg.Recorder, eventBus.SubscribeAll())

	return &Manager{
		config:      cfg.Config,
		client:      cfg.Client,
		observer:    cfg.Observer,
		eventBus:    eventBus,
		eventLogger: eventLogger,
		consoles:    make(map[string]*Console),
		ctx:         ctx,
		cancel:      cancel,
		now:         time.Now,
	}
}

func (m *Manager) Start() {
	logger.Info("Console manager starting")
	m.eventLogger.Start()

	if m.config.IdleTTL > 0 {
		interval := m.config.SweepInterval
		if interval <= 0 {
			interval = m.config.IdleTTL / 2
		}
		m.wg.Add(1)
		go m.sweepLoop(interval)
	}
}

func (m *Manager) Stop() {
	logger.Info("Console manager stopping")

	m.cancel()
	m.wg.Wait()

	m.eventLogger.Stop()
	m.eventBus.Close()

	logger.Info("Console manager stopped")
}

// Get returns the console for id, creating it if needed.
func (m *Manager) Get(id string) *Console {
	now := m.now()

	m.mu.RLock()
	c, ok := m.consoles[id]
	m.mu.RUnlock()
	if ok {
		c.touch(now)
		return c
	}

	m.mu.Lock()
	if c, ok = m.consoles[id]; !ok {
		c = m.newConsole(id, now)
		m.consoles[id] = c
		logger.WithSession(id).Debug("Console created")
	}
	count := len(m.consoles)
	m.mu.Unlock()

	c.touch(now)
	m.reportSessions(count)
	return c
}

// Lookup returns an existing console without creating one.
func (m *Manager) Lookup(id string) (*Console, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.consoles[id]
	return c, ok
}

func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.consoles, id)
	count := len(m.consoles)
	m.mu.Unlock()
	m.reportSessions(count)
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.consoles)
}

func (m *Manager) newConsole(id string, now time.Time) *Console {
	publisher := events.NewPublisher(m.eventBus)

	var (
		diagObserver    diagnostic.Observer
		historyObserver history.Observer
		chatObserver    chat.Observer
	)
	if m.observer != nil {
		diagObserver, historyObserver, chatObserver = m.observer, m.observer, m.observer
	}

	return &Console{
		id:        id,
		createdAt: now,
		form:      models.DefaultFormState(),
		pipeline: diagnostic.NewPipeline(diagnostic.PipelineConfig{
			SessionID: id,
			Predictor: m.client,
			Publisher: publisher,
			Observer:  diagObserver,
			Config:    m.config.Diagnostic,
		}),
		chat: chat.NewSession(chat.SessionConfig{
			SessionID: id,
			Backend:   m.client,
			Publisher: publisher,
			Observer:  chatObserver,
		}),
		history: history.NewTable(history.TableConfig{
			SessionID: id,
			Source:    m.client,
			Publisher: publisher,
			Observer:  historyObserver,
			PageSize:  m.config.PageSize,
		}),
	}
}

// Sweep evicts consoles idle for longer than the TTL. Consoles with an
// exchange in flight are kept.
func (m *Manager) Sweep() int {
	if m.config.IdleTTL <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.config.IdleTTL)

	m.mu.Lock()
	evicted := 0
	for id, c := range m.consoles {
		if c.LastSeen().Before(cutoff) && !c.busy() {
			delete(m.consoles, id)
			evicted++
		}
	}
	count := len(m.consoles)
	m.mu.Unlock()

	if evicted > 0 {
		logger.Infof("Evicted %d idle consoles, %d active", evicted, count)
		m.reportSessions(count)
	}
	return evicted
}

func (m *Manager) sweepLoop(interval time.Duration) {
	defer m.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

func (m *Manager) reportSessions(n int) {
	if m.observer != nil {
		m.observer.SetActiveSessions(n)
	}
}

// Client exposes the upstream client, for readiness checks.
func (m *Manager) Client() client.Client {
	return m.client
}

func (m *Manager) SubscribeEvents(eventTypes ...models.EventType) <-chan *models.Event {
	return m.eventBus.Subscribe(eventTypes...)
}

func (m *Manager) SubscribeAllEvents() <-chan *models.Event {
	return m.eventBus.SubscribeAll()
}

package session

import (
	"log"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"github.com/hoshinonyaruko/snake-grid/loop"
	"github.com/hoshinonyaruko/snake-grid/scores"
	"github.com/hoshinonyaruko/snake-grid/snake"
)

// Settings 新会话使用的参数
type Settings struct {
	FieldWidth   int
	FieldHeight  int
	CellSize     int
	GameplayRate float64
	IdleRate     float64
	// ExternalClock 为true时不启动循环 由调用方通过Advance驱动
	ExternalClock bool
	// NewRand 为每个会话提供随机源 nil时由模拟自行播种
	NewRand func() *rand.Rand
}

// Manager 管理所有会话 单人与双人各自最多一个存活
type Manager struct {
	mu       sync.Mutex
	settings Settings
	store    *scores.Store
	sessions map[string]*Session
	live     map[bool]string // 按是否双人记录当前存活的会话
}

func NewManager(settings Settings, store *scores.Store) *Manager {
	if settings.GameplayRate <= 0 {
		settings.GameplayRate = loop.GameplayRate
	}
	if settings.IdleRate <= 0 {
		settings.IdleRate = loop.IdleRate
	}
	return &Manager{
		settings: settings,
		store:    store,
		sessions: make(map[string]*Session),
		live:     make(map[bool]string),
	}
}

// Create 新建一局 同模式的旧会话会被关闭
func (m *Manager) Create(twoPlayer bool) (*Session, error) {
	m.mu.Lock()
	settings := m.settings
	m.mu.Unlock()

	opts := snake.Options{
		FieldWidth:  settings.FieldWidth,
		FieldHeight: settings.FieldHeight,
		CellSize:    settings.CellSize,
		TwoPlayer:   twoPlayer,
	}
	if settings.NewRand != nil {
		opts.Rand = settings.NewRand()
	}
	sim, err := snake.New(opts)
	if err != nil {
		return nil, err
	}

	s := newSession(uuid.New().String(), sim, m.store, settings.GameplayRate, settings.IdleRate)
	if !settings.ExternalClock {
		l, err := loop.New(settings.GameplayRate, s.tick)
		if err != nil {
			return nil, err
		}
		s.loop = l
	}

	m.mu.Lock()
	var previous *Session
	if oldID, ok := m.live[twoPlayer]; ok {
		previous = m.sessions[oldID]
		delete(m.sessions, oldID)
	}
	m.sessions[s.ID] = s
	m.live[twoPlayer] = s.ID
	m.mu.Unlock()

	if previous != nil {
		previous.Close()
		log.Printf("session %s replaced by %s", previous.ID, s.ID)
	}
	if s.loop != nil {
		s.loop.Start()
	}
	log.Printf("session %s created, two player: %v, grid %dx%d", s.ID, twoPlayer, sim.Index().Width, sim.Index().Height)
	return s, nil
}

// Get 按id取会话
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove 关闭并删除会话
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
		for mode, liveID := range m.live {
			if liveID == id {
				delete(m.live, mode)
			}
		}
	}
	m.mu.Unlock()

	if ok {
		s.Close()
	}
	return ok
}

// SetRates 更新频率 新会话与存活会话都生效
func (m *Manager) SetRates(gameplayRate, idleRate float64) {
	m.mu.Lock()
	if gameplayRate > 0 {
		m.settings.GameplayRate = gameplayRate
	}
	if idleRate > 0 {
		m.settings.IdleRate = idleRate
	}
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.SetRates(gameplayRate, idleRate)
	}
}

// Scores 高分榜
func (m *Manager) Scores() *scores.Store {
	return m.store
}

// Close 关闭所有会话
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.live = make(map[bool]string)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

// 一局游戏的会话 负责开始 暂停 tick驱动 以及结束时登记高分
package session

import (
	"log"
	"sync"
	"time"

	"github.com/hoshinonyaruko/snake-grid/loop"
	"github.com/hoshinonyaruko/snake-grid/scores"
	"github.com/hoshinonyaruko/snake-grid/snake"
	"github.com/hoshinonyaruko/snake-grid/structs"
	"github.com/zyedidia/generic/mapset"
)

// Subscriber 接收每次tick之后的快照 渲染端慢了只会丢旧帧
type Subscriber struct {
	C chan structs.Snapshot
}

// Session 一局游戏
type Session struct {
	ID string

	sim    *snake.Simulation
	loop   *loop.Loop
	scores *scores.Store

	mu           sync.Mutex
	gameplayRate float64
	idleRate     float64
	started      bool
	paused       bool
	finished     bool
	newHighScore bool

	subsMu sync.Mutex
	subs   mapset.Set[*Subscriber]
	closed bool
}

func newSession(id string, sim *snake.Simulation, store *scores.Store, gameplayRate, idleRate float64) *Session {
	return &Session{
		ID:           id,
		sim:          sim,
		scores:       store,
		gameplayRate: gameplayRate,
		idleRate:     idleRate,
		subs:         mapset.New[*Subscriber](),
	}
}

// Simulation 底层模拟
func (s *Session) Simulation() *snake.Simulation {
	return s.sim
}

// Key 处理一次按键 返回游戏是否已经开始
func (s *Session) Key(code int) bool {
	if code == snake.KeyP {
		s.TogglePause()
		return s.Started()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sim.SetHeading(code) && !s.started {
		s.started = true
		log.Printf("session %s started", s.ID)
	}
	return s.started
}

// Started 是否已经收到开始信号
func (s *Session) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// TogglePause 切换暂停 暂停时循环降到空闲频率
func (s *Session) TogglePause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return s.paused
	}
	s.paused = !s.paused
	s.applyRate()
	return s.paused
}

// SetRates 修改游戏中与空闲时的频率 配置热更新时调用
func (s *Session) SetRates(gameplayRate, idleRate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gameplayRate > 0 {
		s.gameplayRate = gameplayRate
	}
	if idleRate > 0 {
		s.idleRate = idleRate
	}
	s.applyRate()
}

func (s *Session) applyRate() {
	if s.loop == nil {
		return
	}
	rate := s.gameplayRate
	if s.paused || s.finished {
		rate = s.idleRate
	}
	if err := s.loop.SetRate(rate); err != nil {
		log.Printf("session %s: set rate %v: %v", s.ID, rate, err)
	}
}

// tick 由循环调用 未开始或暂停时什么也不做
func (s *Session) tick() {
	s.mu.Lock()
	ready := s.started && !s.paused && !s.finished
	s.mu.Unlock()
	if !ready {
		return
	}
	s.Advance()
}

// Advance 推进一步 供自己驱动时钟的客户端使用
func (s *Session) Advance() structs.Status {
	status := s.sim.Advance()
	if status.GameOver {
		s.finish(status)
	}
	s.publish()
	return status
}

// finish 只执行一次 单人模式下成绩够格就写入高分榜
func (s *Session) finish(status structs.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return
	}
	s.finished = true
	s.applyRate()

	if s.sim.TwoPlayer() || s.scores == nil {
		log.Printf("session %s over: %s", s.ID, status.Summary)
		return
	}
	if s.sim.QualifiesForHighScore(s.scores.List()) {
		s.newHighScore = s.scores.Submit(status.Score, time.Now())
	}
	log.Printf("session %s over: %s new high score: %v", s.ID, status.Summary, s.newHighScore)
}

// Info 会话概况
func (s *Session) Info() structs.SessionInfo {
	status := s.sim.Status()
	s.mu.Lock()
	defer s.mu.Unlock()
	return structs.SessionInfo{
		ID:           s.ID,
		Started:      s.started,
		Paused:       s.paused,
		NewHighScore: s.newHighScore,
		Status:       status,
	}
}

// Snapshot 当前画面
func (s *Session) Snapshot() structs.Snapshot {
	return s.sim.Snapshot()
}

// Subscribe 订阅快照 返回的cancel可重复调用
func (s *Session) Subscribe() (*Subscriber, func()) {
	sub := &Subscriber{C: make(chan structs.Snapshot, 1)}
	s.subsMu.Lock()
	if s.closed {
		close(sub.C)
	} else {
		s.subs.Put(sub)
	}
	s.subsMu.Unlock()

	return sub, func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		if s.subs.Has(sub) {
			s.subs.Remove(sub)
			close(sub.C)
		}
	}
}

func (s *Session) publish() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	if s.subs.Size() == 0 {
		return
	}
	snap := s.sim.Snapshot()
	s.subs.Each(func(sub *Subscriber) {
		select {
		case sub.C <- snap:
		default:
			// 丢掉没来得及取走的旧帧
			select {
			case <-sub.C:
			default:
			}
			select {
			case sub.C <- snap:
			default:
			}
		}
	})
}

// Close 停止循环并断开所有订阅者
func (s *Session) Close() {
	if s.loop != nil {
		s.loop.Stop()
		s.loop.Wait()
	}
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.subs.Each(func(sub *Subscriber) {
		close(sub.C)
	})
	s.subs = mapset.New[*Subscriber]()
}

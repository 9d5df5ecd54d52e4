// 固定频率的tick循环
package loop

import (
	"errors"
	"sync"
	"time"
)

// 默认频率 游戏中每秒15次 暂停或结束时每秒60次
const (
	GameplayRate = 15.0
	IdleRate     = 60.0
)

var ErrInvalidRate = errors.New("loop: ticks per second must be positive")

// Loop 在单独的goroutine里按固定频率调用tick
// 停止是协作式的 正在执行的tick不会被打断
type Loop struct {
	tick func()

	mu      sync.Mutex
	rate    float64
	started bool

	rateChanged chan struct{}
	quit        chan struct{}
	done        chan struct{}
	stopOnce    sync.Once
}

func New(ticksPerSecond float64, tick func()) (*Loop, error) {
	if ticksPerSecond <= 0 {
		return nil, ErrInvalidRate
	}
	return &Loop{
		tick:        tick,
		rate:        ticksPerSecond,
		rateChanged: make(chan struct{}, 1),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
	}, nil
}

func interval(ticksPerSecond float64) time.Duration {
	d := time.Duration(float64(time.Second) / ticksPerSecond)
	if d <= 0 {
		d = time.Nanosecond
	}
	return d
}

// Start 启动循环 重复调用或停止之后调用都不会有效果
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return
	}
	select {
	case <-l.quit:
		return
	default:
	}
	l.started = true
	go l.run()
}

func (l *Loop) run() {
	defer close(l.done)

	ticker := time.NewTicker(interval(l.Rate()))
	defer ticker.Stop()

	for {
		select {
		case <-l.quit:
			return
		case <-l.rateChanged:
			ticker.Reset(interval(l.Rate()))
		case <-ticker.C:
			select {
			case <-l.quit:
				return
			default:
			}
			l.tick()
		}
	}
}

// Rate 当前每秒tick数
func (l *Loop) Rate() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rate
}

// SetRate 修改频率 可以在tick内部调用
func (l *Loop) SetRate(ticksPerSecond float64) error {
	if ticksPerSecond <= 0 {
		return ErrInvalidRate
	}
	l.mu.Lock()
	l.rate = ticksPerSecond
	l.mu.Unlock()

	select {
	case l.rateChanged <- struct{}{}:
	default:
	}
	return nil
}

// Stop 通知循环退出 不等待 可以在tick内部调用
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.quit)
	})
}

// Wait 等待循环退出 从未启动时立即返回
func (l *Loop) Wait() {
	l.mu.Lock()
	started := l.started
	l.mu.Unlock()
	if !started {
		return
	}
	<-l.done
}

// Running 循环是否在运行
func (l *Loop) Running() bool {
	l.mu.Lock()
	started := l.started
	l.mu.Unlock()
	if !started {
		return false
	}
	select {
	case <-l.done:
		return false
	default:
		return true
	}
}

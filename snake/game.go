// 贪食蛇模拟 网格 蛇 食物 以及每个tick的移动与碰撞
package snake

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/hoshinonyaruko/snake-grid/grid"
	"github.com/hoshinonyaruko/snake-grid/structs"
)

// DefaultCellSize 每个格子的默认像素边长
const DefaultCellSize = 25

// Options 创建模拟所需的参数
type Options struct {
	FieldWidth  int // 场地像素宽度
	FieldHeight int // 场地像素高度
	CellSize    int // 0 时使用 DefaultCellSize
	TwoPlayer   bool
	Rand        *rand.Rand // nil 时使用按时间播种的随机源
}

// Simulation 一局游戏的全部可变状态 所有公开方法共用一把锁
type Simulation struct {
	mu sync.Mutex

	index    grid.Index
	rand     *rand.Rand
	cells    []*grid.Cell
	occupied map[*grid.Cell]Occupant
	free     []*grid.Cell
	freePos  []int // 按格子id记录在free中的下标 不在free中为-1
	offsets  [4]int

	players   [2]*Snake
	food      *Food
	twoPlayer bool

	tick         int64
	gameOver     bool
	losingPlayer int
	consumed     [2]bool
}

// New 按场地大小建立网格并放置玩家与食物
func New(opts Options) (*Simulation, error) {
	cellSize := opts.CellSize
	if cellSize == 0 {
		cellSize = DefaultCellSize
	}
	if cellSize < 0 {
		return nil, fmt.Errorf("%w: cell size %d is not positive", grid.ErrConfiguration, cellSize)
	}
	index, err := grid.New(cellSize, opts.FieldWidth/cellSize, opts.FieldHeight/cellSize)
	if err != nil {
		return nil, err
	}
	cells, err := index.Cells()
	if err != nil {
		return nil, err
	}

	r := opts.Rand
	if r == nil {
		seed := uint64(time.Now().UnixNano())
		r = rand.New(rand.NewPCG(seed, seed>>1))
	}

	s := &Simulation{
		index:     index,
		rand:      r,
		cells:     cells,
		occupied:  make(map[*grid.Cell]Occupant),
		free:      make([]*grid.Cell, 0, len(cells)),
		freePos:   make([]int, len(cells)),
		offsets:   index.NeighborOffsets(),
		twoPlayer: opts.TwoPlayer,
	}
	for _, c := range cells {
		s.freePos[c.ID()] = len(s.free)
		s.free = append(s.free, c)
	}

	s.spawn()
	return s, nil
}

// spawn 玩家1出生在离边界至少一格的随机位置 食物与玩家2取随机空格
// 范围按整格计算 场地像素不是格子整数倍时多出的部分不参与
func (s *Simulation) spawn() {
	cellSize := s.index.CellSize
	x := s.rand.IntN((s.index.Width-2)*cellSize) + cellSize
	y := s.rand.IntN((s.index.Height-2)*cellSize) + cellSize

	p1Cell := s.cells[s.index.IDOf(x, y)]
	s.players[0] = NewSnake(p1Cell, 1, grid.RandomDirection(s.rand), playerHints(1, cellSize))
	s.occupy(p1Cell, s.players[0])

	foodCell := s.randomFree()
	s.food = newFood(foodCell, cellSize)
	s.occupy(foodCell, s.food)

	if s.twoPlayer {
		p2Cell := s.randomFree()
		s.players[1] = NewSnake(p2Cell, 2, grid.RandomDirection(s.rand), playerHints(2, cellSize))
		s.occupy(p2Cell, s.players[1])
	}
	s.consumed = [2]bool{}
}

func (s *Simulation) randomFree() *grid.Cell {
	if len(s.free) == 0 {
		return nil
	}
	return s.free[s.rand.IntN(len(s.free))]
}

// occupy 把格子从free移到occupied
func (s *Simulation) occupy(c *grid.Cell, o Occupant) {
	if pos := s.freePos[c.ID()]; pos >= 0 {
		last := len(s.free) - 1
		moved := s.free[last]
		s.free[pos] = moved
		s.freePos[moved.ID()] = pos
		s.free = s.free[:last]
		s.freePos[c.ID()] = -1
	}
	c.State = o.CellType()
	s.occupied[c] = o
}

// release 把格子从occupied还回free 状态置空
func (s *Simulation) release(c *grid.Cell) {
	delete(s.occupied, c)
	c.State = grid.Empty
	if s.freePos[c.ID()] >= 0 {
		return
	}
	s.freePos[c.ID()] = len(s.free)
	s.free = append(s.free, c)
}

// SetHeading 处理一次按键 返回这次按键是否表示游戏开始
// 每个玩家在两次tick之间只接受一次方向改变
func (s *Simulation) SetHeading(key int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gameOver {
		return false
	}

	if !s.twoPlayer {
		d, ok := onePlayerKeys[key]
		if !ok || s.consumed[0] {
			return false
		}
		s.consumed[0] = true
		s.players[0].SetHeading(d)
		return true
	}

	if d, ok := wasdKeys[key]; ok && !s.consumed[0] {
		s.consumed[0] = true
		s.players[0].SetHeading(d)
	}
	if d, ok := arrowKeys[key]; ok && !s.consumed[1] {
		s.consumed[1] = true
		s.players[1].SetHeading(d)
	}
	return key == KeySpace
}

// Advance 推进一个tick 双人模式下玩家2先于玩家1结算
// 游戏结束后再调用不会有任何变化
func (s *Simulation) Advance() structs.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.gameOver {
		s.tick++
		if s.twoPlayer {
			s.animate(s.players[1])
		}
		// 玩家2撞死的这一步玩家1照常移动 败者只记录第一个
		s.animate(s.players[0])
		s.consumed = [2]bool{}
	}
	return s.status()
}

func (s *Simulation) animate(p *Snake) {
	head := p.Head()
	next := head.ID() + s.offsets[p.Heading()]
	if !s.validMove(head.ID(), next, p.Heading()) {
		s.end(p)
		return
	}

	cell := s.cells[next]
	if s.food != nil && cell == s.food.Cell() {
		s.eat(p, cell)
		return
	}
	if o, taken := s.occupied[cell]; taken {
		if o.CellType() == grid.Breakable {
			s.eat(p, cell)
			return
		}
		s.end(p)
		return
	}
	s.move(p, cell)
}

// validMove 越界检查完全靠id运算 水平移动必须留在同一行
func (s *Simulation) validMove(current, next int, heading grid.Direction) bool {
	if next < 0 || next >= len(s.cells) {
		return false
	}
	return heading.IsVertical() || s.index.SameRow(current, next)
}

func (s *Simulation) move(p *Snake, cell *grid.Cell) {
	s.occupy(cell, p)
	if shifted, ok := p.Move(cell).(Shifted); ok {
		s.release(shifted.Released)
	}
}

// eat 蛇吃到食物 增长并立即把食物换到新的随机空格
func (s *Simulation) eat(p *Snake, cell *grid.Cell) {
	p.Grow()
	s.move(p, cell)

	next := s.randomFree()
	if next == nil {
		// 棋盘已满 没有地方再放食物
		s.food = nil
		return
	}
	s.food.place(next)
	s.occupy(next, s.food)
}

func (s *Simulation) end(p *Snake) {
	if s.gameOver {
		return
	}
	s.gameOver = true
	s.losingPlayer = p.PlayerID()
}

// GameOver 游戏是否结束
func (s *Simulation) GameOver() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gameOver
}

// TwoPlayer 是否双人模式 构造后不再改变
func (s *Simulation) TwoPlayer() bool {
	return s.twoPlayer
}

// Index 本局使用的网格
func (s *Simulation) Index() grid.Index {
	return s.index
}

// LosingPlayer 输掉的玩家 游戏进行中为0
func (s *Simulation) LosingPlayer() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.losingPlayer
}

// Score 单人为玩家1长度 双人为存活玩家的长度 游戏进行中为0
func (s *Simulation) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score()
}

func (s *Simulation) score() int {
	if !s.gameOver {
		return 0
	}
	if !s.twoPlayer {
		return s.players[0].Length()
	}
	if s.losingPlayer == 1 {
		return s.players[1].Length()
	}
	return s.players[0].Length()
}

// QualifiesForHighScore 单人成绩是否能进入高分榜
func (s *Simulation) QualifiesForHighScore(records []structs.Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.gameOver || s.twoPlayer {
		return false
	}
	return structs.Qualifies(s.players[0].Length(), records)
}

// Status 当前状态
func (s *Simulation) Status() structs.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status()
}

func (s *Simulation) status() structs.Status {
	st := structs.Status{
		TwoPlayer:    s.twoPlayer,
		Tick:         s.tick,
		GameOver:     s.gameOver,
		LosingPlayer: s.losingPlayer,
		Score:        s.score(),
	}
	if s.gameOver {
		if s.twoPlayer {
			winner := 1
			if s.losingPlayer == 1 {
				winner = 2
			}
			st.Summary = fmt.Sprintf("Player %d wins", winner)
		} else {
			st.Summary = fmt.Sprintf("You lose. You get %d points.", st.Score)
		}
	}
	return st
}

// PlayerView 在锁内复制一名玩家的状态 玩家不存在时ok为false
func (s *Simulation) PlayerView(playerID int) (view structs.PlayerView, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if playerID < 1 || playerID > 2 || s.players[playerID-1] == nil {
		return structs.PlayerView{}, false
	}
	return playerView(s.players[playerID-1]), true
}

func playerView(p *Snake) structs.PlayerView {
	return structs.PlayerView{
		PlayerID: p.PlayerID(),
		Length:   p.Length(),
		Heading:  p.Heading().String(),
		HeadID:   p.Head().ID(),
	}
}

// Occupied 在锁内遍历所有被占据的格子
func (s *Simulation) Occupied(fn func(c *grid.Cell, o Occupant)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c, o := range s.occupied {
		fn(c, o)
	}
}

// Snapshot 生成供渲染和传输的快照 格子按id排序
func (s *Simulation) Snapshot() structs.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := structs.Snapshot{
		Width:    s.index.Width,
		Height:   s.index.Height,
		CellSize: s.index.CellSize,
		Status:   s.status(),
		Cells:    make([]structs.CellView, 0, len(s.occupied)),
	}
	for _, p := range s.players {
		if p == nil {
			continue
		}
		snap.Players = append(snap.Players, playerView(p))
	}
	for c, o := range s.occupied {
		hints := o.Hints()
		view := structs.CellView{
			ID:    c.ID(),
			X:     c.LocalX(),
			Y:     c.LocalY(),
			Kind:  o.Kind(),
			DrawX: c.XPixel() + hints.Offset,
			DrawY: c.YPixel() + hints.Offset,
			Size:  hints.Size,
			Color: hints.Color,
		}
		if p, ok := o.(*Snake); ok {
			view.PlayerID = p.PlayerID()
			view.Head = p.Head() == c
		}
		snap.Cells = append(snap.Cells, view)
	}
	sort.Slice(snap.Cells, func(i, j int) bool { return snap.Cells[i].ID < snap.Cells[j].ID })
	return snap
}

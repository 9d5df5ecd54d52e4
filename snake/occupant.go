package snake

import (
	"github.com/hoshinonyaruko/snake-grid/grid"
	"github.com/hoshinonyaruko/snake-grid/structs"
	"github.com/zyedidia/generic/list"
)

// RenderHints 绘制提示 由外部渲染器使用 模拟本身不读取
type RenderHints struct {
	Size   int    `json:"size"`
	Offset int    `json:"offset"`
	Color  string `json:"color"`
}

// Occupant 占据格子的对象 只有 *Snake 和 *Food 两种
type Occupant interface {
	Kind() structs.OccupantKind
	CellType() grid.CellState
	Cells() []*grid.Cell
	Hints() RenderHints
	occupant()
}

// Food 食物 固定占据一个格子
type Food struct {
	cell  *grid.Cell
	hints RenderHints
}

func newFood(cell *grid.Cell, cellSize int) *Food {
	f := &Food{hints: RenderHints{Size: cellSize - 10, Offset: 5, Color: "#FF0000"}}
	f.place(cell)
	return f
}

func (f *Food) place(cell *grid.Cell) {
	f.cell = cell
	cell.State = grid.Breakable
}

func (f *Food) Cell() *grid.Cell { return f.cell }
func (f *Food) Kind() structs.OccupantKind { return structs.KindFood }
func (f *Food) CellType() grid.CellState { return grid.Breakable }
func (f *Food) Cells() []*grid.Cell { return []*grid.Cell{f.cell} }
func (f *Food) Hints() RenderHints { return f.hints }
func (f *Food) occupant() {}

// MoveOutcome 蛇移动一步的结果 Grew 或 Shifted
type MoveOutcome interface {
	moveOutcome()
}

// Grew 消耗一次待增长 尾巴保留
type Grew struct{}

// Shifted 长度不变 尾巴格子被释放
type Shifted struct {
	Released *grid.Cell
}

func (Grew) moveOutcome()    {}
func (Shifted) moveOutcome() {}

// Snake 一条蛇 body的头部在链表前端
type Snake struct {
	body          *list.List[*grid.Cell]
	heading       grid.Direction
	length        int
	pendingGrowth int
	playerID      int
	hints         RenderHints
}

// NewSnake 在给定格子上创建长度为1的蛇
func NewSnake(cell *grid.Cell, playerID int, heading grid.Direction, hints RenderHints) *Snake {
	s := &Snake{
		body:     list.New[*grid.Cell](),
		heading:  heading,
		length:   1,
		playerID: playerID,
		hints:    hints,
	}
	s.body.PushFront(cell)
	cell.State = grid.Unbreakable
	return s
}

func playerHints(playerID, cellSize int) RenderHints {
	color := "#FFFFFF"
	if playerID == 2 {
		color = "#0000FF"
	}
	return RenderHints{Size: cellSize - 2, Offset: 1, Color: color}
}

func (s *Snake) Head() *grid.Cell { return s.body.Front.Value }
func (s *Snake) Tail() *grid.Cell { return s.body.Back.Value }
func (s *Snake) Heading() grid.Direction { return s.heading }
func (s *Snake) Length() int { return s.length }
func (s *Snake) PendingGrowth() int { return s.pendingGrowth }
func (s *Snake) PlayerID() int { return s.playerID }
func (s *Snake) Kind() structs.OccupantKind { return structs.KindSnake }
func (s *Snake) CellType() grid.CellState { return grid.Unbreakable }
func (s *Snake) Hints() RenderHints { return s.hints }
func (s *Snake) occupant() {}

// Cells 从头到尾的所有格子
func (s *Snake) Cells() []*grid.Cell {
	cells := make([]*grid.Cell, 0, s.length)
	s.body.Front.Each(func(c *grid.Cell) {
		cells = append(cells, c)
	})
	return cells
}

// SetHeading 改变方向 长度大于1时拒绝掉头
func (s *Snake) SetHeading(d grid.Direction) bool {
	if d == s.heading.Opposite() && s.length > 1 {
		return false
	}
	s.heading = d
	return true
}

// Grow 增加一次待增长
func (s *Snake) Grow() {
	s.pendingGrowth++
}

// Move 把蛇头推进到next 有待增长时保留尾巴 否则弹出尾巴
func (s *Snake) Move(next *grid.Cell) MoveOutcome {
	s.body.PushFront(next)
	next.State = grid.Unbreakable
	if s.pendingGrowth > 0 {
		s.pendingGrowth--
		s.length++
		return Grew{}
	}
	tail := s.body.Back
	s.body.Remove(tail)
	return Shifted{Released: tail.Value}
}

package snake

import (
	"math/rand/v2"
	"testing"

	"github.com/hoshinonyaruko/snake-grid/grid"
	"github.com/zyedidia/generic/list"
)

func newTestSim(t *testing.T, width, height int, twoPlayer bool, seed uint64) *Simulation {
	t.Helper()
	s, err := New(Options{
		FieldWidth:  width * DefaultCellSize,
		FieldHeight: height * DefaultCellSize,
		TwoPlayer:   twoPlayer,
		Rand:        rand.New(rand.NewPCG(seed, seed+1)),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

// clearBoard 清空所有蛇和食物 之后用placeFood和placeSnake摆放
func clearBoard(s *Simulation) {
	for c := range s.occupied {
		s.release(c)
	}
}

// placeFood 把食物放到指定格子
func placeFood(t *testing.T, s *Simulation, id int) {
	t.Helper()
	cell := s.cells[id]
	if _, taken := s.occupied[cell]; taken {
		t.Fatalf("cell %d already occupied", id)
	}
	s.food.place(cell)
	s.occupy(cell, s.food)
}

// placeSnake 用给定的格子重建玩家的蛇 ids 从头到尾
func placeSnake(t *testing.T, s *Simulation, playerID int, heading grid.Direction, ids ...int) *Snake {
	t.Helper()
	old := s.players[playerID-1]
	p := &Snake{
		body:     list.New[*grid.Cell](),
		heading:  heading,
		length:   len(ids),
		playerID: playerID,
		hints:    old.hints,
	}
	for _, id := range ids {
		cell := s.cells[id]
		if _, taken := s.occupied[cell]; taken {
			t.Fatalf("cell %d already occupied", id)
		}
		p.body.PushBack(cell)
		s.occupy(cell, p)
	}
	s.players[playerID-1] = p
	return p
}

func cellIDs(cells []*grid.Cell) []int {
	ids := make([]int, len(cells))
	for i, c := range cells {
		ids[i] = c.ID()
	}
	return ids
}

// checkBoard 每个格子恰好在occupied或free之一 蛇身长度与length一致
func checkBoard(t *testing.T, s *Simulation) {
	t.Helper()
	if len(s.cells) != s.index.Width*s.index.Height {
		t.Fatalf("cell count %d != %dx%d", len(s.cells), s.index.Width, s.index.Height)
	}
	if len(s.occupied)+len(s.free) != len(s.cells) {
		t.Fatalf("occupied %d + free %d != %d", len(s.occupied), len(s.free), len(s.cells))
	}
	inFree := make(map[*grid.Cell]bool, len(s.free))
	for i, c := range s.free {
		if inFree[c] {
			t.Fatalf("cell %d twice in free", c.ID())
		}
		inFree[c] = true
		if s.freePos[c.ID()] != i {
			t.Fatalf("freePos[%d] = %d, want %d", c.ID(), s.freePos[c.ID()], i)
		}
		if c.State != grid.Empty {
			t.Fatalf("free cell %d has state %s", c.ID(), c.State)
		}
	}
	for c, o := range s.occupied {
		if inFree[c] {
			t.Fatalf("cell %d both occupied and free", c.ID())
		}
		if c.State != o.CellType() {
			t.Fatalf("cell %d state %s, occupant type %s", c.ID(), c.State, o.CellType())
		}
	}
	for _, p := range s.players {
		if p == nil {
			continue
		}
		cells := p.Cells()
		if len(cells) != p.Length() {
			t.Fatalf("player %d has %d cells, length %d", p.PlayerID(), len(cells), p.Length())
		}
		for _, c := range cells {
			if s.occupied[c] != Occupant(p) {
				t.Fatalf("player %d cell %d not owned in occupied map", p.PlayerID(), c.ID())
			}
		}
	}
	if s.food != nil && s.occupied[s.food.Cell()] != Occupant(s.food) {
		t.Fatalf("food cell %d not owned by food", s.food.Cell().ID())
	}
}

// player 直接取蛇 只在单线程的测试里用
func (s *Simulation) player(playerID int) *Snake {
	return s.players[playerID-1]
}

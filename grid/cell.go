package grid

import "fmt"

// CellState 格子的三种状态
type CellState int

const (
	Empty CellState = iota
	Breakable
	Unbreakable
)

func (s CellState) String() string {
	switch s {
	case Breakable:
		return "breakable"
	case Unbreakable:
		return "unbreakable"
	default:
		return "empty"
	}
}

// Cell 网格上的一个格子 id与本地坐标创建后不再变化
type Cell struct {
	id       int
	localX   int
	localY   int
	cellSize int
	State    CellState
}

func (c *Cell) ID() int     { return c.id }
func (c *Cell) LocalX() int { return c.localX }
func (c *Cell) LocalY() int { return c.localY }

// XPixel 由本地坐标推导出的像素x坐标
func (c *Cell) XPixel() int { return c.localX * c.cellSize }

// YPixel 由本地坐标推导出的像素y坐标
func (c *Cell) YPixel() int { return c.localY * c.cellSize }

func (c *Cell) String() string {
	return fmt.Sprintf("Cell%d (%d,%d) %s", c.id, c.localX, c.localY, c.State)
}

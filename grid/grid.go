// 网格索引 像素坐标 本地坐标 与格子id之间的换算
package grid

import (
	"errors"
	"fmt"
	"sync"
)

// MinSize 网格宽高的最小格子数
const MinSize = 4

var (
	// ErrConfiguration 网格参数非法 例如格子尺寸非正或网格过小
	ErrConfiguration = errors.New("grid: invalid configuration")
	// ErrOutOfBounds 坐标或id落在网格之外
	ErrOutOfBounds = errors.New("grid: location is not on the grid")
)

// Index 描述一张网格的静态配置
type Index struct {
	CellSize int `json:"cell_size"` // 每个格子的像素边长
	Width    int `json:"width"`     // 横向格子数
	Height   int `json:"height"`    // 纵向格子数
}

var (
	defaultIndex Index
	configured   bool
	setupMutex   sync.Mutex
)

// New 校验参数并返回网格索引
func New(cellSize, width, height int) (Index, error) {
	if cellSize <= 0 {
		return Index{}, fmt.Errorf("%w: cell size %d is not positive", ErrConfiguration, cellSize)
	}
	if width < MinSize || height < MinSize {
		return Index{}, fmt.Errorf("%w: grid %dx%d is smaller than %dx%d", ErrConfiguration, width, height, MinSize, MinSize)
	}
	return Index{CellSize: cellSize, Width: width, Height: height}, nil
}

// Setup 设置进程级默认网格 只有第一次合法调用生效 之后的调用什么也不做
func Setup(cellSize, width, height int) {
	setupMutex.Lock()
	defer setupMutex.Unlock()
	if configured {
		return
	}
	idx, err := New(cellSize, width, height)
	if err != nil {
		return
	}
	defaultIndex = idx
	configured = true
}

// Default 返回进程级默认网格 以及是否已经设置
func Default() (Index, bool) {
	setupMutex.Lock()
	defer setupMutex.Unlock()
	return defaultIndex, configured
}

// Count 格子总数
func (idx Index) Count() int {
	return idx.Width * idx.Height
}

// IDOf 把像素坐标换算为格子id
func (idx Index) IDOf(xPixel, yPixel int) int {
	return xPixel/idx.CellSize + idx.Width*(yPixel/idx.CellSize)
}

// IsValid 本地坐标是否在网格内
func (idx Index) IsValid(localX, localY int) bool {
	return localX >= 0 && localX < idx.Width && localY >= 0 && localY < idx.Height
}

// NeighborOffsets 按方向序号排列的相邻格子id差值
func (idx Index) NeighborOffsets() [4]int {
	return [4]int{-idx.Width, 1, idx.Width, -1}
}

// SameRow 两个id是否在同一行
func (idx Index) SameRow(a, b int) bool {
	return a/idx.Width == b/idx.Width
}

// NewCell 在像素坐标处创建一个空格子
func (idx Index) NewCell(xPixel, yPixel int) (*Cell, error) {
	if idx.CellSize <= 0 {
		return nil, fmt.Errorf("%w: cell size is not set", ErrConfiguration)
	}
	if xPixel < 0 || yPixel < 0 {
		return nil, fmt.Errorf("%w: pixel (%d,%d)", ErrOutOfBounds, xPixel, yPixel)
	}
	localX, localY := xPixel/idx.CellSize, yPixel/idx.CellSize
	if !idx.IsValid(localX, localY) {
		return nil, fmt.Errorf("%w: local (%d,%d) on %dx%d", ErrOutOfBounds, localX, localY, idx.Width, idx.Height)
	}
	return &Cell{
		id:       localX + idx.Width*localY,
		localX:   localX,
		localY:   localY,
		cellSize: idx.CellSize,
		State:    Empty,
	}, nil
}

// Cells 按行优先顺序创建整张网格的格子 下标即id
func (idx Index) Cells() ([]*Cell, error) {
	cells := make([]*Cell, idx.Count())
	offset := idx.CellSize / 2
	for row := 0; row < idx.Height; row++ {
		for col := 0; col < idx.Width; col++ {
			cell, err := idx.NewCell(offset+col*idx.CellSize, offset+row*idx.CellSize)
			if err != nil {
				return nil, err
			}
			cells[cell.ID()] = cell
		}
	}
	return cells, nil
}

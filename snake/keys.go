package snake

import (
	"strings"

	"github.com/hoshinonyaruko/snake-grid/grid"
)

// 输入层发来的虚拟键码
const (
	KeyEscape = 27
	KeySpace  = 32
	KeyLeft   = 37
	KeyUp     = 38
	KeyRight  = 39
	KeyDown   = 40
	KeyA      = 65
	KeyD      = 68
	KeyP      = 80
	KeyS      = 83
	KeyW      = 87
)

var (
	wasdKeys = map[int]grid.Direction{
		KeyW: grid.North,
		KeyA: grid.West,
		KeyS: grid.South,
		KeyD: grid.East,
	}
	arrowKeys = map[int]grid.Direction{
		KeyUp:    grid.North,
		KeyLeft:  grid.West,
		KeyDown:  grid.South,
		KeyRight: grid.East,
	}
	// 单人模式下两套按键都控制玩家1
	onePlayerKeys = map[int]grid.Direction{
		KeyW: grid.North, KeyA: grid.West, KeyS: grid.South, KeyD: grid.East,
		KeyUp: grid.North, KeyLeft: grid.West, KeyDown: grid.South, KeyRight: grid.East,
	}
)

var keyNames = map[string]int{
	"w":      KeyW,
	"a":      KeyA,
	"s":      KeyS,
	"d":      KeyD,
	"up":     KeyUp,
	"down":   KeyDown,
	"left":   KeyLeft,
	"right":  KeyRight,
	"space":  KeySpace,
	"escape": KeyEscape,
	"p":      KeyP,
}

// KeyByName 把按键名换算为键码
func KeyByName(name string) (int, bool) {
	code, ok := keyNames[strings.ToLower(strings.TrimSpace(name))]
	return code, ok
}

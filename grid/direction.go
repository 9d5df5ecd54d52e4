package grid

import (
	"fmt"
	"math/rand/v2"
)

// Direction 四个基本方向 序号用于查相邻格子的id差值
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

var directionNames = [4]string{"north", "east", "south", "west"}

func directionOf(ordinal int) Direction {
	key := ordinal % 4
	if key < 0 {
		key = -key
	}
	return Direction(key)
}

// Opposite 相反方向
func (d Direction) Opposite() Direction {
	return directionOf(int(d) + 2)
}

// IsVertical 南北方向 序号为偶数
func (d Direction) IsVertical() bool {
	return int(d)%2 == 0
}

// RandomDirection 随机方向 r为nil时使用全局随机源
func RandomDirection(r *rand.Rand) Direction {
	if r == nil {
		return directionOf(rand.IntN(4))
	}
	return directionOf(r.IntN(4))
}

func (d Direction) String() string {
	if d < North || d > West {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	for i, name := range directionNames {
		if name == string(text) {
			*d = Direction(i)
			return nil
		}
	}
	return fmt.Errorf("invalid direction '%s' provided", text)
}

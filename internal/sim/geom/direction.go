package geom

import (
	"fmt"
	"strings"
)

// Direction is one of the six axis-aligned unit directions.
type Direction uint8

const (
	North Direction = iota
	South
	East
	West
	Up
	Down
)

// Directions lists every direction in the canonical probe order.
var Directions = [6]Direction{North, South, East, West, Up, Down}

// HorizontalDirections lists the four directions on the XZ plane.
var HorizontalDirections = [4]Direction{North, South, East, West}

type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return "z"
	}
}

var directionNames = [6]string{"north", "south", "east", "west", "up", "down"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// ParseDirection accepts the lowercase names produced by String.
func ParseDirection(s string) (Direction, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range directionNames {
		if n == s {
			return Direction(i), nil
		}
	}
	return North, fmt.Errorf("unknown direction %q", s)
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	case Up:
		return Down
	default:
		return Up
	}
}

// Vector returns the unit offset. North is -Z and east is +X.
func (d Direction) Vector() [3]int {
	switch d {
	case North:
		return [3]int{0, 0, -1}
	case South:
		return [3]int{0, 0, 1}
	case East:
		return [3]int{1, 0, 0}
	case West:
		return [3]int{-1, 0, 0}
	case Up:
		return [3]int{0, 1, 0}
	default:
		return [3]int{0, -1, 0}
	}
}

func (d Direction) Axis() Axis {
	switch d {
	case East, West:
		return AxisX
	case Up, Down:
		return AxisY
	default:
		return AxisZ
	}
}

func (d Direction) Horizontal() bool { return d.Axis() != AxisY }

// RotateCW rotates a horizontal direction clockwise when seen from above.
// Up and Down are returned unchanged.
func (d Direction) RotateCW() Direction {
	switch d {
	case North:
		return East
	case East:
		return South
	case South:
		return West
	case West:
		return North
	default:
		return d
	}
}

func (d Direction) RotateCCW() Direction {
	switch d {
	case North:
		return West
	case West:
		return South
	case South:
		return East
	case East:
		return North
	default:
		return d
	}
}

package geom

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Pos is an integer block position.
type Pos [3]int

func (p Pos) X() int { return p[0] }
func (p Pos) Y() int { return p[1] }
func (p Pos) Z() int { return p[2] }

func (p Pos) Offset(d Direction) Pos {
	v := d.Vector()
	return Pos{p[0] + v[0], p[1] + v[1], p[2] + v[2]}
}

func (p Pos) String() string { return fmt.Sprintf("%d,%d,%d", p[0], p[1], p[2]) }

// Center is the midpoint of the unit cube at p.
func (p Pos) Center() mgl64.Vec3 {
	return mgl64.Vec3{float64(p[0]) + 0.5, float64(p[1]) + 0.5, float64(p[2]) + 0.5}
}

// Vec returns the direction's unit vector as floats.
func (d Direction) Vec() mgl64.Vec3 {
	v := d.Vector()
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}

// FaceMask is 1 on the two axes perpendicular to d and 0 along d.
func (d Direction) FaceMask() mgl64.Vec3 {
	v := d.Vector()
	var m mgl64.Vec3
	for i := range v {
		if v[i] == 0 {
			m[i] = 1
		}
	}
	return m
}

// MulElem multiplies two vectors component-wise.
func MulElem(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

package viz

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Camera orients the scene before it is flattened onto the canvas. The zero
// Camera looks down the z axis, giving the x–y projection.
type Camera struct {
	Yaw, Pitch float64
	Zoom       float64
}

func NewCamera() *Camera { return &Camera{Zoom: 1} }

func (c *Camera) Turn(yaw, pitch float64) {
	c.Yaw += yaw
	c.Pitch = math.Max(-math.Pi/2, math.Min(math.Pi/2, c.Pitch+pitch))
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(50, c.Zoom*1.25) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.02, c.Zoom/1.25) }

func (c *Camera) Reset() { *c = Camera{Zoom: 1} }

// View rotates p about the z axis by Yaw, then about the x axis by Pitch.
func (c *Camera) View(p dynamo.Vec3) dynamo.Vec3 {
	cy, sy := math.Cos(c.Yaw), math.Sin(c.Yaw)
	p.X, p.Y = p.X*cy-p.Y*sy, p.X*sy+p.Y*cy
	cp, sp := math.Cos(c.Pitch), math.Sin(c.Pitch)
	p.Y, p.Z = p.Y*cp-p.Z*sp, p.Y*sp+p.Z*cp
	return p
}

// Project maps p onto a canvas of w x h dots whose half-width spans extent
// metres at Zoom 1. ok is false for points off the canvas.
func (c *Camera) Project(p dynamo.Vec3, extent float64, w, h int) (x, y int, ok bool) {
	v := c.View(p)
	half := math.Min(float64(w), float64(h)) / 2
	scale := half * c.Zoom / extent
	fx := float64(w)/2 + v.X*scale
	fy := float64(h)/2 - v.Y*scale
	if math.IsNaN(fx) || math.IsNaN(fy) || fx < 0 || fy < 0 || fx >= float64(w) || fy >= float64(h) {
		return 0, 0, false
	}
	return int(fx), int(fy), true
}

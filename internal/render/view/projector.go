// Package view holds the renderer-independent parts of drawing a scene:
// projection, color conversion and the overlay text.
package view

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Camera is a perspective camera on the +z axis looking at the origin.
type Camera struct {
	FOV      float64 // vertical, degrees
	Distance float64
	Near     float64
	Far      float64
}

// Point is a projected particle in screen pixels.
type Point struct {
	X, Y  float64
	Size  float64
	Depth float64
}

// Projector maps world positions to screen pixels for one object rotation.
type Projector struct {
	width, height float64
	near          float64
	viewProj      mgl64.Mat4
	mvp           mgl64.Mat4
}

// NewProjector builds the view-projection for a width x height viewport.
func NewProjector(cam Camera, width, height int) *Projector {
	aspect := float64(width) / float64(height)
	proj := mgl64.Perspective(mgl64.DegToRad(cam.FOV), aspect, cam.Near, cam.Far)
	look := mgl64.LookAtV(
		mgl64.Vec3{0, 0, cam.Distance},
		mgl64.Vec3{0, 0, 0},
		mgl64.Vec3{0, 1, 0},
	)
	vp := proj.Mul4(look)
	return &Projector{
		width:    float64(width),
		height:   float64(height),
		near:     cam.Near,
		viewProj: vp,
		mvp:      vp,
	}
}

// SetRotation sets the object's Euler rotation, applied X then Y.
func (p *Projector) SetRotation(rx, ry float64) {
	model := mgl64.HomogRotate3DX(rx).Mul4(mgl64.HomogRotate3DY(ry))
	p.mvp = p.viewProj.Mul4(model)
}

// Project returns the screen position of (x, y, z). pointSize is in world
// units and shrinks with distance. ok is false for points behind the camera
// or outside the viewport.
func (p *Projector) Project(x, y, z, pointSize float64) (Point, bool) {
	clip := p.mvp.Mul4x1(mgl64.Vec4{x, y, z, 1})
	w := clip.W()
	if w < p.near {
		return Point{}, false
	}
	nx, ny, nz := clip.X()/w, clip.Y()/w, clip.Z()/w
	if nz < -1 || nz > 1 {
		return Point{}, false
	}
	pt := Point{
		X:     (nx + 1) / 2 * p.width,
		Y:     (1 - ny) / 2 * p.height,
		Size:  pointSize * (p.height / 2) / w,
		Depth: w,
	}
	if pt.X < -pt.Size || pt.X > p.width+pt.Size || pt.Y < -pt.Size || pt.Y > p.height+pt.Size {
		return Point{}, false
	}
	return pt, true
}

// Size returns the viewport size in pixels.
func (p *Projector) Size() (width, height float64) { return p.width, p.height }

package render

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/particle-wishes/internal/render/view"
	"github.com/iburimskiy/particle-wishes/internal/shape"
)

// minPointSize keeps distant points at least one pixel wide.
const minPointSize = 1

// pointBatch accumulates projected points as quads and submits them in one
// DrawTriangles32 call.
type pointBatch struct {
	src   *ebiten.Image
	verts []ebiten.Vertex
	inds  []uint32
}

func newPointBatch() *pointBatch {
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)
	return &pointBatch{
		src: white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
	}
}

// addPositions projects every point in pos and queues the visible ones.
func (b *pointBatch) addPositions(p *view.Projector, pos shape.Positions, size float64, c color.RGBA) {
	for i := 0; i < pos.Len(); i++ {
		x, y, z := pos.At(i)
		pt, ok := p.Project(float64(x), float64(y), float64(z), size)
		if !ok {
			continue
		}
		b.add(pt, c)
	}
}

func (b *pointBatch) add(pt view.Point, c color.RGBA) {
	half := float32(math.Max(pt.Size, minPointSize) / 2)
	x, y := float32(pt.X), float32(pt.Y)
	cr, cg, cb, ca := float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255

	base := uint32(len(b.verts))
	dx := [4]float32{-half, half, -half, half}
	dy := [4]float32{-half, -half, half, half}
	for j := 0; j < 4; j++ {
		b.verts = append(b.verts, ebiten.Vertex{
			DstX:   x + dx[j],
			DstY:   y + dy[j],
			SrcX:   1.5,
			SrcY:   1.5,
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		})
	}
	b.inds = append(b.inds,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
}

// flush draws the queued quads with additive blending and empties the batch.
func (b *pointBatch) flush(dst *ebiten.Image) {
	if len(b.verts) == 0 {
		return
	}
	var op ebiten.DrawTrianglesOptions
	op.Blend = ebiten.BlendLighter
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	dst.DrawTriangles32(b.verts, b.inds, b.src, &op)

	b.verts = b.verts[:0]
	b.inds = b.inds[:0]
}

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

type rect struct {
	x, y, w, h int
}

func (r rect) contains(px, py int) bool {
	return px >= r.x && px <= r.x+r.w && py >= r.y && py <= r.y+r.h
}

// button fires onClick on release, and only if the press started on it.
type button struct {
	label   string
	bounds  rect
	onClick func()
	// selected highlights the button; nil means never.
	selected func() bool
	// shown hides the button when it returns false; nil means always.
	shown func() bool

	hovered bool
	pressed bool
}

func (b *button) visible() bool { return b.shown == nil || b.shown() }

// handle feeds one frame of mouse state to the button.
func (b *button) handle(mx, my int, justPressed, justReleased bool) {
	if !b.visible() {
		b.hovered, b.pressed = false, false
		return
	}
	b.hovered = b.bounds.contains(mx, my)
	if b.hovered && justPressed {
		b.pressed = true
	}
	if justReleased {
		if b.pressed && b.hovered && b.onClick != nil {
			b.onClick()
		}
		b.pressed = false
	}
}

func (b *button) update(mx, my int) {
	b.handle(mx, my,
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft))
}

func (b *button) draw(screen *ebiten.Image) {
	if !b.visible() {
		return
	}
	var bgColor color.Color
	switch {
	case b.pressed:
		bgColor = color.RGBA{R: 120, G: 40, B: 110, A: 230}
	case b.selected != nil && b.selected():
		bgColor = color.RGBA{R: 219, G: 39, B: 119, A: 230}
	case b.hovered:
		bgColor = color.RGBA{R: 90, G: 60, B: 120, A: 200}
	default:
		bgColor = color.RGBA{R: 40, G: 30, B: 60, A: 160}
	}

	r := b.bounds
	vector.DrawFilledRect(screen, float32(r.x), float32(r.y), float32(r.w), float32(r.h), bgColor, false)
	borderColor := color.RGBA{R: 255, G: 255, B: 255, A: 40}
	vector.StrokeRect(screen, float32(r.x), float32(r.y), float32(r.w), float32(r.h), 1, borderColor, false)

	textWidth := len(b.label) * 6
	textX := r.x + (r.w-textWidth)/2
	textY := r.y + (r.h-16)/2
	ebitenutil.DebugPrintAt(screen, b.label, textX, textY)
}

// buttonRow lays out n equal buttons centred horizontally at y.
func buttonRow(screenWidth, y, w, h, gap, n int) []rect {
	total := n*w + (n-1)*gap
	x := (screenWidth - total) / 2
	out := make([]rect, n)
	for i := range out {
		out[i] = rect{x: x + i*(w+gap), y: y, w: w, h: h}
	}
	return out
}

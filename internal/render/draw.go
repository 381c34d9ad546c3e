package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/particle-wishes/internal/render/view"
	"github.com/iburimskiy/particle-wishes/internal/sequence"
)

var (
	titleColor  = color.RGBA{R: 244, G: 114, B: 182, A: 255}
	wishColor   = color.RGBA{R: 244, G: 114, B: 182, A: 255}
	mutedColor  = color.RGBA{R: 251, G: 207, B: 232, A: 128}
	badgeColor  = color.RGBA{R: 236, G: 72, B: 153, A: 150}
	starBase    = colorful.Color{R: 1, G: 1, B: 1}
	starOpacity = 0.6
)

func (g *game) Draw(screen *ebiten.Image) {
	g.drawBackground(screen)
	g.drawStars(screen)
	g.drawCloud(screen)
	g.drawOverlay(screen)
	g.drawProgressBar(screen)
	for _, b := range g.buttons {
		b.draw(screen)
	}
	g.drawStatus(screen)
}

func (g *game) drawBackground(screen *ebiten.Image) {
	w, h := g.cfg.Window.Width, g.cfg.Window.Height
	const band = 4
	for y := 0; y < h; y += band {
		ratio := float64(y) / float64(h)
		r := uint8(4 + 6*math.Sin(g.time*0.5+ratio*math.Pi))
		g_val := uint8(2 + 3*math.Cos(g.time*0.3+ratio*math.Pi))
		b := uint8(10 + 10*math.Sin(g.time*0.7+ratio*math.Pi))
		vector.DrawFilledRect(screen, 0, float32(y), float32(w), band, color.RGBA{R: r, G: g_val, B: b, A: 255}, false)
	}
}

func (g *game) drawStars(screen *ebiten.Image) {
	stars := g.scene.Stars()
	g.starView.SetRotation(0, stars.RotationY)
	alpha := starOpacity + (1-starOpacity)*g.level
	g.batch.addPositions(g.starView, stars.Positions(), g.cfg.Particles.StarSize, view.Premultiplied(starBase, alpha))
	g.batch.flush(screen)
}

func (g *game) drawCloud(screen *ebiten.Image) {
	cloud := g.scene.Cloud()
	g.cloudView.SetRotation(cloud.RotationX, cloud.RotationY)
	c := view.Premultiplied(g.scene.Color(), g.cfg.Particles.Opacity)
	g.batch.addPositions(g.cloudView, cloud.Live(), g.cfg.Particles.PointSize, c)
	g.batch.flush(screen)
}

func (g *game) drawOverlay(screen *ebiten.Image) {
	w, h := float64(g.cfg.Window.Width), float64(g.cfg.Window.Height)
	o := view.Compose(view.Inputs{
		Stage:          g.app.Stage(),
		Gesture:        g.app.Gesture(),
		GestureEnabled: g.app.GestureEnabled(),
	})

	pulse := 0.85 + 0.15*math.Sin(g.time*2)
	drawCentered(screen, o.Title, g.titleFace, w/2, 40, withAlpha(titleColor, pulse))
	drawCentered(screen, o.Tagline, g.bodyFace, w/2, 96, mutedColor)

	y := h/2 - float64(len(o.Message))*g.bigFace.Size/2
	if g.app.Stage() == sequence.BlowMessage {
		y += 12 * math.Abs(math.Sin(g.time*4))
	}
	for i, line := range o.Message {
		clr := color.RGBA{R: 255, G: 255, B: 255, A: 255}
		if i > 0 {
			clr = wishColor
		}
		drawCentered(screen, line, g.bigFace, w/2, y, clr)
		y += g.bigFace.Size * 1.1
	}
	if o.Footer != "" {
		drawCentered(screen, o.Footer, g.bodyFace, w/2, y+8, mutedColor)
	}

	badgeW := float32(len(o.Status)*6 + 12)
	bx := float32(w) - badgeW - 16
	vector.DrawFilledRect(screen, bx, 16, badgeW, 20, badgeColor, false)
	ebitenutil.DebugPrintAt(screen, o.Status, int(bx)+6, 18)
}

// drawProgressBar shows how far the sequence has run.
func (g *game) drawProgressBar(screen *ebiten.Image) {
	if g.app.Stage() == sequence.Idle {
		return
	}

	barHeight := 8
	barWidth := g.cfg.Window.Width / 2
	barX := (g.cfg.Window.Width - barWidth) / 2
	barY := 120

	progress := view.Clamp01(g.app.Progress())

	vector.DrawFilledRect(screen, float32(barX), float32(barY), float32(barWidth), float32(barHeight), color.RGBA{R: 25, G: 20, B: 40, A: 200}, false)
	vector.StrokeRect(screen, float32(barX), float32(barY), float32(barWidth), float32(barHeight), 1, color.RGBA{R: 90, G: 70, B: 110, A: 255}, false)

	if progress > 0 {
		fillWidth := progress * float64(barWidth)
		hue := 300 + progress*60
		r, g_val, b := view.HSV(hue, 0.7, 0.95)
		vector.DrawFilledRect(screen, float32(barX), float32(barY), float32(fillWidth), float32(barHeight), color.RGBA{R: r, G: g_val, B: b, A: 200}, false)
	}

	label := fmt.Sprintf("%s  %s / %s", g.app.Stage(), view.FormatDuration(g.app.SequenceElapsed()), view.FormatDuration(sequence.Total))
	ebitenutil.DebugPrintAt(screen, label, barX, barY+barHeight+4)
}

func (g *game) drawStatus(screen *ebiten.Image) {
	vs := g.app.State()
	status := fmt.Sprintf("%s  %s  x%.1f  %.0f fps", vs.Template.Name(), vs.Color.Hex(), vs.Expansion, ebiten.ActualFPS())
	if g.player != nil {
		if track := g.player.Track(); track != "" {
			status += "  | " + track
		}
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)
}

func drawCentered(screen *ebiten.Image, s string, face *text.GoTextFace, x, y float64, clr color.Color) {
	if s == "" {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.PrimaryAlign = text.AlignCenter
	text.Draw(screen, s, face, op)
}

func withAlpha(c color.RGBA, a float64) color.RGBA {
	a = view.Clamp01(a)
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}

package view

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// HSV converts HSV to RGB (hue: 0-360, saturation: 0-1, value: 0-1)
func HSV(h, s, v float64) (uint8, uint8, uint8) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return uint8((r + m) * 255), uint8((g + m) * 255), uint8((b + m) * 255)
}

func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// FormatDuration formats a duration as MM:SS
func FormatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// Premultiplied returns c at the given opacity with premultiplied alpha, the
// form ebiten and image/draw expect.
func Premultiplied(c colorful.Color, alpha float64) color.RGBA {
	c = c.Clamped()
	a := Clamp01(alpha)
	return color.RGBA{
		R: uint8(c.R*a*255 + 0.5),
		G: uint8(c.G*a*255 + 0.5),
		B: uint8(c.B*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

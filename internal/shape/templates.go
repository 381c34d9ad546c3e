package shape

import (
	"math"
	"math/rand/v2"
)

type heart struct{}

func (heart) Name() string { return "heart" }

func (heart) point(_, _ int, rng *rand.Rand) (x, y, z float64) {
	t := angle(rng)
	s := math.Sin(t)
	x = 16 * s * s * s
	y = 13*math.Cos(t) - 5*math.Cos(2*t) - 2*math.Cos(3*t) - math.Cos(4*t)
	z = jitter(rng, 5)
	return x, y, z
}

type flower struct{}

func (flower) Name() string { return "flower" }

// Six petals: a rose r = cos(k*t) with k = petals/2.
func (flower) point(_, _ int, rng *rand.Rand) (x, y, z float64) {
	const petals = 6
	t := angle(rng)
	r := 15 * math.Cos(petals*t/2)
	return r * math.Cos(t), r * math.Sin(t), jitter(rng, 10)
}

type fireworks struct{}

func (fireworks) Name() string { return "fireworks" }

func (fireworks) point(_, _ int, rng *rand.Rand) (x, y, z float64) {
	r := 25 * math.Sqrt(rng.Float64())
	theta := angle(rng)
	phi := rng.Float64() * math.Pi
	x = r * math.Sin(phi) * math.Cos(theta)
	y = r * math.Sin(phi) * math.Sin(theta)
	z = r * math.Cos(phi)
	return x, y, z
}

type blast struct{}

func (blast) Name() string { return "blast" }

// Cylindrical burst: radius in the xz plane, height independent of radius.
func (blast) point(_, _ int, rng *rand.Rand) (x, y, z float64) {
	r := 40 * rng.Float64()
	a := angle(rng)
	return r * math.Cos(a), jitter(rng, 50), r * math.Sin(a)
}

type design struct{}

func (design) Name() string { return "design" }

// goldenAngle is the phyllotaxis divergence angle in degrees.
const goldenAngle = 137.5

func (design) point(i, _ int, rng *rand.Rand) (x, y, z float64) {
	a := float64(i) * goldenAngle * math.Pi / 180
	r := 2 * math.Sqrt(float64(i))
	return r * math.Cos(a), r * math.Sin(a), jitter(rng, 4)
}

type spiral struct{}

func (spiral) Name() string { return "spiral" }

func (spiral) point(i, count int, _ *rand.Rand) (x, y, z float64) {
	u := float64(i) / float64(count)
	a := u * math.Pi * 25
	r := u * 30
	return r * math.Cos(a), u*60 - 30, r * math.Sin(a)
}

type cake struct{}

func (cake) Name() string { return "cake" }

const (
	candleCount  = 5
	candleRadius = 8
)

func (cake) point(i, count int, rng *rand.Rand) (x, y, z float64) {
	segment := float64(i) / float64(count)
	switch {
	case segment < 0.5:
		return tier(rng, 20, 10, -15)
	case segment < 0.8:
		return tier(rng, 12, 8, -5)
	default:
		a := float64(i%candleCount) / candleCount * 2 * math.Pi
		y = rng.Float64()*5 + 3
		if rng.Float64() > 0.8 {
			y += 2 // flame tip
		}
		return candleRadius * math.Cos(a), y, candleRadius * math.Sin(a)
	}
}

// tier samples a solid disk of the given radius, uniform by area, over the
// height band [base, base+height).
func tier(rng *rand.Rand, radius, height, base float64) (x, y, z float64) {
	a := angle(rng)
	dist := math.Sqrt(rng.Float64()) * radius
	return dist * math.Cos(a), rng.Float64()*height + base, dist * math.Sin(a)
}

package life

import "errors"

// Float64Source supplies uniform values in [0, 1). *rand.Rand from math/rand
// and math/rand/v2 both satisfy it.
type Float64Source interface {
	Float64() float64
}

// ErrProbability is returned by Randomize for a probability outside [0, 1).
var ErrProbability = errors.New("life: probability must be in [0, 1)")

// Randomize makes each cell alive independently with probability k.
func (g *Grid) Randomize(k float64, rng Float64Source) error {
	if !(k >= 0 && k < 1) {
		return ErrProbability
	}
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			g.cur.Set(Point{X: x, Y: y}, rng.Float64() < k)
		}
	}
	return nil
}

package hop

import (
	"math/rand"

	"github.com/vovakirdan/microware/internal/core"
)

// Cactus is a ground obstacle the runner must hop over.
type Cactus struct {
	X      float64 // Left edge, fractional column
	Width  int
	Height int
}

// Rect returns the collision rectangle for this cactus.
func (c Cactus) Rect(groundY int) core.Rect {
	return core.NewRect(int(c.X), groundY-c.Height, c.Width, c.Height)
}

// CactusCount is how many cacti a round throws at the given speed.
func CactusCount(speed float64) int {
	if speed >= 1.5 {
		return 3
	}
	return 2
}

// layCacti places n cacti to the right of x, the first one lead columns
// away. Gaps are wide enough that a hop never lands on the next cactus.
func layCacti(rng *rand.Rand, x float64, n int) []Cactus {
	cacti := make([]Cactus, 0, n)
	x += lead
	for range n {
		cacti = append(cacti, Cactus{
			X:      x,
			Width:  minWidth + rng.Intn(maxWidth-minWidth+1),
			Height: minHeight + rng.Intn(maxHeight-minHeight+1),
		})
		x += float64(minSpacing + rng.Intn(maxSpacing-minSpacing+1))
	}
	return cacti
}

// scroll moves every cactus left by dx and drops the ones left of edge.
func scroll(cacti []Cactus, dx float64, edge int) []Cactus {
	kept := cacti[:0]
	for _, c := range cacti {
		c.X -= dx
		if int(c.X)+c.Width > edge {
			kept = append(kept, c)
		}
	}
	return kept
}

// collides reports whether r touches any cactus.
func collides(cacti []Cactus, r core.Rect, groundY int) bool {
	for _, c := range cacti {
		if r.Intersects(c.Rect(groundY)) {
			return true
		}
	}
	return false
}

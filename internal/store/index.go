package store

import (
	"slices"

	"github.com/Faultbox/scatterbrush/pkg/math"
)

type indexPoint struct {
	pos math.Vec3
	id  int
}

// kdTree is a static 3D tree laid out implicitly: every subrange [lo, hi)
// stores its splitting point at the midpoint and splits on depth%3.
type kdTree struct {
	points []indexPoint
}

func buildKDTree(positions []math.Vec3) *kdTree {
	pts := make([]indexPoint, len(positions))
	for i, p := range positions {
		pts[i] = indexPoint{pos: p, id: i}
	}
	t := &kdTree{points: pts}
	t.build(0, len(pts), 0)
	return t
}

func axis(p math.Vec3, a int) float32 {
	switch a {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

func (t *kdTree) build(lo, hi, depth int) {
	if hi-lo <= 1 {
		return
	}
	a := depth % 3
	sub := t.points[lo:hi]
	slices.SortFunc(sub, func(p, q indexPoint) int {
		pa, qa := axis(p.pos, a), axis(q.pos, a)
		switch {
		case pa < qa:
			return -1
		case pa > qa:
			return 1
		}
		return p.id - q.id
	})
	mid := (lo + hi) / 2
	t.build(lo, mid, depth+1)
	t.build(mid+1, hi, depth+1)
}

// within returns the ids of every point at most radius from center, ascending.
func (t *kdTree) within(center math.Vec3, radius float32) []int {
	var out []int
	r2 := radius * radius
	t.search(0, len(t.points), 0, center, radius, r2, &out)
	slices.Sort(out)
	return out
}

func (t *kdTree) search(lo, hi, depth int, c math.Vec3, r, r2 float32, out *[]int) {
	if lo >= hi {
		return
	}
	mid := (lo + hi) / 2
	p := t.points[mid]
	d := p.pos.Sub(c)
	if d.Dot(d) <= r2 {
		*out = append(*out, p.id)
	}

	a := depth % 3
	diff := axis(c, a) - axis(p.pos, a)
	if diff-r <= 0 {
		t.search(lo, mid, depth+1, c, r, r2, out)
	}
	if diff+r >= 0 {
		t.search(mid+1, hi, depth+1, c, r, r2, out)
	}
}

func (t *kdTree) len() int {
	return len(t.points)
}

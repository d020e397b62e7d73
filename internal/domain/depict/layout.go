package depict

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/MathioLucas/Molecular-expolrer/internal/domain/geometry"
	"github.com/MathioLucas/Molecular-expolrer/internal/domain/molecule"
)

// BondLength is the ideal 2D bond length in layout units.
const BondLength = 1.5

const (
	stressIterations = 500
	stressTolerance  = 1e-4
	ringWeight       = 4.0
	fragmentSpacing  = 1.5 * BondLength
)

// Compute2DCoords lays out m in the plane and stores the result as a 2D
// conformer (z = 0), replacing any existing coordinates.
func Compute2DCoords(m *molecule.Molecule) error {
	pos := make([]geometry.Vec3, m.NumAtoms())
	hops := m.TopologicalDistances()
	cursor := 0.0
	for fi, frag := range m.Components() {
		pts := layoutFragment(m, frag, hops)
		orient(pts)

		minX, maxX := math.Inf(1), math.Inf(-1)
		for _, p := range pts {
			minX = math.Min(minX, p[0])
			maxX = math.Max(maxX, p[0])
		}
		shift := 0.0
		if fi > 0 {
			shift = cursor - minX
		}
		for k, a := range frag {
			pos[a] = geometry.Vec3{X: pts[k][0] + shift, Y: pts[k][1]}
		}
		cursor = shift + maxX + fragmentSpacing
	}
	return m.SetConformer(pos, false)
}

// layoutFragment returns 2D points for the atoms of one fragment, in frag
// order.
func layoutFragment(m *molecule.Molecule, frag []int, hops [][]int) [][2]float64 {
	n := len(frag)
	if n == 1 {
		return [][2]float64{{0, 0}}
	}
	d, w := idealDistances(m, frag, hops)
	pts := classicalMDS(d)
	majorize(pts, d, w)
	return pts
}

// idealDistances returns target distances and stress weights: chords of a
// regular polygon for atoms sharing a ring, a 120° zig-zag otherwise, and a
// straight line along paths whose interior atoms are all sp centres.
func idealDistances(m *molecule.Molecule, frag []int, hops [][]int) ([][]float64, [][]float64) {
	n := len(frag)
	var sp []int
	for _, a := range frag {
		if m.Atoms[a].Hybridization == molecule.HybridSP {
			sp = append(sp, a)
		}
	}
	d := make([][]float64, n)
	w := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
		w[i] = make([]float64, n)
	}
	for x := 0; x < n; x++ {
		for y := x + 1; y < n; y++ {
			i, j := frag[x], frag[y]
			dist := zigzag(hops[i][j])
			weight := 1.0
			if chord, ok := ringChord(m, i, j); ok {
				dist = chord
				weight = ringWeight
			} else if hops[i][j] >= 2 && straightPath(sp, hops, i, j) {
				dist = float64(hops[i][j]) * BondLength
			}
			if hops[i][j] == 1 {
				weight = ringWeight
			}
			d[x][y], d[y][x] = dist, dist
			wt := weight / (dist * dist)
			w[x][y], w[y][x] = wt, wt
		}
	}
	return d, w
}

// zigzag is the end-to-end distance of an all-trans chain of k bonds.
func zigzag(k int) float64 {
	f := float64(k)
	v := 0.75 * f * f
	if k%2 == 1 {
		v += 0.25
	}
	return BondLength * math.Sqrt(v)
}

// ringChord returns the polygon chord between two atoms of their smallest
// common ring.
func ringChord(m *molecule.Molecule, i, j int) (float64, bool) {
	best := -1
	var pi, pj int
	for ri, ring := range m.Rings {
		a, b := -1, -1
		for k, at := range ring {
			if at == i {
				a = k
			}
			if at == j {
				b = k
			}
		}
		if a < 0 || b < 0 {
			continue
		}
		if best < 0 || len(ring) < len(m.Rings[best]) {
			best, pi, pj = ri, a, b
		}
	}
	if best < 0 {
		return 0, false
	}
	size := len(m.Rings[best])
	steps := pi - pj
	if steps < 0 {
		steps = -steps
	}
	if size-steps < steps {
		steps = size - steps
	}
	return BondLength * math.Sin(math.Pi*float64(steps)/float64(size)) / math.Sin(math.Pi/float64(size)), true
}

// straightPath reports whether every interior atom of the shortest path
// from i to j is one of the sp centres.
func straightPath(sp []int, hops [][]int, i, j int) bool {
	interior := 0
	for _, k := range sp {
		if k != i && k != j && hops[i][k]+hops[k][j] == hops[i][j] {
			interior++
		}
	}
	return interior == hops[i][j]-1
}

// classicalMDS embeds the distance matrix in 2D from the two largest
// eigenpairs of the double-centred squared distances.
func classicalMDS(d [][]float64) [][2]float64 {
	n := len(d)
	sq := make([][]float64, n)
	rowMean := make([]float64, n)
	var total float64
	for i := range d {
		sq[i] = make([]float64, n)
		for j := range d[i] {
			sq[i][j] = d[i][j] * d[i][j]
			rowMean[i] += sq[i][j]
		}
		total += rowMean[i]
		rowMean[i] /= float64(n)
	}
	total /= float64(n * n)

	b := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			b.SetSym(i, j, -0.5*(sq[i][j]-rowMean[i]-rowMean[j]+total))
		}
	}

	pts := make([][2]float64, n)
	var eig mat.EigenSym
	if !eig.Factorize(b, true) {
		for i := range pts {
			pts[i] = [2]float64{float64(i) * BondLength, 0}
		}
		return pts
	}
	values := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	for axis := 0; axis < 2; axis++ {
		col := n - 1 - axis
		lambda := values[col]
		for i := 0; i < n; i++ {
			if lambda <= 1e-9 {
				// Break the symmetry of collinear starts.
				pts[i][axis] = 0.05 * float64(i%3-1)
				continue
			}
			pts[i][axis] = math.Sqrt(lambda) * vecs.At(i, col)
		}
	}
	return pts
}

// majorize runs localized stress majorization in place.
func majorize(pts [][2]float64, d, w [][]float64) {
	n := len(pts)
	for iter := 0; iter < stressIterations; iter++ {
		moved := 0.0
		for i := 0; i < n; i++ {
			var nx, ny, den float64
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				dx, dy := pts[i][0]-pts[j][0], pts[i][1]-pts[j][1]
				r := math.Hypot(dx, dy)
				ux, uy := 0.0, 0.0
				if r > 1e-9 {
					ux, uy = dx/r, dy/r
				}
				nx += w[i][j] * (pts[j][0] + d[i][j]*ux)
				ny += w[i][j] * (pts[j][1] + d[i][j]*uy)
				den += w[i][j]
			}
			if den == 0 {
				continue
			}
			nx, ny = nx/den, ny/den
			moved = math.Max(moved, math.Hypot(nx-pts[i][0], ny-pts[i][1]))
			pts[i] = [2]float64{nx, ny}
		}
		if moved < stressTolerance {
			return
		}
	}
}

// orient centres pts and rotates the principal axis onto x.
func orient(pts [][2]float64) {
	n := float64(len(pts))
	var cx, cy float64
	for _, p := range pts {
		cx += p[0]
		cy += p[1]
	}
	cx, cy = cx/n, cy/n
	var sxx, syy, sxy float64
	for i := range pts {
		pts[i][0] -= cx
		pts[i][1] -= cy
		sxx += pts[i][0] * pts[i][0]
		syy += pts[i][1] * pts[i][1]
		sxy += pts[i][0] * pts[i][1]
	}
	theta := 0.5 * math.Atan2(2*sxy, sxx-syy)
	c, s := math.Cos(-theta), math.Sin(-theta)
	for i := range pts {
		x, y := pts[i][0], pts[i][1]
		pts[i] = [2]float64{c*x - s*y, s*x + c*y}
	}
	if len(pts) > 1 && pts[0][0] > 0 {
		for i := range pts {
			pts[i][0] = -pts[i][0]
		}
	}
}

// Stress returns the weighted layout stress of the 2D conformer of m, for
// diagnostics. Lower is better.
func Stress(m *molecule.Molecule) float64 {
	pos := m.Positions()
	if pos == nil {
		return math.Inf(1)
	}
	hops := m.TopologicalDistances()
	var stress float64
	for _, frag := range m.Components() {
		if len(frag) < 2 {
			continue
		}
		d, w := idealDistances(m, frag, hops)
		for x := range frag {
			for y := x + 1; y < len(frag); y++ {
				r := geometry.Distance(pos[frag[x]], pos[frag[y]])
				diff := r - d[x][y]
				stress += w[x][y] * diff * diff
			}
		}
	}
	return stress
}

//Personal.AI order the ending

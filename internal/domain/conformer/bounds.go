package conformer

import (
	"math"

	"github.com/MathioLucas/Molecular-expolrer/internal/domain/molecule"
)

const (
	tolBond     = 0.01
	tolAngle    = 0.04
	tolLoose    = 0.12
	tolTorsion  = 0.05
	vdwScale    = 0.7
	farUpper    = 100.0
	tetrahedral = 109.47
)

// ─────────────────────────────────────────────────────────────────────────────
// Topology — ideal bond lengths and angles shared by embedding and force field
// ─────────────────────────────────────────────────────────────────────────────

type angleTerm struct {
	i, j, k int // j is the vertex
	theta   float64
	loose   bool
}

type topology struct {
	m         *molecule.Molecule
	ringBonds []map[int]bool
	bondLen   []float64 // per bond index
	angles    []angleTerm
	angleAt   map[[3]int]angleTerm // keyed by angleKey
	hops      [][]int
}

func newTopology(m *molecule.Molecule) *topology {
	t := &topology{
		m:         m,
		ringBonds: make([]map[int]bool, len(m.RingBonds)),
		bondLen:   make([]float64, len(m.Bonds)),
		angleAt:   make(map[[3]int]angleTerm),
		hops:      m.TopologicalDistances(),
	}
	for ri, bonds := range m.RingBonds {
		set := make(map[int]bool, len(bonds))
		for _, bi := range bonds {
			set[bi] = true
		}
		t.ringBonds[ri] = set
	}
	for bi := range m.Bonds {
		t.bondLen[bi] = idealBondLength(m, bi)
	}
	for j := range m.Atoms {
		t.addAngles(j)
	}
	return t
}

func idealBondLength(m *molecule.Molecule, bi int) float64 {
	b := &m.Bonds[bi]
	order := b.Kekule
	if b.Aromatic {
		order = molecule.BondAromatic
	}
	return m.Atoms[b.Begin].Element.BondRadius(order) + m.Atoms[b.End].Element.BondRadius(order)
}

// smallestRingWith returns the size of the smallest SSSR ring holding both
// bonds, or 0.
func (t *topology) smallestRingWith(b1, b2 int) int {
	best := 0
	for ri, set := range t.ringBonds {
		if set[b1] && set[b2] {
			if n := len(t.m.Rings[ri]); best == 0 || n < best {
				best = n
			}
		}
	}
	return best
}

func hybridAngle(a *molecule.Atom, degree int) float64 {
	switch a.Hybridization {
	case molecule.HybridSP:
		return 180
	case molecule.HybridSP2:
		return 120
	case molecule.HybridSP3:
		return tetrahedral
	}
	if degree == 2 {
		return 180
	}
	return tetrahedral
}

func ringAngle(size int, planar bool) float64 {
	switch size {
	case 3:
		return 60
	case 4:
		return 90
	case 5:
		if planar {
			return 108
		}
		return 104
	}
	if planar {
		return 120
	}
	return tetrahedral
}

// addAngles assigns an ideal angle to every neighbour pair around vertex j.
// Small rings fix their internal angle; a trigonal centre spreads the rest
// of its 360° over the pairs that are not in a common ring.
func (t *topology) addAngles(j int) {
	m := t.m
	a := &m.Atoms[j]
	nbrs := m.Neighbors(j)
	if len(nbrs) < 2 {
		return
	}
	planar := a.Aromatic || a.Hybridization == molecule.HybridSP2

	type pair struct {
		i, k    int
		theta   float64
		inRing  bool
		smallSp bool
	}
	var pairs []pair
	fixed, free := 0.0, 0
	for x := 0; x < len(nbrs); x++ {
		for y := x + 1; y < len(nbrs); y++ {
			p := pair{i: nbrs[x], k: nbrs[y]}
			size := t.smallestRingWith(m.BondBetween(j, p.i), m.BondBetween(j, p.k))
			switch {
			case a.Hybridization == molecule.HybridSP:
				p.theta = 180
			case size > 0:
				p.theta = ringAngle(size, planar)
				p.inRing = true
				fixed += p.theta
			default:
				p.theta = hybridAngle(a, len(nbrs))
				free++
				p.smallSp = !planar && len(m.AtomRings(j)) > 0
			}
			pairs = append(pairs, p)
		}
	}
	if planar && len(nbrs) == 3 && free > 0 && fixed > 0 {
		spread := (360 - fixed) / float64(free)
		for n := range pairs {
			if !pairs[n].inRing {
				pairs[n].theta = spread
			}
		}
	}
	for _, p := range pairs {
		key := angleKey(p.i, j, p.k)
		term := angleTerm{i: key[0], j: j, k: key[2], theta: p.theta, loose: p.smallSp}
		t.angleAt[key] = term
		t.angles = append(t.angles, term)
	}
}

func angleKey(i, j, k int) [3]int {
	if i > k {
		i, k = k, i
	}
	return [3]int{i, j, k}
}

// angle returns the ideal i-j-k angle in degrees.
func (t *topology) angle(i, j, k int) float64 {
	if v, ok := t.angleAt[angleKey(i, j, k)]; ok {
		return v.theta
	}
	return tetrahedral
}

func (t *topology) length(i, j int) float64 {
	return t.bondLen[t.m.BondBetween(i, j)]
}

// ─────────────────────────────────────────────────────────────────────────────
// Bounds matrix
// ─────────────────────────────────────────────────────────────────────────────

// bounds holds lower and upper interatomic distance limits for one fragment.
// Row/column k corresponds to atoms[k].
type bounds struct {
	atoms []int
	lower [][]float64
	upper [][]float64
}

func newBounds(atoms []int) *bounds {
	n := len(atoms)
	b := &bounds{atoms: atoms, lower: make([][]float64, n), upper: make([][]float64, n)}
	for i := 0; i < n; i++ {
		b.lower[i] = make([]float64, n)
		b.upper[i] = make([]float64, n)
		for j := range b.upper[i] {
			if i != j {
				b.upper[i][j] = farUpper
			}
		}
	}
	return b
}

func (b *bounds) set(i, j int, lo, hi float64) {
	b.lower[i][j], b.lower[j][i] = lo, lo
	b.upper[i][j], b.upper[j][i] = hi, hi
}

// buildBounds fills the bounds of one connected fragment. relaxed widens
// every non-bonded tolerance and drops van der Waals lower limits.
func buildBounds(t *topology, atoms []int, relaxed bool) *bounds {
	m := t.m
	b := newBounds(atoms)
	scale := 1.0
	if relaxed {
		scale = 3
	}

	for x := 0; x < len(atoms); x++ {
		for y := x + 1; y < len(atoms); y++ {
			i, j := atoms[x], atoms[y]
			switch t.hops[i][j] {
			case 1:
				d := t.length(i, j)
				b.set(x, y, d-tolBond, d+tolBond)
			case 2:
				lo, hi := t.oneThree(i, j)
				b.set(x, y, lo-tolAngle*scale, hi+tolAngle*scale)
			case 3:
				lo, hi := t.oneFour(i, j)
				b.set(x, y, lo-tolTorsion*scale, hi+tolTorsion*scale)
			default:
				lo := 0.0
				if !relaxed {
					lo = vdwScale * (m.Atoms[i].Element.VdwRadius + m.Atoms[j].Element.VdwRadius)
				}
				b.set(x, y, lo, farUpper)
			}
		}
	}
	return b
}

// oneThree returns the distance range of atoms two bonds apart, over every
// shared neighbour.
func (t *topology) oneThree(i, k int) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, j := range t.m.Neighbors(i) {
		if t.m.BondBetween(j, k) < 0 {
			continue
		}
		a, c := t.length(i, j), t.length(j, k)
		theta := t.angle(i, j, k)
		d := lawOfCosines(a, c, theta)
		spread := 0.0
		if t.angleAt[angleKey(i, j, k)].loose {
			spread = tolLoose
		}
		lo = math.Min(lo, d-spread)
		hi = math.Max(hi, d+spread)
	}
	return lo, hi
}

// oneFour returns the distance range of atoms three bonds apart: the cis to
// trans span, narrowed to near-cis inside planar rings and to gauche inside
// saturated small rings.
func (t *topology) oneFour(i, l int) (float64, float64) {
	m := t.m
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, j := range m.Neighbors(i) {
		for _, k := range m.Neighbors(j) {
			if k == i || m.BondBetween(k, l) < 0 || k == l {
				continue
			}
			a, b, c := t.length(i, j), t.length(j, k), t.length(k, l)
			t1, t2 := t.angle(i, j, k), t.angle(j, k, l)
			cis := torsionDistance(a, b, c, t1, t2, 0)
			trans := torsionDistance(a, b, c, t1, t2, 180)

			ring := t.commonRing(i, j, k, l)
			switch {
			case ring > 0 && ring <= 6 && t.planar(i, j, k, l):
				lo, hi = math.Min(lo, cis), math.Max(hi, cis+0.05)
			case ring > 0 && ring <= 6:
				lo, hi = math.Min(lo, cis), math.Max(hi, torsionDistance(a, b, c, t1, t2, 90))
			default:
				lo, hi = math.Min(lo, cis), math.Max(hi, trans)
			}
		}
	}
	return lo, hi
}

// commonRing returns the smallest ring size holding the path i-j-k-l.
func (t *topology) commonRing(i, j, k, l int) int {
	m := t.m
	b1, b2, b3 := m.BondBetween(i, j), m.BondBetween(j, k), m.BondBetween(k, l)
	best := 0
	for ri, set := range t.ringBonds {
		if set[b1] && set[b2] && set[b3] {
			if n := len(m.Rings[ri]); best == 0 || n < best {
				best = n
			}
		}
	}
	return best
}

func (t *topology) planar(atoms ...int) bool {
	for _, a := range atoms {
		at := &t.m.Atoms[a]
		if !at.Aromatic && at.Hybridization != molecule.HybridSP2 {
			return false
		}
	}
	return true
}

func lawOfCosines(a, c, thetaDeg float64) float64 {
	th := thetaDeg * math.Pi / 180
	return math.Sqrt(a*a + c*c - 2*a*c*math.Cos(th))
}

// torsionDistance is the 1-4 distance of a chain with bond lengths a, b, c,
// bond angles t1, t2 and dihedral phi, all angles in degrees.
func torsionDistance(a, b, c, t1, t2, phi float64) float64 {
	r1, r2, p := t1*math.Pi/180, t2*math.Pi/180, phi*math.Pi/180
	ix, iy := a*math.Cos(r1), a*math.Sin(r1)
	lx := b - c*math.Cos(r2)
	ly := c * math.Sin(r2) * math.Cos(p)
	lz := c * math.Sin(r2) * math.Sin(p)
	dx, dy := lx-ix, ly-iy
	return math.Sqrt(dx*dx + dy*dy + lz*lz)
}

// smooth applies triangle-inequality smoothing in place and reports whether
// the limits stayed consistent.
func (b *bounds) smooth() bool {
	n := len(b.atoms)
	u, l := b.upper, b.lower
	for k := 0; k < n; k++ {
		uk, lk := u[k], l[k]
		for i := 0; i < n; i++ {
			if i == k {
				continue
			}
			uik, lik := u[i][k], l[i][k]
			ui, li := u[i], l[i]
			for j := i + 1; j < n; j++ {
				if j == k {
					continue
				}
				if s := uik + uk[j]; s < ui[j] {
					ui[j], u[j][i] = s, s
				}
				if d := lik - uk[j]; d > li[j] {
					li[j], l[j][i] = d, d
				}
				if d := lk[j] - uik; d > li[j] {
					li[j], l[j][i] = d, d
				}
				if li[j] > ui[j]+1e-6 {
					return false
				}
			}
		}
	}
	return true
}

//Personal.AI order the ending

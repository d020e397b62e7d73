package conformer

import (
	"context"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/MathioLucas/Molecular-expolrer/internal/domain/geometry"
	"github.com/MathioLucas/Molecular-expolrer/internal/domain/molecule"
	"github.com/MathioLucas/Molecular-expolrer/pkg/errors"
)

const (
	maxEnergyPerAtom = 0.05
	refineIterations = 400
	minChiralVolume  = 0.5
	fragmentGap      = 3.0
)

// chiralCenter is a tetrahedral constraint: the signed volume spanned by
// the three neighbours, measured from the centre, must have sign sign.
type chiralCenter struct {
	center int
	nbrs   [3]int
	sign   float64
}

// chiralCenters derives volume constraints from the SMILES @/@@ tags. With
// all four neighbours explicit, '@' means the last three neighbours span a
// negative volume; an implicit hydrogen at slot k flips the sign for odd k.
func chiralCenters(m *molecule.Molecule, local map[int]int) []chiralCenter {
	var out []chiralCenter
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.Chirality == molecule.ChiralNone || len(a.ChiralRefs) != 4 {
			continue
		}
		if _, ok := local[i]; !ok {
			continue
		}
		sign := -1.0
		if a.Chirality == molecule.ChiralCW {
			sign = 1
		}
		skip := 0
		for k, r := range a.ChiralRefs {
			if r == molecule.ImplicitHydrogenRef {
				skip = k
				break
			}
		}
		if skip%2 == 1 {
			sign = -sign
		}
		var nbrs [3]int
		n, ok := 0, true
		for k, r := range a.ChiralRefs {
			if k == skip {
				continue
			}
			li, found := local[r]
			if !found {
				ok = false
				break
			}
			nbrs[n] = li
			n++
		}
		if ok {
			out = append(out, chiralCenter{center: local[i], nbrs: nbrs, sign: sign})
		}
	}
	return out
}

func signedVolume(x []float64, c chiralCenter) float64 {
	o := vecAt(x, c.center)
	v1 := vecAt(x, c.nbrs[0]).Sub(o)
	v2 := vecAt(x, c.nbrs[1]).Sub(o)
	v3 := vecAt(x, c.nbrs[2]).Sub(o)
	return v1.Dot(v2.Cross(v3))
}

func vecAt(x []float64, i int) geometry.Vec3 {
	return geometry.Vec3{X: x[3*i], Y: x[3*i+1], Z: x[3*i+2]}
}

func addGrad(g []float64, i int, v geometry.Vec3) {
	g[3*i] += v.X
	g[3*i+1] += v.Y
	g[3*i+2] += v.Z
}

// ─────────────────────────────────────────────────────────────────────────────
// Distance geometry
// ─────────────────────────────────────────────────────────────────────────────

type embedder struct {
	bounds  *bounds
	chiral  []chiralCenter
	rng     *rand.Rand
	attempt int
}

// run tries up to attempts random embeddings and returns the first one that
// satisfies the bounds and every chiral constraint.
func (e *embedder) run(ctx context.Context, attempts int) ([]float64, error) {
	n := len(e.bounds.atoms)
	if n == 1 {
		return []float64{0, 0, 0}, nil
	}
	for attempt := 1; attempt <= attempts; attempt++ {
		e.attempt = attempt
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		x, ok := e.initialCoordinates()
		if !ok {
			continue
		}
		e.fixHandedness(x)
		refined, energy, err := minimize(ctx, e.errorFunction, x, refineIterations)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		if energy/float64(n) > maxEnergyPerAtom || !e.chiralityHolds(refined) {
			continue
		}
		return refined, nil
	}
	return nil, errors.Newf(errors.ErrCodeEmbeddingFailed,
		"no embedding satisfied the distance bounds after %d attempts", attempts)
}

// initialCoordinates samples a distance matrix within the bounds and
// projects its metric matrix onto the three largest eigenvectors.
func (e *embedder) initialCoordinates() ([]float64, bool) {
	b := e.bounds
	n := len(b.atoms)
	d2 := make([][]float64, n)
	for i := range d2 {
		d2[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			lo, hi := b.lower[i][j], b.upper[i][j]
			d := lo + e.rng.Float64()*(hi-lo)
			d2[i][j], d2[j][i] = d*d, d*d
		}
	}

	var total float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			total += d2[i][j]
		}
	}
	total /= float64(n * n)
	d0 := make([]float64, n)
	for i := 0; i < n; i++ {
		var s float64
		for j := 0; j < n; j++ {
			s += d2[i][j]
		}
		d0[i] = s/float64(n) - total
	}

	metric := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			metric.SetSym(i, j, (d0[i]+d0[j]-d2[i][j])/2)
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(metric, true) {
		return nil, false
	}
	values := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	x := make([]float64, 3*n)
	for axis := 0; axis < 3; axis++ {
		col := n - 1 - axis // eigenvalues ascend
		if col < 0 {
			for i := 0; i < n; i++ {
				x[3*i+axis] = e.rng.Float64() - 0.5
			}
			continue
		}
		lambda := values[col]
		for i := 0; i < n; i++ {
			if lambda <= 1e-3 {
				x[3*i+axis] = e.rng.Float64() - 0.5
				continue
			}
			x[3*i+axis] = math.Sqrt(lambda) * vecs.At(i, col)
		}
	}
	return x, true
}

// fixHandedness mirrors x through the xy plane when most chiral centres
// come out inverted.
func (e *embedder) fixHandedness(x []float64) {
	wrong := 0
	for _, c := range e.chiral {
		if signedVolume(x, c)*c.sign < 0 {
			wrong++
		}
	}
	if 2*wrong <= len(e.chiral) {
		return
	}
	for i := 2; i < len(x); i += 3 {
		x[i] = -x[i]
	}
}

func (e *embedder) chiralityHolds(x []float64) bool {
	for _, c := range e.chiral {
		if signedVolume(x, c)*c.sign <= 0 {
			return false
		}
	}
	return true
}

// errorFunction is the distance-bounds violation energy plus a chiral
// volume penalty. grad may be nil.
func (e *embedder) errorFunction(x, grad []float64) float64 {
	b := e.bounds
	n := len(b.atoms)
	if grad != nil {
		for i := range grad {
			grad[i] = 0
		}
	}
	var energy float64
	for i := 0; i < n; i++ {
		pi := vecAt(x, i)
		for j := i + 1; j < n; j++ {
			diff := pi.Sub(vecAt(x, j))
			d2 := diff.Norm2()
			u2 := b.upper[i][j] * b.upper[i][j]
			l2 := b.lower[i][j] * b.lower[i][j]
			var dEdd2 float64
			switch {
			case d2 > u2:
				v := d2/u2 - 1
				energy += v * v
				dEdd2 = 2 * v / u2
			case d2 < l2:
				den := l2 + d2
				v := 2*l2/den - 1
				energy += v * v
				dEdd2 = 2 * v * (-2 * l2 / (den * den))
			default:
				continue
			}
			if grad != nil {
				g := diff.Scale(2 * dEdd2)
				addGrad(grad, i, g)
				addGrad(grad, j, g.Scale(-1))
			}
		}
	}

	for _, c := range e.chiral {
		vol := signedVolume(x, c)
		short := minChiralVolume - c.sign*vol
		if short <= 0 {
			continue
		}
		energy += short * short
		if grad == nil {
			continue
		}
		dEdV := -2 * short * c.sign
		o := vecAt(x, c.center)
		v1 := vecAt(x, c.nbrs[0]).Sub(o)
		v2 := vecAt(x, c.nbrs[1]).Sub(o)
		v3 := vecAt(x, c.nbrs[2]).Sub(o)
		g1 := v2.Cross(v3).Scale(dEdV)
		g2 := v3.Cross(v1).Scale(dEdV)
		g3 := v1.Cross(v2).Scale(dEdV)
		addGrad(grad, c.nbrs[0], g1)
		addGrad(grad, c.nbrs[1], g2)
		addGrad(grad, c.nbrs[2], g3)
		addGrad(grad, c.center, g1.Add(g2).Add(g3).Scale(-1))
	}
	return energy
}

// embed places every fragment of m and lays the fragments side by side
// along x. It returns the positions and the largest attempt count used.
func embed(ctx context.Context, m *molecule.Molecule, t *topology, rng *rand.Rand, attempts int) ([]geometry.Vec3, int, error) {
	pos := make([]geometry.Vec3, m.NumAtoms())
	offset := 0.0
	used := 0
	for fi, frag := range m.Components() {
		b := buildBounds(t, frag, false)
		if !b.smooth() {
			b = buildBounds(t, frag, true)
			if !b.smooth() {
				return nil, used, errors.New(errors.ErrCodeEmbeddingFailed, "distance bounds are inconsistent")
			}
		}
		local := make(map[int]int, len(frag))
		for k, a := range frag {
			local[a] = k
		}
		e := &embedder{bounds: b, chiral: chiralCenters(m, local), rng: rng}
		x, err := e.run(ctx, attempts)
		if e.attempt > used {
			used = e.attempt
		}
		if err != nil {
			return nil, used, err
		}

		pts := make([]geometry.Vec3, len(frag))
		for k := range frag {
			pts[k] = vecAt(x, k)
		}
		c := geometry.Centroid(pts)
		minX, maxX := math.Inf(1), math.Inf(-1)
		for k := range pts {
			pts[k] = pts[k].Sub(c)
			minX = math.Min(minX, pts[k].X)
			maxX = math.Max(maxX, pts[k].X)
		}
		shift := 0.0
		if fi > 0 {
			shift = offset - minX
		}
		for k, a := range frag {
			pos[a] = pts[k].Add(geometry.Vec3{X: shift})
		}
		offset = shift + maxX + fragmentGap
	}
	return pos, used, nil
}

//Personal.AI order the ending
